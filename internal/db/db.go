package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"podhub/internal/models"
)

// Open connects to Postgres and migrates the schema.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Info("database connection established")

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Thread{},
		&models.Comment{},
		&models.RelatedLink{},
		&models.Vote{},
		&models.Favorite{},
		&models.Subscription{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Info("database migration completed")
	return db, nil
}

// gormConfig makes constraint violations surface as gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Store implements the service storage interfaces on gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}
