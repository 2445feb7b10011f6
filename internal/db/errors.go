package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"podhub/internal/services"
)

// translate maps gorm errors onto the service sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrConflict):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return services.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", services.ErrConflict, err)
	}
	return err
}
