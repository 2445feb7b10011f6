package services

import (
	"context"

	"go.uber.org/zap"

	"podhub/internal/models"
)

const (
	EventLiked   = "liked"
	EventUnliked = "unliked"
)

// Event is a user interaction reported to the recommendation engine.
type Event struct {
	Name   string
	UserID uint
	Entity models.EntityRef
}

// EventSink receives recommendation events. Delivery is best effort.
type EventSink interface {
	Track(ctx context.Context, e Event) error
}

// LogEventSink writes events to the log instead of a remote engine.
type LogEventSink struct {
	log *zap.Logger
}

func NewLogEventSink(log *zap.Logger) *LogEventSink {
	return &LogEventSink{log: log.Named("events")}
}

func (s *LogEventSink) Track(_ context.Context, e Event) error {
	s.log.Info("recommendation event",
		zap.String("event", e.Name),
		zap.Uint("user_id", e.UserID),
		zap.String("entity_type", string(e.Entity.Type)),
		zap.Uint("entity_id", e.Entity.ID),
	)
	return nil
}

// eventFor maps the state a vote ended in to the event the engine expects.
func eventFor(v *models.Vote) string {
	if v.Active && v.Direction == models.Upvote {
		return EventLiked
	}
	return EventUnliked
}
