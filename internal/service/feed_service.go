package service

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/observability"
	"cinemate/internal/repository"
)

// EventRecorder records a user's social activity.
type EventRecorder interface {
	Record(ctx context.Context, userID uint, eventType models.EventType, op models.EventOperation, entityID uint) (*models.Event, error)
}

// EventPublisher pushes a stored event to live subscribers.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.Event) error
}

// FeedService stores activity events and fans them out to subscribers.
type FeedService struct {
	events    repository.EventRepository
	users     repository.UserRepository
	publisher EventPublisher
}

// NewFeedService returns a new FeedService. publisher may be nil.
func NewFeedService(events repository.EventRepository, users repository.UserRepository, publisher EventPublisher) *FeedService {
	return &FeedService{
		events:    events,
		users:     users,
		publisher: publisher,
	}
}

// Record stores the event. Inside a transaction the publish waits for the
// commit, so subscribers never see an event that was rolled back. A failed
// publish is logged and counted but never fails the write that triggered it.
func (s *FeedService) Record(ctx context.Context, userID uint, eventType models.EventType, op models.EventOperation, entityID uint) (*models.Event, error) {
	event := models.NewEvent(userID, eventType, op, entityID)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		repository.AfterCommit(ctx, func() { s.publish(ctx, event) })
	}
	return event, nil
}

func (s *FeedService) publish(ctx context.Context, event *models.Event) {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		observability.FeedEventsPublished.WithLabelValues("error").Inc()
		observability.Logger.WarnContext(ctx, "failed to publish feed event",
			"event_id", event.ID,
			"user_id", event.UserID,
			"error", err,
		)
		return
	}
	observability.FeedEventsPublished.WithLabelValues("ok").Inc()
}

// GetFeed returns the user's events, oldest first.
func (s *FeedService) GetFeed(ctx context.Context, userID uint) ([]models.Event, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.events.ListByUser(ctx, userID)
}
