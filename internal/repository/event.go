package repository

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"gorm.io/gorm"
)

// EventRepository persists activity feed entries.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	ListByUser(ctx context.Context, userID uint) ([]models.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	defer observability.TrackQuery("create", "events")()

	if err := conn(ctx, r.db).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByUser returns the user's events oldest first.
func (r *eventRepository) ListByUser(ctx context.Context, userID uint) ([]models.Event, error) {
	defer observability.TrackQuery("list_by_user", "events")()

	events := []models.Event{}
	if err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("occurred_at, id").
		Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}
