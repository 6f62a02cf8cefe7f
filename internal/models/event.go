package models

import "time"

// EventType names the relation an activity event touched.
type EventType string

const (
	// EventTypeLike marks a like added to or removed from a film.
	EventTypeLike EventType = "LIKE"
	// EventTypeFriend marks a friendship edge added or removed.
	EventTypeFriend EventType = "FRIEND"
	// EventTypeReview marks a review written, edited or deleted.
	EventTypeReview EventType = "REVIEW"
)

// EventOperation is the mutation recorded by an event.
type EventOperation string

const (
	OperationAdd    EventOperation = "ADD"
	OperationRemove EventOperation = "REMOVE"
	OperationUpdate EventOperation = "UPDATE"
)

// Event is an entry in a user's activity feed.
type Event struct {
	ID        uint           `gorm:"primaryKey" json:"event_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	EventType EventType      `gorm:"type:varchar(16);not null" json:"event_type"`
	Operation EventOperation `gorm:"type:varchar(16);not null" json:"operation"`
	EntityID  uint           `gorm:"not null" json:"entity_id"`
	Timestamp int64          `gorm:"column:occurred_at;not null;index" json:"timestamp"`
}

// NewEvent stamps an event with the current time in unix milliseconds.
func NewEvent(userID uint, eventType EventType, op EventOperation, entityID uint) *Event {
	return &Event{
		UserID:    userID,
		EventType: eventType,
		Operation: op,
		EntityID:  entityID,
		Timestamp: time.Now().UnixMilli(),
	}
}
