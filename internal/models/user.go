package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a member of the catalog who likes films and follows friends.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Login     string         `gorm:"unique;not null" json:"login"`
	Name      string         `json:"name"`
	Birthday  *time.Time     `json:"birthday,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName falls back to the login when no name was given.
func (u User) DisplayName() string {
	if u.Name == "" {
		return u.Login
	}
	return u.Name
}
