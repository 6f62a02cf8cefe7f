// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Film is a catalog entry. Reads through the film repository return it fully
// hydrated: rating, genres, directors and the current like count.
type Film struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `gorm:"size:200" json:"description"`
	ReleaseDate time.Time      `gorm:"index" json:"release_date"`
	Duration    int            `json:"duration"`
	MpaID       *uint          `json:"-"`
	Mpa         *MpaRating     `gorm:"foreignKey:MpaID" json:"mpa,omitempty"`
	Genres      []Genre        `gorm:"many2many:film_genres;" json:"genres"`
	Directors   []Director     `gorm:"many2many:film_directors;" json:"directors"`
	LikesCount  int            `gorm:"->;-:migration" json:"likes_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Year returns the calendar year of the release date.
func (f Film) Year() int {
	return f.ReleaseDate.Year()
}

// FilmIDs collects the ids of the given films in order.
func FilmIDs(films []Film) []uint {
	ids := make([]uint, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}
