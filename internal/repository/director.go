package repository

import (
	"context"
	"errors"

	"cinemate/internal/models"

	"gorm.io/gorm"
)

// DirectorRepository defines the interface for director lookups
type DirectorRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Director, error)
}

type directorRepository struct {
	db *gorm.DB
}

// NewDirectorRepository creates a new director repository
func NewDirectorRepository(db *gorm.DB) DirectorRepository {
	return &directorRepository{db: db}
}

func (r *directorRepository) GetByID(ctx context.Context, id uint) (*models.Director, error) {
	var director models.Director
	if err := conn(ctx, r.db).First(&director, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Director", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &director, nil
}
