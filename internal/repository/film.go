package repository

import (
	"context"
	"errors"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"gorm.io/gorm"
)

// FilmRepository is the single read surface for films. Every read returns
// hydrated snapshots: rating, genres, directors and like count are loaded
// together so callers never patch films afterwards.
type FilmRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Film, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Film, error)
	Find(ctx context.Context, q FilmQuery) ([]models.Film, error)
	Create(ctx context.Context, film *models.Film) error
}

type filmRepository struct {
	db *gorm.DB
}

// NewFilmRepository creates a new film repository
func NewFilmRepository(db *gorm.DB) FilmRepository {
	return &filmRepository{db: db}
}

// hydrated selects films with their like count and preloads every relation.
func (r *filmRepository) hydrated(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Model(&models.Film{}).
		Select("films.*, (SELECT COUNT(*) FROM likes WHERE likes.film_id = films.id) AS likes_count").
		Preload("Mpa").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		Preload("Directors", func(db *gorm.DB) *gorm.DB { return db.Order("directors.id") })
}

func (r *filmRepository) GetByID(ctx context.Context, id uint) (*models.Film, error) {
	defer observability.TrackQuery("get_by_id", "films")()

	var film models.Film
	if err := r.hydrated(ctx).Where("films.id = ?", id).Take(&film).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Film", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &film, nil
}

// GetByIDs returns films in the order of ids. Ids without a live film row
// are skipped.
func (r *filmRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Film, error) {
	out := make([]models.Film, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("get_by_ids", "films")()

	var films []models.Film
	if err := r.hydrated(ctx).Where("films.id IN ?", ids).Find(&films).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[uint]models.Film, len(films))
	for _, f := range films {
		byID[f.ID] = f
	}
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *filmRepository) Find(ctx context.Context, q FilmQuery) ([]models.Film, error) {
	defer observability.TrackQuery("find", "films")()

	films := []models.Film{}
	if err := q.Apply(r.hydrated(ctx)).Find(&films).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return films, nil
}

func (r *filmRepository) Create(ctx context.Context, film *models.Film) error {
	if err := conn(ctx, r.db).Create(film).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
