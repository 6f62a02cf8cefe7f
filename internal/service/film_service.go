package service

import (
	"context"
	"strings"

	"cinemate/internal/models"
	"cinemate/internal/observability"
	"cinemate/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PopularQuery narrows a popularity ranking. Nil filters are not applied and
// a non-positive Limit returns every matching film.
type PopularQuery struct {
	Limit   int
	GenreID *uint
	Year    *int
}

// FilmService ranks and searches the film catalog.
type FilmService struct {
	films     repository.FilmRepository
	directors repository.DirectorRepository
	users     repository.UserRepository
	likes     repository.LikeRepository
}

// NewFilmService returns a new FilmService.
func NewFilmService(
	films repository.FilmRepository,
	directors repository.DirectorRepository,
	users repository.UserRepository,
	likes repository.LikeRepository,
) *FilmService {
	return &FilmService{
		films:     films,
		directors: directors,
		users:     users,
		likes:     likes,
	}
}

// GetFilm returns a single hydrated film.
func (s *FilmService) GetFilm(ctx context.Context, id uint) (*models.Film, error) {
	return s.films.GetByID(ctx, id)
}

// Popular returns films ordered by like count, most liked first.
func (s *FilmService) Popular(ctx context.Context, q PopularQuery) ([]models.Film, error) {
	defer observability.TrackRanking("popular")()
	span, ctx := observability.NewSpan(ctx, "FilmService.Popular", attribute.Int("query.limit", q.Limit))
	defer span.End()

	query := repository.NewFilmQuery(models.SortByLikes).WithLimit(q.Limit)
	if q.GenreID != nil {
		span.AddAttributes(attribute.Int64("query.genre_id", int64(*q.GenreID)))
		query = query.Where(repository.GenreFilter(*q.GenreID))
	}
	if q.Year != nil {
		span.AddAttributes(attribute.Int("query.year", *q.Year))
		query = query.Where(repository.YearFilter(*q.Year))
	}

	films, err := s.films.Find(ctx, query)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return films, nil
}

// FilmsByDirector returns the director's films sorted by release year or by
// like count.
func (s *FilmService) FilmsByDirector(ctx context.Context, directorID uint, sortBy string) ([]models.Film, error) {
	order, err := models.ParseFilmSort(sortBy)
	if err != nil {
		return nil, err
	}

	defer observability.TrackRanking("director")()
	span, ctx := observability.NewSpan(ctx, "FilmService.FilmsByDirector",
		attribute.Int64("director.id", int64(directorID)),
		attribute.String("query.sort", order.String()),
	)
	defer span.End()

	if _, err := s.directors.GetByID(ctx, directorID); err != nil {
		span.SetError(err)
		return nil, err
	}

	films, err := s.films.Find(ctx, repository.NewFilmQuery(order).Where(repository.DirectorFilter(directorID)))
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return films, nil
}

// Search matches text against film titles, director names, or both. Blank
// text returns the whole catalog by popularity.
func (s *FilmService) Search(ctx context.Context, text string, by []string) ([]models.Film, error) {
	fields, err := models.ParseSearchFields(by)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return s.Popular(ctx, PopularQuery{})
	}
	if len(fields) == 0 {
		return nil, models.NewValidationError("At least one search field is required")
	}

	defer observability.TrackRanking("search")()
	span, ctx := observability.NewSpan(ctx, "FilmService.Search", attribute.Int("query.fields", len(fields)))
	defer span.End()

	films, err := s.films.Find(ctx, repository.NewFilmQuery(models.SortByLikes).Where(repository.TextFilter(text, fields...)))
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return films, nil
}

// CommonFilms returns films both users like, most liked first.
func (s *FilmService) CommonFilms(ctx context.Context, userID, friendID uint) ([]models.Film, error) {
	for _, id := range []uint{userID, friendID} {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	ids, err := s.likes.CommonFilmIDs(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Film{}, nil
	}
	return s.films.GetByIDs(ctx, ids)
}
