package service

import (
	"context"
	"sort"

	"cinemate/internal/models"
	"cinemate/internal/observability"
	"cinemate/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// RecommendationService suggests films liked by a user's closest neighbor.
type RecommendationService struct {
	scorer *SimilarityScorer
	films  repository.FilmRepository
	users  repository.UserRepository
}

// NewRecommendationService returns a new RecommendationService.
func NewRecommendationService(likes repository.LikeRepository, films repository.FilmRepository, users repository.UserRepository) *RecommendationService {
	return &RecommendationService{
		scorer: NewSimilarityScorer(likes),
		films:  films,
		users:  users,
	}
}

// Recommend returns the films the best-matching neighbor likes and the user
// has not liked, ascending by film id. No neighbor means no recommendations.
func (s *RecommendationService) Recommend(ctx context.Context, userID uint) ([]models.Film, error) {
	span, ctx := observability.NewSpan(ctx, "RecommendationService.Recommend", attribute.Int64("user.id", int64(userID)))
	defer span.End()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		span.SetError(err)
		return nil, err
	}

	mine, neighbors, err := s.scorer.match(ctx, userID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if len(neighbors) == 0 {
		observability.RecommendationsServed.WithLabelValues("no_neighbor").Inc()
		span.SetOutcome("no_neighbor")
		return []models.Film{}, nil
	}

	best := neighbors[0]
	observability.RecommendationOverlap.Observe(float64(best.Overlap))
	span.AddAttributes(
		attribute.Int64("neighbor.id", int64(best.UserID)),
		attribute.Int("neighbor.overlap", best.Overlap),
	)

	ids := difference(best.FilmIDs, mine)
	if len(ids) == 0 {
		observability.RecommendationsServed.WithLabelValues("nothing_new").Inc()
		span.SetOutcome("nothing_new")
		return []models.Film{}, nil
	}

	films, err := s.films.GetByIDs(ctx, ids)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	observability.RecommendationsServed.WithLabelValues("recommended").Inc()
	span.SetOutcome("recommended")
	return films, nil
}

// difference returns the ids in a that are not in b, ascending.
func difference(a, b []uint) []uint {
	exclude := make(map[uint]struct{}, len(b))
	for _, id := range b {
		exclude[id] = struct{}{}
	}
	out := make([]uint, 0, len(a))
	for _, id := range a {
		if _, ok := exclude[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
