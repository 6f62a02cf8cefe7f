// Package service holds the recommendation, ranking and social-graph logic
// that sits between HTTP handlers and repositories.
package service

import (
	"context"
	"sort"

	"cinemate/internal/observability"
	"cinemate/internal/repository"
)

// Neighbor is a user whose likes overlap the target user's likes.
type Neighbor struct {
	UserID  uint
	Overlap int
	// FilmIDs is every film the neighbor likes, ascending.
	FilmIDs []uint
}

// SimilarityScorer finds the users whose taste is closest to a target user,
// measured as the number of films both have liked.
type SimilarityScorer struct {
	likes repository.LikeRepository
}

// NewSimilarityScorer returns a scorer over the like index.
func NewSimilarityScorer(likes repository.LikeRepository) *SimilarityScorer {
	return &SimilarityScorer{likes: likes}
}

// Rank returns every candidate neighbor ordered by overlap descending, then
// user id ascending. A user with no likes has no neighbors.
func (s *SimilarityScorer) Rank(ctx context.Context, userID uint) ([]Neighbor, error) {
	_, neighbors, err := s.match(ctx, userID)
	return neighbors, err
}

// BestMatch returns the top-ranked neighbor, or nil when there is none.
func (s *SimilarityScorer) BestMatch(ctx context.Context, userID uint) (*Neighbor, error) {
	neighbors, err := s.Rank(ctx, userID)
	if err != nil || len(neighbors) == 0 {
		return nil, err
	}
	return &neighbors[0], nil
}

// match loads the target's likes and scores the candidate pool. The pool is
// every other user who liked at least one of the target's films.
func (s *SimilarityScorer) match(ctx context.Context, userID uint) ([]uint, []Neighbor, error) {
	neighbors := []Neighbor{}

	mine, err := s.likes.LikedFilmIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(mine) == 0 {
		return mine, neighbors, nil
	}

	candidates, err := s.likes.UsersWhoLiked(ctx, mine, userID)
	if err != nil {
		return nil, nil, err
	}
	observability.RecommendationCandidates.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return mine, neighbors, nil
	}

	theirs, err := s.likes.LikedFilmIDsByUsers(ctx, candidates)
	if err != nil {
		return nil, nil, err
	}

	liked := make(map[uint]struct{}, len(mine))
	for _, id := range mine {
		liked[id] = struct{}{}
	}

	for _, candidate := range candidates {
		overlap := 0
		for _, filmID := range theirs[candidate] {
			if _, ok := liked[filmID]; ok {
				overlap++
			}
		}
		// a like withdrawn between the two reads leaves nothing shared
		if overlap == 0 {
			continue
		}
		neighbors = append(neighbors, Neighbor{UserID: candidate, Overlap: overlap, FilmIDs: theirs[candidate]})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Overlap != neighbors[j].Overlap {
			return neighbors[i].Overlap > neighbors[j].Overlap
		}
		return neighbors[i].UserID < neighbors[j].UserID
	})
	return mine, neighbors, nil
}
