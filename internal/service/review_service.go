package service

import (
	"context"
	"strings"

	"cinemate/internal/models"
	"cinemate/internal/repository"
)

// CreateReviewRequest is the body of a new review. IsPositive is a pointer so
// a missing verdict can be told apart from false.
type CreateReviewRequest struct {
	Content    string `json:"content"`
	IsPositive *bool  `json:"is_positive"`
	UserID     uint   `json:"user_id"`
	FilmID     uint   `json:"film_id"`
}

// UpdateReviewRequest edits a review in place. Nil fields keep their value.
type UpdateReviewRequest struct {
	ReviewID   uint    `json:"review_id"`
	Content    *string `json:"content"`
	IsPositive *bool   `json:"is_positive"`
}

// ReviewService manages film reviews and the votes that rank them.
type ReviewService struct {
	reviews repository.ReviewRepository
	films   repository.FilmRepository
	users   repository.UserRepository
	feed    EventRecorder
	tx      repository.Transactor
}

// NewReviewService returns a new ReviewService. feed and tx may be nil.
func NewReviewService(reviews repository.ReviewRepository, films repository.FilmRepository, users repository.UserRepository, feed EventRecorder, tx repository.Transactor) *ReviewService {
	if tx == nil {
		tx = repository.NoTx{}
	}
	return &ReviewService{
		reviews: reviews,
		films:   films,
		users:   users,
		feed:    feed,
		tx:      tx,
	}
}

// Create stores a review by an existing user about an existing film.
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*models.Review, error) {
	content := strings.TrimSpace(req.Content)
	switch {
	case content == "":
		return nil, models.NewValidationError("content must not be blank")
	case req.IsPositive == nil:
		return nil, models.NewValidationError("is_positive is required")
	case req.UserID == 0:
		return nil, models.NewValidationError("user_id is required")
	case req.FilmID == 0:
		return nil, models.NewValidationError("film_id is required")
	}
	if _, err := s.films.GetByID(ctx, req.FilmID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	review := &models.Review{
		Content:    content,
		IsPositive: *req.IsPositive,
		UserID:     req.UserID,
		FilmID:     req.FilmID,
	}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.Create(ctx, review); err != nil {
			return err
		}
		return s.record(ctx, review.UserID, models.EventTypeReview, models.OperationAdd, review.ID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Get returns one review with its current usefulness.
func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// List returns the most useful reviews, optionally for one film only.
func (s *ReviewService) List(ctx context.Context, filmID *uint, limit int) ([]models.Review, error) {
	return s.reviews.List(ctx, repository.ReviewQuery{FilmID: filmID, Limit: limit})
}

// Update edits the text or verdict. The feed event goes to the author, not
// to whoever sent the edit.
func (s *ReviewService) Update(ctx context.Context, req UpdateReviewRequest) (*models.Review, error) {
	if req.ReviewID == 0 {
		return nil, models.NewValidationError("review_id is required")
	}
	review, err := s.reviews.GetByID(ctx, req.ReviewID)
	if err != nil {
		return nil, err
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, models.NewValidationError("content must not be blank")
		}
		review.Content = content
	}
	if req.IsPositive != nil {
		review.IsPositive = *req.IsPositive
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.Update(ctx, review); err != nil {
			return err
		}
		return s.record(ctx, review.UserID, models.EventTypeReview, models.OperationUpdate, review.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, review.ID)
}

// Delete removes the review and its votes.
func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.Delete(ctx, id); err != nil {
			return err
		}
		return s.record(ctx, review.UserID, models.EventTypeReview, models.OperationRemove, id)
	})
}

// AddLike marks the review useful for the user, replacing a dislike.
func (s *ReviewService) AddLike(ctx context.Context, reviewID, userID uint) error {
	if err := s.ensureExists(ctx, reviewID, userID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.Vote(ctx, reviewID, userID, models.VoteUseful); err != nil {
			return err
		}
		return s.record(ctx, userID, models.EventTypeLike, models.OperationAdd, reviewID)
	})
}

// AddDislike marks the review useless for the user, replacing a like.
// Dislikes are not part of the feed.
func (s *ReviewService) AddDislike(ctx context.Context, reviewID, userID uint) error {
	if err := s.ensureExists(ctx, reviewID, userID); err != nil {
		return err
	}
	return s.reviews.Vote(ctx, reviewID, userID, models.VoteUseless)
}

// RemoveLike withdraws the user's like. A missing like is not an error.
func (s *ReviewService) RemoveLike(ctx context.Context, reviewID, userID uint) error {
	if err := s.ensureExists(ctx, reviewID, userID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.ClearVote(ctx, reviewID, userID, models.VoteUseful); err != nil {
			return err
		}
		return s.record(ctx, userID, models.EventTypeLike, models.OperationRemove, reviewID)
	})
}

// RemoveDislike withdraws the user's dislike.
func (s *ReviewService) RemoveDislike(ctx context.Context, reviewID, userID uint) error {
	if err := s.ensureExists(ctx, reviewID, userID); err != nil {
		return err
	}
	return s.reviews.ClearVote(ctx, reviewID, userID, models.VoteUseless)
}

func (s *ReviewService) ensureExists(ctx context.Context, reviewID, userID uint) error {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (s *ReviewService) record(ctx context.Context, userID uint, eventType models.EventType, op models.EventOperation, entityID uint) error {
	if s.feed == nil {
		return nil
	}
	_, err := s.feed.Record(ctx, userID, eventType, op, entityID)
	return err
}
