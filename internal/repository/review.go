package repository

import (
	"context"
	"errors"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reviewColumns = "reviews.*, COALESCE((SELECT SUM(v.value) FROM review_votes AS v WHERE v.review_id = reviews.id), 0) AS useful"

// ReviewQuery narrows a review listing. A nil FilmID lists every film.
type ReviewQuery struct {
	FilmID *uint
	Limit  int
}

// ReviewRepository stores reviews and the votes that rank them.
type ReviewRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context, q ReviewQuery) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	Vote(ctx context.Context, reviewID, userID uint, value int) error
	ClearVote(ctx context.Context, reviewID, userID uint, value int) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	defer observability.TrackQuery("get_by_id", "reviews")()

	var review models.Review
	if err := conn(ctx, r.db).
		Select(reviewColumns).
		Where("reviews.id = ?", id).
		Take(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

// List returns the most useful reviews first; ties keep creation order.
func (r *reviewRepository) List(ctx context.Context, q ReviewQuery) ([]models.Review, error) {
	defer observability.TrackQuery("list", "reviews")()

	db := conn(ctx, r.db).Select(reviewColumns)
	if q.FilmID != nil {
		db = db.Where("reviews.film_id = ?", *q.FilmID)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	reviews := []models.Review{}
	if err := db.Order("useful DESC, reviews.id ASC").Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	defer observability.TrackQuery("create", "reviews")()

	if err := conn(ctx, r.db).Create(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Update rewrites the text and verdict only. Author and film are fixed at creation.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	defer observability.TrackQuery("update", "reviews")()

	res := conn(ctx, r.db).
		Model(&models.Review{ID: review.ID}).
		Select("content", "is_positive").
		Updates(&models.Review{Content: review.Content, IsPositive: review.IsPositive})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Review", review.ID)
	}
	return nil
}

// Delete removes the review together with its votes.
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "reviews")()

	db := conn(ctx, r.db)
	if err := db.Where("review_id = ?", id).Delete(&models.ReviewVote{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	res := db.Delete(&models.Review{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Review", id)
	}
	return nil
}

// Vote sets the user's vote, replacing an opposite one. Repeating a vote is a no-op.
func (r *reviewRepository) Vote(ctx context.Context, reviewID, userID uint, value int) error {
	defer observability.TrackQuery("vote", "review_votes")()

	vote := &models.ReviewVote{ReviewID: reviewID, UserID: userID, Value: value}
	if err := conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(vote).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ClearVote withdraws the user's vote only if it has the given value, so
// removing a like leaves a dislike in place.
func (r *reviewRepository) ClearVote(ctx context.Context, reviewID, userID uint, value int) error {
	defer observability.TrackQuery("clear_vote", "review_votes")()

	if err := conn(ctx, r.db).
		Where("review_id = ? AND user_id = ? AND value = ?", reviewID, userID, value).
		Delete(&models.ReviewVote{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
