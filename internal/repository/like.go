// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository is the like index: who liked which film.
// Unknown ids yield empty results, never errors.
type LikeRepository interface {
	LikedFilmIDs(ctx context.Context, userID uint) ([]uint, error)
	LikedFilmIDsByUsers(ctx context.Context, userIDs []uint) (map[uint][]uint, error)
	UsersWhoLiked(ctx context.Context, filmIDs []uint, excludeUserID uint) ([]uint, error)
	CommonFilmIDs(ctx context.Context, userID, otherUserID uint) ([]uint, error)
	Add(ctx context.Context, userID, filmID uint) error
	Remove(ctx context.Context, userID, filmID uint) error
}

// likes on soft-deleted films stay in the table but drop out of every read.
const liveFilmJoin = "JOIN films ON films.id = likes.film_id AND films.deleted_at IS NULL"

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) LikedFilmIDs(ctx context.Context, userID uint) ([]uint, error) {
	defer observability.TrackQuery("liked_film_ids", "likes")()

	ids := []uint{}
	if err := conn(ctx, r.db).
		Model(&models.Like{}).
		Joins(liveFilmJoin).
		Where("likes.user_id = ?", userID).
		Order("likes.film_id").
		Pluck("likes.film_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *likeRepository) LikedFilmIDsByUsers(ctx context.Context, userIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("liked_film_ids_by_users", "likes")()

	var rows []models.Like
	if err := conn(ctx, r.db).
		Select("likes.user_id", "likes.film_id").
		Joins(liveFilmJoin).
		Where("likes.user_id IN ?", userIDs).
		Order("likes.user_id, likes.film_id").
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.FilmID)
	}
	return out, nil
}

func (r *likeRepository) UsersWhoLiked(ctx context.Context, filmIDs []uint, excludeUserID uint) ([]uint, error) {
	ids := []uint{}
	if len(filmIDs) == 0 {
		return ids, nil
	}
	defer observability.TrackQuery("users_who_liked", "likes")()

	if err := conn(ctx, r.db).
		Model(&models.Like{}).
		Distinct("user_id").
		Where("film_id IN ? AND user_id <> ?", filmIDs, excludeUserID).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// CommonFilmIDs returns films liked by both users, most liked first.
func (r *likeRepository) CommonFilmIDs(ctx context.Context, userID, otherUserID uint) ([]uint, error) {
	defer observability.TrackQuery("common_film_ids", "likes")()

	type row struct {
		FilmID     uint
		LikesCount int
	}
	var rows []row
	if err := conn(ctx, r.db).
		Table("likes AS mine").
		Select("mine.film_id AS film_id, (SELECT COUNT(*) FROM likes AS l WHERE l.film_id = mine.film_id) AS likes_count").
		Joins("JOIN likes AS theirs ON theirs.film_id = mine.film_id AND theirs.user_id = ?", otherUserID).
		Joins("JOIN films ON films.id = mine.film_id AND films.deleted_at IS NULL").
		Where("mine.user_id = ?", userID).
		Order("likes_count DESC, mine.film_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FilmID)
	}
	return ids, nil
}

// Add is idempotent: a repeated like is absorbed by the unique index.
func (r *likeRepository) Add(ctx context.Context, userID, filmID uint) error {
	defer observability.TrackQuery("add", "likes")()

	like := &models.Like{UserID: userID, FilmID: filmID}
	if err := conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "film_id"}},
			DoNothing: true,
		}).
		Create(like).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Remove hard-deletes the like; removing an absent like succeeds.
func (r *likeRepository) Remove(ctx context.Context, userID, filmID uint) error {
	defer observability.TrackQuery("remove", "likes")()

	if err := conn(ctx, r.db).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
