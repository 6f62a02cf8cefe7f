package repository

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"gorm.io/gorm"
)

// FriendRepository stores the directed friend graph. An edge user -> friend
// says nothing about friend -> user.
type FriendRepository interface {
	Exists(ctx context.Context, userID, friendID uint) (bool, error)
	Create(ctx context.Context, friendship *models.Friendship) error
	Delete(ctx context.Context, userID, friendID uint) error
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)
	CommonFriendIDs(ctx context.Context, userID, otherUserID uint) ([]uint, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Exists(ctx context.Context, userID, friendID uint) (bool, error) {
	defer observability.TrackQuery("exists", "friendships")()

	var count int64
	if err := conn(ctx, r.db).
		Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Create inserts the edge. A concurrent duplicate insert loses on the unique
// index and surfaces as a conflict.
func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	defer observability.TrackQuery("create", "friendships")()

	if err := conn(ctx, r.db).Create(friendship).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("friendship already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) Delete(ctx context.Context, userID, friendID uint) error {
	defer observability.TrackQuery("delete", "friendships")()

	if err := conn(ctx, r.db).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&models.Friendship{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// FriendIDs lists outgoing edges in the order they were added.
func (r *friendRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	defer observability.TrackQuery("friend_ids", "friendships")()

	ids := []uint{}
	if err := conn(ctx, r.db).
		Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("friend_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// CommonFriendIDs intersects the outgoing edges of both users.
func (r *friendRepository) CommonFriendIDs(ctx context.Context, userID, otherUserID uint) ([]uint, error) {
	defer observability.TrackQuery("common_friend_ids", "friendships")()

	ids := []uint{}
	if err := conn(ctx, r.db).
		Table("friendships AS f").
		Joins("JOIN friendships AS o ON o.friend_id = f.friend_id AND o.user_id = ?", otherUserID).
		Where("f.user_id = ?", userID).
		Order("f.friend_id").
		Pluck("f.friend_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
