package repository

import (
	"context"
	"errors"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_by_id", "users")()

	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByIDs returns the users in the order of ids, skipping ids with no row.
func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("get_by_ids", "users")()

	var users []models.User
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("email or login already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}
