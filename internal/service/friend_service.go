package service

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/repository"
)

// FriendService manages the directed friend graph.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	feed       EventRecorder
	tx         repository.Transactor
}

// NewFriendService returns a new FriendService. feed and tx may be nil.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, feed EventRecorder, tx repository.Transactor) *FriendService {
	if tx == nil {
		tx = repository.NoTx{}
	}
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		feed:       feed,
		tx:         tx,
	}
}

// AddFriend adds the edge userID -> friendID. The reverse edge is untouched.
// The edge and its feed event commit together.
func (s *FriendService) AddFriend(ctx context.Context, userID, friendID uint) error {
	if userID == friendID {
		return models.NewValidationError("Cannot add yourself as a friend")
	}
	if err := s.ensureUsers(ctx, userID, friendID); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		exists, err := s.friendRepo.Exists(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if exists {
			return models.NewConflictError("Friendship already exists")
		}
		if err := s.friendRepo.Create(ctx, &models.Friendship{UserID: userID, FriendID: friendID}); err != nil {
			return err
		}
		return s.record(ctx, userID, models.OperationAdd, friendID)
	})
}

// RemoveFriend deletes the edge userID -> friendID if present.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	if err := s.ensureUsers(ctx, userID, friendID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.friendRepo.Delete(ctx, userID, friendID); err != nil {
			return err
		}
		return s.record(ctx, userID, models.OperationRemove, friendID)
	})
}

// GetFriends returns the users userID has added, in the order they were added.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.friendRepo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDs(ctx, ids)
}

// GetCommonFriends returns users both userID and otherID have added,
// ascending by id.
func (s *FriendService) GetCommonFriends(ctx context.Context, userID, otherID uint) ([]models.User, error) {
	if err := s.ensureUsers(ctx, userID, otherID); err != nil {
		return nil, err
	}
	ids, err := s.friendRepo.CommonFriendIDs(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDs(ctx, ids)
}

func (s *FriendService) ensureUsers(ctx context.Context, ids ...uint) error {
	for _, id := range ids {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *FriendService) record(ctx context.Context, userID uint, op models.EventOperation, friendID uint) error {
	if s.feed == nil {
		return nil
	}
	_, err := s.feed.Record(ctx, userID, models.EventTypeFriend, op, friendID)
	return err
}
