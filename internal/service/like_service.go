package service

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/repository"
)

// LikeService records which users like which films.
type LikeService struct {
	likes repository.LikeRepository
	films repository.FilmRepository
	users repository.UserRepository
	feed  EventRecorder
	tx    repository.Transactor
}

// NewLikeService returns a new LikeService. feed may be nil. A nil tx runs
// the like and its feed event without a transaction.
func NewLikeService(likes repository.LikeRepository, films repository.FilmRepository, users repository.UserRepository, feed EventRecorder, tx repository.Transactor) *LikeService {
	if tx == nil {
		tx = repository.NoTx{}
	}
	return &LikeService{
		likes: likes,
		films: films,
		users: users,
		feed:  feed,
		tx:    tx,
	}
}

// AddLike marks the film as liked by the user. Liking twice is a no-op for
// the index but each call is still recorded in the feed. The like and its
// event commit together.
func (s *LikeService) AddLike(ctx context.Context, filmID, userID uint) error {
	if err := s.ensureExists(ctx, filmID, userID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.likes.Add(ctx, userID, filmID); err != nil {
			return err
		}
		return s.record(ctx, userID, models.OperationAdd, filmID)
	})
}

// RemoveLike withdraws the user's like. Removing an absent like succeeds.
func (s *LikeService) RemoveLike(ctx context.Context, filmID, userID uint) error {
	if err := s.ensureExists(ctx, filmID, userID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.likes.Remove(ctx, userID, filmID); err != nil {
			return err
		}
		return s.record(ctx, userID, models.OperationRemove, filmID)
	})
}

func (s *LikeService) ensureExists(ctx context.Context, filmID, userID uint) error {
	if _, err := s.films.GetByID(ctx, filmID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (s *LikeService) record(ctx context.Context, userID uint, op models.EventOperation, filmID uint) error {
	if s.feed == nil {
		return nil
	}
	_, err := s.feed.Record(ctx, userID, models.EventTypeLike, op, filmID)
	return err
}
