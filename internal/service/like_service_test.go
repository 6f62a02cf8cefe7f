package service

import (
	"context"
	"errors"
	"testing"

	"cinemate/internal/models"
	"cinemate/internal/repository"
	"cinemate/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLikeServiceAddLikeUnknownFilm(t *testing.T) {
	films := noopFilmRepo()
	films.getByIDFn = func(_ context.Context, id uint) (*models.Film, error) {
		return nil, models.NewNotFoundError("Film", id)
	}
	likes := new(MockLikeRepository)

	svc := NewLikeService(likes, films, noopUserRepo(), nil, nil)
	err := svc.AddLike(context.Background(), 5, 1)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	likes.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeServiceRemoveLikeUnknownUser(t *testing.T) {
	likes := new(MockLikeRepository)

	svc := NewLikeService(likes, noopFilmRepo(), missingUsers(1), nil, nil)
	err := svc.RemoveLike(context.Background(), 5, 1)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	likes.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeServiceStoreErrorSkipsFeed(t *testing.T) {
	likes := new(MockLikeRepository)
	likes.On("Add", mock.Anything, uint(1), uint(5)).Return(models.NewInternalError(errors.New("disk full")))
	events := &eventRepoStub{}

	svc := NewLikeService(likes, noopFilmRepo(), noopUserRepo(), NewFeedService(events, noopUserRepo(), nil), nil)
	err := svc.AddLike(context.Background(), 5, 1)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.Empty(t, events.created)
	likes.AssertExpectations(t)
}

func TestLikeServiceRoundTrip(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Film(5, "Film", 2000)
	f.User(1, "alice")
	likes := repository.NewLikeRepository(f.DB)
	events := repository.NewEventRepository(f.DB)
	feed := NewFeedService(events, repository.NewUserRepository(f.DB), nil)
	svc := NewLikeService(likes, repository.NewFilmRepository(f.DB), repository.NewUserRepository(f.DB), feed, repository.NewTransactor(f.DB))
	ctx := context.Background()

	require.NoError(t, svc.AddLike(ctx, 5, 1))
	require.NoError(t, svc.AddLike(ctx, 5, 1))

	liked, err := likes.LikedFilmIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{5}, liked)

	require.NoError(t, svc.RemoveLike(ctx, 5, 1))
	require.NoError(t, svc.RemoveLike(ctx, 5, 1))

	liked, err = likes.LikedFilmIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, liked)

	history, err := feed.GetFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 4)
	ops := []models.EventOperation{history[0].Operation, history[1].Operation, history[2].Operation, history[3].Operation}
	assert.Equal(t, []models.EventOperation{models.OperationAdd, models.OperationAdd, models.OperationRemove, models.OperationRemove}, ops)
	for _, e := range history {
		assert.Equal(t, models.EventTypeLike, e.EventType)
		assert.Equal(t, uint(5), e.EntityID)
	}
}

func TestLikeServiceAddLikeRollsBackWhenFeedFails(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Film(5, "Film", 2000)
	f.User(1, "alice")
	likes := repository.NewLikeRepository(f.DB)
	users := repository.NewUserRepository(f.DB)
	broken := NewFeedService(&eventRepoStub{err: models.NewInternalError(errors.New("events table locked"))}, users, nil)
	svc := NewLikeService(likes, repository.NewFilmRepository(f.DB), users, broken, repository.NewTransactor(f.DB))
	ctx := context.Background()

	err := svc.AddLike(ctx, 5, 1)
	assert.True(t, models.IsCode(err, models.CodeInternal))

	liked, err := likes.LikedFilmIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, liked)
}
