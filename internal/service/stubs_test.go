package service

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/repository"

	"github.com/stretchr/testify/mock"
)

type friendRepoStub struct {
	existsFn          func(context.Context, uint, uint) (bool, error)
	createFn          func(context.Context, *models.Friendship) error
	deleteFn          func(context.Context, uint, uint) error
	friendIDsFn       func(context.Context, uint) ([]uint, error)
	commonFriendIDsFn func(context.Context, uint, uint) ([]uint, error)
}

func (s *friendRepoStub) Exists(ctx context.Context, userID, friendID uint) (bool, error) {
	return s.existsFn(ctx, userID, friendID)
}
func (s *friendRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	return s.createFn(ctx, friendship)
}
func (s *friendRepoStub) Delete(ctx context.Context, userID, friendID uint) error {
	return s.deleteFn(ctx, userID, friendID)
}
func (s *friendRepoStub) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.friendIDsFn(ctx, userID)
}
func (s *friendRepoStub) CommonFriendIDs(ctx context.Context, userID, otherUserID uint) ([]uint, error) {
	return s.commonFriendIDsFn(ctx, userID, otherUserID)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		existsFn:          func(context.Context, uint, uint) (bool, error) { return false, nil },
		createFn:          func(context.Context, *models.Friendship) error { return nil },
		deleteFn:          func(context.Context, uint, uint) error { return nil },
		friendIDsFn:       func(context.Context, uint) ([]uint, error) { return nil, nil },
		commonFriendIDsFn: func(context.Context, uint, uint) ([]uint, error) { return nil, nil },
	}
}

type userRepoStub struct {
	getByIDFn  func(context.Context, uint) (*models.User, error)
	getByIDsFn func(context.Context, []uint) ([]models.User, error)
	createFn   func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.User, error) {
			users := make([]models.User, 0, len(ids))
			for _, id := range ids {
				users = append(users, models.User{ID: id})
			}
			return users, nil
		},
		createFn: func(context.Context, *models.User) error { return nil },
	}
}

// missingUsers makes GetByID fail with NOT_FOUND for the listed ids.
func missingUsers(ids ...uint) *userRepoStub {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		for _, missing := range ids {
			if id == missing {
				return nil, models.NewNotFoundError("User", id)
			}
		}
		return &models.User{ID: id}, nil
	}
	return repo
}

type filmRepoStub struct {
	getByIDFn  func(context.Context, uint) (*models.Film, error)
	getByIDsFn func(context.Context, []uint) ([]models.Film, error)
	findFn     func(context.Context, repository.FilmQuery) ([]models.Film, error)
	createFn   func(context.Context, *models.Film) error
}

func (s *filmRepoStub) GetByID(ctx context.Context, id uint) (*models.Film, error) {
	return s.getByIDFn(ctx, id)
}
func (s *filmRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Film, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *filmRepoStub) Find(ctx context.Context, q repository.FilmQuery) ([]models.Film, error) {
	return s.findFn(ctx, q)
}
func (s *filmRepoStub) Create(ctx context.Context, film *models.Film) error {
	return s.createFn(ctx, film)
}

func noopFilmRepo() *filmRepoStub {
	return &filmRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Film, error) { return &models.Film{ID: id}, nil },
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.Film, error) {
			films := make([]models.Film, 0, len(ids))
			for _, id := range ids {
				films = append(films, models.Film{ID: id})
			}
			return films, nil
		},
		findFn:   func(context.Context, repository.FilmQuery) ([]models.Film, error) { return []models.Film{}, nil },
		createFn: func(context.Context, *models.Film) error { return nil },
	}
}

type directorRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.Director, error)
}

func (s *directorRepoStub) GetByID(ctx context.Context, id uint) (*models.Director, error) {
	return s.getByIDFn(ctx, id)
}

func noopDirectorRepo() *directorRepoStub {
	return &directorRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Director, error) { return &models.Director{ID: id}, nil },
	}
}

type eventRepoStub struct {
	created []models.Event
	err     error
}

func (s *eventRepoStub) Create(_ context.Context, event *models.Event) error {
	if s.err != nil {
		return s.err
	}
	event.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *event)
	return nil
}
func (s *eventRepoStub) ListByUser(_ context.Context, userID uint) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range s.created {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type publisherFunc func(context.Context, *models.Event) error

func (f publisherFunc) PublishEvent(ctx context.Context, event *models.Event) error {
	return f(ctx, event)
}

// MockLikeRepository is a testify mock of repository.LikeRepository.
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) LikedFilmIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockLikeRepository) LikedFilmIDsByUsers(ctx context.Context, userIDs []uint) (map[uint][]uint, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint][]uint), args.Error(1)
}

func (m *MockLikeRepository) UsersWhoLiked(ctx context.Context, filmIDs []uint, excludeUserID uint) ([]uint, error) {
	args := m.Called(ctx, filmIDs, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockLikeRepository) CommonFilmIDs(ctx context.Context, userID, otherUserID uint) ([]uint, error) {
	args := m.Called(ctx, userID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockLikeRepository) Add(ctx context.Context, userID, filmID uint) error {
	return m.Called(ctx, userID, filmID).Error(0)
}

func (m *MockLikeRepository) Remove(ctx context.Context, userID, filmID uint) error {
	return m.Called(ctx, userID, filmID).Error(0)
}
