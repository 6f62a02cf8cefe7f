package seed

import (
	"context"
	"fmt"
	"time"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options sizes a generated dataset.
type Options struct {
	Users          int
	Films          int
	Directors      int
	LikesPerUser   int
	FriendsPerUser int
	// RandomSeed makes generation reproducible. Zero picks a time-based seed.
	RandomSeed int64
}

// DefaultOptions is a small but well connected demo dataset.
func DefaultOptions() Options {
	return Options{
		Users:          50,
		Films:          200,
		Directors:      20,
		LikesPerUser:   15,
		FriendsPerUser: 5,
	}
}

// Factory builds domain entities from fake data and persists them.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	// sequence keeps generated logins and emails unique
	sequence int
}

// NewFactory creates a Factory bound to db. A zero seed is time based.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, faker: gofakeit.New(seed)}
}

// BuildUser returns an unsaved user.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.sequence++
	birthday := f.faker.DateRange(
		time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
	).Truncate(24 * time.Hour)
	login := fmt.Sprintf("%s%d", f.faker.Username(), f.sequence)
	user := &models.User{
		Login:    login,
		Email:    login + "@" + f.faker.DomainName(),
		Name:     f.faker.Name(),
		Birthday: &birthday,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and saves a user.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateDirector saves a director with a fake name.
func (f *Factory) CreateDirector(ctx context.Context) (*models.Director, error) {
	d := &models.Director{Name: f.faker.Name()}
	if err := f.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// BuildFilm returns an unsaved film tagged with up to two of the genres and
// one of the directors.
func (f *Factory) BuildFilm(genres []models.Genre, directors []models.Director, ratings []models.MpaRating, overrides ...func(*models.Film)) *models.Film {
	film := &models.Film{
		Name:        f.faker.MovieName(),
		Description: f.faker.Sentence(12),
		ReleaseDate: f.faker.DateRange(
			time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		).Truncate(24 * time.Hour),
		Duration: f.faker.Number(70, 200),
	}
	if len(film.Description) > 200 {
		film.Description = film.Description[:200]
	}
	if len(ratings) > 0 {
		film.MpaID = &ratings[f.faker.Number(0, len(ratings)-1)].ID
	}
	for _, i := range f.pick(len(genres), f.faker.Number(1, 2)) {
		film.Genres = append(film.Genres, genres[i])
	}
	for _, i := range f.pick(len(directors), 1) {
		film.Directors = append(film.Directors, directors[i])
	}
	for _, override := range overrides {
		override(film)
	}
	return film
}

// pick returns up to k distinct indexes in [0, n).
func (f *Factory) pick(n, k int) []int {
	if n == 0 || k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	f.faker.ShuffleInts(idx)
	if k > n {
		k = n
	}
	return idx[:k]
}

// Generate fills the database with fake users, films, likes and friendships
// on top of whatever ratings and genres already exist.
func (s *Seeder) Generate(ctx context.Context, opts Options) (Result, error) {
	var res Result
	f := NewFactory(s.db, opts.RandomSeed)
	db := s.db.WithContext(ctx)

	var ratings []models.MpaRating
	if err := db.Order("id").Find(&ratings).Error; err != nil {
		return res, err
	}
	var genres []models.Genre
	if err := db.Order("id").Find(&genres).Error; err != nil {
		return res, err
	}

	directors := make([]models.Director, 0, opts.Directors)
	for i := 0; i < opts.Directors; i++ {
		d, err := f.CreateDirector(ctx)
		if err != nil {
			return res, fmt.Errorf("create director: %w", err)
		}
		directors = append(directors, *d)
	}

	filmIDs := make([]uint, 0, opts.Films)
	for i := 0; i < opts.Films; i++ {
		film := f.BuildFilm(genres, directors, ratings)
		if err := db.Create(film).Error; err != nil {
			return res, fmt.Errorf("create film: %w", err)
		}
		filmIDs = append(filmIDs, film.ID)
		res.Films++
	}

	userIDs := make([]uint, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		userIDs = append(userIDs, u.ID)
		res.Users++
	}

	for _, userID := range userIDs {
		for _, i := range f.pick(len(filmIDs), opts.LikesPerUser) {
			n, err := insertLike(db, userID, filmIDs[i])
			if err != nil {
				return res, err
			}
			res.Likes += n
		}
		added := 0
		for _, i := range f.pick(len(userIDs), opts.FriendsPerUser+1) {
			if userIDs[i] == userID || added == opts.FriendsPerUser {
				continue
			}
			n, err := insertFriendship(db, userID, userIDs[i])
			if err != nil {
				return res, err
			}
			added++
			res.Friends += n
		}
	}

	observability.Logger.InfoContext(ctx, "generated demo data", "result", res.String())
	return res, nil
}
