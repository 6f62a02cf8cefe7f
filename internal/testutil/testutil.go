// Package testutil provides shared fixtures for tests that run against a real
// (in-memory sqlite) database.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"cinemate/internal/database"
	"cinemate/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens an isolated in-memory sqlite database with the full schema.
// A single connection keeps every query on the same in-memory file.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.SQLite(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Fixture inserts catalog rows for a test.
type Fixture struct {
	t  testing.TB
	DB *gorm.DB
}

// NewFixture returns a Fixture over a fresh database.
func NewFixture(t testing.TB) *Fixture {
	return &Fixture{t: t, DB: NewDB(t)}
}

// User inserts a user. A zero id lets the database assign one.
func (f *Fixture) User(id uint, login string) *models.User {
	f.t.Helper()
	u := &models.User{
		ID:    id,
		Login: login,
		Name:  login,
		Email: login + "@example.com",
	}
	require.NoError(f.t, f.DB.Create(u).Error)
	return u
}

// Genre inserts a genre.
func (f *Fixture) Genre(id uint, name string) *models.Genre {
	f.t.Helper()
	g := &models.Genre{ID: id, Name: name}
	require.NoError(f.t, f.DB.Create(g).Error)
	return g
}

// Director inserts a director.
func (f *Fixture) Director(id uint, name string) *models.Director {
	f.t.Helper()
	d := &models.Director{ID: id, Name: name}
	require.NoError(f.t, f.DB.Create(d).Error)
	return d
}

// Rating inserts an MPA rating.
func (f *Fixture) Rating(id uint, name string) *models.MpaRating {
	f.t.Helper()
	r := &models.MpaRating{ID: id, Name: name}
	require.NoError(f.t, f.DB.Create(r).Error)
	return r
}

// FilmOption customizes a film before insert.
type FilmOption func(*models.Film)

// WithGenres attaches genres to the film.
func WithGenres(genres ...*models.Genre) FilmOption {
	return func(film *models.Film) {
		for _, g := range genres {
			film.Genres = append(film.Genres, *g)
		}
	}
}

// WithDirectors attaches directors to the film.
func WithDirectors(directors ...*models.Director) FilmOption {
	return func(film *models.Film) {
		for _, d := range directors {
			film.Directors = append(film.Directors, *d)
		}
	}
}

// WithRating sets the MPA rating.
func WithRating(r *models.MpaRating) FilmOption {
	return func(film *models.Film) {
		film.MpaID = &r.ID
	}
}

// ReleasedOn overrides the mid-year release date.
func ReleasedOn(at time.Time) FilmOption {
	return func(film *models.Film) {
		film.ReleaseDate = at
	}
}

// Film inserts a film released mid-year in the given year.
func (f *Fixture) Film(id uint, name string, year int, opts ...FilmOption) *models.Film {
	f.t.Helper()
	film := &models.Film{
		ID:          id,
		Name:        name,
		Description: name + " description",
		ReleaseDate: time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC),
		Duration:    100,
	}
	for _, opt := range opts {
		opt(film)
	}
	require.NoError(f.t, f.DB.Create(film).Error)
	return film
}

// Like records that the user likes the film.
func (f *Fixture) Like(userID, filmID uint) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Create(&models.Like{UserID: userID, FilmID: filmID}).Error)
}

// Likes records several likes for one user.
func (f *Fixture) Likes(userID uint, filmIDs ...uint) {
	f.t.Helper()
	for _, id := range filmIDs {
		f.Like(userID, id)
	}
}

// Follow inserts the directed edge userID -> friendID.
func (f *Fixture) Follow(userID, friendID uint) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Create(&models.Friendship{UserID: userID, FriendID: friendID}).Error)
}

// Review inserts a positive review by userID of filmID.
func (f *Fixture) Review(id, userID, filmID uint, content string) *models.Review {
	f.t.Helper()
	review := &models.Review{ID: id, Content: content, IsPositive: true, UserID: userID, FilmID: filmID}
	require.NoError(f.t, f.DB.Create(review).Error)
	return review
}

// Vote records userID's vote on a review: models.VoteUseful or models.VoteUseless.
func (f *Fixture) Vote(reviewID, userID uint, value int) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Create(&models.ReviewVote{ReviewID: reviewID, UserID: userID, Value: value}).Error)
}
