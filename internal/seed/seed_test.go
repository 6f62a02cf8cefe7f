package seed

import (
	"context"
	"strings"
	"testing"

	"cinemate/internal/models"
	"cinemate/internal/repository"
	"cinemate/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFixture(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	fx, err := LoadFixture(strings.NewReader(smallFixture))
	require.NoError(t, err)

	res, err := NewSeeder(db).ApplyFixture(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Result{Films: 2, Users: 2, Likes: 3, Friends: 1}, res)

	films, err := repository.NewFilmRepository(db).Find(ctx, repository.NewFilmQuery(models.SortByLikes))
	require.NoError(t, err)
	require.Len(t, films, 2)
	assert.Equal(t, "The Piano", films[0].Name)
	assert.Equal(t, 2, films[0].LikesCount)
	require.NotNil(t, films[0].Mpa)
	assert.Equal(t, "PG", films[0].Mpa.Name)
	require.Len(t, films[0].Directors, 1)
	assert.Equal(t, "Jane Campion", films[0].Directors[0].Name)
	assert.Nil(t, films[1].Mpa)
}

func TestApplyFixtureReusesReferenceRows(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	s := NewSeeder(db)
	_, err = s.ApplyFixture(ctx, &Fixture{Ratings: catalog.Ratings, Genres: catalog.Genres})
	require.NoError(t, err)
	_, err = s.ApplyFixture(ctx, catalog)
	require.NoError(t, err)

	var genres int64
	require.NoError(t, db.Model(&models.Genre{}).Count(&genres).Error)
	assert.Equal(t, int64(len(catalog.Genres)), genres)
}

func TestGenerateAndClear(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := NewSeeder(db)
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	_, err = s.ApplyFixture(ctx, &Fixture{Ratings: catalog.Ratings, Genres: catalog.Genres})
	require.NoError(t, err)

	opts := Options{Users: 6, Films: 12, Directors: 3, LikesPerUser: 4, FriendsPerUser: 2, RandomSeed: 42}
	res, err := s.Generate(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Films)
	assert.Equal(t, 6, res.Users)
	assert.Equal(t, 24, res.Likes)
	assert.Equal(t, 12, res.Friends)

	var selfEdges int64
	require.NoError(t, db.Model(&models.Friendship{}).Where("user_id = friend_id").Count(&selfEdges).Error)
	assert.Zero(t, selfEdges)

	require.NoError(t, s.ClearAll(ctx))
	var films int64
	require.NoError(t, db.Model(&models.Film{}).Count(&films).Error)
	assert.Zero(t, films)
}

func TestFactoryBuildUserIsUnique(t *testing.T) {
	f := NewFactory(nil, 7)
	a := f.BuildUser()
	b := f.BuildUser(func(u *models.User) { u.Name = "Fixed" })

	assert.NotEqual(t, a.Login, b.Login)
	assert.NotEqual(t, a.Email, b.Email)
	assert.Equal(t, "Fixed", b.Name)
	require.NotNil(t, a.Birthday)
}
