package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinemate/internal/config"
	"cinemate/internal/models"
	"cinemate/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	return json.NewDecoder(resp.Body).Decode(v)
}

type testAPI struct {
	t   *testing.T
	app *fiber.App
	f   *testutil.Fixture
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	f := testutil.NewFixture(t)
	s, err := NewServerWithDeps(&config.Config{PopularDefaultLimit: 10}, f.DB, nil)
	require.NoError(t, err)
	return &testAPI{t: t, app: s.NewApp(), f: f}
}

func (a *testAPI) do(method, path string) *http.Response {
	a.t.Helper()
	resp, err := a.app.Test(httptest.NewRequest(method, path, nil), -1)
	require.NoError(a.t, err)
	return resp
}

func (a *testAPI) status(method, path string) int {
	a.t.Helper()
	resp := a.do(method, path)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func (a *testAPI) films(path string) []uint {
	a.t.Helper()
	resp := a.do(http.MethodGet, path)
	require.Equal(a.t, http.StatusOK, resp.StatusCode, path)
	var films []models.Film
	require.NoError(a.t, decode(resp, &films))
	return models.FilmIDs(films)
}

func (a *testAPI) users(path string) []uint {
	a.t.Helper()
	resp := a.do(http.MethodGet, path)
	require.Equal(a.t, http.StatusOK, resp.StatusCode, path)
	var users []models.User
	require.NoError(a.t, decode(resp, &users))
	ids := []uint{}
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func (a *testAPI) errorCode(method, path string) (int, string) {
	a.t.Helper()
	resp := a.do(method, path)
	var body models.ErrorResponse
	require.NoError(a.t, decode(resp, &body))
	return resp.StatusCode, body.Code
}

func TestRecommendationFlow(t *testing.T) {
	api := newTestAPI(t)
	for _, id := range []uint{1, 2, 3, 4} {
		api.f.Film(id, "Film", 2000)
	}
	api.f.User(1, "alice")
	api.f.User(2, "bob")
	api.f.User(3, "carol")

	assert.Equal(t, []uint{}, api.films("/users/1/recommendations"))

	for _, like := range []string{
		"/films/1/like/1", "/films/2/like/1", "/films/3/like/1",
		"/films/1/like/2", "/films/2/like/2", "/films/4/like/2",
		"/films/1/like/3",
	} {
		require.Equal(t, http.StatusNoContent, api.status(http.MethodPut, like), like)
	}
	// repeated like is accepted and does not double count
	assert.Equal(t, http.StatusNoContent, api.status(http.MethodPut, "/films/1/like/1"))

	assert.Equal(t, []uint{4}, api.films("/users/1/recommendations"))
	assert.Equal(t, []uint{1, 2, 3, 4}, api.films("/films/popular"))

	resp := api.do(http.MethodGet, "/films/1")
	var film models.Film
	require.NoError(t, decode(resp, &film))
	assert.Equal(t, 3, film.LikesCount)

	assert.Equal(t, http.StatusNoContent, api.status(http.MethodDelete, "/films/4/like/2"))
	assert.Equal(t, http.StatusNoContent, api.status(http.MethodDelete, "/films/4/like/2"))
	assert.Equal(t, []uint{}, api.films("/users/1/recommendations"))
}

func TestLikeUnknownEntities(t *testing.T) {
	api := newTestAPI(t)
	api.f.Film(1, "Film", 2000)
	api.f.User(1, "alice")

	status, code := api.errorCode(http.MethodPut, "/films/9/like/1")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, code)

	status, _ = api.errorCode(http.MethodPut, "/films/1/like/9")
	assert.Equal(t, http.StatusNotFound, status)

	status, code = api.errorCode(http.MethodGet, "/users/9/recommendations")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, code)

	assert.Equal(t, http.StatusBadRequest, api.status(http.MethodPut, "/films/abc/like/1"))
}

func TestPopularEndpoint(t *testing.T) {
	api := newTestAPI(t)
	drama := api.f.Genre(5, "Drama")
	api.f.Film(10, "Ten", 1999, testutil.WithGenres(drama))
	api.f.Film(20, "Twenty", 2005, testutil.WithGenres(drama))
	api.f.Film(30, "Thirty", 2005)
	api.f.User(1, "alice")
	api.f.User(2, "bob")
	api.f.Likes(1, 10, 20, 30)
	api.f.Likes(2, 20, 30)

	assert.Equal(t, []uint{20, 30, 10}, api.films("/films/popular"))
	assert.Equal(t, []uint{20}, api.films("/films/popular?count=1"))
	assert.Equal(t, []uint{20, 10}, api.films("/films/popular?count=2&genreId=5"))
	assert.Equal(t, []uint{20, 30}, api.films("/films/popular?year=2005"))
	assert.Equal(t, []uint{20}, api.films("/films/popular?genreId=5&year=2005"))

	for _, bad := range []string{"count=0", "count=-1", "count=x", "genreId=0", "year=abc"} {
		status, code := api.errorCode(http.MethodGet, "/films/popular?"+bad)
		assert.Equal(t, http.StatusBadRequest, status, bad)
		assert.Equal(t, models.CodeValidation, code, bad)
	}
}

func TestDirectorAndSearchEndpoints(t *testing.T) {
	api := newTestAPI(t)
	lynch := api.f.Director(1, "David Lynch")
	api.f.Film(1, "Dune", 1984, testutil.WithDirectors(lynch))
	api.f.Film(2, "Eraserhead", 1977, testutil.WithDirectors(lynch))
	api.f.Film(3, "Mulholland Drive", 2001, testutil.WithDirectors(lynch))
	api.f.Film(4, "Heat", 1995)
	api.f.User(1, "alice")
	api.f.Likes(1, 3)

	assert.Equal(t, []uint{2, 1, 3}, api.films("/films/director/1?sortBy=year"))
	assert.Equal(t, []uint{3, 1, 2}, api.films("/films/director/1?sortBy=LIKES"))

	status, code := api.errorCode(http.MethodGet, "/films/director/1?sortBy=rating")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, code)
	status, _ = api.errorCode(http.MethodGet, "/films/director/7?sortBy=year")
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, []uint{3, 1, 2}, api.films("/films/search?query=lynch&by=director"))
	assert.Equal(t, []uint{4}, api.films("/films/search?query=HEAT&by=title"))
	assert.Equal(t, []uint{3, 1, 2}, api.films("/films/search?query=d&by=title,director"))
	assert.Equal(t, []uint{3, 1, 2, 4}, api.films("/films/search"))

	status, _ = api.errorCode(http.MethodGet, "/films/search?query=x&by=genre")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = api.errorCode(http.MethodGet, "/films/search?query=x&by=title,director,title")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = api.errorCode(http.MethodGet, "/films/search?query=x")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFriendEndpoints(t *testing.T) {
	api := newTestAPI(t)
	for _, id := range []uint{1, 2, 3} {
		api.f.User(id, "user"+string(rune('0'+id)))
	}

	assert.Equal(t, http.StatusNoContent, api.status(http.MethodPut, "/users/1/friends/3"))
	assert.Equal(t, http.StatusNoContent, api.status(http.MethodPut, "/users/1/friends/2"))
	assert.Equal(t, http.StatusNoContent, api.status(http.MethodPut, "/users/2/friends/3"))

	status, code := api.errorCode(http.MethodPut, "/users/1/friends/2")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodeConflict, code)

	status, code = api.errorCode(http.MethodPut, "/users/1/friends/1")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, code)

	status, _ = api.errorCode(http.MethodPut, "/users/1/friends/9")
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, []uint{3, 2}, api.users("/users/1/friends"))
	assert.Equal(t, []uint{}, api.users("/users/2/friends/common/3"))
	assert.Equal(t, []uint{3}, api.users("/users/1/friends/common/2"))
	assert.Equal(t, []uint{}, api.users("/users/3/friends"))

	assert.Equal(t, http.StatusNoContent, api.status(http.MethodDelete, "/users/3/friends/1"))
	assert.Equal(t, http.StatusNoContent, api.status(http.MethodDelete, "/users/1/friends/2"))
	assert.Equal(t, []uint{3}, api.users("/users/1/friends"))

	resp := api.do(http.MethodGet, "/users/1/feed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []models.Event
	require.NoError(t, decode(resp, &events))
	require.Len(t, events, 3)
	assert.Equal(t, models.OperationAdd, events[0].Operation)
	assert.Equal(t, uint(3), events[0].EntityID)
	assert.Equal(t, models.OperationRemove, events[2].Operation)
	assert.Equal(t, models.EventTypeFriend, events[2].EventType)
}

func TestCommonFilmsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	for _, id := range []uint{1, 2, 3} {
		api.f.Film(id, "Film", 2000)
	}
	api.f.User(1, "alice")
	api.f.User(2, "bob")
	api.f.Likes(1, 1, 2)
	api.f.Likes(2, 2, 3)

	assert.Equal(t, []uint{2}, api.films("/films/common?userId=1&friendId=2"))
	assert.Equal(t, http.StatusBadRequest, api.status(http.MethodGet, "/films/common?userId=1"))
	assert.Equal(t, http.StatusNotFound, api.status(http.MethodGet, "/films/common?userId=1&friendId=5"))
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusOK, api.status(http.MethodGet, "/health/live"))

	resp := api.do(http.MethodGet, "/health/ready")
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, decode(resp, &body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "disabled", body.Checks["redis"])

	assert.Equal(t, http.StatusOK, api.status(http.MethodGet, "/metrics"))
}

func TestWriteRateLimit(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Film(1, "Film", 2000)
	f.User(1, "alice")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s, err := NewServerWithDeps(&config.Config{PopularDefaultLimit: 10, WriteRateLimit: 2}, f.DB, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	app := s.NewApp()

	hit := func(method string) int {
		resp, err := app.Test(httptest.NewRequest(method, "/films/1/like/1", nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusNoContent, hit(http.MethodPut))
	assert.Equal(t, http.StatusNoContent, hit(http.MethodDelete))
	assert.Equal(t, http.StatusTooManyRequests, hit(http.MethodPut))

	// reads are not throttled
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/films/popular", nil), -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	f := testutil.NewFixture(t)
	s, err := NewServerWithDeps(&config.Config{PopularDefaultLimit: 10}, f.DB, nil)
	require.NoError(t, err)
	app := s.NewApp()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
