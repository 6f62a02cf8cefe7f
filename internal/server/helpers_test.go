package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cinemate/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"friendId", "friend ID"},
		{"directorId", "director ID"},
		{"genreId", "genre ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"title", "director"}, splitList("title, director"))
	assert.Equal(t, []string{"title"}, splitList(",title,,"))
	assert.Nil(t, splitList(""))
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/films/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/films/7", http.StatusOK},
		{"/films/0", http.StatusBadRequest},
		{"/films/-3", http.StatusBadRequest},
		{"/films/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, assert.AnError)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return respondError(c, models.NewNotFoundError("Film", 3))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	var body models.ErrorResponse
	require.NoError(t, decode(resp, &body))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeInternal, body.Code)
	assert.Empty(t, body.Details)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	require.NoError(t, decode(resp, &body))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Film with ID 3 not found", body.Error)
}
