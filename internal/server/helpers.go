package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseQueryID reads a required positive id from the query string.
func parseQueryID(c *fiber.Ctx, key string) (uint, error) {
	id, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(key)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// optionalQueryID reads an optional positive id from the query string.
// An absent key yields nil.
func optionalQueryID(c *fiber.Ctx, key string) (*uint, error) {
	if c.Query(key) == "" {
		return nil, nil
	}
	id, err := parseQueryID(c, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optionalQueryYear reads an optional four-digit year from the query string.
func optionalQueryYear(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+key))
		return nil, errResponseWritten
	}
	return &year, nil
}

// splitList splits a comma separated query value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "directorId" -> "director ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondError writes err with the status its code maps to. Internal errors
// are logged with their cause before the cause is stripped from the body.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		observability.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(),
			"error", err,
		)
		if !models.IsCode(err, models.CodeInternal) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}
