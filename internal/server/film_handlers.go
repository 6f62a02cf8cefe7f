package server

import (
	"cinemate/internal/models"
	"cinemate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFilm handles GET /films/:id
func (s *Server) GetFilm(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	film, err := s.filmService.GetFilm(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(film)
}

// LikeFilm handles PUT /films/:id/like/:userId
func (s *Server) LikeFilm(c *fiber.Ctx) error {
	filmID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.likeService.AddLike(c.UserContext(), filmID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlikeFilm handles DELETE /films/:id/like/:userId
func (s *Server) UnlikeFilm(c *fiber.Ctx) error {
	filmID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.likeService.RemoveLike(c.UserContext(), filmID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPopularFilms handles GET /films/popular?count=&genreId=&year=
func (s *Server) GetPopularFilms(c *fiber.Ctx) error {
	count := s.popularDefaultLimit()
	if raw := c.Query("count"); raw != "" {
		count = c.QueryInt("count", 0)
		if count <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("count must be a positive integer"))
		}
	}

	genreID, err := optionalQueryID(c, "genreId")
	if err != nil {
		return nil
	}
	year, err := optionalQueryYear(c, "year")
	if err != nil {
		return nil
	}

	films, err := s.filmService.Popular(c.UserContext(), service.PopularQuery{
		Limit:   count,
		GenreID: genreID,
		Year:    year,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// GetDirectorFilms handles GET /films/director/:directorId?sortBy=year|likes
func (s *Server) GetDirectorFilms(c *fiber.Ctx) error {
	directorID, err := parseID(c, "directorId")
	if err != nil {
		return nil
	}

	films, err := s.filmService.FilmsByDirector(c.UserContext(), directorID, c.Query("sortBy", "likes"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// SearchFilms handles GET /films/search?query=&by=title,director
func (s *Server) SearchFilms(c *fiber.Ctx) error {
	films, err := s.filmService.Search(c.UserContext(), c.Query("query"), splitList(c.Query("by")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// GetCommonFilms handles GET /films/common?userId=&friendId=
func (s *Server) GetCommonFilms(c *fiber.Ctx) error {
	userID, err := parseQueryID(c, "userId")
	if err != nil {
		return nil
	}
	friendID, err := parseQueryID(c, "friendId")
	if err != nil {
		return nil
	}

	films, err := s.filmService.CommonFilms(c.UserContext(), userID, friendID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}
