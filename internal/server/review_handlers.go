package server

import (
	"context"

	"cinemate/internal/models"
	"cinemate/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultReviewLimit = 10

// ListReviews handles GET /reviews?filmId=&count=
func (s *Server) ListReviews(c *fiber.Ctx) error {
	count := defaultReviewLimit
	if raw := c.Query("count"); raw != "" {
		count = c.QueryInt("count", 0)
		if count <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("count must be a positive integer"))
		}
	}
	filmID, err := optionalQueryID(c, "filmId")
	if err != nil {
		return nil
	}

	reviews, err := s.reviewService.List(c.UserContext(), filmID, count)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

// GetReview handles GET /reviews/:id
func (s *Server) GetReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	review, err := s.reviewService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

// CreateReview handles POST /reviews
func (s *Server) CreateReview(c *fiber.Ctx) error {
	var req service.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview handles PUT /reviews
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	var req service.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.Update(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

// DeleteReview handles DELETE /reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reviewService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeReview handles PUT /reviews/:id/like/:userId
func (s *Server) LikeReview(c *fiber.Ctx) error {
	return s.voteOnReview(c, s.reviewService.AddLike)
}

// UnlikeReview handles DELETE /reviews/:id/like/:userId
func (s *Server) UnlikeReview(c *fiber.Ctx) error {
	return s.voteOnReview(c, s.reviewService.RemoveLike)
}

// DislikeReview handles PUT /reviews/:id/dislike/:userId
func (s *Server) DislikeReview(c *fiber.Ctx) error {
	return s.voteOnReview(c, s.reviewService.AddDislike)
}

// UndislikeReview handles DELETE /reviews/:id/dislike/:userId
func (s *Server) UndislikeReview(c *fiber.Ctx) error {
	return s.voteOnReview(c, s.reviewService.RemoveDislike)
}

func (s *Server) voteOnReview(c *fiber.Ctx, vote func(ctx context.Context, reviewID, userID uint) error) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := vote(c.UserContext(), reviewID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
