package server

import (
	"github.com/gofiber/fiber/v2"
)

// AddFriend handles PUT /users/:id/friends/:friendId
func (s *Server) AddFriend(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	friendID, err := parseID(c, "friendId")
	if err != nil {
		return nil
	}

	if err := s.friendService.AddFriend(c.UserContext(), userID, friendID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveFriend handles DELETE /users/:id/friends/:friendId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	friendID, err := parseID(c, "friendId")
	if err != nil {
		return nil
	}

	if err := s.friendService.RemoveFriend(c.UserContext(), userID, friendID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFriends handles GET /users/:id/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	friends, err := s.friendService.GetFriends(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(friends)
}

// GetCommonFriends handles GET /users/:id/friends/common/:otherId
func (s *Server) GetCommonFriends(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	otherID, err := parseID(c, "otherId")
	if err != nil {
		return nil
	}

	friends, err := s.friendService.GetCommonFriends(c.UserContext(), userID, otherID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(friends)
}

// GetRecommendations handles GET /users/:id/recommendations
func (s *Server) GetRecommendations(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	films, err := s.recommendationService.Recommend(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// GetFeed handles GET /users/:id/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	events, err := s.feedService.GetFeed(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}
