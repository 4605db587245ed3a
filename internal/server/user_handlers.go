package server

import (
	"bailanysta/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	profile, err := s.services.Users.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetMe handles GET /api/users/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	profile, err := s.services.Users.GetMe(c.UserContext(), middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// FollowUser handles POST /api/users/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	if err := s.services.Users.Follow(c.UserContext(), middleware.ViewerID(c), c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnfollowUser handles POST /api/users/:username/unfollow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.services.Users.Unfollow(c.UserContext(), middleware.ViewerID(c), c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
