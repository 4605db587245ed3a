package server

import (
	"bailanysta/internal/middleware"
	"bailanysta/internal/models"
	"bailanysta/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postTextRequest struct {
	Text string `json:"text"`
}

func parseText(c *fiber.Ctx) (string, error) {
	var req postTextRequest
	if err := c.BodyParser(&req); err != nil {
		return "", models.NewValidationError("Invalid request body")
	}
	return req.Text, nil
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	text, err := parseText(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.services.Posts.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: middleware.ViewerID(c),
		Text:   text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.services.Posts.GetPost(c.UserContext(), id, middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PATCH /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	text, err := parseText(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.services.Posts.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID: middleware.ViewerID(c),
		PostID: id,
		Text:   text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.services.Posts.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: middleware.ViewerID(c),
		PostID: id,
	}); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.services.Engagement.Like(c.UserContext(), middleware.ViewerID(c), id); err != nil {
		return respondError(c, err)
	}
	return s.GetPost(c)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.services.Engagement.Unlike(c.UserContext(), middleware.ViewerID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RepostPost handles POST /api/posts/:id/repost
func (s *Server) RepostPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	repost, err := s.services.Engagement.Repost(c.UserContext(), middleware.ViewerID(c), id)
	if err != nil {
		return respondError(c, err)
	}

	item, err := s.services.Posts.GetPost(c.UserContext(), repost.ID, middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}
