package server

import (
	"strings"

	"bailanysta/internal/middleware"
	"bailanysta/internal/models"
	"bailanysta/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublicFeed handles GET /api/feed/public?cursor=&limit=
func (s *Server) GetPublicFeed(c *fiber.Ctx) error {
	return s.feedPage(c, models.FeedViewPublic)
}

// GetFollowingFeed handles GET /api/feed/following?cursor=&limit=
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	return s.feedPage(c, models.FeedViewFollowing)
}

func (s *Server) feedPage(c *fiber.Ctx, view models.FeedView) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return respondError(c, err)
	}

	page, err := s.services.Feed.GetFeed(c.UserContext(), service.FeedInput{
		View:     view,
		ViewerID: middleware.ViewerID(c),
		Cursor:   c.Query("cursor"),
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetAuthorPosts handles GET /api/posts?author=<username>&cursor=&limit=
func (s *Server) GetAuthorPosts(c *fiber.Ctx) error {
	author := strings.TrimSpace(c.Query("author"))
	if author == "" {
		return respondError(c, models.NewValidationError("author is required"))
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return respondError(c, err)
	}

	page, err := s.services.Feed.GetAuthorFeed(c.UserContext(), author, middleware.ViewerID(c), c.Query("cursor"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// SearchPosts handles GET /api/search?q=&offset=&limit=
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return respondError(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return respondError(c, err)
	}

	items, err := s.services.Search.Search(c.UserContext(), service.SearchInput{
		Query:    c.Query("q"),
		ViewerID: middleware.ViewerID(c),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}
