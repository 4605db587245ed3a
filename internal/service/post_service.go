package service

import (
	"context"
	"log/slog"

	"bailanysta/internal/featureflags"
	"bailanysta/internal/middleware"
	"bailanysta/internal/models"
	"bailanysta/internal/notifications"
	"bailanysta/internal/repository"
	"bailanysta/internal/validation"
)

type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	resolver  *RepostResolver
	annotator *annotator
	events    EventPublisher
}

type CreatePostInput struct {
	UserID uint
	Text   string
}

type UpdatePostInput struct {
	UserID uint
	PostID uint
	Text   string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	engagement repository.EngagementRepository,
	flags *featureflags.Manager,
	events EventPublisher,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		resolver:  NewRepostResolver(postRepo),
		annotator: &annotator{engagement: engagement, flags: flags},
		events:    events,
	}
}

// cleanText sanitizes user text and enforces the length bounds.
func cleanText(raw string) (string, error) {
	text := validation.SanitizeText(raw)
	if err := validation.ValidatePostText(text); err != nil {
		return "", err
	}
	return text, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.DisplayPost, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("sign in to post")
	}
	text, err := cleanText(in.Text)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: author.ID, Text: text}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *author

	s.publish(ctx, notifications.FeedEvent{
		Type:     notifications.EventPostCreated,
		PostID:   post.ID,
		ActorID:  author.ID,
		AuthorID: author.ID,
	})
	return renderOriginal(post), nil
}

// GetPost renders one post for viewerID.
func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.DisplayPost, error) {
	post, err := s.postRepo.FetchPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	item, err := s.resolver.Resolve(ctx, post)
	if err != nil {
		return nil, err
	}
	if err := s.annotator.annotate(ctx, viewerID, []*models.DisplayPost{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdatePost replaces the text of the caller's own original post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.DisplayPost, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("sign in to edit posts")
	}
	text, err := cleanText(in.Text)
	if err != nil {
		return nil, err
	}
	post, err := s.ownedPost(ctx, in.UserID, in.PostID, "You can only update your own posts")
	if err != nil {
		return nil, err
	}
	if post.IsRepost() {
		return nil, models.NewValidationError("reposts cannot be edited")
	}

	if err := s.postRepo.UpdateText(ctx, post, text); err != nil {
		return nil, err
	}
	s.publish(ctx, notifications.FeedEvent{
		Type:     notifications.EventPostEdited,
		PostID:   post.ID,
		ActorID:  in.UserID,
		AuthorID: post.AuthorID,
	})
	return s.GetPost(ctx, post.ID, in.UserID)
}

// DeletePost removes the caller's own post or repost.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	if in.UserID == 0 {
		return models.NewUnauthorizedError("sign in to delete posts")
	}
	post, err := s.ownedPost(ctx, in.UserID, in.PostID, "You can only delete your own posts")
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, post); err != nil {
		return err
	}
	s.publish(ctx, notifications.FeedEvent{
		Type:     notifications.EventPostDeleted,
		PostID:   post.ID,
		ActorID:  in.UserID,
		AuthorID: post.AuthorID,
	})
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, userID, postID uint, denied string) (*models.Post, error) {
	post, err := s.postRepo.FetchPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError(denied)
	}
	return post, nil
}

func (s *PostService) publish(ctx context.Context, ev notifications.FeedEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishFeedEvent(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to publish feed event",
			slog.String("type", string(ev.Type)),
			slog.Uint64("post_id", uint64(ev.PostID)),
			slog.String("error", err.Error()),
		)
	}
}
