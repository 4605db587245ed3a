package service

import (
	"context"
	"log/slog"

	"bailanysta/internal/middleware"
	"bailanysta/internal/models"
	"bailanysta/internal/notifications"
	"bailanysta/internal/observability"
	"bailanysta/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EventPublisher receives feed activity. Publishing is best effort.
type EventPublisher interface {
	PublishFeedEvent(ctx context.Context, ev notifications.FeedEvent) error
}

// EngagementService applies likes and reposts. Every operation is idempotent:
// repeating it leaves the same state and is not an error. Engagement on a
// repost is applied to its original.
type EngagementService struct {
	posts      repository.PostRepository
	engagement repository.EngagementRepository
	events     EventPublisher
}

func NewEngagementService(
	posts repository.PostRepository,
	engagement repository.EngagementRepository,
	events EventPublisher,
) *EngagementService {
	return &EngagementService{posts: posts, engagement: engagement, events: events}
}

// Like records userID's like on postID.
func (s *EngagementService) Like(ctx context.Context, userID, postID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "service", "EngagementService.Like",
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if userID == 0 {
		return models.NewUnauthorizedError("sign in to like posts")
	}
	target, err := s.targetOf(ctx, postID)
	if err != nil {
		recordMutation("like", err, false)
		return err
	}

	created, err := s.engagement.InsertLike(ctx, userID, target.ID)
	recordMutation("like", err, created)
	if err != nil {
		return err
	}
	if created {
		s.publish(ctx, notifications.FeedEvent{
			Type:     notifications.EventPostLiked,
			PostID:   target.ID,
			ActorID:  userID,
			AuthorID: target.AuthorID,
		})
	}
	return nil
}

// Unlike removes userID's like on postID. Removing a missing like, or a like on
// a post that no longer exists, is a no-op.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "service", "EngagementService.Unlike",
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if userID == 0 {
		return models.NewUnauthorizedError("sign in to unlike posts")
	}
	post, err := s.posts.FetchPostByID(ctx, postID)
	if err != nil {
		recordMutation("unlike", err, false)
		return err
	}
	targetID := postID
	if post != nil {
		targetID = post.TargetID()
	}

	removed, err := s.engagement.DeleteLike(ctx, userID, targetID)
	recordMutation("unlike", err, removed)
	return err
}

// Repost creates userID's repost of postID, or returns the existing one. Users
// cannot repost their own posts.
func (s *EngagementService) Repost(ctx context.Context, userID, postID uint) (repost *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "EngagementService.Repost",
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if userID == 0 {
		return nil, models.NewUnauthorizedError("sign in to repost")
	}
	original, err := s.targetOf(ctx, postID)
	if err != nil {
		recordMutation("repost", err, false)
		return nil, err
	}
	if original.AuthorID == userID {
		err = models.NewForbiddenError("you cannot repost your own post")
		recordMutation("repost", err, false)
		return nil, err
	}

	repost, created, err := s.engagement.InsertRepost(ctx, userID, original.ID)
	recordMutation("repost", err, created)
	if err != nil {
		return nil, err
	}
	if created {
		s.publish(ctx, notifications.FeedEvent{
			Type:     notifications.EventPostReposted,
			PostID:   original.ID,
			ActorID:  userID,
			AuthorID: original.AuthorID,
		})
	}
	return repost, nil
}

// targetOf returns the post engagement on postID accrues to: postID itself, or
// its original when postID is a repost. A deleted target is NOT_FOUND.
func (s *EngagementService) targetOf(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts.FetchPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if !post.IsRepost() {
		return post, nil
	}
	original, err := s.posts.FetchPostByID(ctx, *post.OriginalPostID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, models.NewNotFoundError("Post", *post.OriginalPostID)
	}
	return original, nil
}

func (s *EngagementService) publish(ctx context.Context, ev notifications.FeedEvent) {
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

func recordMutation(action string, err error, changed bool) {
	outcome := "noop"
	switch {
	case err != nil:
		outcome = "error"
	case changed:
		outcome = "applied"
	}
	observability.EngagementMutations.WithLabelValues(action, outcome).Inc()
}
