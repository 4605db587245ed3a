package service

import (
	"context"
	"log/slog"

	"bailanysta/internal/cursor"
	"bailanysta/internal/featureflags"
	"bailanysta/internal/middleware"
	"bailanysta/internal/models"
	"bailanysta/internal/observability"
	"bailanysta/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// MaxFeedLimit caps a single feed page.
	MaxFeedLimit     = 100
	defaultFeedLimit = 20
)

// FeedService assembles the public, following and author timelines.
type FeedService struct {
	posts        repository.PostRepository
	follows      repository.FollowRepository
	users        repository.UserRepository
	resolver     *RepostResolver
	annotator    *annotator
	codec        *cursor.Codec
	defaultLimit int
}

// FeedInput selects one page of a timeline. AuthorID is required for the author view.
type FeedInput struct {
	View     models.FeedView
	ViewerID uint
	AuthorID uint
	Cursor   string
	Limit    int
}

func NewFeedService(
	posts repository.PostRepository,
	engagement repository.EngagementRepository,
	follows repository.FollowRepository,
	users repository.UserRepository,
	codec *cursor.Codec,
	flags *featureflags.Manager,
	defaultLimit int,
) *FeedService {
	if defaultLimit < 1 || defaultLimit > MaxFeedLimit {
		defaultLimit = defaultFeedLimit
	}
	return &FeedService{
		posts:        posts,
		follows:      follows,
		users:        users,
		resolver:     NewRepostResolver(posts),
		annotator:    &annotator{engagement: engagement, flags: flags},
		codec:        codec,
		defaultLimit: defaultLimit,
	}
}

// Resolver exposes the repost resolver used by this feed.
func (s *FeedService) Resolver() *RepostResolver {
	return s.resolver
}

// GetFeed returns one page ordered by (created_at DESC, id DESC). NextCursor is
// empty on the last page. An unreadable cursor restarts the feed from the top.
func (s *FeedService) GetFeed(ctx context.Context, in FeedInput) (page *models.FeedPage, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "FeedService.GetFeed",
		attribute.String("feed.view", string(in.View)),
		attribute.Int("feed.limit", in.Limit),
	)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackFeed(string(in.View))()

	limit, err := s.normalizeLimit(in.Limit)
	if err != nil {
		return nil, err
	}

	filter, err := s.filterFor(ctx, in)
	if err != nil {
		return nil, err
	}

	after := s.decodeCursor(ctx, in.Cursor)

	posts, err := s.posts.FetchPostsPage(ctx, filter, after, limit+1)
	if err != nil {
		s.logFailure(ctx, "fetch feed page", in.View, err)
		return nil, err
	}

	page = &models.FeedPage{Items: []*models.DisplayPost{}}
	if len(posts) > limit {
		posts = posts[:limit]
		page.NextCursor = s.codec.Encode(cursor.KeyOf(posts[len(posts)-1]))
	}

	items, err := s.resolver.ResolveAll(ctx, posts)
	if err != nil {
		s.logFailure(ctx, "resolve reposts", in.View, err)
		return nil, err
	}
	if err := s.annotator.annotate(ctx, in.ViewerID, items); err != nil {
		s.logFailure(ctx, "annotate feed", in.View, err)
		return nil, err
	}
	page.Items = items
	return page, nil
}

// GetAuthorFeed is the author view addressed by username.
func (s *FeedService) GetAuthorFeed(ctx context.Context, username string, viewerID uint, cursorToken string, limit int) (*models.FeedPage, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.GetFeed(ctx, FeedInput{
		View:     models.FeedViewAuthor,
		ViewerID: viewerID,
		AuthorID: author.ID,
		Cursor:   cursorToken,
		Limit:    limit,
	})
}

func (s *FeedService) normalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return s.defaultLimit, nil
	}
	if limit < 1 || limit > MaxFeedLimit {
		return 0, models.NewValidationError("limit must be between 1 and 100")
	}
	return limit, nil
}

func (s *FeedService) filterFor(ctx context.Context, in FeedInput) (repository.PostFilter, error) {
	switch in.View {
	case models.FeedViewPublic:
		return repository.PostFilter{}, nil
	case models.FeedViewFollowing:
		if in.ViewerID == 0 {
			return repository.PostFilter{}, models.NewUnauthorizedError("sign in to see your following feed")
		}
		followees, err := s.follows.FetchFollowSet(ctx, in.ViewerID)
		if err != nil {
			return repository.PostFilter{}, err
		}
		authors := make([]uint, 0, len(followees)+1)
		authors = append(authors, in.ViewerID)
		for _, id := range followees {
			if id != in.ViewerID {
				authors = append(authors, id)
			}
		}
		return repository.PostFilter{AuthorIDs: authors}, nil
	case models.FeedViewAuthor:
		if in.AuthorID == 0 {
			return repository.PostFilter{}, models.NewNotFoundError("User", in.AuthorID)
		}
		if _, err := s.users.GetByID(ctx, in.AuthorID); err != nil {
			return repository.PostFilter{}, err
		}
		return repository.PostFilter{AuthorIDs: []uint{in.AuthorID}}, nil
	default:
		return repository.PostFilter{}, models.NewValidationError("unknown feed view")
	}
}

func (s *FeedService) decodeCursor(ctx context.Context, token string) *cursor.Key {
	if token == "" {
		return nil
	}
	key, err := s.codec.Decode(token)
	if err != nil {
		observability.InvalidCursorRecoveries.Inc()
		middleware.Logger.DebugContext(ctx, "Invalid feed cursor, restarting from the top",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &key
}

func (s *FeedService) logFailure(ctx context.Context, step string, view models.FeedView, err error) {
	if models.IsCode(err, models.CodeUnavailable) {
		middleware.Logger.WarnContext(ctx, "Feed storage unavailable",
			slog.String("step", step),
			slog.String("view", string(view)),
			slog.String("error", err.Error()),
		)
	}
}
