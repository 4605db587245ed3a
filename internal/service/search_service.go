package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bailanysta/internal/featureflags"
	"bailanysta/internal/models"
	"bailanysta/internal/observability"
	"bailanysta/internal/repository"
	"bailanysta/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// SearchService ranks original posts against a free-text query.
type SearchService struct {
	posts         repository.PostRepository
	resolver      *RepostResolver
	annotator     *annotator
	maxCandidates int
}

type SearchInput struct {
	Query    string
	ViewerID uint
	Offset   int
	Limit    int
}

func NewSearchService(
	posts repository.PostRepository,
	engagement repository.EngagementRepository,
	flags *featureflags.Manager,
	maxCandidates int,
) *SearchService {
	return &SearchService{
		posts:         posts,
		resolver:      NewRepostResolver(posts),
		annotator:     &annotator{engagement: engagement, flags: flags},
		maxCandidates: maxCandidates,
	}
}

// MaxSearchOffset bounds how deep a search can page; every page below it
// is ranked in memory.
const MaxSearchOffset = 10000

type scoredPost struct {
	post  *models.Post
	score int
}

// Search returns posts matching any query term, most distinct terms matched first,
// newest first among equals. A blank query returns the public feed instead.
func (s *SearchService) Search(ctx context.Context, in SearchInput) (items []*models.DisplayPost, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "SearchService.Search",
		attribute.Int("search.offset", in.Offset),
		attribute.Int("search.limit", in.Limit),
	)
	defer func() { observability.EndSpan(span, err) }()

	if in.Limit == 0 {
		in.Limit = defaultFeedLimit
	}
	if in.Limit < 1 || in.Limit > MaxFeedLimit {
		return nil, models.NewValidationError("limit must be between 1 and 100")
	}
	if in.Offset < 0 || in.Offset > MaxSearchOffset {
		return nil, models.NewValidationError(fmt.Sprintf("offset must be between 0 and %d", MaxSearchOffset))
	}

	terms := validation.TokenizeQuery(in.Query)
	var page []*models.Post
	if len(terms) == 0 {
		page, err = s.publicFeed(ctx, in.Offset, in.Limit)
	} else {
		page, err = s.rank(ctx, terms, in.Offset, in.Limit)
	}
	if err != nil {
		return nil, err
	}

	items, err = s.resolver.ResolveAll(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := s.annotator.annotate(ctx, in.ViewerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *SearchService) publicFeed(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	posts, err := s.posts.FetchPostsPage(ctx, repository.PostFilter{}, nil, offset+limit)
	if err != nil {
		return nil, err
	}
	return window(posts, offset, limit), nil
}

func (s *SearchService) rank(ctx context.Context, terms []string, offset, limit int) ([]*models.Post, error) {
	candidates, err := s.posts.SearchCandidates(ctx, terms, s.maxCandidates)
	if err != nil {
		return nil, err
	}

	matches := make([]scoredPost, 0, len(candidates))
	for _, p := range candidates {
		if score := matchScore(p, terms); score > 0 {
			matches = append(matches, scoredPost{post: p, score: score})
		}
	}
	observability.SearchResults.Observe(float64(len(matches)))

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.post.ID > b.post.ID
	})

	ranked := make([]*models.Post, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.post)
	}
	return window(ranked, offset, limit), nil
}

// matchScore counts the distinct terms found in the post text as substrings or as hashtags.
func matchScore(p *models.Post, terms []string) int {
	text := p.SearchText
	if text == "" {
		text = strings.ToLower(p.Text)
	}
	tags := toStringSet(validation.ExtractHashtags(p.Text))

	score := 0
	for _, t := range terms {
		if _, ok := tags[t]; ok || strings.Contains(text, t) {
			score++
		}
	}
	return score
}

func toStringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func window(posts []*models.Post, offset, limit int) []*models.Post {
	if offset >= len(posts) {
		return []*models.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}
