package service

import (
	"context"

	"bailanysta/internal/models"
	"bailanysta/internal/repository"
	"bailanysta/internal/validation"
)

// RepostResolver turns stored posts into display posts. A repost keeps its own
// id, author and created_at and takes text, hashtags and counts from its original.
// Originals are always read fresh so edits show up immediately.
type RepostResolver struct {
	posts repository.PostRepository
}

func NewRepostResolver(posts repository.PostRepository) *RepostResolver {
	return &RepostResolver{posts: posts}
}

// Resolve renders a single post.
func (r *RepostResolver) Resolve(ctx context.Context, post *models.Post) (*models.DisplayPost, error) {
	if !post.IsRepost() {
		return renderOriginal(post), nil
	}
	original, err := r.posts.FetchPostByID(ctx, *post.OriginalPostID)
	if err != nil {
		return nil, err
	}
	return renderRepost(post, original), nil
}

// ResolveAll renders posts in order, fetching every referenced original in one read.
func (r *RepostResolver) ResolveAll(ctx context.Context, posts []*models.Post) ([]*models.DisplayPost, error) {
	var originalIDs []uint
	for _, p := range posts {
		if p.IsRepost() {
			originalIDs = append(originalIDs, *p.OriginalPostID)
		}
	}

	originals := map[uint]*models.Post{}
	if len(originalIDs) > 0 {
		var err error
		originals, err = r.posts.FetchPostsByIDs(ctx, originalIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*models.DisplayPost, 0, len(posts))
	for _, p := range posts {
		if p.IsRepost() {
			out = append(out, renderRepost(p, originals[*p.OriginalPostID]))
			continue
		}
		out = append(out, renderOriginal(p))
	}
	return out, nil
}

func renderOriginal(p *models.Post) *models.DisplayPost {
	return &models.DisplayPost{
		ID:           p.ID,
		Author:       p.Author.Summary(),
		AuthorID:     p.AuthorID,
		Text:         p.Text,
		Hashtags:     hashtagsOf(p.Text),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Edited:       p.Edited,
		LikesCount:   p.LikesCount,
		RepostsCount: p.RepostsCount,
	}
}

// renderRepost builds the display form of a repost. A nil original means it
// was deleted; the repost still holds its feed position but shows no content.
func renderRepost(repost, original *models.Post) *models.DisplayPost {
	originalID := *repost.OriginalPostID
	d := &models.DisplayPost{
		ID:             repost.ID,
		Author:         repost.Author.Summary(),
		AuthorID:       repost.AuthorID,
		Hashtags:       []string{},
		CreatedAt:      repost.CreatedAt,
		UpdatedAt:      repost.UpdatedAt,
		OriginalPostID: &originalID,
	}
	if original == nil {
		d.Unavailable = true
		return d
	}
	d.Text = original.Text
	d.Hashtags = hashtagsOf(original.Text)
	d.Edited = original.Edited
	d.OriginalAuthor = original.Author.Summary()
	d.LikesCount = original.LikesCount
	d.RepostsCount = original.RepostsCount
	return d
}

func hashtagsOf(text string) []string {
	tags := validation.ExtractHashtags(text)
	if tags == nil {
		return []string{}
	}
	return tags
}
