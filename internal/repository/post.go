// Package repository provides data access layer implementations for the application.
// It is the only layer that touches persistent state.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"bailanysta/internal/cache"
	"bailanysta/internal/cursor"
	"bailanysta/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a feed page.
type PostFilter struct {
	// AuthorIDs restricts the page to these authors. Nil means every author.
	AuthorIDs []uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	FetchPostsPage(ctx context.Context, filter PostFilter, after *cursor.Key, limit int) ([]*models.Post, error)
	FetchPostByID(ctx context.Context, id uint) (*models.Post, error)
	FetchPostsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Post, error)
	SearchCandidates(ctx context.Context, terms []string, limit int) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	UpdateText(ctx context.Context, post *models.Post, text string) error
	Delete(ctx context.Context, post *models.Post) error
}

// postRepository implements PostRepository
type postRepository struct {
	base
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB, timeout time.Duration) PostRepository {
	return &postRepository{base: newBase(db, timeout)}
}

// FetchPostsPage returns up to limit posts strictly after the given key in
// (created_at DESC, id DESC) order.
func (r *postRepository) FetchPostsPage(ctx context.Context, filter PostFilter, after *cursor.Key, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.snapshot(ctx, "fetch_posts_page", "posts", func(db *gorm.DB) error {
		q := db.Preload("Author")
		if filter.AuthorIDs != nil {
			if len(filter.AuthorIDs) == 0 {
				return nil
			}
			q = q.Where("author_id IN ?", filter.AuthorIDs)
		}
		if after != nil {
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", after.CreatedAt, after.CreatedAt, after.ID)
		}
		return q.Order("created_at DESC").
			Order("id DESC").
			Limit(limit).
			Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// FetchPostByID returns the post, or nil when it does not exist or was deleted.
func (r *postRepository) FetchPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	found := true
	err := r.exec(ctx, "fetch_post", "posts", func(db *gorm.DB) error {
		err := db.Preload("Author").First(&post, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		return err
	})
	if err != nil || !found {
		return nil, err
	}
	return &post, nil
}

// FetchPostsByIDs returns the live posts among ids keyed by id. Missing or
// deleted posts are absent from the map.
func (r *postRepository) FetchPostsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Post, error) {
	out := make(map[uint]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var posts []*models.Post
	err := r.exec(ctx, "fetch_posts_by_ids", "posts", func(db *gorm.DB) error {
		return db.Preload("Author").Where("id IN ?", ids).Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

// SearchCandidates returns original posts whose text contains at least one of
// terms, newest first. Terms must already be lowercased. limit <= 0 means no cap.
func (r *postRepository) SearchCandidates(ctx context.Context, terms []string, limit int) ([]*models.Post, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := r.snapshot(ctx, "search_candidates", "posts", func(db *gorm.DB) error {
		conds := make([]string, 0, len(terms))
		args := make([]interface{}, 0, len(terms))
		for _, t := range terms {
			conds = append(conds, "search_text LIKE ?")
			args = append(args, "%"+t+"%")
		}
		q := db.Preload("Author").
			Where("original_post_id IS NULL").
			Where("("+strings.Join(conds, " OR ")+")", args...).
			Order("created_at DESC").
			Order("id DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	now := utcNow()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.SearchText = strings.ToLower(post.Text)

	err := r.exec(ctx, "create_post", "posts", func(db *gorm.DB) error {
		return db.Omit("Author").Create(post).Error
	})
	if err == nil {
		cache.InvalidateUserCounts(ctx, post.AuthorID)
	}
	return err
}

// UpdateText replaces the text of an original post and marks it edited.
func (r *postRepository) UpdateText(ctx context.Context, post *models.Post, text string) error {
	now := utcNow()
	err := r.exec(ctx, "update_post", "posts", func(db *gorm.DB) error {
		return db.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"text":        text,
				"search_text": strings.ToLower(text),
				"edited":      true,
				"updated_at":  now,
			}).Error
	})
	if err != nil {
		return err
	}
	post.Text = text
	post.SearchText = strings.ToLower(text)
	post.Edited = true
	post.UpdatedAt = now
	return nil
}

// Delete soft-deletes an original so reposts keep their reference, and hard-deletes
// a repost shell while decrementing its original's reposts_count in the same transaction.
func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	err := r.exec(ctx, "delete_post", "posts", func(db *gorm.DB) error {
		if !post.IsRepost() {
			return db.Delete(&models.Post{}, post.ID).Error
		}
		return db.Transaction(func(tx *gorm.DB) error {
			res := tx.Unscoped().Delete(&models.Post{}, post.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			return tx.Unscoped().Model(&models.Post{}).
				Where("id = ? AND reposts_count > 0", *post.OriginalPostID).
				UpdateColumn("reposts_count", gorm.Expr("reposts_count - 1")).Error
		})
	})
	if err == nil {
		cache.InvalidateUserCounts(ctx, post.AuthorID)
	}
	return err
}
