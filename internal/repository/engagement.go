package repository

import (
	"context"
	"errors"
	"time"

	"bailanysta/internal/cache"
	"bailanysta/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository owns likes and reposts. Every mutation updates the
// relation row and the denormalized count on the post in one transaction,
// holding the post row lock so concurrent mutations on a post serialize.
type EngagementRepository interface {
	FetchLike(ctx context.Context, userID, postID uint) (bool, error)
	InsertLike(ctx context.Context, userID, postID uint) (bool, error)
	DeleteLike(ctx context.Context, userID, postID uint) (bool, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error)
	InsertRepost(ctx context.Context, userID, originalID uint) (*models.Post, bool, error)
	FindRepostByUserAndOriginal(ctx context.Context, userID, originalID uint) (*models.Post, error)
	RepostedOriginalIDs(ctx context.Context, userID uint, originalIDs []uint) ([]uint, error)
	LiveCounts(ctx context.Context, postIDs []uint) (map[uint]models.EngagementCounts, error)
}

type engagementRepository struct {
	base
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB, timeout time.Duration) EngagementRepository {
	return &engagementRepository{base: newBase(db, timeout)}
}

// lockPost takes the row lock on a live post. SQLite has no row locks; its
// single writer gives the same serialization.
func lockPost(tx *gorm.DB, postID uint) (*models.Post, error) {
	var post models.Post
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *engagementRepository) FetchLike(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.exec(ctx, "fetch_like", "likes", func(db *gorm.DB) error {
		return db.Model(&models.Like{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Count(&count).Error
	})
	return count > 0, err
}

// InsertLike records a like. It reports false when the like already existed.
func (r *engagementRepository) InsertLike(ctx context.Context, userID, postID uint) (bool, error) {
	created := false
	err := r.exec(ctx, "insert_like", "likes", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if _, err := lockPost(tx, postID); err != nil {
				return err
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: userID, PostID: postID, CreatedAt: utcNow()})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			created = true
			return tx.Model(&models.Post{}).
				Where("id = ?", postID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
		})
	})
	return created, err
}

// DeleteLike removes a like. It reports false when there was nothing to remove.
func (r *engagementRepository) DeleteLike(ctx context.Context, userID, postID uint) (bool, error) {
	removed := false
	err := r.exec(ctx, "delete_like", "likes", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var post models.Post
			err := tx.Unscoped().Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			removed = true
			return tx.Unscoped().Model(&models.Post{}).
				Where("id = ? AND likes_count > 0", postID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
		})
	})
	return removed, err
}

func (r *engagementRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	if userID == 0 || len(postIDs) == 0 {
		return nil, nil
	}
	var liked []uint
	err := r.snapshot(ctx, "liked_post_ids", "likes", func(db *gorm.DB) error {
		return db.Model(&models.Like{}).
			Where("user_id = ? AND post_id IN ?", userID, postIDs).
			Pluck("post_id", &liked).Error
	})
	return liked, err
}

// InsertRepost creates userID's repost of originalID, or returns the existing one
// with created=false. originalID must name a live, non-repost post.
func (r *engagementRepository) InsertRepost(ctx context.Context, userID, originalID uint) (*models.Post, bool, error) {
	var repost *models.Post
	created := false
	err := r.exec(ctx, "insert_repost", "posts", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			original, err := lockPost(tx, originalID)
			if err != nil {
				return err
			}
			if original.IsRepost() {
				return models.NewValidationError("cannot repost a repost")
			}

			var existing models.Post
			err = tx.Where("author_id = ? AND original_post_id = ?", userID, originalID).First(&existing).Error
			if err == nil {
				repost = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			now := utcNow()
			shell := &models.Post{
				AuthorID:       userID,
				OriginalPostID: &originalID,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.Omit("Author").Create(shell).Error; err != nil {
				return err
			}
			repost = shell
			created = true
			return tx.Model(&models.Post{}).
				Where("id = ?", originalID).
				UpdateColumn("reposts_count", gorm.Expr("reposts_count + 1")).Error
		})
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		cache.InvalidateUserCounts(ctx, userID)
	}
	return repost, created, nil
}

// FindRepostByUserAndOriginal returns userID's repost of originalID, or nil.
func (r *engagementRepository) FindRepostByUserAndOriginal(ctx context.Context, userID, originalID uint) (*models.Post, error) {
	var post models.Post
	found := true
	err := r.exec(ctx, "find_repost", "posts", func(db *gorm.DB) error {
		err := db.Where("author_id = ? AND original_post_id = ?", userID, originalID).First(&post).Error
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

// RepostedOriginalIDs returns the subset of originalIDs userID has reposted.
func (r *engagementRepository) RepostedOriginalIDs(ctx context.Context, userID uint, originalIDs []uint) ([]uint, error) {
	if userID == 0 || len(originalIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.snapshot(ctx, "reposted_original_ids", "posts", func(db *gorm.DB) error {
		return db.Model(&models.Post{}).
			Where("author_id = ? AND original_post_id IN ?", userID, originalIDs).
			Pluck("original_post_id", &ids).Error
	})
	return ids, err
}

type countRow struct {
	PostID uint
	Total  int64
}

// LiveCounts recomputes likes and reposts for postIDs from the relation rows.
func (r *engagementRepository) LiveCounts(ctx context.Context, postIDs []uint) (map[uint]models.EngagementCounts, error) {
	out := make(map[uint]models.EngagementCounts, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var likes, reposts []countRow
	err := r.snapshot(ctx, "live_counts", "likes", func(db *gorm.DB) error {
		if err := db.Model(&models.Like{}).
			Select("post_id, COUNT(*) AS total").
			Where("post_id IN ?", postIDs).
			Group("post_id").
			Scan(&likes).Error; err != nil {
			return err
		}
		return db.Model(&models.Post{}).
			Select("original_post_id AS post_id, COUNT(*) AS total").
			Where("original_post_id IN ?", postIDs).
			Group("original_post_id").
			Scan(&reposts).Error
	})
	if err != nil {
		return nil, err
	}
	for _, id := range postIDs {
		out[id] = models.EngagementCounts{}
	}
	for _, row := range likes {
		c := out[row.PostID]
		c.Likes = row.Total
		out[row.PostID] = c
	}
	for _, row := range reposts {
		c := out[row.PostID]
		c.Reposts = row.Total
		out[row.PostID] = c
	}
	return out, nil
}
