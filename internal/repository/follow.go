package repository

import (
	"context"
	"time"

	"bailanysta/internal/cache"
	"bailanysta/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository manages the directed follow graph.
type FollowRepository interface {
	FetchFollowSet(ctx context.Context, userID uint) ([]uint, error)
	Insert(ctx context.Context, followerID, followeeID uint) (bool, error)
	Delete(ctx context.Context, followerID, followeeID uint) (bool, error)
}

type followRepository struct {
	base
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB, timeout time.Duration) FollowRepository {
	return &followRepository{base: newBase(db, timeout)}
}

// FetchFollowSet returns the ids userID follows.
func (r *followRepository) FetchFollowSet(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := cache.Aside(ctx, cache.FollowSetKey(userID), &ids, cache.FollowSetTTL, func() error {
		return r.exec(ctx, "fetch_follow_set", "follows", func(db *gorm.DB) error {
			return db.Model(&models.Follow{}).
				Where("follower_id = ?", userID).
				Order("followee_id").
				Pluck("followee_id", &ids).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Insert adds an edge. It reports false when the edge already existed.
func (r *followRepository) Insert(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var created bool
	err := r.exec(ctx, "insert_follow", "follows", func(db *gorm.DB) error {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Omit("Follower", "Followee").
			Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID, CreatedAt: utcNow()})
		created = res.RowsAffected == 1
		return res.Error
	})
	if err == nil && created {
		r.invalidate(ctx, followerID, followeeID)
	}
	return created, err
}

// Delete removes an edge. It reports false when there was none.
func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var removed bool
	err := r.exec(ctx, "delete_follow", "follows", func(db *gorm.DB) error {
		res := db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.Follow{})
		removed = res.RowsAffected == 1
		return res.Error
	})
	if err == nil && removed {
		r.invalidate(ctx, followerID, followeeID)
	}
	return removed, err
}

func (r *followRepository) invalidate(ctx context.Context, followerID, followeeID uint) {
	cache.InvalidateFollowSet(ctx, followerID)
	cache.InvalidateUserCounts(ctx, followerID, followeeID)
}
