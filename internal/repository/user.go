package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"bailanysta/internal/cache"
	"bailanysta/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Counts(ctx context.Context, id uint) (models.UserCounts, error)
}

type userRepository struct {
	base
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, timeout time.Duration) UserRepository {
	return &userRepository{base: newBase(db, timeout)}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		return r.exec(ctx, "get_user", "users", func(db *gorm.DB) error {
			err := db.First(&user, id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername looks a user up case-insensitively.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.exec(ctx, "get_user_by_username", "users", func(db *gorm.DB) error {
		err := db.Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", username)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.exec(ctx, "create_user", "users", func(db *gorm.DB) error {
		return db.Create(user).Error
	})
}

// Counts derives a user's profile aggregates from the posts and follows tables.
func (r *userRepository) Counts(ctx context.Context, id uint) (models.UserCounts, error) {
	var counts models.UserCounts
	err := cache.Aside(ctx, cache.UserCountsKey(id), &counts, cache.UserCountsTTL, func() error {
		return r.snapshot(ctx, "user_counts", "users", func(db *gorm.DB) error {
			if err := db.Model(&models.Post{}).
				Where("author_id = ? AND original_post_id IS NULL", id).
				Count(&counts.PostsCount).Error; err != nil {
				return err
			}
			if err := db.Model(&models.Follow{}).
				Where("followee_id = ?", id).
				Count(&counts.FollowersCount).Error; err != nil {
				return err
			}
			return db.Model(&models.Follow{}).
				Where("follower_id = ?", id).
				Count(&counts.FollowingCount).Error
		})
	})
	return counts, err
}
