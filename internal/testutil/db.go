// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bailanysta/internal/database"
	"bailanysta/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var userSeq atomic.Uint64

// NewTestDB opens a private in-memory SQLite database with the full schema applied.
// The pool is pinned to one connection so the in-memory database lives as long as the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?" + database.SQLiteOptions), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.ApplySchema(context.Background(), db))
	return db
}

// CreateUser inserts a user with a unique username derived from name.
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	user := &models.User{
		Username:    fmt.Sprintf("%s_%d", name, n),
		DisplayName: name,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts an original post with an explicit creation time.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, text string, createdAt time.Time) *models.Post {
	t.Helper()
	ts := createdAt.UTC().Truncate(time.Microsecond)
	post := &models.Post{
		AuthorID:   author.ID,
		Text:       text,
		SearchText: strings.ToLower(text),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	require.NoError(t, db.Omit("Author").Create(post).Error)
	return post
}

// CreateRepost inserts a repost shell directly, bypassing count maintenance.
func CreateRepost(t *testing.T, db *gorm.DB, author *models.User, original *models.Post, createdAt time.Time) *models.Post {
	t.Helper()
	ts := createdAt.UTC().Truncate(time.Microsecond)
	originalID := original.ID
	post := &models.Post{
		AuthorID:       author.ID,
		OriginalPostID: &originalID,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	require.NoError(t, db.Omit("Author").Create(post).Error)
	return post
}

// Follow inserts a follow edge.
func Follow(t *testing.T, db *gorm.DB, follower, followee *models.User) {
	t.Helper()
	require.NoError(t, db.Omit("Follower", "Followee").Create(&models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
		CreatedAt:  time.Now().UTC(),
	}).Error)
}

// ReloadPost reads a post row including soft-deleted ones.
func ReloadPost(t *testing.T, db *gorm.DB, id uint) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.Unscoped().First(&post, id).Error)
	return &post
}
