package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bailanysta/internal/cursor"
	"bailanysta/internal/featureflags"
	"bailanysta/internal/models"
	"bailanysta/internal/notifications"
	"bailanysta/internal/repository"
	"bailanysta/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// eventRecorder collects published feed events.
type eventRecorder struct {
	mu     sync.Mutex
	events []notifications.FeedEvent
	err    error
}

func (r *eventRecorder) PublishFeedEvent(_ context.Context, ev notifications.FeedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *eventRecorder) types() []notifications.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notifications.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

// env wires every service against one in-memory database.
type env struct {
	db         *gorm.DB
	codec      *cursor.Codec
	events     *eventRecorder
	feed       *FeedService
	search     *SearchService
	engagement *EngagementService
	posts      *PostService
	users      *UserService
}

func newEnv(t *testing.T, flags string) *env {
	t.Helper()
	db := testutil.NewTestDB(t)

	postRepo := repository.NewPostRepository(db, time.Second)
	engagementRepo := repository.NewEngagementRepository(db, time.Second)
	followRepo := repository.NewFollowRepository(db, time.Second)
	userRepo := repository.NewUserRepository(db, time.Second)
	manager := featureflags.NewManager(flags)
	codec := cursor.NewCodec("test-cursor-secret")
	events := &eventRecorder{}

	return &env{
		db:         db,
		codec:      codec,
		events:     events,
		feed:       NewFeedService(postRepo, engagementRepo, followRepo, userRepo, codec, manager, 20),
		search:     NewSearchService(postRepo, engagementRepo, manager, 0),
		engagement: NewEngagementService(postRepo, engagementRepo, events),
		posts:      NewPostService(postRepo, userRepo, engagementRepo, manager, events),
		users:      NewUserService(userRepo, followRepo),
	}
}

func itemIDs(items []*models.DisplayPost) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func findItem(t *testing.T, items []*models.DisplayPost, id uint) *models.DisplayPost {
	t.Helper()
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	require.Failf(t, "item not found", "post %d not in page", id)
	return nil
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
