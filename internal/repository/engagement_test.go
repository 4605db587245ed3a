package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"bailanysta/internal/models"
	"bailanysta/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRepository_LikeLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db, time.Second)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice, "hello", t0)

	steps := []struct {
		name      string
		do        func() (bool, error)
		wantFlag  bool
		wantLiked bool
		wantCount int64
	}{
		{"like", func() (bool, error) { return repo.InsertLike(ctx, bob.ID, post.ID) }, true, true, 1},
		{"like again", func() (bool, error) { return repo.InsertLike(ctx, bob.ID, post.ID) }, false, true, 1},
		{"unlike", func() (bool, error) { return repo.DeleteLike(ctx, bob.ID, post.ID) }, true, false, 0},
		{"unlike again", func() (bool, error) { return repo.DeleteLike(ctx, bob.ID, post.ID) }, false, false, 0},
		{"like after unlike", func() (bool, error) { return repo.InsertLike(ctx, bob.ID, post.ID) }, true, true, 1},
	}

	for _, step := range steps {
		changed, err := step.do()
		require.NoError(t, err, step.name)
		assert.Equal(t, step.wantFlag, changed, step.name)

		liked, err := repo.FetchLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, step.wantLiked, liked, step.name)
		assert.Equal(t, step.wantCount, testutil.ReloadPost(t, db, post.ID).LikesCount, step.name)
	}
}

func TestEngagementRepository_InsertLike_MissingPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db, time.Second)

	alice := testutil.CreateUser(t, db, "alice")
	_, err := repo.InsertLike(context.Background(), alice.ID, 404)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEngagementRepository_DeleteLike_NeverNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db, time.Second)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice, "hello", t0)
	// A like row whose count was never incremented.
	require.NoError(t, db.Create(&models.Like{UserID: alice.ID, PostID: post.ID, CreatedAt: t0}).Error)

	removed, err := repo.DeleteLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, int64(0), testutil.ReloadPost(t, db, post.ID).LikesCount)
}

func TestEngagementRepository_ConcurrentLikes(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db, 5*time.Second)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author, "popular", t0)

	const n = 20
	users := make([]*models.User, n)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, "fan")
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(2)
		go func(id uint) {
			defer wg.Done()
			_, err := repo.InsertLike(ctx, id, post.ID)
			assert.NoError(t, err)
		}(u.ID)
		// Duplicate click from the same user.
		go func(id uint) {
			defer wg.Done()
			_, err := repo.InsertLike(ctx, id, post.ID)
			assert.NoError(t, err)
		}(u.ID)
	}
	wg.Wait()

	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	assert.Equal(t, int64(n), likes)
	assert.Equal(t, int64(n), testutil.ReloadPost(t, db, post.ID).LikesCount)
}

func TestEngagementRepository_Repost(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db, time.Second)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	original := testutil.CreatePost(t, db, alice, "original", t0)

	first, created, err := repo.InsertRepost(ctx, bob.ID, original.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.OriginalPostID)
	assert.Equal(t, original.ID, *first.OriginalPostID)
	assert.Empty(t, first.Text)

	second, created, err := repo.InsertRepost(ctx, bob.ID, original.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), testutil.ReloadPost(t, db, original.ID).RepostsCount)

	found, err := repo.FindRepostByUserAndOriginal(ctx, bob.ID, original.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	none, err := repo.FindRepostByUserAndOriginal(ctx, alice.ID, original.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, _, err = repo.InsertRepost(ctx, alice.ID, first.ID)
	assert.True(t, models.IsCode(err, models.CodeValidation))

	require.NoError(t, db.Delete(&models.Post{}, original.ID).Error)
	_, _, err = repo.InsertRepost(ctx, alice.ID, original.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestEngagementRepository_ViewerSets(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db, time.Second)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	a := testutil.CreatePost(t, db, alice, "a", t0)
	b := testutil.CreatePost(t, db, alice, "b", t0.Add(time.Second))

	_, err := repo.InsertLike(ctx, bob.ID, a.ID)
	require.NoError(t, err)
	_, _, err = repo.InsertRepost(ctx, bob.ID, b.ID)
	require.NoError(t, err)

	liked, err := repo.LikedPostIDs(ctx, bob.ID, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID}, liked)

	reposted, err := repo.RepostedOriginalIDs(ctx, bob.ID, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{b.ID}, reposted)

	liked, err = repo.LikedPostIDs(ctx, 0, []uint{a.ID})
	require.NoError(t, err)
	assert.Empty(t, liked)

	counts, err := repo.LiveCounts(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, models.EngagementCounts{Likes: 1}, counts[a.ID])
	assert.Equal(t, models.EngagementCounts{Reposts: 1}, counts[b.ID])
}
