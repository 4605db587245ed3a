package repository

import (
	"context"
	"testing"
	"time"

	"bailanysta/internal/models"
	"bailanysta/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Lookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, time.Second)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Username, got.Username)

	got, err = repo.GetByUsername(ctx, alice.Username)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_Counts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, time.Second)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	post := testutil.CreatePost(t, db, alice, "one", t0)
	testutil.CreatePost(t, db, alice, "two", t0.Add(time.Second))
	testutil.CreateRepost(t, db, alice, testutil.CreatePost(t, db, bob, "bob's", t0), t0.Add(2*time.Second))
	require.NoError(t, db.Delete(&models.Post{}, post.ID).Error)

	testutil.Follow(t, db, bob, alice)
	testutil.Follow(t, db, carol, alice)
	testutil.Follow(t, db, alice, bob)

	counts, err := repo.Counts(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserCounts{PostsCount: 1, FollowersCount: 2, FollowingCount: 1}, counts)
}

func TestFollowRepository_InsertDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db, time.Second)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	created, err := repo.Insert(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Insert(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repo.Insert(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	set, err := repo.FetchFollowSet(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID, carol.ID}, set)

	removed, err := repo.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	set, err = repo.FetchFollowSet(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, set)
}
