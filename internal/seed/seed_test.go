package seed

import (
	"context"
	"testing"

	"bailanysta/internal/models"
	"bailanysta/internal/testutil"
)

func TestSeed_CountersMatchRelations(t *testing.T) {
	db := testutil.NewTestDB(t)

	opts := DefaultOptions()
	opts.NumUsers = 6
	opts.PostsPerUser = 3
	opts.RepostRatio = 0.5
	opts.RandomSeed = 42

	sum, err := NewSeeder(db, opts).Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if sum.Users != 6 || sum.Posts != 18 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	var likes, shells int64
	if err := db.Model(&models.Like{}).Count(&likes).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if err := db.Model(&models.Post{}).Where("original_post_id IS NOT NULL").Count(&shells).Error; err != nil {
		t.Fatalf("count reposts: %v", err)
	}
	if int(likes) != sum.Likes || int(shells) != sum.Reposts {
		t.Fatalf("summary %+v does not match rows: likes=%d reposts=%d", sum, likes, shells)
	}

	var drift int64
	err = db.Raw(`
		SELECT COUNT(*) FROM posts p
		WHERE p.original_post_id IS NULL AND (
			p.likes_count <> (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) OR
			p.reposts_count <> (SELECT COUNT(*) FROM posts r WHERE r.original_post_id = p.id)
		)`).Scan(&drift).Error
	if err != nil {
		t.Fatalf("drift query: %v", err)
	}
	if drift != 0 {
		t.Fatalf("expected counters to match relations, %d posts drifted", drift)
	}
}

func TestSeed_CleanRemovesPreviousRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	opts := Options{NumUsers: 3, PostsPerUser: 2, RandomSeed: 7}

	if _, err := NewSeeder(db, opts).Seed(context.Background()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	opts.ShouldClean = true
	if _, err := NewSeeder(db, opts).Seed(context.Background()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 3 {
		t.Fatalf("expected 3 users after clean, got %d", users)
	}
}
