package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"bailanysta/internal/models"
	"bailanysta/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	PostsPerUser   int
	FollowsPerUser int
	MaxLikes       int
	// RepostRatio is the share of posts that receive one repost.
	RepostRatio float64
	MaxDays     int
	BatchSize   int
	RandomSeed  int64
	ShouldClean bool
	DryRun      bool
}

// DefaultOptions is a small social graph suitable for local development.
func DefaultOptions() Options {
	return Options{
		NumUsers:       25,
		PostsPerUser:   8,
		FollowsPerUser: 5,
		MaxLikes:       6,
		RepostRatio:    0.15,
		MaxDays:        30,
		BatchSize:      100,
	}
}

// Summary reports what a seeding run created.
type Summary struct {
	Users   int
	Posts   int
	Follows int
	Likes   int
	Reposts int
}

// Seeder populates the database. Follows, likes and reposts go through the
// repositories so the denormalized counters stay consistent.
type Seeder struct {
	db         *gorm.DB
	opts       Options
	factory    *Factory
	follows    repository.FollowRepository
	engagement repository.EngagementRepository
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:         db,
		opts:       opts,
		factory:    NewFactory(db, opts),
		follows:    repository.NewFollowRepository(db, 30*time.Second),
		engagement: repository.NewEngagementRepository(db, 30*time.Second),
	}
}

// Seed populates the database with demo data
func (s *Seeder) Seed(ctx context.Context) (Summary, error) {
	var sum Summary
	log.Printf("🌱 Starting database seeding with %d users...", s.opts.NumUsers)

	if s.opts.ShouldClean && !s.opts.DryRun {
		if err := ClearData(s.db); err != nil {
			return sum, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		users = append(users, s.factory.BuildUser(i+1))
	}
	if err := s.factory.CreateUsersBatch(users); err != nil {
		return sum, fmt.Errorf("failed to create users: %w", err)
	}
	sum.Users = len(users)
	log.Printf("✓ %d users created", sum.Users)

	posts := make([]*models.Post, 0, len(users)*s.opts.PostsPerUser)
	for _, u := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			posts = append(posts, s.factory.BuildPost(u))
		}
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return sum, fmt.Errorf("failed to create posts: %w", err)
	}
	sum.Posts = len(posts)
	log.Printf("✓ %d posts created", sum.Posts)

	if s.opts.DryRun || len(users) < 2 {
		return sum, nil
	}

	faker := s.factory.faker
	for _, u := range users {
		for i := 0; i < s.opts.FollowsPerUser; i++ {
			other := users[faker.Number(0, len(users)-1)]
			if other.ID == u.ID {
				continue
			}
			created, err := s.follows.Insert(ctx, u.ID, other.ID)
			if err != nil {
				return sum, fmt.Errorf("failed to create follow: %w", err)
			}
			if created {
				sum.Follows++
			}
		}
	}
	log.Printf("✓ %d follows created", sum.Follows)

	for _, p := range posts {
		likes := faker.Number(0, s.opts.MaxLikes)
		for i := 0; i < likes; i++ {
			liker := users[faker.Number(0, len(users)-1)]
			created, err := s.engagement.InsertLike(ctx, liker.ID, p.ID)
			if err != nil {
				return sum, fmt.Errorf("failed to create like: %w", err)
			}
			if created {
				sum.Likes++
			}
		}

		if faker.Float64Range(0, 1) >= s.opts.RepostRatio {
			continue
		}
		reposter := users[faker.Number(0, len(users)-1)]
		if reposter.ID == p.AuthorID {
			continue
		}
		if _, created, err := s.engagement.InsertRepost(ctx, reposter.ID, p.ID); err != nil {
			return sum, fmt.Errorf("failed to create repost: %w", err)
		} else if created {
			sum.Reposts++
		}
	}
	log.Printf("✓ %d likes and %d reposts created", sum.Likes, sum.Reposts)

	log.Println("🎉 Database seeding completed successfully!")
	return sum, nil
}

// ClearData removes every row the seeder can create.
func ClearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE likes, follows, posts, users RESTART IDENTITY CASCADE;`).Error
	}
	for _, table := range []string{"likes", "follows", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
