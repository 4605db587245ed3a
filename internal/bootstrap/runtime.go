// Package bootstrap wires the process-wide runtime: database, cache and the
// service graph shared by the HTTP server and the operator CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"bailanysta/internal/cache"
	"bailanysta/internal/config"
	"bailanysta/internal/cursor"
	"bailanysta/internal/database"
	"bailanysta/internal/featureflags"
	"bailanysta/internal/middleware"
	"bailanysta/internal/notifications"
	"bailanysta/internal/repository"
	"bailanysta/internal/seed"
	"bailanysta/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty database with demo data.
	SeedDemo bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := seedIfEmpty(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(db *gorm.DB) error {
	var users int64
	if err := db.Table("users").Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}
	_, err := seed.NewSeeder(db, seed.DefaultOptions()).Seed(context.Background())
	return err
}

// Services is the service graph built over one database and cache.
type Services struct {
	Feed       *service.FeedService
	Search     *service.SearchService
	Engagement *service.EngagementService
	Posts      *service.PostService
	Users      *service.UserService
	Notifier   *notifications.Notifier
	Flags      *featureflags.Manager
}

// NewServices builds repositories and services from cfg. Snapshot reads use
// the replica registered by database.Connect when one is configured.
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Services {
	timeout := cfg.StorageTimeout()
	postRepo := repository.NewPostRepository(db, timeout)
	engagementRepo := repository.NewEngagementRepository(db, timeout)
	followRepo := repository.NewFollowRepository(db, timeout)
	userRepo := repository.NewUserRepository(db, timeout)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	for _, problem := range flags.Problems() {
		middleware.Logger.Warn("Ignoring FEATURE_FLAGS entry", slog.String("problem", problem))
	}
	codec := cursor.NewCodec(cfg.CursorSecret)

	// Publishing is a no-op without redis.
	notifier := notifications.NewNotifier(rdb)

	return &Services{
		Feed:       service.NewFeedService(postRepo, engagementRepo, followRepo, userRepo, codec, flags, cfg.FeedDefaultLimit),
		Search:     service.NewSearchService(postRepo, engagementRepo, flags, cfg.SearchMaxCandidates),
		Engagement: service.NewEngagementService(postRepo, engagementRepo, notifier),
		Posts:      service.NewPostService(postRepo, userRepo, engagementRepo, flags, notifier),
		Users:      service.NewUserService(userRepo, followRepo),
		Notifier:   notifier,
		Flags:      flags,
	}
}
