package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit(t *testing.T) {
	t.Run("development bypass", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		allowed, err := CheckRateLimit(context.Background(), nil, "like", "1", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("nil redis in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		allowed, err := CheckRateLimit(context.Background(), nil, "like", "1", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, allowed)
	})

	t.Run("counts against redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer func() { _ = rdb.Close() }()

		ctx := context.Background()
		for i := 0; i < 2; i++ {
			allowed, err := CheckRateLimit(ctx, rdb, "like", "1", 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := CheckRateLimit(ctx, rdb, "like", "1", 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.True(t, mr.TTL("rl:like:1") > 0)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	tests := []struct {
		name     string
		policy   FailPolicy
		statuses []int
	}{
		{
			name:     "fail open uses local limiter",
			policy:   FailOpen,
			statuses: []int{http.StatusOK, http.StatusTooManyRequests},
		},
		{
			name:     "fail closed rejects",
			policy:   FailClosed,
			statuses: []int{http.StatusServiceUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/like", RateLimitWithPolicy(nil, 1, time.Hour, tt.policy, "like"), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			for _, want := range tt.statuses {
				resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/like", nil))
				require.NoError(t, err)
				assert.Equal(t, want, resp.StatusCode)
				_ = resp.Body.Close()
			}
		})
	}
}
