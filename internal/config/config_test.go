package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:             "8000",
		Env:              "development",
		JWTSecret:        "secure-secret-at-least-32-chars-long",
		CursorSecret:     "cursor-secret-at-least-32-chars-long",
		DBDriver:         "postgres",
		DBPassword:       "secure-password",
		DBSSLMode:        "require",
		StorageTimeoutMS: 2000,
		FeedDefaultLimit: 20,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(_ *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing cursor secret", func(c *Config) { c.CursorSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite driver", func(c *Config) { c.DBDriver = "sqlite" }, false},
		{"zero storage timeout", func(c *Config) { c.StorageTimeoutMS = 0 }, true},
		{"feed limit too large", func(c *Config) { c.FeedDefaultLimit = 101 }, true},
		{"production default jwt secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production default cursor secret", func(c *Config) {
			c.Env = "production"
			c.CursorSecret = defaultCursorSecret
		}, true},
		{"production weak db password", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = "password"
		}, true},
		{"production sqlite ignores db password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "sqlite"
			c.DBPassword = ""
		}, false},
		{"production strong settings", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_StorageTimeout(t *testing.T) {
	c := validConfig()
	c.StorageTimeoutMS = 1500
	assert.Equal(t, 1500*time.Millisecond, c.StorageTimeout())
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 2000, c.StorageTimeoutMS)
	assert.Equal(t, 20, c.FeedDefaultLimit)
}
