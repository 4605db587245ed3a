package bootstrap

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"bailanysta/internal/config"
	"bailanysta/internal/featureflags"
	"bailanysta/internal/middleware"
	"bailanysta/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServices_WarnsAboutUnusableFlags(t *testing.T) {
	var buf bytes.Buffer
	middleware.ConfigureLogger("test", slog.LevelInfo, &buf)
	t.Cleanup(func() { middleware.ConfigureLogger("test", slog.LevelInfo, os.Stdout) })

	cfg := &config.Config{
		CursorSecret: "test-cursor-secret",
		FeatureFlags: "live_counts=on,legacy_ui=on",
	}
	services := NewServices(cfg, testutil.NewTestDB(t), nil)

	require.NotNil(t, services.Flags)
	assert.True(t, services.Flags.Enabled(featureflags.LiveCounts, 0))
	assert.Contains(t, buf.String(), "Ignoring FEATURE_FLAGS entry")
	assert.Contains(t, buf.String(), "legacy_ui")
	assert.NotContains(t, buf.String(), "live_counts")
}
