package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/backend/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/tempo.db", cfg.DBPath)
	assert.Empty(t, cfg.MigrationsDir)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL())
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "retire", cfg.ReviewPolicy)
	assert.Equal(t, model.DefaultTimerSettings(), cfg.Timer.Settings())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo.yaml")
	content := `port: "9000"
timezone: Europe/Berlin
review_policy: clamp
timer:
  focus_minutes: 50
  auto_continue: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("TEMPO_PORT", "9090")
	t.Setenv("TEMPO_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TEMPO_TIMER_BREAK_MINUTES", "10")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "clamp", cfg.ReviewPolicy)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)

	settings := cfg.Timer.Settings()
	assert.Equal(t, 50, settings.FocusMinutes)
	assert.Equal(t, 10, settings.BreakMinutes)
	assert.Equal(t, model.DefaultLongBreakMinutes, settings.LongBreakMinutes)
	assert.True(t, settings.AutoContinue)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TEMPO_TIMEZONE", "Mars/Olympus")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
