package environment_test

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/portfolio/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NATS_URL=nats://localhost:4222\nLOG_LEVEL=debug\nAWS_REGION=from-file\n"), 0o644))
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("NATS_URL", "")
	os.Unsetenv("NATS_URL")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := environment.ReadEnvConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://localhost:4222", cfg.NatsUrl)
	assert.Equal(t, "us-east-1", cfg.AwsRegion)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestMissingEnvFile(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("LOG_LEVEL", "")

	_, err := environment.ReadEnvConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	t.Chdir(t.TempDir())
	cfg, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, environment.DefaultAwsRegion, cfg.AwsRegion)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}
