package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "https://dota2.fandom.com/api.php", cfg.Wiki.APIURL)
	assert.Equal(t, "Category:Responses", cfg.Wiki.Category)
	assert.Equal(t, "Responses", cfg.Wiki.TitleMarker)
	assert.Equal(t, 5, cfg.Wiki.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Wiki.RequestTimeout)
	assert.Equal(t, "data/voicelines.json", cfg.Dataset.Path)
	assert.Equal(t, 4, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Postgres.ConnMaxLifetime)
	assert.Equal(t, []string{"mpv", "--no-video", "--really-quiet"}, cfg.Player.PlayerCommand())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
wiki:
  batch_size: 8
  request_timeout: 5s
dataset:
  path: out/lines.json
`), 0o644))

	t.Setenv("VOICELINES_DATASET_PATH", "env/lines.json")
	t.Setenv("VOICELINES_PLAYER_COMMAND", "ffplay -nodisp -autoexit")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8, cfg.Wiki.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Wiki.RequestTimeout)
	assert.Equal(t, "env/lines.json", cfg.Dataset.Path)
	assert.Equal(t, []string{"ffplay", "-nodisp", "-autoexit"}, cfg.Player.PlayerCommand())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wiki:\n  batch_size: 0\n"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
