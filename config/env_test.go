package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesLayering(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"7000","db_driver":"postgres","queue_workers":4}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=7100\nJWT_SECRET=\"from-dotenv\"\n# comment\n"), 0o644))
	t.Setenv("JWT_TTL", "2h")

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.env")) })

	assert.Equal(t, "7100", get("APP_PORT", ""), ".env overrides app.json")
	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "4", get("QUEUE_WORKERS", ""))
	assert.Equal(t, "from-dotenv", get("JWT_SECRET", ""))
	assert.Equal(t, "2h", get("JWT_TTL", ""), "process env wins")
}

func TestLoadFromFilesMissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env")))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}

func TestLoadFromFilesBadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{not json`), 0o644))

	assert.Error(t, loadFromFiles(jsonPath, filepath.Join(dir, ".env")))
}

func TestJWTTTLFallback(t *testing.T) {
	_ = Load()

	mu.Lock()
	prev := values["JWT_TTL"]
	values["JWT_TTL"] = "forever"
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		values["JWT_TTL"] = prev
		mu.Unlock()
	})

	assert.Equal(t, 7*24*time.Hour, JWTTTL())
}
