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
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 5000, cfg.Members.ImportMaxRows)
	assert.Empty(t, cfg.Coordination.URL)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "tourhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
  request_timeout: 3s
db:
  host: db.internal
  name: tours
coordination:
  url: http://planner:8081
members:
  import_max_rows: 200
`), 0o600))

	t.Setenv("DB_NAME", "tours_override")
	t.Setenv("REQUEST_TIMEOUT", "7s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 7*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "tours_override", cfg.DB.Name)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "http://planner:8081", cfg.Coordination.URL)
	assert.Equal(t, 200, cfg.Members.ImportMaxRows)
	assert.Contains(t, cfg.DB.DSN(), "dbname=tours_override")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NATS_URL=nats://bus:4222\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("NATS_URL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "nats://bus:4222", cfg.NATS.URL)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "chatty")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// chdir stands in for testing.T.Chdir (Go 1.24+): it changes the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
