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

	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 30, cfg.Poll.MaxAttempts)
	assert.Equal(t, "@every 30s", cfg.Dashboard.RefreshSpec)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	file := filepath.Join(dir, "nhv.yaml")
	content := []byte(`
api:
  base_url: https://api.example.co.ke/api
  timeout: 10s
poll:
  interval: 2s
store:
  path: /tmp/nhv-test.db
`)
	require.NoError(t, os.WriteFile(file, content, 0o600))
	t.Setenv("NHV_POLL_MAX_ATTEMPTS", "12")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.co.ke/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 12, cfg.Poll.MaxAttempts)
	assert.Equal(t, "/tmp/nhv-test.db", cfg.Store.Path)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		API:   APIConfig{BaseURL: "http://x", Timeout: time.Second},
		Store: StoreConfig{Path: "a.db"},
		Poll:  PollConfig{Interval: time.Second, MaxAttempts: 0},
	}
	assert.Error(t, cfg.Validate())

	cfg.Poll.MaxAttempts = 1
	assert.NoError(t, cfg.Validate())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
