package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/masterdex/card-search-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "application.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "https://api.pokemontcg.io/v2", cfg.Upstream.BaseURL)
	assert.Equal(t, "file-key", cfg.Upstream.APIKey)
	assert.Equal(t, 50, cfg.Upstream.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Client.Timeout)
	assert.Equal(t, 2, cfg.Upstream.Client.Retries)
	assert.Equal(t, 2*time.Second, cfg.Upstream.Client.RetryDelay)
	assert.Equal(t, []int{429, 503}, cfg.Upstream.Client.Retrieables)
	assert.Equal(t, ":9090", cfg.Proxy.Addr)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "/tmp/card-images", cfg.Storage.Location)
	assert.Equal(t, config.CREATE, cfg.Storage.Mode)
	assert.Equal(t, "debug", cfg.Logging.LevelOrDefault())
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "env-key")

	cfg, err := config.Load(filepath.Join("testdata", "application.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Upstream.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join("testdata", "doesNotExist.yaml"))

	require.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	_, err := config.Load("testdata")

	require.Error(t, err)
}

func TestPageSizeOrDefault(t *testing.T) {
	assert.Equal(t, 20, config.Upstream{}.PageSizeOrDefault())
	assert.Equal(t, 50, config.Upstream{PageSize: 50}.PageSizeOrDefault())
}

func TestLevelOrDefault(t *testing.T) {
	assert.Equal(t, "info", config.Logging{}.LevelOrDefault())
	assert.Equal(t, "warn", config.Logging{Level: " WARN "}.LevelOrDefault())
}

func TestCacheDefaults(t *testing.T) {
	cfg := config.Cache{}

	assert.False(t, cfg.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.TTLOrDefault())
}

func TestEnsureBaseURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "url with http schema",
			url:  "http://localhost/a/b",
			want: "http://localhost/a/b",
		},
		{
			name: "url with schema and query",
			url:  "http://localhost/a/b?param=true",
			want: "http://localhost/a/b?param=true",
		},
		{
			name: "relative url",
			url:  "a/b",
			want: "http://localhost/a/b",
		},
		{
			name: "relative url with query",
			url:  "a/b?param=true",
			want: "http://localhost/a/b?param=true",
		},
		{
			name: "absolute url without schema",
			url:  "/a/b",
			want: "http://localhost/a/b",
		},
		{
			name: "absolute url without schema with query",
			url:  "/a/b?param=true",
			want: "http://localhost/a/b?param=true",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Upstream{BaseURL: "http://localhost"}

			actual, err := cfg.EnsureBaseURL(tc.url)

			require.NoError(t, err)
			assert.Equal(t, tc.want, actual)
		})
	}
}
