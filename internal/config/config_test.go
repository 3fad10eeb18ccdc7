package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFillol/linkedin-people-scraper/internal/config"
	"github.com/DanielFillol/linkedin-people-scraper/internal/expand"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// chdir isolates the test from any .env file in the package directory.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Search.Pages)
	assert.Equal(t, 50, cfg.Browser.MaxExpandClicks)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "results", cfg.Storage.ResultsRoot)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := chdir(t)
	path := writeFile(t, dir, "config.yml", `
search:
  keyword: Data Scientist
  location: Colombia
  pages: 3
credentials:
  username: me@example.com
browser:
  headless: false
  scroll_pause: 250ms
throttle:
  requests_per_minute: 6
storage:
  backend: redis
  redis_url: redis://localhost:6379/0
selectors:
  expand:
    ready: section.interests
locations:
  Peru: pe
fail_fast: true
`)
	t.Setenv("SEARCH_PAGES", "5")
	t.Setenv("THROTTLE_JITTER", "3s")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Data Scientist", cfg.Search.Keyword)
	assert.Equal(t, 5, cfg.Search.Pages)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.Browser.ScrollPause)
	assert.Equal(t, 10*time.Second, cfg.Browser.ResultTimeout, "unset keys keep defaults")
	assert.InDelta(t, 6.0, cfg.Throttle.RequestsPerMinute, 0)
	assert.Equal(t, 3*time.Second, cfg.Throttle.Jitter)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, map[string]string{"Peru": "pe"}, cfg.Locations)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, "me@example.com", cfg.Credentials.Account())
	require.NoError(t, cfg.ValidateScrape())

	sel := cfg.ExpandSelectors()
	assert.Equal(t, "section.interests", sel.Ready)
	assert.Equal(t, expand.DefaultSelectors().DetailToggle, sel.DetailToggle)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchOptions().ScrollPause)
	assert.Equal(t, 50, cfg.ExpandOptions().MaxDetailClicks)
}

func TestLoadEnvFile(t *testing.T) {
	dir := chdir(t)
	writeFile(t, dir, ".env", "LINKEDIN_USERNAME=dotenv@example.com\nLINKEDIN_PASSWORD=pw\n")
	t.Setenv("LINKEDIN_USERNAME", "")
	t.Setenv("LINKEDIN_PASSWORD", "")
	os.Unsetenv("LINKEDIN_USERNAME")
	os.Unsetenv("LINKEDIN_PASSWORD")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv@example.com", cfg.Credentials.Username)
	assert.Equal(t, "pw", cfg.Credentials.Password)
}

func TestLoadErrors(t *testing.T) {
	dir := chdir(t)

	_, err := config.Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yml", "search: [not, a, map]")
	_, err = config.Load(bad)
	assert.Error(t, err)

	t.Setenv("SEARCH_PAGES", "many")
	_, err = config.Load("")
	assert.ErrorContains(t, err, "SEARCH_PAGES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*config.Config)
		field string
	}{
		{"pages", func(c *config.Config) { c.Search.Pages = 0 }, "search.pages"},
		{"backend", func(c *config.Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"redis url", func(c *config.Config) { c.Storage.Backend = "redis" }, "storage.redis_url"},
		{"log level", func(c *config.Config) { c.Log.Level = "loud" }, "log.level"},
		{"jitter", func(c *config.Config) { c.Throttle.Jitter = -time.Second }, "throttle.jitter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mut(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	cfg := config.Default()
	err := cfg.ValidateScrape()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.keyword")
	assert.Contains(t, err.Error(), "credentials.username")
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/linkedin-scraper.yml")
	assert.Equal(t, "flag.yml", config.Path("flag.yml"))
	assert.Equal(t, "/etc/linkedin-scraper.yml", config.Path(""))
}
