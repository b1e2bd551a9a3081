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
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, "sqlite", c.Database.Type)
	assert.Equal(t, 24*time.Hour, c.Catalog.CacheTTL)
	assert.Equal(t, ".a2a/catalog", c.Catalog.ProjectDir)
	assert.Equal(t, 60*time.Second, c.Profile.CacheTTL)
	assert.Equal(t, 5, c.Matcher.MaxResults)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
catalog:
  bundled_dir: /srv/catalog
  cache_ttl: 2h
  watch: false
profile:
  max_entries_per_dir: 50
`), 0o644))

	t.Setenv("DB_DSN", "/tmp/x.db")
	t.Setenv("SKILL_RAW_BASE_URL", "http://mirror.local")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Server.Port)
	assert.Equal(t, "/srv/catalog", c.Catalog.BundledDir)
	assert.Equal(t, 2*time.Hour, c.Catalog.CacheTTL)
	assert.False(t, c.Catalog.Watch)
	assert.Equal(t, 50, c.Profile.MaxEntriesPerDir)
	assert.Equal(t, 60*time.Second, c.Profile.CacheTTL, "unset keys keep defaults")
	assert.Equal(t, "/tmp/x.db", c.Database.DSN)
	assert.Equal(t, "http://mirror.local", c.Catalog.RawBaseURL)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Default()
	c.Server.Port = "7000"
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", loaded.Server.Port)
}
