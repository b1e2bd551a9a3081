package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgardrinier/a2a-marketplace/config"
	"github.com/vgardrinier/a2a-marketplace/internal/eventbus"
	"github.com/vgardrinier/a2a-marketplace/internal/model"
	"github.com/vgardrinier/a2a-marketplace/internal/service"
)

func TestNew_WiresEverything(t *testing.T) {
	dir := t.TempDir()
	bundled := filepath.Join(dir, "catalog")
	require.NoError(t, os.MkdirAll(bundled, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bundled, "a.yaml"), []byte("id: a\ntype: cli\ndescription: ripgrep\n"), 0o644))

	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(dir, "data", "app.db")
	cfg.Catalog.BundledDir = bundled
	cfg.Catalog.CacheDir = filepath.Join(dir, "cache")
	cfg.Catalog.Watch = false

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Workers.Create(context.Background(), &model.Worker{ID: "w", Status: model.WorkerStatusActive}))

	resp, err := a.Service.Solve(context.Background(), service.SolveRequest{Task: "search code", Workspace: dir})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "a", resp.Entries[0].ID)
}

func TestNew_MissingBundledDirStillStarts(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(dir, "app.db")
	cfg.Catalog.BundledDir = filepath.Join(dir, "missing")
	cfg.Catalog.Watch = true

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Empty(t, a.Library.Entries(dir))
}

func TestNew_CatalogEventsReportInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	bundled := filepath.Join(dir, "catalog")
	require.NoError(t, os.MkdirAll(bundled, 0o755))
	broken := filepath.Join(bundled, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("id: broken\ntype: plugin\ndescription: x\n"), 0o644))

	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(dir, "app.db")
	cfg.Catalog.BundledDir = bundled
	cfg.Catalog.Watch = false

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	err = a.Events.Publish(context.Background(), eventbus.CatalogEvent{Type: eventbus.CatalogEventEntryChanged, Path: broken})
	require.NoError(t, err)
	problems := a.CatalogProblems.Problems()
	require.Contains(t, problems, broken)
}
