package subscriber

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgardrinier/a2a-marketplace/internal/eventbus"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
)

func newBus() (*eventbus.CatalogEventBus, *CatalogEventSubscriber) {
	bus := eventbus.NewCatalogEventBus()
	s := NewCatalogEventSubscriber(nil)
	s.Register(bus)
	return bus, s
}

func TestCatalogEventSubscriberRecordsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: lint\ntype: plugin\ndescription: x\n"), 0o644))

	bus, s := newBus()
	PublishFileEvent(context.Background(), bus, catalog.FileEvent{Type: "modify", Path: path})

	problems := s.Problems()
	require.Contains(t, problems, path)
	assert.Contains(t, problems[path], "type")
}

func TestCatalogEventSubscriberClearsFixedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	bus, s := newBus()

	require.NoError(t, os.WriteFile(path, []byte("id: [\n"), 0o644))
	PublishFileEvent(context.Background(), bus, catalog.FileEvent{Type: "create", Path: path})
	assert.Equal(t, []string{path}, s.ProblemPaths())

	require.NoError(t, os.WriteFile(path, []byte("id: lint\ntype: cli\ndescription: lint the code\n"), 0o644))
	PublishFileEvent(context.Background(), bus, catalog.FileEvent{Type: "modify", Path: path})
	assert.Empty(t, s.Problems())
}

func TestCatalogEventSubscriberRemovedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "lint"`), 0o644))

	bus, s := newBus()
	PublishFileEvent(context.Background(), bus, catalog.FileEvent{Type: "create", Path: path})
	require.Len(t, s.Problems(), 1)

	require.NoError(t, os.Remove(path))
	PublishFileEvent(context.Background(), bus, catalog.FileEvent{Type: "delete", Path: path})
	assert.Empty(t, s.Problems())
}

func TestCatalogEventSubscriberIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(notes, []byte("# notes"), 0o644))

	bus, s := newBus()
	PublishFileEvent(context.Background(), bus, catalog.FileEvent{Type: "modify", Path: notes})
	assert.Empty(t, s.Problems())
}
