package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLibrary_WatchInvalidatesBundled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	bundled := t.TempDir()
	writeEntries(t, bundled, map[string]string{
		"a.yaml": "id: a\ntype: skill\ndescription: a\n",
	})

	lib := NewLibrary(LibraryConfig{BundledDir: bundled}, nil)
	require.NoError(t, lib.Watch(nil))
	defer lib.Close()

	require.Len(t, lib.Entries(""), 1)

	require.NoError(t, os.WriteFile(filepath.Join(bundled, "b.yaml"), []byte("id: b\ntype: skill\ndescription: b\n"), 0o644))

	assert.Eventually(t, func() bool {
		return len(lib.Entries("")) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFileWatcher_NewSubdirectory(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	events := make(chan FileEvent, 16)
	w := NewFileWatcher(dir, func(ev FileEvent) {
		select {
		case events <- ev:
		default:
		}
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	waitFor(t, events, sub)

	file := filepath.Join(sub, "c.yaml")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte("id: c\n"), 0o644)
		select {
		case ev := <-events:
			return ev.Path == file
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_MissingDir(t *testing.T) {
	w := NewFileWatcher(filepath.Join(t.TempDir(), "missing"), func(FileEvent) {})
	assert.Error(t, w.Start())
	w.Stop()
}

func waitFor(t *testing.T, events <-chan FileEvent, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Path == path {
				return
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
		}
	}
}
