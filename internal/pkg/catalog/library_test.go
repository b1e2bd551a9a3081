package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgardrinier/a2a-marketplace/internal/pkg/profile"
)

func writeEntries(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func ids(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestLibrary_TwoPassMerge(t *testing.T) {
	bundled := t.TempDir()
	workspace := t.TempDir()

	writeEntries(t, bundled, map[string]string{
		"commit-style.yaml":   "id: commit-style\ntype: skill\ndescription: bundled commit style\n",
		"obs/sentry.yaml":     "id: sentry-nextjs\ntype: skill\ndescription: Sentry\ndetectRule:\n  requiredDependencies: [\"@sentry/nextjs\"]\n",
		"broken.yaml":         "id: [\n",
		".hidden/secret.yaml": "id: secret\ntype: skill\ndescription: hidden\n",
		"notes/readme.md":     "# not an entry",
	})
	writeEntries(t, workspace, map[string]string{
		".a2a/catalog/commit.json": `{"id":"commit-style","type":"skill","description":"project commit style","instructions":"Use conventional commits."}`,
		".a2a/catalog/local.toml":  "id = \"local-lint\"\ntype = \"cli\"\ndescription = \"project linter\"\n",
	})

	lib := NewLibrary(LibraryConfig{BundledDir: bundled}, nil)
	entries := lib.Entries(workspace)

	assert.Equal(t, []string{"commit-style", "local-lint", "sentry-nextjs"}, ids(entries))

	byID := map[string]*Entry{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.Equal(t, "project commit style", byID["commit-style"].Description)
	assert.Equal(t, OriginProject, byID["commit-style"].Origin)
	assert.Equal(t, Resolved, byID["commit-style"].Resolution)
	assert.Equal(t, OriginBundled, byID["sentry-nextjs"].Origin)
}

func TestLibrary_LoadRelevantEntriesUsesProfileRoot(t *testing.T) {
	bundled := t.TempDir()
	workspace := t.TempDir()

	writeEntries(t, bundled, map[string]string{
		"universal.yaml": "id: commit-style\ntype: skill\ndescription: commits\n",
		"sentry.yaml":    "id: sentry-nextjs\ntype: skill\ndescription: Sentry\ndetectRule:\n  requiredDependencies: [\"@sentry/nextjs\"]\n",
		"django.yaml":    "id: django-admin\ntype: skill\ndescription: Django\ndetectRule:\n  requiredDependencies: [django]\n",
	})
	writeEntries(t, workspace, map[string]string{
		".a2a/catalog/next.yaml": "id: next-routing\ntype: skill\ndescription: App router\ndetectRule:\n  requiredFiles: [next.config.js]\n",
	})

	lib := NewLibrary(LibraryConfig{BundledDir: bundled}, nil)

	p := nextProfile()
	p.Root = workspace
	assert.Equal(t, []string{"commit-style", "next-routing", "sentry-nextjs"}, ids(lib.LoadRelevantEntries(p)))

	empty := &profile.Profile{Root: t.TempDir(), Languages: []string{profile.UnknownLanguage}}
	assert.Equal(t, []string{"commit-style"}, ids(lib.LoadRelevantEntries(empty)))
}

func TestLibrary_MissingDirectories(t *testing.T) {
	lib := NewLibrary(LibraryConfig{BundledDir: filepath.Join(t.TempDir(), "nope")}, nil)
	assert.Empty(t, lib.Entries(filepath.Join(t.TempDir(), "also-nope")))
	assert.Empty(t, lib.LoadRelevantEntries(nil))
}

func TestLibrary_ReturnsCopies(t *testing.T) {
	bundled := t.TempDir()
	writeEntries(t, bundled, map[string]string{
		"a.yaml": "id: a\ntype: skill\ndescription: original\n",
	})

	lib := NewLibrary(LibraryConfig{BundledDir: bundled}, nil)
	first := lib.Entries("")
	first[0].Instructions = "mutated"

	second := lib.Entries("")
	assert.Equal(t, "original", second[0].Instructions)
}

func TestLibrary_InvalidateReloadsBundled(t *testing.T) {
	bundled := t.TempDir()
	writeEntries(t, bundled, map[string]string{
		"a.yaml": "id: a\ntype: skill\ndescription: a\n",
	})

	lib := NewLibrary(LibraryConfig{BundledDir: bundled}, nil)
	assert.Len(t, lib.Entries(""), 1)

	writeEntries(t, bundled, map[string]string{
		"b.yaml": "id: b\ntype: skill\ndescription: b\n",
	})
	assert.Len(t, lib.Entries(""), 1, "bundled set is cached")

	lib.Invalidate()
	assert.Equal(t, []string{"a", "b"}, ids(lib.Entries("")))
}

func TestLibrary_InvalidateDuringLoadIsNotLost(t *testing.T) {
	bundled := t.TempDir()
	writeEntries(t, bundled, map[string]string{
		"a.yaml": "id: a\ntype: skill\ndescription: a\n",
	})

	lib := NewLibrary(LibraryConfig{BundledDir: bundled}, nil)
	// 读盘完成后、写回缓存前，目录发生变化并被失效
	lib.afterBundledLoad = func() {
		lib.afterBundledLoad = nil
		writeEntries(t, bundled, map[string]string{
			"b.yaml": "id: b\ntype: skill\ndescription: b\n",
		})
		lib.Invalidate()
	}

	assert.Equal(t, []string{"a"}, ids(lib.Entries("")), "in-flight load returns what it read")
	assert.Equal(t, []string{"a", "b"}, ids(lib.Entries("")), "stale result must not be cached")
	assert.Equal(t, []string{"a", "b"}, ids(lib.Entries("")))
}

func TestLibrary_ResolveEntryNotFound(t *testing.T) {
	lib := NewLibrary(LibraryConfig{BundledDir: t.TempDir()}, nil)
	_, err := lib.ResolveEntry(context.Background(), "missing", "")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestLibrary_ResolveEntryWithoutResolver(t *testing.T) {
	bundled := t.TempDir()
	writeEntries(t, bundled, map[string]string{
		"a.yaml": "id: a\ntype: skill\ndescription: a\nsource: github:o/r/a\n",
	})

	lib := NewLibrary(LibraryConfig{BundledDir: bundled}, nil)
	e, err := lib.ResolveEntry(context.Background(), "a", "")
	require.NoError(t, err)
	assert.Equal(t, Unresolved, e.Resolution)
	assert.Equal(t, "a", e.Instructions)
}
