package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseYAML(t *testing.T) {
	p := NewParser()

	entry, err := p.Parse([]byte(`
id: sentry-nextjs
type: skill
description: Wire Sentry into a Next.js app
category: observability
detectRule:
  requiredDependencies: ["@sentry/nextjs"]
contextPatterns: ["sentry.*.config.ts"]
source: github:getsentry/skills/nextjs
signal:
  popularity: 420
`), ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "sentry-nextjs", entry.ID)
	assert.Equal(t, TypeSkill, entry.Type)
	assert.Equal(t, "sentry-nextjs", entry.Name, "name defaults to id")
	assert.Equal(t, "observability", entry.Category)
	assert.Equal(t, "Wire Sentry into a Next.js app", entry.Instructions)
	assert.Equal(t, Unresolved, entry.Resolution)
	require.NotNil(t, entry.DetectRule)
	assert.Equal(t, []string{"@sentry/nextjs"}, entry.DetectRule.RequiredDependencies)
	require.NotNil(t, entry.Signal)
	assert.Equal(t, 420, entry.Signal.Popularity)
	assert.True(t, entry.NeedsResolution())
}

func TestParser_ParseJSON(t *testing.T) {
	p := NewParser()

	entry, err := p.Parse([]byte(`{
		"id": "ripgrep",
		"type": "CLI",
		"name": "ripgrep",
		"description": "Fast recursive search",
		"instructions": "Use rg instead of grep -r."
	}`), ".json")
	require.NoError(t, err)

	assert.Equal(t, TypeCLI, entry.Type)
	assert.Equal(t, Resolved, entry.Resolution)
	assert.True(t, entry.IsUniversal())
	assert.False(t, entry.NeedsResolution())
}

func TestParser_ParseTOML(t *testing.T) {
	p := NewParser()

	entry, err := p.Parse([]byte(`
id = "cargo-clippy"
type = "cli"
description = "Lint Rust code"
contextPatterns = ["**/*.rs"]

[detectRule]
requiredFiles = ["Cargo.toml"]
`), ".toml")
	require.NoError(t, err)

	assert.Equal(t, "cargo-clippy", entry.ID)
	require.NotNil(t, entry.DetectRule)
	assert.Equal(t, []string{"Cargo.toml"}, entry.DetectRule.RequiredFiles)
	assert.Equal(t, []string{"**/*.rs"}, entry.ContextPatterns)
}

func TestParser_Validate(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name    string
		content string
	}{
		{"missing id", "type: skill\ndescription: x\n"},
		{"bad type", "id: a\ntype: plugin\ndescription: x\n"},
		{"missing description", "id: a\ntype: skill\n"},
		{"bad id", "id: \"../etc\"\ntype: skill\ndescription: x\n"},
		{"broken yaml", "id: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse([]byte(tt.content), ".yml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidEntry), "got %v", err)
		})
	}
}

func TestParser_UnsupportedFormat(t *testing.T) {
	_, err := NewParser().Parse([]byte("id: a"), ".md")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParser_ParseFileSetsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: a\ntype: mcp\ndescription: d\n"), 0o644))

	entry, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, entry.Path)
	assert.Equal(t, TypeMCP, entry.Type)
}
