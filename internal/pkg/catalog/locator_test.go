package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocator(t *testing.T) {
	const base = "https://raw.example.com"

	tests := []struct {
		source string
		want   string
	}{
		{"https://example.com/skill.md", "https://example.com/skill.md"},
		{"http://example.com/x", "http://example.com/x"},
		{"github:owner/repo", base + "/owner/repo/main/SKILL.md"},
		{"github:owner/repo/skills/pdf", base + "/owner/repo/main/skills/pdf/SKILL.md"},
		{"github:owner/repo@v1.2/skills/pdf/", base + "/owner/repo/v1.2/skills/pdf/SKILL.md"},
		{"github:owner/repo/docs/GUIDE.md", base + "/owner/repo/main/docs/GUIDE.md"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := ResolveLocator(tt.source, base+"/", "main")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLocator_Unsupported(t *testing.T) {
	for _, source := range []string{"", "ftp://x", "github:", "github:owner", "github:/repo", "./local/path"} {
		_, err := ResolveLocator(source, "https://raw.example.com", "main")
		assert.ErrorIs(t, err, ErrUnsupportedLocator, source)
	}
}

func TestStripMetadata(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with block", "---\nname: a\n---\n\nbody\n", "body"},
		{"crlf", "---\r\nname: a\r\n---\r\nbody\r\n", "body"},
		{"no block", "# Title\n\ntext", "# Title\n\ntext"},
		{"unterminated", "---\nname: a\nbody", "---\nname: a\nbody"},
		{"marker later", "intro\n---\nrest", "intro\n---\nrest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMetadata(tt.in))
		})
	}
}
