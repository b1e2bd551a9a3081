package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/@-]*$`)

// Parser 条目定义解析器
type Parser struct {
	maxDescriptionLen int
	maxIDLen          int
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{
		maxDescriptionLen: 2048,
		maxIDLen:          128,
	}
}

// SupportedExt 判断文件扩展名是否为支持的定义格式
func SupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

// ParseFile 解析单个定义文件
func (p *Parser) ParseFile(path string) (*Entry, error) {
	path = filepath.Clean(path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry file: %w", err)
	}

	entry, err := p.Parse(content, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	entry.Path = path
	return entry, nil
}

// Parse 按扩展名解析内容并完成规范化与校验
func (p *Parser) Parse(content []byte, ext string) (*Entry, error) {
	entry := &Entry{}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
	case ".json":
		if err := json.Unmarshal(content, entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
	case ".toml":
		if err := toml.Unmarshal(content, entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	p.normalize(entry)

	if err := p.Validate(entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// normalize 填充默认值
// instructions 缺省时复制 description 作为占位，并标记为未解析
func (p *Parser) normalize(entry *Entry) {
	entry.ID = strings.TrimSpace(entry.ID)
	entry.Type = EntryType(strings.ToLower(strings.TrimSpace(string(entry.Type))))
	entry.Description = strings.TrimSpace(entry.Description)
	entry.Source = strings.TrimSpace(entry.Source)

	if strings.TrimSpace(entry.Name) == "" {
		entry.Name = entry.ID
	}

	if strings.TrimSpace(entry.Instructions) == "" {
		entry.Instructions = entry.Description
		entry.Resolution = Unresolved
	} else {
		entry.Resolution = Resolved
	}

	entry.LoadedAt = Now()
}

// Validate 校验条目
func (p *Parser) Validate(entry *Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEntry)
	}
	if len(entry.ID) > p.maxIDLen {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidEntry, p.maxIDLen)
	}
	if !validIDPattern.MatchString(entry.ID) {
		return fmt.Errorf("%w: id %q contains invalid characters", ErrInvalidEntry, entry.ID)
	}

	if !entry.Type.Valid() {
		return fmt.Errorf("%w: type must be one of skill, cli, mcp, agent (got %q)", ErrInvalidEntry, entry.Type)
	}

	if entry.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidEntry)
	}
	if len(entry.Description) > p.maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidEntry, p.maxDescriptionLen)
	}

	return nil
}
