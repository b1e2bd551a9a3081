package catalog

import (
	"time"
)

// EntryType 条目类型
type EntryType string

const (
	TypeSkill EntryType = "skill"
	TypeCLI   EntryType = "cli"
	TypeMCP   EntryType = "mcp"
	TypeAgent EntryType = "agent"
)

// Valid 检查类型是否合法
func (t EntryType) Valid() bool {
	switch t {
	case TypeSkill, TypeCLI, TypeMCP, TypeAgent:
		return true
	}
	return false
}

// ResolutionState 指令内容的解析状态
type ResolutionState string

const (
	// Unresolved 指令仍是描述的占位副本
	Unresolved ResolutionState = "unresolved"
	// Resolved 指令为真实内容（文件内显式给出或已从远端拉取）
	Resolved ResolutionState = "resolved"
)

// Origin 条目来源
type Origin string

const (
	OriginBundled Origin = "bundled"
	OriginProject Origin = "project"
)

// DetectRule 相关性判定规则
type DetectRule struct {
	RequiredFiles        []string `yaml:"requiredFiles,omitempty" json:"requiredFiles,omitempty" toml:"requiredFiles"`
	RequiredDependencies []string `yaml:"requiredDependencies,omitempty" json:"requiredDependencies,omitempty" toml:"requiredDependencies"`
	ExcludedFiles        []string `yaml:"excludedFiles,omitempty" json:"excludedFiles,omitempty" toml:"excludedFiles"`
}

// QualitySignal 质量信号
type QualitySignal struct {
	Popularity int    `yaml:"popularity,omitempty" json:"popularity,omitempty" toml:"popularity"`
	Verified   bool   `yaml:"verified,omitempty" json:"verified,omitempty" toml:"verified"`
	Label      string `yaml:"label,omitempty" json:"label,omitempty" toml:"label"`
}

// Entry 目录条目定义
type Entry struct {
	// 定义文件中的字段
	ID              string         `yaml:"id" json:"id" toml:"id"`
	Type            EntryType      `yaml:"type" json:"type" toml:"type"`
	Name            string         `yaml:"name" json:"name" toml:"name"`
	Description     string         `yaml:"description" json:"description" toml:"description"`
	Category        string         `yaml:"category,omitempty" json:"category,omitempty" toml:"category"`
	Instructions    string         `yaml:"instructions,omitempty" json:"instructions,omitempty" toml:"instructions"`
	DetectRule      *DetectRule    `yaml:"detectRule,omitempty" json:"detectRule,omitempty" toml:"detectRule"`
	ContextPatterns []string       `yaml:"contextPatterns,omitempty" json:"contextPatterns,omitempty" toml:"contextPatterns"`
	Source          string         `yaml:"source,omitempty" json:"source,omitempty" toml:"source"`
	Signal          *QualitySignal `yaml:"signal,omitempty" json:"signal,omitempty" toml:"signal"`

	// 加载时填充
	Resolution ResolutionState `yaml:"-" json:"resolution" toml:"-"`
	Origin     Origin          `yaml:"-" json:"origin" toml:"-"`
	Path       string          `yaml:"-" json:"path" toml:"-"`
	LoadedAt   time.Time       `yaml:"-" json:"loaded_at" toml:"-"`
}

// IsUniversal 没有判定规则的条目对任何工作区都相关
func (e *Entry) IsUniversal() bool {
	return e.DetectRule == nil
}

// NeedsResolution 有远端来源且指令仍为占位内容
func (e *Entry) NeedsResolution() bool {
	return e.Source != "" && e.Resolution != Resolved
}

// Clone 浅拷贝，解析时只改写 Instructions 与 Resolution
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// LoadResult 单个文件的加载结果
type LoadResult struct {
	Entry *Entry
	Path  string
	Error error
}

// Now 返回当前时间（用于测试）
var Now = func() time.Time {
	return time.Now()
}
