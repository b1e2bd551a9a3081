package profile

import (
	"sort"
	"time"
)

// UnknownLanguage 未识别出任何语言时的占位值
const UnknownLanguage = "Unknown"

// Profile 工作区指纹
// 所有集合字段均为去重后按字典序排列的切片，便于比较和序列化
type Profile struct {
	Root           string   `json:"root" yaml:"root"`
	Languages      []string `json:"languages" yaml:"languages"`
	Framework      string   `json:"framework,omitempty" yaml:"framework,omitempty"` // 空字符串表示未识别
	Dependencies   []string `json:"dependencies" yaml:"dependencies"`
	ConfigFiles    []string `json:"configFiles" yaml:"configFiles"`
	PackageManager string   `json:"packageManager,omitempty" yaml:"packageManager,omitempty"`
	FileExtensions []string `json:"fileExtensions" yaml:"fileExtensions"`
}

// HasConfigFile 判断配置文件是否存在
func (p *Profile) HasConfigFile(name string) bool {
	return containsSorted(p.ConfigFiles, name)
}

// HasDependency 判断依赖是否声明
func (p *Profile) HasDependency(name string) bool {
	return containsSorted(p.Dependencies, name)
}

// HasExtension 判断扩展名是否出现过（含前导点，如 ".ts"）
func (p *Profile) HasExtension(ext string) bool {
	return containsSorted(p.FileExtensions, ext)
}


// Config Detector 配置
type Config struct {
	// CacheTTL 快照有效期，超过后重新探测
	CacheTTL time.Duration
	// MaxEntriesPerDir 扩展名普查时每个目录最多读取的条目数
	MaxEntriesPerDir int
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		CacheTTL:         60 * time.Second,
		MaxEntriesPerDir: 200,
	}
}

// Now 返回当前时间（用于测试）
var Now = func() time.Time {
	return time.Now()
}

func containsSorted(list []string, v string) bool {
	i := sort.SearchStrings(list, v)
	return i < len(list) && list[i] == v
}

// sortedKeys 将集合转为有序切片，空集合返回非 nil 的空切片
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
