package catalog

import (
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/profile"
)

// Matches 判断条目是否与工作区画像相关
//
//	无规则            -> 相关
//	命中任一排除文件  -> 不相关
//	无任何必需项      -> 相关
//	否则命中任一必需文件或任一必需依赖即相关
func Matches(e *Entry, p *profile.Profile) bool {
	if e == nil {
		return false
	}
	rule := e.DetectRule
	if rule == nil {
		return true
	}
	if p == nil {
		p = &profile.Profile{}
	}

	for _, f := range rule.ExcludedFiles {
		if p.HasConfigFile(f) {
			return false
		}
	}

	if len(rule.RequiredFiles) == 0 && len(rule.RequiredDependencies) == 0 {
		return true
	}

	for _, f := range rule.RequiredFiles {
		if p.HasConfigFile(f) {
			return true
		}
	}
	for _, d := range rule.RequiredDependencies {
		if p.HasDependency(d) {
			return true
		}
	}
	return false
}

// Filter 保留与画像相关的条目，保持原有顺序
func Filter(entries []*Entry, p *profile.Profile) []*Entry {
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, p) {
			out = append(out, e)
		}
	}
	return out
}
