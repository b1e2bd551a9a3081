package catalog

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchContext 返回命中条目 contextPatterns 的目标文件
// 不含 / 的模式按文件名匹配，其余按完整路径匹配
func MatchContext(e *Entry, targetFiles []string) []string {
	if e == nil || len(e.ContextPatterns) == 0 || len(targetFiles) == 0 {
		return nil
	}

	var hits []string
	for _, file := range targetFiles {
		name := strings.TrimPrefix(filepath.ToSlash(file), "./")
		for _, pattern := range e.ContextPatterns {
			subject := name
			if !strings.Contains(pattern, "/") {
				subject = path.Base(name)
			}
			ok, err := doublestar.Match(pattern, subject)
			if err != nil || !ok {
				continue
			}
			hits = append(hits, file)
			break
		}
	}
	return hits
}
