package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

// Loader 目录树加载器
type Loader struct {
	parser *Parser
}

// NewLoader 创建加载器
func NewLoader(parser *Parser) *Loader {
	if parser == nil {
		parser = NewParser()
	}
	return &Loader{parser: parser}
}

// LoadFromDir 递归加载目录下所有定义文件
// 目录不存在时返回空结果；单个文件失败记录在结果中，不影响其他文件
func (l *Loader) LoadFromDir(dir string, origin Origin) ([]*LoadResult, error) {
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		klog.V(6).Infof("[catalog.LoadFromDir] 目录不存在: %s", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path is not a directory: %s", dir)
	}

	results := make([]*LoadResult, 0)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			results = append(results, &LoadResult{Path: path, Error: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// 跳过隐藏文件与目录
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !SupportedExt(path) {
			return nil
		}

		entry, err := l.parser.ParseFile(path)
		if err != nil {
			results = append(results, &LoadResult{Path: path, Error: err})
			return nil
		}
		entry.Origin = origin
		results = append(results, &LoadResult{Entry: entry, Path: path})
		return nil
	})
	if err != nil {
		return results, fmt.Errorf("failed to walk catalog directory: %w", err)
	}

	return results, nil
}

// LoadEntries 加载目录并丢弃失败项，失败项记录警告日志
func (l *Loader) LoadEntries(dir string, origin Origin) []*Entry {
	results, err := l.LoadFromDir(dir, origin)
	if err != nil {
		klog.Warningf("[catalog.LoadEntries] 加载目录失败 %s: %v", dir, err)
	}

	entries := make([]*Entry, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			klog.Warningf("[catalog.LoadEntries] 跳过无效条目 %s: %v", r.Path, r.Error)
			continue
		}
		entries = append(entries, r.Entry)
	}
	return entries
}
