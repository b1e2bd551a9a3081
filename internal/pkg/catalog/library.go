package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/internal/pkg/profile"
)

const resolveConcurrency = 4

// DefaultProjectDir 工作区内项目级目录（相对工作区根）
const DefaultProjectDir = ".a2a/catalog"

// LibraryConfig 目录库配置
type LibraryConfig struct {
	// BundledDir 随程序分发的条目目录
	BundledDir string
	// ProjectDir 项目级目录，相对路径时以工作区根为基准
	ProjectDir string
}

// Library 条目目录库
// 每次加载都重新构建 id -> Entry 表：先内置、后项目，项目条目按 id 覆盖内置条目
type Library struct {
	cfg      LibraryConfig
	loader   *Loader
	resolver *Resolver

	mu         sync.RWMutex
	bundled    []*Entry
	loaded     bool
	generation uint64 // 每次 Invalidate 递增
	watcher    *FileWatcher

	afterBundledLoad func() // 测试钩子，在读盘完成、写回缓存之前调用
}

// NewLibrary 创建目录库，resolver 为 nil 时不做远端解析
func NewLibrary(cfg LibraryConfig, resolver *Resolver) *Library {
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = DefaultProjectDir
	}
	return &Library{
		cfg:      cfg,
		loader:   NewLoader(NewParser()),
		resolver: resolver,
	}
}

// Invalidate 丢弃已解析的内置条目，下次加载时重新读取
func (l *Library) Invalidate() {
	l.mu.Lock()
	l.bundled = nil
	l.loaded = false
	l.generation++
	l.mu.Unlock()
}

// Watch 监听内置目录，变化时失效缓存；notify 非空时在失效后收到事件
func (l *Library) Watch(notify func(FileEvent)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watcher != nil {
		return nil
	}
	w := NewFileWatcher(l.cfg.BundledDir, func(event FileEvent) {
		klog.V(6).Infof("[catalog.Library] 内置目录变化 %s %s", event.Type, event.Path)
		l.Invalidate()
		if notify != nil {
			notify(event)
		}
	})
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to watch bundled catalog: %w", err)
	}
	l.watcher = w
	return nil
}

// Close 停止监听
func (l *Library) Close() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}

func (l *Library) bundledEntries() []*Entry {
	l.mu.RLock()
	if l.loaded {
		entries := l.bundled
		l.mu.RUnlock()
		return entries
	}
	generation := l.generation
	l.mu.RUnlock()

	entries := l.loader.LoadEntries(l.cfg.BundledDir, OriginBundled)
	if l.afterBundledLoad != nil {
		l.afterBundledLoad()
	}

	l.mu.Lock()
	// 读盘期间发生过失效，本次结果可能已过期，只返回不缓存
	stored := l.generation == generation
	if stored {
		l.bundled = entries
		l.loaded = true
	}
	l.mu.Unlock()

	klog.V(6).Infof("[catalog.Library] 已加载内置条目 %d 个 (cached=%v)", len(entries), stored)
	return entries
}

func (l *Library) projectDir(workspace string) string {
	if filepath.IsAbs(l.cfg.ProjectDir) {
		return l.cfg.ProjectDir
	}
	if workspace == "" {
		return ""
	}
	return filepath.Join(workspace, l.cfg.ProjectDir)
}

// Entries 返回合并后的全部条目（按 id 排序的副本）
func (l *Library) Entries(workspace string) []*Entry {
	table := make(map[string]*Entry)

	// 第一遍：内置
	for _, e := range l.bundledEntries() {
		table[e.ID] = e
	}

	// 第二遍：项目，按 id 覆盖
	if dir := l.projectDir(workspace); dir != "" {
		for _, e := range l.loader.LoadEntries(dir, OriginProject) {
			if prev, ok := table[e.ID]; ok && prev.Origin == OriginBundled {
				klog.V(6).Infof("[catalog.Library] 项目条目覆盖内置条目: %s", e.ID)
			}
			table[e.ID] = e
		}
	}

	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, table[id].Clone())
	}
	return out
}

// LoadRelevantEntries 返回与画像相关的条目
// 项目目录取自画像的根路径
func (l *Library) LoadRelevantEntries(p *profile.Profile) []*Entry {
	workspace := ""
	if p != nil {
		workspace = p.Root
	}
	return Filter(l.Entries(workspace), p)
}

// Get 按 id 获取条目
func (l *Library) Get(id, workspace string) (*Entry, error) {
	for _, e := range l.Entries(workspace) {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// ResolveEntry 按 id 获取条目并补全指令
// id 不存在时返回 ErrEntryNotFound；解析失败时返回未解析的条目
func (l *Library) ResolveEntry(ctx context.Context, id, workspace string) (*Entry, error) {
	e, err := l.Get(id, workspace)
	if err != nil {
		return nil, err
	}
	return l.Resolve(ctx, e), nil
}

// Resolve 补全单个条目
func (l *Library) Resolve(ctx context.Context, e *Entry) *Entry {
	if l.resolver == nil {
		return e
	}
	return l.resolver.Resolve(ctx, e)
}

// ResolveAll 补全所有未解析条目，保持顺序
func (l *Library) ResolveAll(ctx context.Context, entries []*Entry) []*Entry {
	out := make([]*Entry, len(entries))
	var g errgroup.Group
	g.SetLimit(resolveConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			out[i] = l.Resolve(ctx, e)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
