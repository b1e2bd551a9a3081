package profile

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Detector 工作区探测器
// 进程内只缓存最近一次的快照，不区分工作区：TTL 内对不同工作区的调用会拿到上一次的结果
type Detector struct {
	cfg Config

	mu       sync.Mutex
	cached   *Profile
	cachedAt int64 // UnixNano

	probeRuns atomic.Int64
}

// NewDetector 创建探测器
func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.MaxEntriesPerDir <= 0 {
		cfg.MaxEntriesPerDir = def.MaxEntriesPerDir
	}
	return &Detector{cfg: cfg}
}

// Detect 生成工作区指纹，永不失败
// 返回的 Profile 在缓存期内被多次共享，调用方不得修改
func (d *Detector) Detect(workspace string) *Profile {
	now := Now().UnixNano()

	d.mu.Lock()
	if d.cached != nil && now-d.cachedAt < int64(d.cfg.CacheTTL) {
		p := d.cached
		d.mu.Unlock()
		return p
	}
	d.mu.Unlock()

	p := d.probe(workspace)

	d.mu.Lock()
	d.cached = p
	d.cachedAt = now
	d.mu.Unlock()

	return p
}

// probe 并发执行四个互不依赖的探测，全部完成后才组装 Profile
func (d *Detector) probe(workspace string) *Profile {
	d.probeRuns.Add(1)

	root := workspace
	if abs, err := filepath.Abs(workspace); err == nil {
		root = abs
	}

	var (
		deps           map[string]struct{}
		configs        map[string]struct{}
		exts           map[string]struct{}
		packageManager string
	)

	var g errgroup.Group
	g.Go(func() error {
		deps = probeManifests(root)
		return nil
	})
	g.Go(func() error {
		configs = probeConfigFiles(root)
		return nil
	})
	g.Go(func() error {
		exts = probeExtensions(root, d.cfg.MaxEntriesPerDir)
		return nil
	})
	g.Go(func() error {
		packageManager = probePackageManager(root)
		return nil
	})
	_ = g.Wait()

	p := &Profile{
		Root:           root,
		Languages:      inferLanguages(configs, exts),
		Framework:      inferFramework(deps),
		Dependencies:   sortedKeys(deps),
		ConfigFiles:    sortedKeys(configs),
		PackageManager: packageManager,
		FileExtensions: sortedKeys(exts),
	}

	klog.V(6).Infof("[profile] 探测完成: root=%s, languages=%v, framework=%q, deps=%d, configs=%d",
		p.Root, p.Languages, p.Framework, len(p.Dependencies), len(p.ConfigFiles))

	return p
}

// Reset 清空缓存，仅用于测试
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cached = nil
	d.cachedAt = 0
}

// ProbeRuns 返回实际探测磁盘的次数
func (d *Detector) ProbeRuns() int64 {
	return d.probeRuns.Load()
}
