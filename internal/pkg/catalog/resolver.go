package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"
)

const (
	// DefaultCacheTTL 远端内容的磁盘缓存有效期
	DefaultCacheTTL = 24 * time.Hour

	// DefaultRawBaseURL github: 定位符使用的原始文件地址
	DefaultRawBaseURL = "https://raw.githubusercontent.com"

	maxFetchBytes = 1 << 20
)

var unsafeCacheChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ResolverConfig 解析器配置
type ResolverConfig struct {
	CacheDir   string
	CacheTTL   time.Duration
	RawBaseURL string
	DefaultRef string
	UserAgent  string
}

// Resolver 远端指令解析器
// 未解析条目按 来源 -> URL -> 拉取 -> 去元数据 -> 写缓存 的顺序补全指令
type Resolver struct {
	cfg     ResolverConfig
	client  Doer
	fetches atomic.Int64
}

// NewResolver 创建解析器
func NewResolver(cfg ResolverConfig, client Doer) *Resolver {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.RawBaseURL == "" {
		cfg.RawBaseURL = DefaultRawBaseURL
	}
	if cfg.DefaultRef == "" {
		cfg.DefaultRef = "main"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "a2a-marketplace-resolver"
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &Resolver{cfg: cfg, client: client}
}

// Fetches 返回实际发起的网络请求次数
func (r *Resolver) Fetches() int64 {
	return r.fetches.Load()
}

// Resolve 补全条目指令
// 任何失败都返回原条目，不向上抛错
func (r *Resolver) Resolve(ctx context.Context, e *Entry) *Entry {
	if e == nil || !e.NeedsResolution() {
		return e
	}

	if content, ok := r.readCache(e.ID); ok {
		klog.V(6).Infof("[catalog.Resolve] 命中缓存: %s", e.ID)
		return resolvedCopy(e, content)
	}

	url, err := ResolveLocator(e.Source, r.cfg.RawBaseURL, r.cfg.DefaultRef)
	if err != nil {
		klog.Warningf("[catalog.Resolve] 无法解析来源 %s: %v", e.ID, err)
		return e
	}

	body, err := r.fetch(ctx, url)
	if err != nil {
		klog.Warningf("[catalog.Resolve] 拉取失败 %s (%s): %v", e.ID, url, err)
		return e
	}

	content := StripMetadata(body)
	if content == "" {
		klog.Warningf("[catalog.Resolve] 远端内容为空: %s (%s)", e.ID, url)
		return e
	}

	if err := r.writeCache(e.ID, content); err != nil {
		klog.Warningf("[catalog.Resolve] 写入缓存失败 %s: %v", e.ID, err)
	}

	klog.V(6).Infof("[catalog.Resolve] 已解析: %s <- %s", e.ID, url)
	return resolvedCopy(e, content)
}

// CachePath 返回条目对应的缓存文件路径
// 文件名为 可读前缀-sha256(id)，替换字符后相同的不同 id 不会共用文件
func (r *Resolver) CachePath(id string) string {
	sum := sha256.Sum256([]byte(id))
	name := unsafeCacheChars.ReplaceAllString(id, "_") + "-" + hex.EncodeToString(sum[:]) + ".md"
	return filepath.Join(r.cfg.CacheDir, name)
}

func (r *Resolver) readCache(id string) (string, bool) {
	if r.cfg.CacheDir == "" {
		return "", false
	}
	path := r.CachePath(id)
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if Now().Sub(info.ModTime()) >= r.cfg.CacheTTL {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// writeCache 先写临时文件再重命名，并发写同一条目只会重复覆盖
func (r *Resolver) writeCache(id, content string) error {
	if r.cfg.CacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(r.cfg.CacheDir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.cfg.CacheDir, ".resolve-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, r.CachePath(id))
}

func (r *Resolver) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	r.fetches.Add(1)
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return string(data), nil
}

func resolvedCopy(e *Entry, content string) *Entry {
	out := e.Clone()
	out.Instructions = content
	out.Resolution = Resolved
	return out
}
