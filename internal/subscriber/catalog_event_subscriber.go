package subscriber

import (
	"context"
	"sort"
	"sync"

	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/internal/eventbus"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
)

// CatalogEventSubscriber 校验变化的条目文件，记录无法加载的文件
// 目录库在收到变化时已自行失效，这里只负责把作者的错误及时暴露出来
type CatalogEventSubscriber struct {
	parser *catalog.Parser

	mu       sync.Mutex
	problems map[string]string // 文件路径 -> 错误信息
}

func NewCatalogEventSubscriber(parser *catalog.Parser) *CatalogEventSubscriber {
	if parser == nil {
		parser = catalog.NewParser()
	}
	return &CatalogEventSubscriber{
		parser:   parser,
		problems: make(map[string]string),
	}
}

func (s *CatalogEventSubscriber) Register(bus *eventbus.CatalogEventBus) {
	if bus == nil {
		return
	}
	bus.Subscribe(eventbus.CatalogEventEntryChanged, s.handleEntryChanged)
	bus.Subscribe(eventbus.CatalogEventEntryRemoved, s.handleEntryRemoved)
}

// Problems 返回当前无效文件及其错误的副本
func (s *CatalogEventSubscriber) Problems() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.problems))
	for path, msg := range s.problems {
		out[path] = msg
	}
	return out
}

// ProblemPaths 返回排序后的无效文件路径
func (s *CatalogEventSubscriber) ProblemPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.problems))
	for path := range s.problems {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (s *CatalogEventSubscriber) handleEntryChanged(ctx context.Context, event eventbus.CatalogEvent) error {
	if !catalog.SupportedExt(event.Path) {
		return nil
	}

	entry, err := s.parser.ParseFile(event.Path)
	s.mu.Lock()
	_, hadProblem := s.problems[event.Path]
	if err != nil {
		s.problems[event.Path] = err.Error()
	} else {
		delete(s.problems, event.Path)
	}
	s.mu.Unlock()

	switch {
	case err != nil:
		klog.Warningf("[subscriber.CatalogEvent] 条目文件无效，将被跳过 %s: %v", event.Path, err)
	case hadProblem:
		klog.Infof("[subscriber.CatalogEvent] 条目 %s 已修复: %s", entry.ID, event.Path)
	default:
		klog.V(6).Infof("[subscriber.CatalogEvent] 条目 %s 已更新: %s", entry.ID, event.Path)
	}
	return nil
}

func (s *CatalogEventSubscriber) handleEntryRemoved(ctx context.Context, event eventbus.CatalogEvent) error {
	s.mu.Lock()
	delete(s.problems, event.Path)
	s.mu.Unlock()
	klog.V(6).Infof("[subscriber.CatalogEvent] 条目文件已删除: %s", event.Path)
	return nil
}

// PublishFileEvent 将目录监听事件转为总线事件
func PublishFileEvent(ctx context.Context, bus *eventbus.CatalogEventBus, event catalog.FileEvent) {
	typ := eventbus.CatalogEventEntryChanged
	if event.Type == "delete" {
		typ = eventbus.CatalogEventEntryRemoved
	}
	if err := bus.Publish(ctx, eventbus.CatalogEvent{Type: typ, Path: event.Path}); err != nil {
		klog.Warningf("[subscriber.PublishFileEvent] 处理目录事件失败 %s: %v", event.Path, err)
	}
}
