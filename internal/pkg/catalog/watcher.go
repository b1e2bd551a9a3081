package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"
)

// FileEvent 文件事件
type FileEvent struct {
	Type string // create, modify, delete
	Path string
}

// FileWatcher 目录树监听器
// fsnotify 不递归，启动时为每个子目录注册，新建目录时补注册
type FileWatcher struct {
	dir      string
	callback func(event FileEvent)

	fsw      *fsnotify.Watcher
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewFileWatcher 创建监听器
func NewFileWatcher(dir string, callback func(event FileEvent)) *FileWatcher {
	return &FileWatcher{
		dir:      filepath.Clean(dir),
		callback: callback,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动监听
func (w *FileWatcher) Start() error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("watch target is not a directory: " + w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	if err := w.addTree(w.dir); err != nil {
		fsw.Close()
		return err
	}

	go w.loop()
	return nil
}

// Stop 停止监听并等待后台协程退出
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		if w.fsw != nil {
			w.fsw.Close()
			<-w.done
		}
	})
}

func (w *FileWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			klog.Warningf("[catalog.FileWatcher] 监听错误: %v", err)
		}
	}
}

func (w *FileWatcher) handle(ev fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}

	var typ string
	switch {
	case ev.Op.Has(fsnotify.Create):
		typ = "create"
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				klog.Warningf("[catalog.FileWatcher] 注册新目录失败 %s: %v", ev.Name, err)
			}
		}
	case ev.Op.Has(fsnotify.Write):
		typ = "modify"
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		typ = "delete"
	default:
		return
	}

	klog.V(6).Infof("[catalog.FileWatcher] %s %s", typ, ev.Name)
	w.callback(FileEvent{Type: typ, Path: ev.Name})
}

func (w *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
