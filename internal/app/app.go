package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/config"
	"github.com/vgardrinier/a2a-marketplace/internal/eventbus"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/database"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/profile"
	"github.com/vgardrinier/a2a-marketplace/internal/repository"
	"github.com/vgardrinier/a2a-marketplace/internal/service"
	"github.com/vgardrinier/a2a-marketplace/internal/subscriber"
)

// App 组装好的运行时依赖
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Workers  repository.WorkerRepository
	Detector *profile.Detector
	Resolver *catalog.Resolver
	Library  *catalog.Library
	Events   *eventbus.CatalogEventBus
	Service  *service.SolveService

	// CatalogProblems 监听期间发现的无效条目文件
	CatalogProblems *subscriber.CatalogEventSubscriber
}

// New 按配置初始化数据库、目录库与路由服务
func New(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	workers := repository.NewWorkerRepository(db)

	resolver := catalog.NewResolver(catalog.ResolverConfig{
		CacheDir:   cfg.Catalog.CacheDir,
		CacheTTL:   cfg.Catalog.CacheTTL,
		RawBaseURL: cfg.Catalog.RawBaseURL,
		DefaultRef: cfg.Catalog.DefaultRef,
	}, catalog.NewHTTPClient(cfg.Catalog.FetchTimeout))

	library := catalog.NewLibrary(catalog.LibraryConfig{
		BundledDir: cfg.Catalog.BundledDir,
		ProjectDir: cfg.Catalog.ProjectDir,
	}, resolver)

	events := eventbus.NewCatalogEventBus()
	problems := subscriber.NewCatalogEventSubscriber(nil)
	problems.Register(events)

	if cfg.Catalog.Watch {
		err := library.Watch(func(event catalog.FileEvent) {
			subscriber.PublishFileEvent(context.Background(), events, event)
		})
		if err != nil {
			// 目录不存在时仍可运行，只是不会热加载
			klog.Warningf("[app] 无法监听内置目录 %s: %v", cfg.Catalog.BundledDir, err)
		}
	}

	detector := profile.NewDetector(profile.Config{
		CacheTTL:         cfg.Profile.CacheTTL,
		MaxEntriesPerDir: cfg.Profile.MaxEntriesPerDir,
	})

	return &App{
		Config:   cfg,
		DB:       db,
		Workers:  workers,
		Detector: detector,
		Resolver: resolver,
		Library:  library,
		Events:   events,
		Service:  service.NewSolveService(detector, library, workers, cfg.Matcher.MaxResults),

		CatalogProblems: problems,
	}, nil
}

// Close 释放监听器与数据库连接
func (a *App) Close() {
	a.Library.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
