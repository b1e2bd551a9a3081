package main

import (
	"flag"
	"log"

	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/config"
	"github.com/vgardrinier/a2a-marketplace/internal/app"
	"github.com/vgardrinier/a2a-marketplace/internal/handler"
	"github.com/vgardrinier/a2a-marketplace/internal/mcpserver"
	"github.com/vgardrinier/a2a-marketplace/internal/router"
)

var version = "dev"

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	// 初始化 Handler
	solveHandler := handler.NewSolveHandler(a.Service)
	workerHandler := handler.NewWorkerHandler(a.Workers)

	// MCP over SSE
	sse := mcpserver.NewMCPSSEServer(mcpserver.NewMCPServer(a.Service, version))

	// 设置路由
	r := router.Setup(cfg, solveHandler, workerHandler, sse)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
