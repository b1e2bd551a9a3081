package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vgardrinier/a2a-marketplace/config"
	"github.com/vgardrinier/a2a-marketplace/internal/handler"
	"github.com/vgardrinier/a2a-marketplace/internal/mcpserver"
)

// Setup 构建 HTTP 路由，sse 为 nil 时不挂载 MCP 端点
func Setup(
	cfg *config.Config,
	solveHandler *handler.SolveHandler,
	workerHandler *handler.WorkerHandler,
	sse *server.SSEServer,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// SSE 流不能被压缩缓冲
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/mcp"})))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		solveHandler.RegisterRoutes(api)

		if workerHandler != nil {
			workerHandler.RegisterRoutes(api)
		}
	}

	if sse != nil {
		r.GET("/mcp/sse", mcpserver.Adapt(sse.SSEHandler))
		r.POST("/mcp/message", mcpserver.Adapt(sse.MessageHandler))
	}

	return r
}
