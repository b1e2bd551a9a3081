package mcpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vgardrinier/a2a-marketplace/internal/service"
)

const (
	serverName = "a2a-marketplace"
	basePath   = "/mcp"
)

// NewMCPServer 创建 MCP 服务并注册工具与资源
func NewMCPServer(svc *service.SolveService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	Register(s, svc)
	return s
}

// NewMCPSSEServer 创建挂载在 /mcp 下的 SSE 服务
func NewMCPSSEServer(s *server.MCPServer) *server.SSEServer {
	return server.NewSSEServer(s, server.WithStaticBasePath(basePath))
}

// Adapt 将标准的 http.Handler 适配为 Gin 框架可用的处理函数。
func Adapt(fn func() http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler := fn()
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

const instructions = `Use "solve" first: it fingerprints the workspace and lists catalog skills, CLIs and MCP servers that fit it.
Use "get_skill" to load the full instructions of one entry.
Use "find_worker" when no catalog entry fits and a paid specialist should take the task.
Use "detect_project" to inspect the workspace fingerprint on its own.`
