package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/matcher"
	"github.com/vgardrinier/a2a-marketplace/internal/service"
)

// SolveHandler 路由与工具接口
type SolveHandler struct {
	service *service.SolveService
}

// NewSolveHandler 创建处理器
func NewSolveHandler(service *service.SolveService) *SolveHandler {
	return &SolveHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *SolveHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/solve", h.Solve)
	router.POST("/match", h.FindWorker)
	router.GET("/profile", h.DetectProject)
	router.GET("/catalog", h.ListCatalog)
	router.GET("/skills/*id", h.GetSkill)
	router.GET("/tools", h.ListTools)
	router.POST("/tools/:name", h.CallTool)
}

// Solve 处理路由请求
func (h *SolveHandler) Solve(c *gin.Context) {
	var req service.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Solve(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FindWorker 技能/工作者匹配
func (h *SolveHandler) FindWorker(c *gin.Context) {
	var req service.FindWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, text, err := h.service.FindWorker(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "text": text})
}

// DetectProject 返回工作区画像
func (h *SolveHandler) DetectProject(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.DetectProject(c.Query("workspace")))
}

// ListCatalog 列出合并后的条目
func (h *SolveHandler) ListCatalog(c *gin.Context) {
	entries := h.service.ListCatalog(c.Query("workspace"))
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

// GetSkill 获取并解析单个条目，id 可包含 /
func (h *SolveHandler) GetSkill(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	entry, text, err := h.service.GetSkill(c.Request.Context(), id, c.Query("workspace"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry, "text": text})
}

// ListTools 列出可用工具
func (h *SolveHandler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": service.ToolNames})
}

// CallTool 按名称调用工具
func (h *SolveHandler) CallTool(c *gin.Context) {
	name := c.Param("name")

	args := map[string]any{}
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.service.CallTool(c.Request.Context(), name, args)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tool": name, "text": text})
}

// respondError 将领域错误映射为 HTTP 状态码
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmptyTask),
		errors.Is(err, service.ErrMissingEntryID),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, matcher.ErrEmptyTask):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnknownTool),
		errors.Is(err, catalog.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, matcher.ErrRegistryUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		klog.Errorf("[handler] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
