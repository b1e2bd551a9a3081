package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vgardrinier/a2a-marketplace/internal/model"
	"github.com/vgardrinier/a2a-marketplace/internal/repository"
)

// WorkerHandler 工作者注册表管理
type WorkerHandler struct {
	repo repository.WorkerRepository
}

// NewWorkerHandler 创建处理器
func NewWorkerHandler(repo repository.WorkerRepository) *WorkerHandler {
	return &WorkerHandler{repo: repo}
}

// RegisterRoutes 注册路由
func (h *WorkerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/workers", h.List)
	router.POST("/workers", h.Upsert)
	router.GET("/workers/:id", h.Get)
	router.PATCH("/workers/:id/status", h.UpdateStatus)
	router.DELETE("/workers/:id", h.Delete)
}

// UpdateWorkerStatusRequest 更新状态请求
type UpdateWorkerStatusRequest struct {
	Status string `json:"status" binding:"required"` // pending/active/suspended
}

// List 列出工作者，active=true 时只返回可匹配的
func (h *WorkerHandler) List(c *gin.Context) {
	var (
		workers []*model.Worker
		err     error
	)
	switch {
	case c.Query("specialty") != "":
		workers, err = h.repo.ListActiveBySpecialty(c.Request.Context(), c.Query("specialty"))
	case c.Query("active") == "true":
		workers, err = h.repo.ListActive(c.Request.Context())
	default:
		workers, err = h.repo.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers, "total": len(workers)})
}

// Get 获取工作者
func (h *WorkerHandler) Get(c *gin.Context) {
	w, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrWorkerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

// Upsert 创建或覆盖工作者
func (h *WorkerHandler) Upsert(c *gin.Context) {
	var w model.Worker
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if w.Status == "" {
		w.Status = model.WorkerStatusPending
	}
	if err := w.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.Upsert(c.Request.Context(), &w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

// UpdateStatus 更新状态
func (h *WorkerHandler) UpdateStatus(c *gin.Context) {
	var req UpdateWorkerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, repository.ErrWorkerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// Delete 删除工作者
func (h *WorkerHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrWorkerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
