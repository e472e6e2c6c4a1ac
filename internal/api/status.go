package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"uniformdash/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized     bool              `json:"initialized"` // 是否已有数据
	SourceMode      string            `json:"sourceMode"`
	Stats           store.Stats       `json:"stats"`
	LastImportBatch string            `json:"lastImportBatch,omitempty"`
	LastImport      *store.ImportLog  `json:"lastImport,omitempty"`
	Config          map[string]string `json:"config"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false, SourceMode: h.sourceMode})
		return
	}

	resp := StatusResponse{
		Initialized: !stats.Empty(),
		SourceMode:  h.sourceMode,
		Stats:       stats,
		Config:      map[string]string{},
	}
	if cfg, err := h.store.GetAllConfig(); err == nil {
		resp.Config = cfg
	}
	resp.LastImportBatch = resp.Config[store.ConfigLastImportBatch]
	if logs, err := h.store.ListImportLogs(1); err == nil && len(logs) > 0 {
		resp.LastImport = &logs[0]
	}

	c.JSON(http.StatusOK, resp)
}

// ListImports 导入日志
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		badRequest(c, "invalid limit")
		return
	}
	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
