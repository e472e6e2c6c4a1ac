package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformdash/internal/filter"
	"uniformdash/internal/model"
	"uniformdash/internal/source"
)

// QueryRequest 问句请求
type QueryRequest struct {
	Question string `json:"question"`
}

// Query 以问句取数（上游兼容）
// POST /dashboard/query
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		badRequest(c, "question is required")
		return
	}

	resp, err := h.responder.Answer(c.Request.Context(), question)
	if err != nil {
		// 与上游一致：执行失败以 200 + error 字段返回
		h.logger.Warn("query failed", zap.String("question", question), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"error": err.Error(), "error_type": fmt.Sprintf("%T", err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health 健康检查
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Uniform Management Dashboard API",
		"source":  h.sourceMode,
		"metrics": len(h.responder.Metrics()),
		"example": source.BuildQuestion(source.MetricUniqueSKUs, filter.Selections{model.DimDepartment: filter.Single("AOCS")}),
	})
}
