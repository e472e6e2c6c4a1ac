package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"uniformdash/internal/importer"
)

// Import 导入 Excel 数据 (SSE 流式响应)
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	uploaded, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "未找到上传文件")
		return
	}
	if filepath.Ext(uploaded.Filename) != ".xlsx" {
		badRequest(c, "仅支持 .xlsx 文件")
		return
	}

	// 保存到上传目录
	uploadDir := filepath.Join(h.dataDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败"})
		return
	}
	tempFilePath := filepath.Join(uploadDir, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(uploaded.Filename)))
	if err := c.SaveUploadedFile(uploaded, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(tempFilePath)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progress := h.importer.Import(c.Request.Context(), importer.Options{
		FilePath: tempFilePath,
		Filename: uploaded.Filename,
	})
	for event := range progress {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}
