package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"uniformdash/internal/dashboard"
	"uniformdash/internal/exporter"
	"uniformdash/internal/filter"
)

type exportProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportResponse 导出结果
type ExportResponse struct {
	Token       string `json:"token"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl"`
}

// exportData 以同一组选择计算汇总、覆盖矩阵与需求预测。
// 任一数据源失败则整体失败，不导出零值表格。
func (h *Handler) exportData(ctx context.Context, sel filter.Selections) (exporter.Data, error) {
	var summary, coverage, demand *dashboard.View
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, err = h.engine.View(gctx, dashboard.TabActiveEmployees, sel)
		return err
	})
	g.Go(func() (err error) {
		coverage, err = h.engine.View(gctx, dashboard.TabEntitlementCoverage, sel)
		return err
	})
	g.Go(func() (err error) {
		demand, err = h.engine.View(gctx, dashboard.TabDemandForecast, sel)
		return err
	})
	if err := g.Wait(); err != nil {
		return exporter.Data{}, err
	}
	return exporter.Data{
		Summary:   summary.Summary,
		Matrix:    coverage.Matrix,
		Demand:    demand.Demand,
		Selection: sel.Key(),
	}, nil
}

func (h *Handler) exportDir() string {
	return filepath.Join(h.dataDir, "exports")
}

func (h *Handler) register(path string) ExportResponse {
	name := filepath.Base(path)
	token := h.downloads.Put(path, name, exporter.DefaultDownloadTTL)
	return ExportResponse{Token: token, Filename: name, DownloadURL: fmt.Sprintf("/api/export/download/%s", token)}
}

// Export 导出 Excel，返回一次性下载地址
// POST /api/export?department=..
func (h *Handler) Export(c *gin.Context) {
	sel := filter.ParseSelections(c.Request.URL.Query())
	data, err := h.exportData(c.Request.Context(), sel)
	if err != nil {
		h.logger.Warn("export data unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	path, err := h.exporter.WriteFile(data, h.exportDir(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.register(path))
}

// ExportStream 导出 Excel（SSE 进度 + 完成后提供下载地址）
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(typ, message string, data any) {
		b, err := json.Marshal(exportProgressEvent{Type: typ, Message: message, Data: data, Timestamp: time.Now()})
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	sel := filter.ParseSelections(c.Request.URL.Query())
	send("start", "开始导出", map[string]any{"selection": sel.Key()})

	data, err := h.exportData(c.Request.Context(), sel)
	if err != nil {
		send("error", "导出失败: "+err.Error(), map[string]any{})
		return
	}

	lastPercent := -1
	path, err := h.exporter.WriteFile(data, h.exportDir(), func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send("progress", p.Stage, map[string]any{"percent": p.Percent})
	})
	if err != nil {
		send("error", "写入导出文件失败: "+err.Error(), map[string]any{})
		return
	}

	resp := h.register(path)
	send("done", "导出完成", map[string]any{
		"percent":     100,
		"downloadUrl": resp.DownloadURL,
		"filename":    resp.Filename,
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.Take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	if _, err := os.Stat(item.FilePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.Filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.FilePath)
	_ = os.Remove(item.FilePath)
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
