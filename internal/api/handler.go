package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformdash/internal/dashboard"
	"uniformdash/internal/exporter"
	"uniformdash/internal/importer"
	"uniformdash/internal/logging"
	"uniformdash/internal/model"
	"uniformdash/internal/responder"
	"uniformdash/internal/store"
)

// SessionHeader 实时刷新会话标识请求头
const SessionHeader = "X-Dashboard-Session"

// Deps 处理器依赖
type Deps struct {
	Store      *store.Store
	Responder  *responder.Responder
	Engine     *dashboard.Engine
	Importer   *importer.Importer
	Exporter   *exporter.Exporter
	DataDir    string
	SourceMode string
	Logger     *zap.Logger
}

// Handler API 处理器
type Handler struct {
	store      *store.Store
	responder  *responder.Responder
	engine     *dashboard.Engine
	importer   *importer.Importer
	exporter   *exporter.Exporter
	downloads  *exporter.DownloadStore
	dataDir    string
	sourceMode string
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*dashboard.Session
}

// NewHandler 创建 API 处理器
func NewHandler(d Deps) *Handler {
	return &Handler{
		store:      d.Store,
		responder:  d.Responder,
		engine:     d.Engine,
		importer:   d.Importer,
		exporter:   d.Exporter,
		downloads:  exporter.NewDownloadStore(),
		dataDir:    d.DataDir,
		sourceMode: d.SourceMode,
		logger:     logging.OrNop(d.Logger),
		sessions:   make(map[string]*dashboard.Session),
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 上游兼容的问句接口
	r.POST("/dashboard/query", h.Query)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		// 系统状态
		api.GET("/status", h.GetStatus)
		api.GET("/imports", h.ListImports)

		// 仪表盘
		api.GET("/tabs", h.ListTabs)
		api.GET("/tabs/:tab", h.GetTab)
		api.GET("/options/:tab", h.GetOptions)
		api.POST("/live/:tab", h.LiveRefresh)

		// 数据导入
		api.POST("/import", h.Import)

		// 数据导出
		api.POST("/export", h.Export)
		api.POST("/export/stream", h.ExportStream)
		api.GET("/export/download/:token", h.DownloadExport)
	}
}

// session 按请求头取会话；未携带时共用默认会话
func (h *Handler) session(c *gin.Context) (string, *dashboard.Session) {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id = "default"
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		s = dashboard.NewSession(h.engine)
		h.sessions[id] = s
	}
	return id, s
}

func (h *Handler) catalog() *model.Catalog {
	return h.engine.Catalog()
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
