package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformdash/internal/api"
	"uniformdash/internal/config"
	"uniformdash/internal/logging"
)

// shutdownTimeout 优雅退出等待时间
const shutdownTimeout = 10 * time.Second

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	api    *api.Handler
	logger *zap.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, h *api.Handler, logger *zap.Logger) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.Default(),
		api:    h,
		logger: logging.OrNop(logger),
	}
	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+api.SessionHeader)
		c.Header("Access-Control-Expose-Headers", api.SessionHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router)

	// 首页：接口说明
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Uniform Management Dashboard API",
			"endpoints": gin.H{
				"query":   "POST /dashboard/query",
				"health":  "GET /health",
				"tabs":    "GET /api/tabs/:tab",
				"options": "GET /api/options/:tab",
				"live":    "POST /api/live/:tab",
				"import":  "POST /api/import",
				"export":  "POST /api/export",
			},
		})
	})
}

// Handler 返回 HTTP 处理器（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，ctx 取消后优雅退出
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
