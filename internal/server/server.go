package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/api"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/config"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/loader"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/metrics"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/store"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Server HTTP服务器
type Server struct {
	router   *gin.Engine
	httpSrv  *http.Server
	cache    *loader.Cache
	api      *api.Handler
	store    *store.Store
	logger   *slog.Logger
	dataPath string
	logoPath string
}

// NewServer 创建服务器。baseDir 为程序目录，数据文件与 logo 的相对路径都以它为基准；
// st 为 nil 时不记录加载历史
func NewServer(cfg *config.AppConfig, baseDir string, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataPath := config.ResolvePath(baseDir, cfg.Data.File)
	ld := loader.New(dataPath, loader.WithSheet(cfg.Data.Sheet), loader.WithLogger(logger))

	var cacheOpts []loader.CacheOption
	var history api.History
	if st != nil {
		cacheOpts = append(cacheOpts, loader.WithObserver(newHistoryRecorder(st, cfg.History.Keep, logger)))
		history = st
	}
	cache := loader.NewCache(ld.Load, cfg.Data.CacheTTL.Std(), cacheOpts...)

	s := &Server{
		router:   gin.New(),
		cache:    cache,
		api:      api.NewHandler(cache, history, logger),
		store:    st,
		logger:   logger,
		dataPath: dataPath,
		logoPath: FindLogo(baseDir, cfg.Data.LogoCandidates),
	}
	if s.logoPath == "" {
		logger.Debug("no logo found", "dir", baseDir, "candidates", cfg.Data.LogoCandidates)
	}

	s.setupRoutes()
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger))

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html"))
	s.router.SetHTMLTemplate(tmpl)

	// 页面
	s.router.GET("/", s.dashboardPage)
	s.router.GET("/logo", s.logo)

	// API
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// 监控
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Cache 数据缓存
func (s *Server) Cache() *loader.Cache {
	return s.cache
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Run 启动服务器，直到 Shutdown 被调用
func (s *Server) Run() error {
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// requestLogger 以 slog 记录每个请求
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed", time.Since(start),
		)
	}
}
