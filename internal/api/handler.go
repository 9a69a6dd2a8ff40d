package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/loader"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/report"
)

// Source 提供当前的活动表快照
type Source interface {
	Get() loader.Snapshot
	Invalidate()
}

// History 加载历史（可选）
type History interface {
	RecentLoadLogs(limit int) ([]model.LoadLog, error)
}

// Handler JSON API 处理器
type Handler struct {
	source    Source
	history   History
	inspector *loader.Loader
	logger    *slog.Logger
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器；history 为 nil 表示未启用加载历史
func NewHandler(source Source, history History, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		source:    source,
		history:   history,
		inspector: loader.New("", loader.WithLogger(logger)),
		logger:    logger,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 加载状态
	router.GET("/status", h.GetStatus)
	router.POST("/reload", h.Reload)

	// 数据查询
	router.GET("/activities", h.ListActivities)
	router.GET("/summary", h.GetSummary)
	router.GET("/options", h.GetOptions)

	// 数据导出
	router.GET("/export", h.Export)
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)

	// 诊断
	router.GET("/loads", h.ListLoads)
	router.POST("/inspect", h.Inspect)
}

// UnavailableMessage 数据不可用时展示给用户的提示
const UnavailableMessage = "Não foi possível carregar os dados. Verifique se o arquivo está na pasta correta."

// dashboard 读取快照并按查询参数过滤；数据不可用时写入 503 并返回 false
func (h *Handler) dashboard(c *gin.Context) (report.Dashboard, bool) {
	var f report.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros de filtro inválidos"})
		return report.Dashboard{}, false
	}

	snap := h.source.Get()
	if !snap.Table.Loaded() {
		body := gin.H{"error": UnavailableMessage}
		if snap.Err != nil {
			body["reason"] = snap.Err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, body)
		return report.Dashboard{}, false
	}
	return report.Build(snap.Table.Activities, f), true
}
