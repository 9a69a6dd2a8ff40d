package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/api"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/loader"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/report"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/util"
)

// pageTitle 页面标题
const pageTitle = "Dashboard de Controle de Atividades"

// pageData 仪表盘模板数据
type pageData struct {
	Title       string
	HasLogo     bool
	Loaded      bool
	Warning     string
	Reason      string
	SourceName  string
	LoadedAt    time.Time
	ExportURL   template.URL
	Dashboard   report.Dashboard
}

var templateFuncs = template.FuncMap{
	"num":      util.FormatNumber,
	"pct":      util.FormatPercent,
	"plain":    util.FormatPlain,
	"width":    barWidth,
	"clamp":    clampPercent,
	"selected": contains,
	"countPct": countWithPercent,
}

// dashboardPage GET /
func (s *Server) dashboardPage(c *gin.Context) {
	var f report.Filter
	_ = c.ShouldBindQuery(&f)

	snap := s.cache.Get()
	data := pageData{
		Title:      pageTitle,
		HasLogo:    s.logoPath != "",
		Loaded:     snap.Table.Loaded(),
		SourceName: filepath.Base(s.dataPath),
		LoadedAt:   snap.LoadedAt,
	}

	if !data.Loaded {
		data.Warning = api.UnavailableMessage
		data.Reason = failureReason(snap.Err, data.SourceName)
		c.HTML(http.StatusOK, "dashboard.html", data)
		return
	}

	data.Dashboard = report.Build(snap.Table.Activities, f)
	data.ExportURL = exportURL(f)
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// failureReason 面向用户的失败原因
func failureReason(err error, name string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, loader.ErrFileNotFound):
		return fmt.Sprintf("Arquivo '%s' não encontrado!", name)
	case errors.Is(err, loader.ErrUnreadable):
		return fmt.Sprintf("Arquivo '%s' não pôde ser lido: %v", name, err)
	default:
		return err.Error()
	}
}

// exportURL 带上当前过滤条件的导出地址
func exportURL(f report.Filter) template.URL {
	q := url.Values{}
	for _, a := range f.Areas {
		q.Add("area", a)
	}
	for _, st := range f.Statuses {
		q.Add("status", st)
	}
	if len(q) == 0 {
		return "/api/export"
	}
	return template.URL("/api/export?" + q.Encode())
}

// barWidth 柱长占最大值的百分比
func barWidth(value, top float64) float64 {
	if top <= 0 || value <= 0 {
		return 0
	}
	return clampPercent(value / top * 100)
}

func clampPercent(v float64) float64 {
	return max(0, min(100, v))
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// countWithPercent 例如 "3 (37.5%)"；total 为 0 时显示 "0"
func countWithPercent(count, total int, percent float64) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%d (%s)", count, util.FormatPercent(percent))
}
