package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListActivities 过滤后的活动明细
// GET /api/activities?area=..&status=..
func (h *Handler) ListActivities(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filter":     d.Filter,
		"total":      len(d.Activities),
		"activities": d.Activities,
	})
}

// GetSummary KPI 与两组柱状图数据
// GET /api/summary?area=..&status=..
func (h *Handler) GetSummary(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filter":          d.Filter,
		"summary":         d.Summary,
		"areaProgress":    d.AreaProgress,
		"statusBreakdown": d.StatusBreakdown,
	})
}

// GetOptions 过滤控件候选值（来自未过滤的表）
// GET /api/options
func (h *Handler) GetOptions(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d.Options)
}
