package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/loader"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

// StatusResponse 加载状态
type StatusResponse struct {
	Loaded        bool                `json:"loaded"`
	Status        model.LoadStatus    `json:"status"`
	Error         string              `json:"error,omitempty"`
	LoadID        string              `json:"loadId,omitempty"`
	SourcePath    string              `json:"sourcePath"`
	Sheet         string              `json:"sheet,omitempty"`
	Rows          int                 `json:"rows"`
	Columns       []string            `json:"columns"`
	Mapping       model.ColumnMapping `json:"mapping"`
	MissingFields []model.Field       `json:"missingFields"`
	LoadedAt      time.Time           `json:"loadedAt"`
	ElapsedMs     int64               `json:"elapsedMs"`
}

func newStatusResponse(snap loader.Snapshot) StatusResponse {
	resp := StatusResponse{
		Loaded:    snap.Table.Loaded(),
		Status:    loader.Status(snap.Err),
		LoadedAt:  snap.LoadedAt,
		ElapsedMs: snap.Elapsed.Milliseconds(),
		Columns:   []string{},
		Mapping:   model.ColumnMapping{},
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	if t := snap.Table; t != nil {
		resp.LoadID = t.LoadID
		resp.SourcePath = t.SourcePath
		resp.Sheet = t.Sheet
		resp.Rows = t.Len()
		if t.Columns != nil {
			resp.Columns = t.Columns
		}
		if t.Mapping != nil {
			resp.Mapping = t.Mapping
		}
	}
	if resp.Loaded {
		resp.MissingFields = loader.MissingFields(resp.Mapping)
	}
	return resp
}

// GetStatus 当前加载状态（数据不可用时仍返回 200）
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, newStatusResponse(h.source.Get()))
}

// Reload 丢弃缓存并立即重新加载
// POST /api/reload
func (h *Handler) Reload(c *gin.Context) {
	h.source.Invalidate()
	snap := h.source.Get()
	h.logger.Info("reload requested", "loaded", snap.Table.Loaded(), "rows", snap.Table.Len())
	c.JSON(http.StatusOK, newStatusResponse(snap))
}
