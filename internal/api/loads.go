package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLoadsLimit = 20
	maxLoadsLimit     = 500
)

// ListLoads 最近的加载历史
// GET /api/loads?limit=20
func (h *Handler) ListLoads(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "histórico de carregamentos desativado"})
		return
	}

	limit := defaultLoadsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit inválido"})
			return
		}
		limit = min(n, maxLoadsLimit)
	}

	logs, err := h.history.RecentLoadLogs(limit)
	if err != nil {
		h.logger.Error("read load history failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao ler histórico"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loads": logs})
}
