package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/loader"
)

// maxInspectSize 上传预览的大小上限
const maxInspectSize = 32 << 20

// Inspect 预览上传的工作簿：规范化列名、识别出的映射与行数，不替换当前数据
// POST /api/inspect (multipart, 字段 file)
func (h *Handler) Inspect(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo não enviado"})
		return
	}
	if header.Size > maxInspectSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "arquivo muito grande"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "falha ao abrir arquivo"})
		return
	}
	defer f.Close()

	table, err := h.inspector.LoadReader(f)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "planilha ilegível",
			"reason": err.Error(),
		})
		return
	}

	preview := table.Activities
	if len(preview) > 5 {
		preview = preview[:5]
	}
	c.JSON(http.StatusOK, gin.H{
		"filename":      header.Filename,
		"sheet":         table.Sheet,
		"rows":          table.Len(),
		"columns":       table.Columns,
		"mapping":       table.Mapping,
		"missingFields": loader.MissingFields(table.Mapping),
		"preview":       preview,
	})
}
