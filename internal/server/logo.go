package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// FindLogo 返回 dir 下第一个存在的候选文件，全部缺失时返回 ""
func FindLogo(dir string, candidates []string) string {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		p := name
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, name)
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// logo GET /logo
func (s *Server) logo(c *gin.Context) {
	if s.logoPath == "" {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(s.logoPath)
}
