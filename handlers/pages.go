package handlers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static HTML pages of the browser UI from a local
// directory. The pages are plain clients of the JSON surface.
type PageHandler struct {
	dir string
}

func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{dir: dir}
}

func (h *PageHandler) page(name string) gin.HandlerFunc {
	path := filepath.Join(h.dir, name)
	return func(c *gin.Context) {
		c.File(path)
	}
}

func (h *PageHandler) Login() gin.HandlerFunc       { return h.page("login.html") }
func (h *PageHandler) Dashboard() gin.HandlerFunc   { return h.page("dashboard.html") }
func (h *PageHandler) Register() gin.HandlerFunc    { return h.page("register.html") }
func (h *PageHandler) ManageFiles() gin.HandlerFunc { return h.page("manage_files.html") }
