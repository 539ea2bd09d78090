package handlers

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yu-yu0202/FileShareService/middleware"
	"github.com/Yu-yu0202/FileShareService/models"
	"github.com/Yu-yu0202/FileShareService/policy"
	"github.com/Yu-yu0202/FileShareService/services"
	"github.com/Yu-yu0202/FileShareService/storage"
)

type FileHandler struct {
	files *services.FileService
	store *storage.LocalStore
}

func NewFileHandler(files *services.FileService, store *storage.LocalStore) *FileHandler {
	return &FileHandler{files: files, store: store}
}

// Upload receives one multipart file, writes the bytes first and registers
// the record only once they are durable. A failed registration purges the
// just-written blob so no orphan survives the request.
func (h *FileHandler) Upload(c *gin.Context) {
	userID, _, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.String(http.StatusUnauthorized, "login required")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "file is missing")
		return
	}

	src, err := header.Open()
	if err != nil {
		log.Printf("failed to open uploaded file %q: %v", header.Filename, err)
		c.String(http.StatusInternalServerError, "upload failed")
		return
	}
	defer src.Close()

	storedName, size, err := h.store.Store(src, header.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		log.Printf("failed to store upload %q: %v", header.Filename, err)
		c.String(http.StatusInternalServerError, "upload failed")
		return
	}

	if _, err := h.files.Register(header.Filename, storedName, userID); err != nil {
		log.Printf("failed to register upload %q: %v", header.Filename, err)
		if derr := h.store.Delete(storedName); derr != nil {
			log.Printf("warning: orphaned blob %s after failed registration: %v", storedName, derr)
		}
		c.String(http.StatusInternalServerError, "failed to save file info")
		return
	}

	log.Printf("uploaded %q as %s (%d bytes) for user %d", header.Filename, storedName, size, userID)
	c.String(http.StatusOK, "file uploaded")
}

// List returns every visible file as {id, name, uploadDate} rows.
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.files.ListVisible()
	if err != nil {
		log.Printf("failed to list files: %v", err)
		c.String(http.StatusInternalServerError, "failed to fetch file list")
		return
	}

	items := make([]models.FileListItem, 0, len(files))
	for _, f := range files {
		items = append(items, models.FileListItem{
			ID:         f.ID,
			Name:       f.OriginalName,
			UploadDate: f.UploadDate,
		})
	}
	c.JSON(http.StatusOK, items)
}

// Download streams a file as an attachment under its original name. The path
// segment may be the stored token or the original name; non-admins only reach
// their own files and everything else answers 404.
func (h *FileHandler) Download(c *gin.Context) {
	record, ok := h.resolve(c, c.Param("identifier"))
	if !ok {
		return
	}

	f, size, err := h.store.Open(record.StoredName)
	if err != nil {
		log.Printf("failed to open blob %s: %v", record.StoredName, err)
		c.String(http.StatusInternalServerError, "download failed")
		return
	}
	defer f.Close()

	headers := map[string]string{
		"Content-Disposition": attachmentDisposition(record.OriginalName),
	}
	c.DataFromReader(http.StatusOK, size, contentTypeFor(record.StoredName), f, headers)
}

// View streams a file inline with the content type inferred from the stored
// extension.
func (h *FileHandler) View(c *gin.Context) {
	record, ok := h.resolve(c, c.Param("id"))
	if !ok {
		return
	}

	f, size, err := h.store.Open(record.StoredName)
	if err != nil {
		log.Printf("failed to open blob %s: %v", record.StoredName, err)
		c.String(http.StatusInternalServerError, "view failed")
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, size, contentTypeFor(record.StoredName), f, nil)
}

// resolve locates the record for an identifier, applying owner scoping per
// the requester's role. On failure the response is already written.
func (h *FileHandler) resolve(c *gin.Context, identifier string) (*models.File, bool) {
	userID, _, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.String(http.StatusUnauthorized, "login required")
		return nil, false
	}

	var scope *uint
	if policy.OwnerScoped(policy.OpRead, role) {
		scope = &userID
	}

	record, err := h.files.FindByIdentifier(identifier, scope)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.String(http.StatusNotFound, "file not found")
			return nil, false
		}
		log.Printf("failed to resolve identifier %q: %v", identifier, err)
		c.String(http.StatusInternalServerError, "failed to fetch file info")
		return nil, false
	}
	return record, true
}

func contentTypeFor(storedName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(storedName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// attachmentDisposition builds a Content-Disposition header, escaping the
// filename the way gin's FileAttachment does.
func attachmentDisposition(filename string) string {
	if isASCII(filename) {
		return `attachment; filename="` + strings.ReplaceAll(filename, `"`, `\"`) + `"`
	}
	return `attachment; filename*=UTF-8''` + url.QueryEscape(filename)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
