package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Yu-yu0202/FileShareService/models"
	"github.com/Yu-yu0202/FileShareService/services"
	"github.com/Yu-yu0202/FileShareService/storage"
)

// AdminHandler serves the management surface. backups may be nil when no S3
// configuration is present.
type AdminHandler struct {
	files   *services.FileService
	store   *storage.LocalStore
	backups *services.BackupService
}

func NewAdminHandler(files *services.FileService, store *storage.LocalStore, backups *services.BackupService) *AdminHandler {
	return &AdminHandler{files: files, store: store, backups: backups}
}

// ListAllFiles returns every record including hidden ones. Visible is 0/1,
// which is what the management page's select options compare against.
func (h *AdminHandler) ListAllFiles(c *gin.Context) {
	files, err := h.files.ListAll()
	if err != nil {
		log.Printf("failed to list all files: %v", err)
		c.String(http.StatusInternalServerError, "failed to fetch file list")
		return
	}

	items := make([]models.AdminFileItem, 0, len(files))
	for _, f := range files {
		visible := 0
		if f.IsVisible {
			visible = 1
		}
		items = append(items, models.AdminFileItem{
			ID:         f.ID,
			Name:       f.OriginalName,
			UploadDate: f.UploadDate,
			Visible:    visible,
		})
	}
	c.JSON(http.StatusOK, items)
}

type visibilityRequest struct {
	Visible *models.Flag `json:"visible" binding:"required"`
}

// UpdateVisibility flips a file's visible flag.
func (h *AdminHandler) UpdateVisibility(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "file not found")
		return
	}

	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid visibility request")
		return
	}

	if err := h.files.SetVisibility(uint(id), req.Visible.Bool()); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.String(http.StatusNotFound, "file not found")
			return
		}
		log.Printf("failed to update visibility of file %d: %v", id, err)
		c.String(http.StatusInternalServerError, "failed to update visibility")
		return
	}
	c.String(http.StatusOK, "visibility updated")
}

// DeleteFile removes the registry record, then the bytes. The record delete
// is the authoritative transition; a failed byte delete is only logged since
// the file already no longer exists as far as clients are concerned.
func (h *AdminHandler) DeleteFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "file not found")
		return
	}

	storedName, err := h.files.Remove(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.String(http.StatusNotFound, "file not found")
			return
		}
		log.Printf("failed to delete file %d: %v", id, err)
		c.String(http.StatusInternalServerError, "failed to delete file")
		return
	}

	if err := h.store.Delete(storedName); err != nil {
		log.Printf("warning: failed to remove blob %s for deleted file %d: %v", storedName, id, err)
	}
	c.String(http.StatusOK, "file deleted")
}

// RunBackup triggers an immediate off-site archive.
func (h *AdminHandler) RunBackup(c *gin.Context) {
	if h.backups == nil {
		c.String(http.StatusServiceUnavailable, "backup is not configured")
		return
	}

	key, err := h.backups.RunOnce(c.Request.Context())
	if err != nil {
		log.Printf("manual backup failed: %v", err)
		c.String(http.StatusInternalServerError, "backup failed")
		return
	}
	c.String(http.StatusOK, "backup uploaded: %s", key)
}
