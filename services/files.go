package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Yu-yu0202/FileShareService/models"
)

// FileService is the registry of uploaded files. It is the source of truth:
// bytes on disk without a registry row are an orphan to be swept, never the
// other way around.
type FileService struct {
	db *gorm.DB
}

func NewFileService(db *gorm.DB) *FileService {
	return &FileService{db: db}
}

// Register records a freshly stored upload. Callers must only invoke this
// after the bytes are durably written.
func (s *FileService) Register(originalName, storedName string, ownerID uint) (*models.File, error) {
	file := models.File{
		OriginalName: originalName,
		StoredName:   storedName,
		UploadDate:   time.Now().UTC(),
		UserID:       ownerID,
		IsVisible:    true,
	}
	if err := s.db.Create(&file).Error; err != nil {
		return nil, fmt.Errorf("register file: %w", err)
	}
	return &file, nil
}

// ListVisible returns every visible file regardless of owner. Listing is not
// owner-scoped; only download and view are.
func (s *FileService) ListVisible() ([]models.File, error) {
	var files []models.File
	if err := s.db.Where("is_visible = ?", true).Order("id ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// ListAll returns every file including hidden ones, for the management surface.
func (s *FileService) ListAll() ([]models.File, error) {
	var files []models.File
	if err := s.db.Order("id ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// SetVisibility flips the visible flag on one record.
func (s *FileService) SetVisibility(id uint, visible bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var file models.File
		if err := tx.First(&file, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFileNotFound
			}
			return fmt.Errorf("look up file: %w", err)
		}
		if err := tx.Model(&file).Update("is_visible", visible).Error; err != nil {
			return fmt.Errorf("update visibility: %w", err)
		}
		return nil
	})
}

// Remove deletes the registry row and returns the stored name so the caller
// can purge the bytes afterwards. Row removal is the authoritative deletion;
// byte cleanup is best-effort housekeeping on top.
func (s *FileService) Remove(id uint) (string, error) {
	var storedName string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var file models.File
		if err := tx.First(&file, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFileNotFound
			}
			return fmt.Errorf("look up file: %w", err)
		}
		if err := tx.Delete(&file).Error; err != nil {
			return fmt.Errorf("delete file record: %w", err)
		}
		storedName = file.StoredName
		return nil
	})
	if err != nil {
		return "", err
	}
	return storedName, nil
}

// FindByIdentifier resolves a path segment that may be either a stored name
// or an original name. When ownerID is non-nil the match is restricted to
// that owner's files; anything else resolves as ErrFileNotFound so the
// response never confirms a foreign file exists. When several records share
// the identifier the lowest id wins.
func (s *FileService) FindByIdentifier(identifier string, ownerID *uint) (*models.File, error) {
	query := s.db.Where("stored_name = ? OR original_name = ?", identifier, identifier)
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}

	var file models.File
	if err := query.Order("id ASC").First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("resolve identifier: %w", err)
	}
	return &file, nil
}
