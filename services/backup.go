package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Yu-yu0202/FileShareService/storage"
)

// BackupService archives the sqlite database and every stored blob into one
// zip and ships it to S3, either on a cron schedule or on demand. Archives
// are point-in-time copies; live bytes never leave the local disk.
type BackupService struct {
	dbPath string
	store  *storage.LocalStore
	s3     *S3Service
	cron   *cron.Cron
}

func NewBackupService(dbPath string, store *storage.LocalStore, s3 *S3Service) *BackupService {
	return &BackupService{
		dbPath: dbPath,
		store:  store,
		s3:     s3,
		cron:   cron.New(),
	}
}

// Schedule registers the cron expression and starts the scheduler.
func (s *BackupService) Schedule(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if key, err := s.RunOnce(context.Background()); err != nil {
			log.Printf("scheduled backup failed: %v", err)
		} else {
			log.Printf("scheduled backup uploaded: %s", key)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler; a backup already running finishes.
func (s *BackupService) Stop() {
	s.cron.Stop()
}

// RunOnce builds the archive and uploads it, returning the object key.
func (s *BackupService) RunOnce(ctx context.Context) (string, error) {
	buf, err := s.buildArchive()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("backups/fileshare-%s.zip", time.Now().UTC().Format("20060102-150405"))
	if err := s.s3.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "application/zip"); err != nil {
		return "", err
	}
	return key, nil
}

// buildArchive zips the database file and every stored blob.
func (s *BackupService) buildArchive() (*bytes.Buffer, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := addToArchive(zw, "users.db", s.dbPath); err != nil {
		return nil, err
	}
	err := s.store.Walk(func(storedName, path string) error {
		return addToArchive(zw, "uploads/"+storedName, path)
	})
	if err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return &buf, nil
}

func addToArchive(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s for backup: %w", path, err)
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("add %s to archive: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	return nil
}
