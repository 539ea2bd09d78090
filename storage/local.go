package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured ceiling. Any
// partial write has already been removed.
var ErrTooLarge = errors.New("file exceeds size limit")

// ErrNotFound is returned when a stored name has no backing blob.
var ErrNotFound = errors.New("stored file not found")

// LocalStore keeps upload bytes in a single directory under generated names.
// It is the only component that touches those files; everything else goes
// through it.
type LocalStore struct {
	dir     string
	maxSize int64
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxSize: maxSize}, nil
}

// Store writes the stream to disk under a fresh uuid-based name that keeps
// only the (sanitized) extension of the original name. The size ceiling is
// enforced while copying; an oversized or failed write leaves nothing behind.
func (s *LocalStore) Store(r io.Reader, originalName string) (storedName string, size int64, err error) {
	storedName = uuid.NewString() + safeExt(originalName)
	path := filepath.Join(s.dir, storedName)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}

	size, err = io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if size > s.maxSize {
		os.Remove(path)
		return "", 0, ErrTooLarge
	}
	return storedName, size, nil
}

// Open returns a reader over a stored blob together with its size.
func (s *LocalStore) Open(storedName string) (io.ReadSeekCloser, int64, error) {
	path, err := s.blobPath(storedName)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("open blob: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat blob: %w", err)
	}
	return f, info.Size(), nil
}

// Delete removes a stored blob. Missing blobs report ErrNotFound; callers
// treat delete failures as warnings since the registry row is already gone.
func (s *LocalStore) Delete(storedName string) error {
	path, err := s.blobPath(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Walk visits every stored blob, for backup archiving.
func (s *LocalStore) Walk(fn func(storedName string, path string) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read upload dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := fn(e.Name(), filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// blobPath rejects stored names with path components. Stored names are always
// generated by Store, so anything else is a lookup gone wrong upstream.
func (s *LocalStore) blobPath(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) || strings.ContainsAny(storedName, `/\`) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, storedName), nil
}

// safeExt extracts an extension safe to append to a generated name. Anything
// with separators or beyond a sane length is dropped.
func safeExt(name string) string {
	ext := filepath.Ext(filepath.Base(name))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
