package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidPath is returned when a folder or document name would escape the base directory.
var ErrInvalidPath = errors.New("invalid storage path")

// ErrNotFound is returned when a stored document does not exist.
var ErrNotFound = errors.New("document not found")

// LocalStorage persists generated documents on disk as baseDir/folder/name.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./reports"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve reports directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// Save writes the document under its folder and returns the relative path.
func (s *LocalStorage) Save(folder, name string, data []byte) (string, error) {
	path, err := s.Resolve(folder, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return filepath.ToSlash(filepath.Join(folder, name)), nil
}

// Open returns a read-only handle for a stored document.
func (s *LocalStorage) Open(folder, name string) (*os.File, error) {
	path, err := s.Resolve(folder, name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, folder, name)
		}
		return nil, fmt.Errorf("open report file: %w", err)
	}
	return file, nil
}

// Delete removes a stored document if present.
func (s *LocalStorage) Delete(folder, name string) error {
	path, err := s.Resolve(folder, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete report file: %w", err)
	}
	return nil
}

// CleanupOlderThan removes documents older than ttl and returns their relative paths.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	deleted := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup reports: %w", err)
	}
	return deleted, nil
}

// Resolve maps folder and name to an absolute path inside the base directory.
// Each part must be a single path element.
func (s *LocalStorage) Resolve(folder, name string) (string, error) {
	for _, part := range []string{folder, name} {
		if !validElement(part) {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, part)
		}
	}
	path := filepath.Join(s.baseDir, folder, name)
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s/%s", ErrInvalidPath, folder, name)
	}
	return path, nil
}

// SplitRelative splits a relative path produced by Save back into folder and name.
func SplitRelative(rel string) (folder, name string, err error) {
	folder, name, ok := strings.Cut(rel, "/")
	if !ok || !validElement(folder) || !validElement(name) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return folder, name, nil
}

func validElement(part string) bool {
	if part == "" || part == "." || part == ".." {
		return false
	}
	return !strings.ContainsAny(part, `/\`) && !strings.ContainsRune(part, 0)
}
