package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const indexFile = "index.html"

// Frontend resolves request paths to files under a static asset root. Paths
// that do not name a file fall back to the root's index.html so client-side
// routes load the single-page app.
type Frontend struct {
	basePath string
}

// NewFrontend validates basePath and returns a Frontend rooted there.
func NewFrontend(basePath string) (*Frontend, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %s is not a directory", abs)
	}
	return &Frontend{basePath: abs}, nil
}

// BasePath returns the configured root directory.
func (s *Frontend) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Resolve maps a URL path to a regular file under the root, or to index.html
// when no such file exists. ok is false when neither is available.
func (s *Frontend) Resolve(urlPath string) (string, bool) {
	if s == nil {
		return "", false
	}
	if key, err := sanitizeKey(urlPath); err == nil {
		full := filepath.Join(s.basePath, filepath.FromSlash(key))
		if info, err := os.Stat(full); err == nil && info.Mode().IsRegular() {
			return full, true
		}
	}
	index := filepath.Join(s.basePath, indexFile)
	if info, err := os.Stat(index); err == nil && info.Mode().IsRegular() {
		return index, true
	}
	return "", false
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
