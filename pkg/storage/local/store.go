package local

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tiffinbox/backend/pkg/config"
)

// Store writes uploaded images to a local directory served from a public
// path. Production deployments would swap in an object store behind the same
// surface.
type Store struct {
	dir        string
	publicPath string
}

// New creates the upload directory if needed and returns a store.
func New(cfg config.UploadsConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	return &Store{dir: cfg.Dir, publicPath: strings.TrimSuffix(cfg.PublicPath, "/")}, nil
}

// Save persists the reader under a random name and returns the public URL
// path clients use to fetch it.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	return s.publicPath + "/" + name, nil
}

// Dir returns the on-disk directory backing the public path.
func (s *Store) Dir() string {
	return s.dir
}
