// Package localfs stores cheque images on the local filesystem. Paths are
// returned relative to the configured root so the storage directory can move
// without rewriting cheque rows.
package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	portsstorage "github.com/finbook/finbook_backend/internal/core/ports/storage"
)

type ImageStore struct {
	root string
}

// NewImageStore creates the root directory if needed and returns the store.
func NewImageStore(root string) (*ImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", root, err)
	}
	return &ImageStore{root: root}, nil
}

var _ portsstorage.ChequeImageStore = (*ImageStore)(nil)

// sanitizeChequeNumber keeps the cheque number readable in filenames while
// stripping anything path-hostile.
func sanitizeChequeNumber(chequeNumber string) string {
	mapper := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}
	return strings.Map(mapper, chequeNumber)
}

// Save writes the image under a collision-free name and returns the relative
// path to record on the cheque.
func (s *ImageStore) Save(_ context.Context, chequeNumber string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	name := fmt.Sprintf("%s_%d_%s.img", sanitizeChequeNumber(chequeNumber), time.Now().UTC().Unix(), uuid.NewString()[:8])
	fullPath := filepath.Join(s.root, name)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write cheque image %s: %w", fullPath, err)
	}
	return name, nil
}
