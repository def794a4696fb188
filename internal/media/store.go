package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/SHERATONS/FISHERMEN/pkg/config"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

// Store persists uploaded listing photos on local disk and hands back the URL
// they will be served from.
type Store interface {
	SaveImage(ctx context.Context, originalName string, r io.Reader) (string, error)
}

type diskStore struct {
	dir     string
	baseURL string
}

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// NewDiskStore creates the media directory if needed and returns a store
// rooted there.
func NewDiskStore(cfg config.MediaConfig) (Store, error) {
	if cfg.Dir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media directory required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create media directory")
	}
	return &diskStore{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (s *diskStore) SaveImage(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if r == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image payload required")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported image type %q", ext))
	}

	name := uuid.NewString() + ext
	target := filepath.Join(s.dir, name)

	file, err := os.Create(target)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create image file")
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		os.Remove(target)
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write image file")
	}

	return path.Join(s.baseURL, name), nil
}
