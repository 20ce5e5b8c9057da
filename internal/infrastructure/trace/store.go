package trace

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"webpilot/internal/application/port/output"

	"github.com/disintegration/imaging"
)

var _ output.TracePort = (*Store)(nil)

const (
	maxWidth    = 1024
	jpegQuality = 75
)

// Store writes step screenshots to <dir>/<run>/step_NNN.jpg.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Path(runID string, step int) string {
	return filepath.Join(s.dir, runID, fmt.Sprintf("step_%03d.jpg", step))
}

func (s *Store) Capture(ctx context.Context, runID string, step int, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	path := s.Path(runID, step)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create trace dir: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("jpeg encode failed: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
