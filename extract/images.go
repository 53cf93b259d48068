package extract

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/docsplit/docx"
)

// ErrUndecodableImage is returned when image bytes are not a supported
// raster format.
var ErrUndecodableImage = errors.New("extract: undecodable image")

// PartSource resolves relationship IDs to package part bytes.
type PartSource interface {
	Part(relID string) ([]byte, error)
}

// ImageSink persists decoded images and returns the written path.
type ImageSink interface {
	Save(data []byte) (string, error)
}

// ImageStore writes images as PNG files with unique names into one
// directory.
type ImageStore struct {
	dir string
}

// NewImageStore returns a store writing into dir, creating it if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if dir == "" {
		return nil, errors.New("extract: empty image directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save decodes data and writes it as <uuid>.png. Nothing is written when
// decoding fails.
func (s *ImageStore) Save(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding png: %w", err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ".png"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing image: %w", err)
	}
	return path, nil
}

// Images extracts every picture embedded in p and returns the written paths
// in encounter order. Pictures that cannot be resolved or decoded are
// logged and skipped.
func Images(p docx.Paragraph, parts PartSource, sink ImageSink) []string {
	var paths []string
	for _, ref := range p.ImageRefs() {
		data, err := parts.Part(ref)
		if err != nil {
			slog.Warn("skipping image: unresolved relationship", "rId", ref, "error", err)
			continue
		}

		path, err := sink.Save(data)
		if err != nil {
			slog.Warn("skipping image", "rId", ref, "error", err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
