package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// SourceDPI is the resolution assumed for image pixels.
	SourceDPI = 96.0

	// MaxImageWidth and MaxImageHeight bound displayed images, in points.
	MaxImageWidth  = 6 * 72.0
	MaxImageHeight = 5 * 72.0
)

// FitImage returns the display size in points of a widthPx x heightPx
// image. The image keeps its aspect ratio, fits within MaxImageWidth x
// MaxImageHeight and is never scaled above its size at SourceDPI.
func FitImage(widthPx, heightPx int) (w, h float64) {
	if widthPx <= 0 || heightPx <= 0 {
		return 0, 0
	}
	w = float64(widthPx) / SourceDPI * 72
	h = float64(heightPx) / SourceDPI * 72

	scale := MaxImageWidth / w
	if s := MaxImageHeight / h; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return w * scale, h * scale
}

// loadedImage is an image re-encoded as 8-bit PNG for embedding.
type loadedImage struct {
	png           []byte
	width, height int
}

// loadImage reads and decodes the image at path. The result is always an
// 8-bit NRGBA PNG, which the PDF writer can embed whatever the source
// format or bit depth.
func loadImage(path string) (*loadedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image %s", path)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return &loadedImage{png: buf.Bytes(), width: b.Dx(), height: b.Dy()}, nil
}
