// Package photo turns image files into compressed JPEG data URLs for
// storing alongside a goal.
package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxWidth is the widest stored photo.
	MaxWidth = 800
	// Quality is the JPEG quality of stored photos.
	Quality = 75

	dataURLPrefix = "data:image/jpeg;base64,"
)

// ErrNotImage is returned when the input cannot be decoded as an image.
var ErrNotImage = errors.New("not an image")

// Compressor is the photo collaborator used by the controller.
type Compressor interface {
	Compress(ctx context.Context, r io.Reader) (string, error)
}

// JPEG compresses to MaxWidth and Quality.
type JPEG struct {
	MaxWidth int
	Quality  int
}

// Default returns the standard compressor.
func Default() JPEG {
	return JPEG{MaxWidth: MaxWidth, Quality: Quality}
}

// Compress implements Compressor.
func (j JPEG) Compress(ctx context.Context, r io.Reader) (string, error) {
	return Compress(ctx, r, j.MaxWidth, j.Quality)
}

// Compress decodes r, scales it down to maxWidth keeping the aspect ratio,
// and re-encodes it as a JPEG data URL.
func Compress(ctx context.Context, r io.Reader, maxWidth, quality int) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := scale(src, maxWidth)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CompressFile compresses the image at path.
func CompressFile(ctx context.Context, c Compressor, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening photo: %w", err)
	}
	defer f.Close()
	return c.Compress(ctx, f)
}

// scale returns src resized to at most maxWidth wide, flattened onto white
// since JPEG has no alpha.
func scale(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = max(1, h*maxWidth/w)
		w = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Decode parses a data URL produced by Compress back into an image.
func Decode(dataURL string) (image.Image, error) {
	if len(dataURL) < len(dataURLPrefix) || dataURL[:len(dataURLPrefix)] != dataURLPrefix {
		return nil, ErrNotImage
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[len(dataURLPrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, nil
}
