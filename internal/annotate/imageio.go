package annotate

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"archmap/internal/area"
	"archmap/internal/utils"
)

// DefaultJPEGQuality JPEG で書き出すときの既定品質
const DefaultJPEGQuality = 90

var ErrUnsupportedFormat = errors.New("unsupported output image format")

// Format 出力画像の形式
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// FormatFromPath picks the encoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Decode reads a PNG, JPEG, GIF, WebP, BMP or TIFF image.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, format, nil
}

func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}

// WriteImage 画像を拡張子に応じた形式で書き出す
func WriteImage(path string, img image.Image, quality int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomicFunc(path, func(w io.Writer) error {
		return Encode(w, img, format, quality)
	})
}

// AnnotateFile decodes src, annotates it and writes the result to dst.
// src and dst must differ.
func AnnotateFile(src, dst string, areas []area.Area, opts Options, quality int) error {
	if sameFile(src, dst) {
		return fmt.Errorf("output image %s would overwrite the source image", dst)
	}
	if _, err := FormatFromPath(dst); err != nil {
		return err
	}
	img, format, err := Decode(src)
	if err != nil {
		return err
	}
	log.Debug().Str("path", src).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).
		Msg("source image decoded")

	out, err := Annotate(img, areas, opts)
	if err != nil {
		return err
	}
	return WriteImage(dst, out, quality)
}

func sameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
