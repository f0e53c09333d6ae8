package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"

	"archmap/internal/area"
)

// Options 描画オプション
type Options struct {
	// Labels 矩形の中央に名前を描く
	Labels bool
	// LabelSize ラベルのフォントサイズ (pt)。0 なら defaultLabelSize
	LabelSize float64
}

// Annotate draws every area onto a flattened copy of src, in input order.
// Later fills are composited over earlier ones. The source image is not
// modified.
func Annotate(src image.Image, areas []area.Area, opts Options) (*image.NRGBA, error) {
	// 色の解決を先に済ませて、途中で失敗したときに半端な画像を作らない
	fills := make([]color.NRGBA, len(areas))
	for i, a := range areas {
		c, err := ColorFor(a)
		if err != nil {
			return nil, fmt.Errorf("area %q (line %d): %w", a.Name, a.Line, err)
		}
		fills[i] = c
	}

	dst := Flatten(src)
	origin := dst.Bounds().Min
	var face font.Face
	if opts.Labels {
		face = labelFace(labelSize(opts.LabelSize))
	}
	for i, a := range areas {
		if a.Width <= 0 || a.Height <= 0 {
			log.Warn().Str("name", a.Name).Int("line", a.Line).
				Int("width", a.Width).Int("height", a.Height).
				Msg("area has non-positive extent")
		}
		r := BoxRect(a).Add(origin)
		log.Debug().Str("type", a.Type).Str("name", a.Name).Stringer("rect", r).Msg("drawing area")

		fillRect(dst, r, fills[i])
		strokeRect(dst, r, outlineColor, 1)
		if opts.Labels {
			drawCenteredText(dst, a.Name, r, face)
		}
	}
	return dst, nil
}

// BoxRect returns the pixel rectangle covered by an area. Both (x, y) and
// (x+width, y+height) are inside the box.
func BoxRect(a area.Area) image.Rectangle {
	return image.Rect(a.X, a.Y, a.Right()+1, a.Bottom()+1)
}

// Flatten copies src into a new NRGBA image with every pixel made opaque.
// Diagram exports carry a meaningless alpha channel, so the colour channels
// are kept as stored and alpha is discarded, whatever the source encoding.
func Flatten(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	if n, ok := src.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			copy(dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)],
				n.Pix[n.PixOffset(b.Min.X, y):n.PixOffset(b.Max.X, y)])
		}
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 0xff
		}
		return dst
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetNRGBA(x, y, opaque(src.At(x, y)))
		}
	}
	return dst
}

// opaque 非乗算の色成分をそのまま残して A=0xff にする
//
// Going through RGBA() would premultiply, and a transparent pixel would
// lose its colour.
func opaque(c color.Color) color.NRGBA {
	switch v := c.(type) {
	case color.NRGBA:
		v.A = 0xff
		return v
	case color.NRGBA64:
		return color.NRGBA{uint8(v.R >> 8), uint8(v.G >> 8), uint8(v.B >> 8), 0xff}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

func fillRect(img draw.Image, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Over)
}

func strokeRect(img draw.Image, r image.Rectangle, c color.NRGBA, width int) {
	if width <= 0 {
		width = 1
	}
	x1, y1, x2, y2 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	for i := 0; i < width; i++ {
		top := image.Rect(x1+i, y1+i, x2-i, y1+i+1)
		bottom := image.Rect(x1+i, y2-i-1, x2-i, y2-i)
		left := image.Rect(x1+i, y1+i, x1+i+1, y2-i)
		right := image.Rect(x2-i-1, y1+i, x2-i, y2-i)
		draw.Draw(img, top, &image.Uniform{C: c}, image.Point{}, draw.Over)
		draw.Draw(img, bottom, &image.Uniform{C: c}, image.Point{}, draw.Over)
		draw.Draw(img, left, &image.Uniform{C: c}, image.Point{}, draw.Over)
		draw.Draw(img, right, &image.Uniform{C: c}, image.Point{}, draw.Over)
	}
}
