package annotate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const defaultLabelSize = 12

var (
	labelTextColor    = color.NRGBA{0x20, 0x20, 0x20, 0xff}
	labelOutlineColor = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

func labelSize(size float64) float64 {
	if size <= 0 {
		return defaultLabelSize
	}
	return size
}

// labelFace builds the Go regular face at size, or basicfont when the
// embedded font cannot be parsed.
func labelFace(size float64) font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// drawCenteredText 矩形の中央に白縁付きで文字を描く
func drawCenteredText(img draw.Image, text string, r image.Rectangle, face font.Face) {
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	textX := r.Min.X + (r.Dx()-textWidth)/2
	textY := r.Min.Y + (r.Dy()-textHeight)/2 + ascent

	for _, dx := range []int{-1, 0, 1} {
		for _, dy := range []int{-1, 0, 1} {
			if dx == 0 && dy == 0 {
				continue
			}
			drawText(img, text, textX+dx, textY+dy, labelOutlineColor, face)
		}
	}
	drawText(img, text, textX, textY, labelTextColor, face)
}

func drawText(img draw.Image, text string, x, y int, c color.NRGBA, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
