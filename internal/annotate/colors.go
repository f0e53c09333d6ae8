package annotate

import (
	"fmt"
	"image/color"

	"archmap/internal/area"
)

// fillAlpha 塗りつぶしの透明度。下の図が読める程度に薄くする
const fillAlpha = 0x20

var outlineColor = color.NRGBA{0, 0, 0, 0xff}

// FillColor 種別ごとの塗りつぶし色
func FillColor(t area.NodeType) color.NRGBA {
	switch t {
	case area.Component:
		return color.NRGBA{0x80, 0x00, 0x80, fillAlpha}
	case area.Channel:
		return color.NRGBA{0x00, 0x80, 0x00, fillAlpha}
	case area.Topic:
		return color.NRGBA{0x00, 0x00, 0x80, fillAlpha}
	case area.Storage:
		return color.NRGBA{0x80, 0x00, 0x00, fillAlpha}
	case area.Interface:
		return color.NRGBA{0x80, 0x80, 0x00, fillAlpha}
	}
	panic(fmt.Sprintf("annotate: no fill color for %v", t))
}

// ColorFor looks up the fill for a raw type string.
func ColorFor(a area.Area) (color.NRGBA, error) {
	t, err := a.NodeType()
	if err != nil {
		return color.NRGBA{}, err
	}
	return FillColor(t), nil
}
