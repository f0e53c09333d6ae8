package annotate

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"archmap/internal/area"
)

func whiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func TestFillColorCoversEveryNodeType(t *testing.T) {
	seen := map[color.NRGBA]bool{}
	for _, nt := range area.NodeTypes {
		c := FillColor(nt)
		assert.Equal(t, uint8(fillAlpha), c.A, nt.String())
		seen[c] = true
	}
	assert.Len(t, seen, len(area.NodeTypes))
	assert.Equal(t, color.NRGBA{0x80, 0x00, 0x80, 0x20}, FillColor(area.Component))
	assert.Equal(t, color.NRGBA{0x80, 0x80, 0x00, 0x20}, FillColor(area.Interface))
}

func TestAnnotateKeepsDimensions(t *testing.T) {
	src := whiteImage(120, 80)
	out, err := Annotate(src, []area.Area{
		{Type: "component", X: 10, Y: 10, Width: 20, Height: 20, Name: "A"},
		{Type: "storage", X: 100, Y: 60, Width: 50, Height: 50, Name: "Clipped"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, src.Bounds().Size(), out.Bounds().Size())
}

func TestAnnotateDrawsOutlineAndFill(t *testing.T) {
	src := whiteImage(50, 50)
	a := area.Area{Type: "component", X: 10, Y: 10, Width: 20, Height: 10, Name: "A"}
	out, err := Annotate(src, []area.Area{a}, Options{})
	require.NoError(t, err)

	black := color.NRGBA{0, 0, 0, 0xff}
	// both corners of the box are inclusive
	assert.Equal(t, black, out.NRGBAAt(10, 10))
	assert.Equal(t, black, out.NRGBAAt(30, 20))
	assert.Equal(t, black, out.NRGBAAt(20, 10))
	assert.Equal(t, black, out.NRGBAAt(10, 15))

	inside := out.NRGBAAt(20, 15)
	assert.Equal(t, uint8(0xff), inside.A)
	assert.Less(t, inside.G, inside.R, "component fill tints towards purple")
	assert.Equal(t, inside.R, inside.B)
	assert.Greater(t, inside.R, uint8(0xc0), "fill stays translucent")

	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, out.NRGBAAt(31, 21))
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, src.NRGBAAt(20, 15), "source is untouched")
}

func TestAnnotateLaterAreasOverlayEarlier(t *testing.T) {
	green := area.Area{Type: "channel", X: 0, Y: 0, Width: 20, Height: 20, Name: "G"}
	red := area.Area{Type: "storage", X: 10, Y: 10, Width: 20, Height: 20, Name: "R"}

	gr, err := Annotate(whiteImage(40, 40), []area.Area{green, red}, Options{})
	require.NoError(t, err)
	rg, err := Annotate(whiteImage(40, 40), []area.Area{red, green}, Options{})
	require.NoError(t, err)

	assert.NotEqual(t, gr.NRGBAAt(15, 15), rg.NRGBAAt(15, 15))
	assert.Greater(t, gr.NRGBAAt(15, 15).R, gr.NRGBAAt(15, 15).G)
	assert.Greater(t, rg.NRGBAAt(15, 15).G, rg.NRGBAAt(15, 15).R)
	// green's outline stays visible outside the overlap
	assert.Equal(t, color.NRGBA{0, 0, 0, 0xff}, gr.NRGBAAt(5, 0))
}

func TestAnnotateUnknownType(t *testing.T) {
	_, err := Annotate(whiteImage(10, 10), []area.Area{
		{Type: "component", X: 1, Y: 1, Width: 2, Height: 2, Name: "ok"},
		{Type: "widget", X: 1, Y: 1, Width: 2, Height: 2, Name: "bad", Line: 2},
	}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, area.ErrUnknownAreaType)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFlattenDiscardsAlpha(t *testing.T) {
	stored := color.NRGBA{200, 100, 50, 0}
	rect := image.Rect(0, 0, 2, 1)

	nrgba := image.NewNRGBA(rect)
	nrgba.SetNRGBA(0, 0, stored)
	nrgba.SetNRGBA(1, 0, color.NRGBA{40, 50, 60, 128})

	nrgba64 := image.NewNRGBA64(rect)
	nrgba64.SetNRGBA64(0, 0, color.NRGBA64{200 * 0x101, 100 * 0x101, 50 * 0x101, 0})
	nrgba64.SetNRGBA64(1, 0, color.NRGBA64{40 * 0x101, 50 * 0x101, 60 * 0x101, 128 * 0x101})

	paletted := image.NewPaletted(rect, color.Palette{stored, color.NRGBA{40, 50, 60, 128}})
	paletted.SetColorIndex(0, 0, 0)
	paletted.SetColorIndex(1, 0, 1)

	opaqueRGBA := image.NewRGBA(rect)
	opaqueRGBA.SetRGBA(0, 0, color.RGBA{200, 100, 50, 0xff})
	opaqueRGBA.SetRGBA(1, 0, color.RGBA{40, 50, 60, 0xff})

	tests := []struct {
		name string
		src  image.Image
	}{
		{"NRGBA", nrgba},
		{"NRGBA64", nrgba64},
		{"Paletted", paletted},
		{"RGBA", opaqueRGBA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Flatten(tt.src)
			assert.Equal(t, color.NRGBA{200, 100, 50, 0xff}, out.NRGBAAt(0, 0))
			assert.Equal(t, color.NRGBA{40, 50, 60, 0xff}, out.NRGBAAt(1, 0))
		})
	}
	assert.Equal(t, uint8(0), nrgba.NRGBAAt(0, 0).A, "source is untouched")
}

func TestAnnotateWithLabels(t *testing.T) {
	plain, err := Annotate(whiteImage(200, 60), []area.Area{
		{Type: "topic", X: 10, Y: 10, Width: 180, Height: 40, Name: "Events"},
	}, Options{})
	require.NoError(t, err)
	labelled, err := Annotate(whiteImage(200, 60), []area.Area{
		{Type: "topic", X: 10, Y: 10, Width: 180, Height: 40, Name: "Events"},
	}, Options{Labels: true})
	require.NoError(t, err)
	assert.NotEqual(t, plain.Pix, labelled.Pix)
}

func TestLabelFaceFollowsSize(t *testing.T) {
	small := labelFace(labelSize(0))
	large := labelFace(24)
	assert.NotEqual(t, basicfont.Face7x13, small)
	assert.Greater(t, large.Metrics().Height, small.Metrics().Height)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"out.png":  PNG,
		"out.JPG":  JPEG,
		"out.jpeg": JPEG,
		"out.bmp":  BMP,
		"out.tiff": TIFF,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("out.webp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAnnotateFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	require.NoError(t, WriteImage(src, whiteImage(64, 32), 0))
	before, err := os.ReadFile(src)
	require.NoError(t, err)

	for _, name := range []string{"out.png", "out.jpg", "out.bmp", "out.tif"} {
		dst := filepath.Join(dir, name)
		err := AnnotateFile(src, dst, []area.Area{
			{Type: "interface", X: 4, Y: 4, Width: 10, Height: 10, Name: "API"},
		}, Options{}, 80)
		require.NoError(t, err, name)

		img, _, err := Decode(dst)
		require.NoError(t, err, name)
		assert.Equal(t, 64, img.Bounds().Dx(), name)
		assert.Equal(t, 32, img.Bounds().Dy(), name)
	}

	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAnnotateFileRefusesToOverwriteSource(t *testing.T) {
	src := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, WriteImage(src, whiteImage(4, 4), 0))
	err := AnnotateFile(src, src, nil, Options{}, 0)
	assert.Error(t, err)
}
