package htmlmap

import (
	"errors"
	"fmt"
	"strings"

	"archmap/internal/area"
	"archmap/internal/utils"
)

const (
	// Marker テンプレート内で <area> 群に置き換えられる文字列
	Marker = "<map-areas />"

	indent = "                "
)

var (
	ErrMarkerNotFound  = errors.New("template marker " + Marker + " not found")
	ErrMarkerAmbiguous = errors.New("template marker " + Marker + " appears more than once")
)

// Href リンク先 (<type>/<slug><ext>)
func Href(a area.Area, ext string) string {
	return a.Path(ext)
}

// Tag 1件分の <area> 要素 (インデント・改行なし)
//
// Names are embedded verbatim; area files are author-controlled.
func Tag(a area.Area, ext string) string {
	return fmt.Sprintf(`<area shape="rect" coords="%d, %d, %d, %d" title="%s" alt="%s" href="%s" />`,
		a.X, a.Y, a.Right(), a.Bottom(), a.Name, a.Name, Href(a, ext))
}

// Fragment renders one indented <area> line per record in input order.
// The final line terminator is trimmed so the fragment drops into the
// template in place of the marker.
func Fragment(areas []area.Area, ext string) string {
	var b strings.Builder
	for _, a := range areas {
		b.WriteString(indent)
		b.WriteString(Tag(a, ext))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Splice テンプレートのマーカーをフラグメントで置き換える
func Splice(template, fragment string) (string, error) {
	switch strings.Count(template, Marker) {
	case 0:
		return "", ErrMarkerNotFound
	case 1:
		return strings.Replace(template, Marker, fragment, 1), nil
	default:
		return "", ErrMarkerAmbiguous
	}
}

func Render(areas []area.Area, template, ext string) (string, error) {
	return Splice(template, Fragment(areas, ext))
}

// WriteDocument 生成したHTMLを書き出す (既存の内容は上書き)
func WriteDocument(path, doc string) error {
	return utils.WriteFileAtomic(path, []byte(doc))
}
