package area

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultExtension HTMLのリンク先とプレースホルダーファイルで共有する拡張子
const DefaultExtension = ".html"

var ErrUnknownAreaType = errors.New("unknown area type")

// Area 図上の矩形領域1件分
type Area struct {
	Type   string
	X      int
	Y      int
	Width  int
	Height int
	Name   string
	// Line 入力ファイル上の行番号 (1始まり、不明な場合は0)
	Line int
}

// Right 右端のX座標
func (a Area) Right() int { return a.X + a.Width }

// Bottom 下端のY座標
func (a Area) Bottom() int { return a.Y + a.Height }

// NodeType 色テーブルで解決できる種別を返す
func (a Area) NodeType() (NodeType, error) {
	return ParseNodeType(a.Type)
}

// Slug 出力パスに使う名前を返す
func (a Area) Slug() string { return Slug(a.Name) }

// Path <type>/<slug><ext> 形式の相対パス
func (a Area) Path(ext string) string {
	return Path(a.Type, a.Name, ext)
}

func (a Area) String() string {
	return fmt.Sprintf("%s %d %d %d %d %s", a.Type, a.X, a.Y, a.Width, a.Height, a.Name)
}

// NodeType 領域の種別。色と出力先ディレクトリを決める
type NodeType int

const (
	Component NodeType = iota
	Channel
	Topic
	Storage
	Interface
)

// NodeTypes 全種別 (定義順)
var NodeTypes = []NodeType{Component, Channel, Topic, Storage, Interface}

func (t NodeType) String() string {
	switch t {
	case Component:
		return "component"
	case Channel:
		return "channel"
	case Topic:
		return "topic"
	case Storage:
		return "storage"
	case Interface:
		return "interface"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// ParseNodeType 種別名を NodeType に変換する
func ParseNodeType(s string) (NodeType, error) {
	for _, t := range NodeTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAreaType, s)
}

// Slug lowercases name and replaces each space with a hyphen. Nothing else
// is normalised, so punctuation, repeated spaces and non-ASCII runes pass
// through unchanged.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func Path(nodeType, name, ext string) string {
	return nodeType + "/" + Slug(name) + ext
}
