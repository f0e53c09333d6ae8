package version

// Version archmap のバージョン番号
const Version = "1.2.0"

// Changes 最近の変更点
var Changes = []string{
	"プレースホルダーの拡張子をHTMLのリンク先と共通の設定にしました。",
	"元画像のアルファチャンネルを常に破棄するようにしました。",
	"テンプレートにマーカーが無い場合はエラーにしました。",
}
