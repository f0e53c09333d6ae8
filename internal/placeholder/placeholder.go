package placeholder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"archmap/internal/area"
)

var ErrPathNotFound = errors.New("path not found")

// Result Touch の結果
type Result struct {
	Created  []string
	Existing []string
}

// FilePath <root>/<type>/<slug><ext>
func FilePath(root string, a area.Area, ext string) string {
	return filepath.Join(root, filepath.FromSlash(a.Path(ext)))
}

// Touch makes sure a file exists for every area. Missing files are created
// empty; existing files are left exactly as they are. Parent directories
// are never created.
func Touch(root string, areas []area.Area, ext string) (Result, error) {
	var res Result
	for _, a := range areas {
		path := FilePath(root, a, ext)
		created, err := touchFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return res, fmt.Errorf("area %q (line %d): %w: %s: %w", a.Name, a.Line, ErrPathNotFound, filepath.Dir(path), err)
			}
			return res, fmt.Errorf("area %q (line %d): %w", a.Name, a.Line, err)
		}
		if created {
			log.Debug().Str("path", path).Msg("placeholder created")
			res.Created = append(res.Created, path)
		} else {
			log.Debug().Str("path", path).Msg("placeholder already exists")
			res.Existing = append(res.Existing, path)
		}
	}
	return res, nil
}

// touchFile 作成した場合 true を返す。既存ファイルは更新時刻だけ変える
func touchFile(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err == nil {
		return true, f.Close()
	}
	if !errors.Is(err, fs.ErrExist) {
		return false, err
	}
	now := time.Now()
	return false, os.Chtimes(path, now, now)
}
