package pipeline

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"archmap/internal/annotate"
	"archmap/internal/area"
	"archmap/internal/config"
	"archmap/internal/htmlmap"
	"archmap/internal/placeholder"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Summary 実行結果
type Summary struct {
	Areas               int
	Skipped             int
	HTMLWritten         bool
	ImageWritten        bool
	PlaceholdersCreated int
	PlaceholdersKept    int
	Elapsed             time.Duration
}

// Run parses the area file and produces every enabled artifact in turn.
// Nothing is written when parsing fails; any later failure aborts the run
// and earlier outputs stay in place.
func Run(cfg *config.Config) (Summary, error) {
	start := time.Now()
	var sum Summary

	if err := cfg.Validate(); err != nil {
		return sum, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	areas, recordErrs, err := area.ParseFile(cfg.AreasFile, cfg.SkipMalformed)
	if err != nil {
		return sum, fmt.Errorf("parse areas: %w", err)
	}
	for _, e := range recordErrs {
		log.Warn().Err(e).Msg("skipping malformed record")
	}
	sum.Areas = len(areas)
	sum.Skipped = len(recordErrs)
	log.Info().Str("file", cfg.AreasFile).Int("areas", sum.Areas).Int("skipped", sum.Skipped).Msg("areas loaded")

	ext := linkExtension(cfg)

	if cfg.Steps.HTML {
		if err := renderHTML(cfg, areas, ext); err != nil {
			return sum, fmt.Errorf("html map: %w", err)
		}
		sum.HTMLWritten = true
		log.Info().Str("path", cfg.OutputHTML).Msg("html map written")
	}

	if cfg.Steps.Image {
		opts := annotate.Options{Labels: cfg.Labels, LabelSize: cfg.LabelSize}
		if err := annotate.AnnotateFile(cfg.SourceImage, cfg.OutputImage, areas, opts, cfg.JPEGQuality); err != nil {
			return sum, fmt.Errorf("annotate %s: %w", cfg.SourceImage, err)
		}
		sum.ImageWritten = true
		log.Info().Str("path", cfg.OutputImage).Msg("annotated image written")
	}

	if cfg.Steps.Placeholders {
		res, err := placeholder.Touch(cfg.PlaceholderRoot, areas, ext)
		sum.PlaceholdersCreated = len(res.Created)
		sum.PlaceholdersKept = len(res.Existing)
		if err != nil {
			return sum, fmt.Errorf("placeholders: %w", err)
		}
		log.Info().Int("created", sum.PlaceholdersCreated).Int("existing", sum.PlaceholdersKept).Msg("placeholders ready")
	}

	sum.Elapsed = time.Since(start)
	return sum, nil
}

func renderHTML(cfg *config.Config, areas []area.Area, ext string) error {
	tmpl, err := os.ReadFile(cfg.TemplateFile)
	if err != nil {
		return err
	}
	doc, err := htmlmap.Render(areas, string(tmpl), ext)
	if err != nil {
		if errors.Is(err, htmlmap.ErrMarkerNotFound) || errors.Is(err, htmlmap.ErrMarkerAmbiguous) {
			return fmt.Errorf("%s: %w", cfg.TemplateFile, err)
		}
		return err
	}
	return htmlmap.WriteDocument(cfg.OutputHTML, doc)
}

func linkExtension(cfg *config.Config) string {
	if cfg.LinkExtension == "" {
		return area.DefaultExtension
	}
	return cfg.LinkExtension
}
