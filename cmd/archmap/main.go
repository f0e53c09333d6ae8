package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"archmap/internal/config"
	"archmap/internal/pipeline"
	"archmap/internal/utils"
	"archmap/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 終了コード: 0 成功, 1 実行失敗, 2 引数・設定の誤り
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("archmap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  = fs.String("config", "", "YAML config file (default $"+config.ConfigFileEnv+" or ./"+config.DefaultConfigFile+")")
		initConfig  = fs.String("init-config", "", "write a default config file to this path and exit (existing files are kept)")
		showVersion = fs.Bool("version", false, "print version and exit")

		areas        = fs.String("areas", "", "area definition file")
		template     = fs.String("template", "", "HTML template containing <map-areas />")
		outHTML      = fs.String("html", "", "output HTML file")
		srcImage     = fs.String("image", "", "source diagram image")
		outImage     = fs.String("out-image", "", "annotated output image (.png, .jpg, .bmp, .tiff)")
		root         = fs.String("docs", "", "placeholder root directory")
		ext          = fs.String("ext", "", "extension for hrefs and placeholder files")
		labels       = fs.Bool("labels", false, "draw area names on the image")
		skip         = fs.Bool("skip-malformed", false, "skip malformed lines instead of aborting")
		noHTML       = fs.Bool("no-html", false, "skip the HTML map")
		noImage      = fs.Bool("no-image", false, "skip image annotation")
		noPlaceholds = fs.Bool("no-placeholders", false, "skip placeholder files")
		logLevel     = fs.String("log-level", "", "debug, info, warn or error")
		pretty       = fs.Bool("pretty", false, "human readable log output")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "archmap %s\n", version.Version)
		for _, c := range version.Changes {
			fmt.Fprintf(stdout, "  - %s\n", c)
		}
		return 0
	}

	if *initConfig != "" {
		written, err := config.WriteDefault(*initConfig)
		if err != nil {
			fmt.Fprintf(stderr, "archmap: %v\n", err)
			return 1
		}
		if written {
			fmt.Fprintf(stdout, "wrote %s\n", *initConfig)
		} else {
			fmt.Fprintf(stdout, "%s already exists, left unchanged\n", *initConfig)
		}
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "archmap: %v\n", err)
		return 2
	}

	// 明示的に指定されたフラグだけで上書きする
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "areas":
			cfg.AreasFile = *areas
		case "template":
			cfg.TemplateFile = *template
		case "html":
			cfg.OutputHTML = *outHTML
		case "image":
			cfg.SourceImage = *srcImage
		case "out-image":
			cfg.OutputImage = *outImage
		case "docs":
			cfg.PlaceholderRoot = *root
		case "ext":
			cfg.LinkExtension = *ext
		case "labels":
			cfg.Labels = *labels
		case "skip-malformed":
			cfg.SkipMalformed = *skip
		case "no-html":
			cfg.Steps.HTML = !*noHTML
		case "no-image":
			cfg.Steps.Image = !*noImage
		case "no-placeholders":
			cfg.Steps.Placeholders = !*noPlaceholds
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "pretty":
			cfg.Logging.Pretty = *pretty
		}
	})

	utils.SetupLoggerTo(stderr, cfg.Logging.Level, cfg.Logging.Pretty)

	sum, err := pipeline.Run(cfg)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, pipeline.ErrInvalidConfig) {
			return 2
		}
		return 1
	}
	log.Info().Int("areas", sum.Areas).Dur("elapsed", sum.Elapsed).Msg("done")
	return 0
}
