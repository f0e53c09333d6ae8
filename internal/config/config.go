package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"archmap/internal/area"
)

const (
	// ConfigFileEnv 設定ファイルのパスを指定する環境変数
	ConfigFileEnv = "ARCHMAP_CONFIG_FILE"
	// DefaultConfigFile カレントディレクトリにあれば読み込む
	DefaultConfigFile = "archmap.yaml"

	envPrefix = "ARCHMAP_"
)

// Steps 実行する出力の選択
type Steps struct {
	HTML         bool `yaml:"html"`
	Image        bool `yaml:"image"`
	Placeholders bool `yaml:"placeholders"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config 入出力パスと描画設定
type Config struct {
	AreasFile       string `yaml:"areas_file"`
	TemplateFile    string `yaml:"template_file"`
	OutputHTML      string `yaml:"output_html"`
	SourceImage     string `yaml:"source_image"`
	OutputImage     string `yaml:"output_image"`
	PlaceholderRoot string `yaml:"placeholder_root"`
	// LinkExtension href とプレースホルダーファイルの両方に使う拡張子
	LinkExtension string  `yaml:"link_extension"`
	Labels        bool    `yaml:"labels"`
	LabelSize     float64 `yaml:"label_size"`
	JPEGQuality   int     `yaml:"jpeg_quality"`
	SkipMalformed bool    `yaml:"skip_malformed"`
	Steps         Steps   `yaml:"steps"`
	Logging       Logging `yaml:"logging"`
}

// Default 従来のスクリプトと同じファイル名
func Default() *Config {
	return &Config{
		AreasFile:       "areas.txt",
		TemplateFile:    "overall-architecture-template.html",
		OutputHTML:      "overall-architecture.html",
		SourceImage:     "Overall_architecture_in.png",
		OutputImage:     "Overall_architecture.png",
		PlaceholderRoot: "",
		LinkExtension:   area.DefaultExtension,
		JPEGQuality:     90,
		Steps: Steps{
			HTML:         true,
			Image:        true,
			Placeholders: true,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file and ARCHMAP_*
// environment variables, in that order. A .env file in the working
// directory is loaded first without overriding the real environment.
// When path is empty ARCHMAP_CONFIG_FILE is used, and failing that
// DefaultConfigFile if it exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"AREAS_FILE":       &c.AreasFile,
		"TEMPLATE_FILE":    &c.TemplateFile,
		"OUTPUT_HTML":      &c.OutputHTML,
		"SOURCE_IMAGE":     &c.SourceImage,
		"OUTPUT_IMAGE":     &c.OutputImage,
		"PLACEHOLDER_ROOT": &c.PlaceholderRoot,
		"LINK_EXTENSION":   &c.LinkExtension,
		"LOG_LEVEL":        &c.Logging.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"LABELS":            &c.Labels,
		"SKIP_MALFORMED":    &c.SkipMalformed,
		"LOG_PRETTY":        &c.Logging.Pretty,
		"STEP_HTML":         &c.Steps.HTML,
		"STEP_IMAGE":        &c.Steps.Image,
		"STEP_PLACEHOLDERS": &c.Steps.Placeholders,
	}
	for key, dst := range bools {
		if v, ok := lookup(envPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup(envPrefix + "JPEG_QUALITY"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sJPEG_QUALITY: %w", envPrefix, err)
		}
		c.JPEGQuality = n
	}
	if v, ok := lookup(envPrefix + "LABEL_SIZE"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sLABEL_SIZE: %w", envPrefix, err)
		}
		c.LabelSize = f
	}
	return nil
}

// Validate 実行前に設定の矛盾を検出する
func (c *Config) Validate() error {
	var errs []error
	if c.AreasFile == "" {
		errs = append(errs, errors.New("areas_file is empty"))
	}
	if c.Steps.HTML {
		if c.TemplateFile == "" {
			errs = append(errs, errors.New("template_file is empty"))
		}
		if c.OutputHTML == "" {
			errs = append(errs, errors.New("output_html is empty"))
		}
	}
	if c.Steps.Image {
		if c.SourceImage == "" {
			errs = append(errs, errors.New("source_image is empty"))
		}
		if c.OutputImage == "" {
			errs = append(errs, errors.New("output_image is empty"))
		}
	}
	if c.LinkExtension != "" && !strings.HasPrefix(c.LinkExtension, ".") {
		errs = append(errs, fmt.Errorf("link_extension %q must start with a dot", c.LinkExtension))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality %d is outside 1-100", c.JPEGQuality))
	}
	if c.LabelSize < 0 {
		errs = append(errs, fmt.Errorf("label_size %v is negative", c.LabelSize))
	}
	return errors.Join(errs...)
}
