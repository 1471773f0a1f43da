// Package config loads the recognizer's YAML configuration, falling back to
// defaults when no file exists. Every knob has a safe default; a config file
// only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/captcha-match/internal/extract"
)

// KnowledgeBaseConfig selects and locates the persistence backend.
type KnowledgeBaseConfig struct {
	// Backend is "file" (JSON flat file) or "bolt" (bbolt database).
	Backend string `yaml:"backend"`

	// Path is the database file location.
	Path string `yaml:"path"`
}

// ExtractConfig tunes glyph extraction; see extract.Options.
type ExtractConfig struct {
	MinArea        int     `yaml:"min_area"`
	MinHeight      int     `yaml:"min_height"`
	UpscaleBelow   int     `yaml:"upscale_below"`
	SplitAspect    float64 `yaml:"split_aspect"`
	MinSlicePoints int     `yaml:"min_slice_points"`
}

// MatchConfig tunes classification.
type MatchConfig struct {
	// RejectThreshold is the distance at or above which a best match is
	// replaced by the sentinel label. Zero (or omitted) selects the
	// default; a negative value disables rejection.
	RejectThreshold float64 `yaml:"reject_threshold"`

	// MaxPoints bounds per-cloud size during distance computation.
	MaxPoints int `yaml:"max_points"`
}

// OCRConfig configures the alternate Tesseract engine.
type OCRConfig struct {
	Language  string `yaml:"language"`
	Whitelist string `yaml:"whitelist"`
}

// Config is the root configuration.
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
	Extract       ExtractConfig       `yaml:"extract"`
	Match         MatchConfig         `yaml:"match"`
	OCR           OCRConfig           `yaml:"ocr"`
}

// Load reads the config at path. A missing file yields the defaults; a
// present but malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)

	switch cfg.KnowledgeBase.Backend {
	case "file", "bolt":
	default:
		return nil, fmt.Errorf("unknown knowledge base backend %q", cfg.KnowledgeBase.Backend)
	}
	return &cfg, nil
}

// ExtractOptions converts the extraction section into extract.Options.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{
		MinArea:        c.Extract.MinArea,
		MinHeight:      c.Extract.MinHeight,
		UpscaleBelow:   c.Extract.UpscaleBelow,
		SplitAspect:    c.Extract.SplitAspect,
		MinSlicePoints: c.Extract.MinSlicePoints,
	}
}

func applyDefaults(cfg *Config) {
	if cfg.KnowledgeBase.Backend == "" {
		cfg.KnowledgeBase.Backend = "file"
	}
	if cfg.KnowledgeBase.Path == "" {
		cfg.KnowledgeBase.Path = "database.json"
	}

	def := extract.DefaultOptions()
	if cfg.Extract.MinArea == 0 {
		cfg.Extract.MinArea = def.MinArea
	}
	if cfg.Extract.MinHeight == 0 {
		cfg.Extract.MinHeight = def.MinHeight
	}
	if cfg.Extract.UpscaleBelow == 0 {
		cfg.Extract.UpscaleBelow = def.UpscaleBelow
	}
	if cfg.Extract.SplitAspect == 0 {
		cfg.Extract.SplitAspect = def.SplitAspect
	}
	if cfg.Extract.MinSlicePoints == 0 {
		cfg.Extract.MinSlicePoints = def.MinSlicePoints
	}

	if cfg.Match.RejectThreshold == 0 {
		cfg.Match.RejectThreshold = 1000
	}
	if cfg.Match.MaxPoints == 0 {
		cfg.Match.MaxPoints = 100
	}

	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "eng"
	}
}
