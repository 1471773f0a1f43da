package train

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/captcha-match/internal/extract"
	"github.com/ironsheep/captcha-match/internal/geometry"
	"github.com/ironsheep/captcha-match/internal/kb"
)

// pngMagic is the PNG signature prefix used to pick the raster variant for
// files whose extension lies.
var pngMagic = []byte("\x89PNG")

// SkipReason explains why a sample file did not contribute to the rebuild.
type SkipReason string

const (
	// SkipLabelMismatch: extracted glyph count differs from label length.
	// Usually parsing noise or characters fused beyond splitting.
	SkipLabelMismatch SkipReason = "label_mismatch"

	// SkipParseFailure: the file could not be read or decoded.
	SkipParseFailure SkipReason = "parse_failure"

	// SkipNoGlyphs: extraction found no shapes after noise filtering.
	SkipNoGlyphs SkipReason = "no_glyphs"
)

// FileResult records the outcome for a single sample file.
type FileResult struct {
	// Name is the file's base name.
	Name string `json:"name"`

	// Label is the character sequence derived from the file name.
	Label string `json:"label"`

	// Samples is the number of labeled samples the file contributed.
	// Zero when the file was skipped.
	Samples int `json:"samples"`

	// Skipped reports whether the file was excluded from the rebuild.
	Skipped bool `json:"skipped"`

	// Reason is set when Skipped is true.
	Reason SkipReason `json:"reason,omitempty"`

	// Detail carries the underlying error text for parse failures.
	Detail string `json:"detail,omitempty"`

	// GlyphCount is the number of glyphs extraction found, recorded for
	// mismatch diagnostics.
	GlyphCount int `json:"glyph_count,omitempty"`

	// samples carries the file's labeled samples back to the rebuild loop.
	samples []kb.Sample
}

// Report summarizes a full rebuild.
type Report struct {
	// Files holds one result per sample file, in processing order.
	Files []FileResult `json:"files"`

	// Processed is the number of files that contributed samples.
	Processed int `json:"processed"`

	// Skipped is the number of files excluded.
	Skipped int `json:"skipped"`

	// Samples is the total sample count persisted.
	Samples int `json:"samples"`
}

// Trainer rebuilds a knowledge base from labeled sample files.
type Trainer struct {
	repo    kb.Repository
	options extract.Options
}

// New returns a trainer persisting through repo and extracting with the
// given options.
func New(repo kb.Repository, options extract.Options) *Trainer {
	return &Trainer{repo: repo, options: options}
}

// sampleExtensions are the file types a labeled directory may contain.
// Anything else is silently ignored (editors leave droppings everywhere).
var sampleExtensions = map[string]bool{
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Rebuild replaces the knowledge base with samples extracted from every
// labeled file in dir. Files are processed in sorted name order so repeated
// rebuilds from the same directory produce byte-identical bases.
//
// Per-file failures are reported, not returned: the error is non-nil only
// when the directory itself cannot be read or the final persist fails. In
// either of those cases the previously persisted base is left untouched.
func (t *Trainer) Rebuild(dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read labeled directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !sampleExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	report := &Report{}
	var collected []kb.Sample

	for _, name := range names {
		result := t.processFile(filepath.Join(dir, name), name)
		report.Files = append(report.Files, result)
		if result.Skipped {
			report.Skipped++
			continue
		}
		report.Processed++
		collected = append(collected, result.samples...)
	}

	if err := t.repo.Save(collected); err != nil {
		return nil, fmt.Errorf("failed to persist knowledge base: %w", err)
	}
	report.Samples = len(collected)
	return report, nil
}

// processFile extracts and labels one sample file.
func (t *Trainer) processFile(path, name string) FileResult {
	label := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
	result := FileResult{Name: name, Label: label}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Skipped = true
		result.Reason = SkipParseFailure
		result.Detail = err.Error()
		return result
	}

	glyphs, err := extract.Extract(inputFor(name, data), t.options)
	if err != nil {
		result.Skipped = true
		if errors.Is(err, extract.ErrNoGlyphs) {
			result.Reason = SkipNoGlyphs
		} else {
			result.Reason = SkipParseFailure
			result.Detail = err.Error()
		}
		return result
	}

	labels := []rune(label)
	result.GlyphCount = len(glyphs)
	if len(glyphs) != len(labels) {
		result.Skipped = true
		result.Reason = SkipLabelMismatch
		return result
	}

	for i, g := range glyphs {
		result.samples = append(result.samples, kb.Sample{
			Label:  string(labels[i]),
			Points: geometry.Normalize(g.Points, geometry.FrameSize),
		})
	}
	result.Samples = len(result.samples)
	return result
}

// inputFor picks the extraction variant: raster for image extensions or a
// PNG signature, markup otherwise.
func inputFor(name string, data []byte) extract.Input {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return extract.RasterInput{Data: data}
	}
	if bytes.HasPrefix(data, pngMagic) {
		return extract.RasterInput{Data: data}
	}
	return extract.MarkupInput{Markup: string(data)}
}
