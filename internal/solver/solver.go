package solver

import (
	"errors"
	"fmt"

	"github.com/ironsheep/captcha-match/internal/extract"
	"github.com/ironsheep/captcha-match/internal/kb"
	"github.com/ironsheep/captcha-match/internal/match"
	"github.com/ironsheep/captcha-match/internal/ocr"
)

// Recognizer turns a captcha input into its character sequence.
type Recognizer interface {
	Recognize(in extract.Input) (string, error)
}

// Solver is the knowledge-base recognizer: extraction followed by
// nearest-neighbor classification.
type Solver struct {
	repo       kb.Repository
	classifier *match.Classifier
	options    extract.Options
}

// New builds a solver over the given repository and loads the initial
// knowledge-base snapshot. A nil metric selects the standard Chamfer
// distance; rejectThreshold <= 0 disables weak-match rejection.
func New(repo kb.Repository, metric match.Metric, rejectThreshold float64, options extract.Options) (*Solver, error) {
	s := &Solver{
		repo:       repo,
		classifier: match.NewClassifier(metric, rejectThreshold),
		options:    options,
	}
	if err := s.ReloadKnowledgeBase(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReloadKnowledgeBase re-reads the repository and atomically installs the
// new snapshot. In-flight recognitions finish against the snapshot they
// started with.
func (s *Solver) ReloadKnowledgeBase() error {
	samples, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	s.classifier.SetSamples(samples)
	return nil
}

// SampleCount reports the size of the current snapshot.
func (s *Solver) SampleCount() int {
	return s.classifier.SampleCount()
}

// Recognize extracts glyphs from the input and classifies them left to
// right. ErrNoGlyphs from extraction is returned as-is: with nothing to
// classify, recognition has definitively failed. An empty knowledge base is
// NOT an error; every glyph then maps to the sentinel label.
func (s *Solver) Recognize(in extract.Input) (string, error) {
	glyphs, err := extract.Extract(in, s.options)
	if err != nil {
		return "", err
	}
	return s.classifier.ClassifySequence(glyphs), nil
}

// OCRRecognizer adapts the Tesseract engine to the Recognizer interface.
// Only raster inputs are supported; markup would have to be rendered first.
type OCRRecognizer struct {
	Engine *ocr.Engine
}

// ErrMarkupNotSupported is returned when the OCR engine receives vector
// markup instead of raster bytes.
var ErrMarkupNotSupported = errors.New("ocr engine supports raster input only")

// Recognize runs OCR over the raster input's bytes.
func (r *OCRRecognizer) Recognize(in extract.Input) (string, error) {
	raster, ok := in.(extract.RasterInput)
	if !ok {
		return "", ErrMarkupNotSupported
	}
	return r.Engine.Recognize(raster.Data)
}
