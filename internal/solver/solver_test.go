package solver

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ironsheep/captcha-match/internal/extract"
	"github.com/ironsheep/captcha-match/internal/geometry"
	"github.com/ironsheep/captcha-match/internal/kb"
	"github.com/ironsheep/captcha-match/internal/match"
	"github.com/ironsheep/captcha-match/internal/ocr"
)

// captchaSVG encodes the two shapes stored as "A" and "B" in the trained
// repository below: a filled square and a filled wedge.
const captchaSVG = `<svg xmlns="http://www.w3.org/2000/svg">
<path fill="#111" d="M10 10 L40 10 L40 40 L10 40 Z"/>
<path fill="#111" d="M60 40 L75 10 L90 40 L75 32 Z"/>
</svg>`

const squarePath = "M10 10 L40 10 L40 40 L10 40 Z"
const wedgePath = "M60 40 L75 10 L90 40 L75 32 Z"

func pathCloud(t *testing.T, d string) geometry.PointCloud {
	t.Helper()
	cloud, err := extract.NewPathParser().Parse(d)
	if err != nil {
		t.Fatalf("failed to parse path %q: %v", d, err)
	}
	return cloud
}

// trainedRepo persists canonical forms of the square as "A" and the wedge
// as "B".
func trainedRepo(t *testing.T) kb.Repository {
	t.Helper()
	repo := kb.NewFileRepository(filepath.Join(t.TempDir(), "kb.json"))
	samples := []kb.Sample{
		{Label: "A", Points: geometry.Normalize(pathCloud(t, squarePath), geometry.FrameSize)},
		{Label: "B", Points: geometry.Normalize(pathCloud(t, wedgePath), geometry.FrameSize)},
	}
	if err := repo.Save(samples); err != nil {
		t.Fatalf("failed to seed repository: %v", err)
	}
	return repo
}

func TestSolver_RecognizeMarkup(t *testing.T) {
	s, err := New(trainedRepo(t), nil, 0, extract.DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := s.Recognize(extract.MarkupInput{Markup: captchaSVG})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got != "AB" {
		t.Errorf("Recognize = %q, want %q", got, "AB")
	}
}

func TestSolver_EmptyKnowledgeBase(t *testing.T) {
	repo := kb.NewFileRepository(filepath.Join(t.TempDir(), "kb.json"))
	s, err := New(repo, nil, 0, extract.DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.SampleCount() != 0 {
		t.Fatalf("expected empty base, got %d samples", s.SampleCount())
	}

	// Degrades to sentinels instead of failing.
	got, err := s.Recognize(extract.MarkupInput{Markup: captchaSVG})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got != "??" {
		t.Errorf("Recognize = %q, want %q", got, "??")
	}
}

func TestSolver_NoGlyphsIsDefinitiveFailure(t *testing.T) {
	s, err := New(trainedRepo(t), nil, 0, extract.DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = s.Recognize(extract.MarkupInput{Markup: `<svg></svg>`})
	if !errors.Is(err, extract.ErrNoGlyphs) {
		t.Errorf("expected ErrNoGlyphs, got %v", err)
	}
}

func TestSolver_ReloadPicksUpNewBase(t *testing.T) {
	repo := kb.NewFileRepository(filepath.Join(t.TempDir(), "kb.json"))
	s, err := New(repo, nil, 0, extract.DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := s.Recognize(extract.MarkupInput{Markup: captchaSVG})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got != "??" {
		t.Fatalf("before training: Recognize = %q, want %q", got, "??")
	}

	// Train behind the solver's back, then reload.
	samples := []kb.Sample{
		{Label: "A", Points: geometry.Normalize(pathCloud(t, squarePath), geometry.FrameSize)},
		{Label: "B", Points: geometry.Normalize(pathCloud(t, wedgePath), geometry.FrameSize)},
	}
	if err := repo.Save(samples); err != nil {
		t.Fatal(err)
	}
	if err := s.ReloadKnowledgeBase(); err != nil {
		t.Fatalf("ReloadKnowledgeBase failed: %v", err)
	}

	got, err = s.Recognize(extract.MarkupInput{Markup: captchaSVG})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got != "AB" {
		t.Errorf("after reload: Recognize = %q, want %q", got, "AB")
	}
}

func TestSolver_RepositoryRoundTripFidelity(t *testing.T) {
	// Classification results must be identical whether samples come from
	// memory or from a persist/reload cycle.
	repo := trainedRepo(t)
	samples, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}

	direct := match.NewClassifier(nil, 0)
	direct.SetSamples(samples)

	reloaded, err := New(repo, nil, 0, extract.DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	queries := []geometry.PointCloud{
		pathCloud(t, squarePath),
		pathCloud(t, wedgePath),
		{{X: 3, Y: 7}, {X: 20, Y: 7}, {X: 20, Y: 30}},
	}
	for i, q := range queries {
		wantLabel, wantDist := direct.ClassifyGlyph(q)
		gotLabel, gotDist := reloaded.classifier.ClassifyGlyph(q)
		if gotLabel != wantLabel || gotDist != wantDist {
			t.Errorf("query %d: (%q, %g) after round trip, want (%q, %g)",
				i, gotLabel, gotDist, wantLabel, wantDist)
		}
	}
}

func TestOCRRecognizer_RejectsMarkup(t *testing.T) {
	r := &OCRRecognizer{Engine: &ocr.Engine{}}
	_, err := r.Recognize(extract.MarkupInput{Markup: `<svg></svg>`})
	if !errors.Is(err, ErrMarkupNotSupported) {
		t.Errorf("expected ErrMarkupNotSupported, got %v", err)
	}
}
