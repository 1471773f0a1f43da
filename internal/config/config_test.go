package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.KnowledgeBase.Backend != "file" || cfg.KnowledgeBase.Path != "database.json" {
		t.Errorf("unexpected knowledge base defaults: %+v", cfg.KnowledgeBase)
	}
	if cfg.Match.RejectThreshold != 1000 || cfg.Match.MaxPoints != 100 {
		t.Errorf("unexpected match defaults: %+v", cfg.Match)
	}
	if cfg.Extract.MinArea != 150 || cfg.Extract.MinHeight != 20 {
		t.Errorf("unexpected extract defaults: %+v", cfg.Extract)
	}
	if cfg.OCR.Language != "eng" {
		t.Errorf("unexpected OCR defaults: %+v", cfg.OCR)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `knowledge_base:
  backend: bolt
  path: /var/lib/captcha/kb.db
match:
  reject_threshold: 500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.KnowledgeBase.Backend != "bolt" {
		t.Errorf("backend = %q, want bolt", cfg.KnowledgeBase.Backend)
	}
	if cfg.Match.RejectThreshold != 500 {
		t.Errorf("reject_threshold = %f, want 500", cfg.Match.RejectThreshold)
	}
	// Unspecified values fall back.
	if cfg.Extract.MinArea != 150 {
		t.Errorf("min_area = %d, want default 150", cfg.Extract.MinArea)
	}
}

func TestLoad_NegativeRejectThresholdDisablesRejection(t *testing.T) {
	// A negative threshold is the documented way to turn rejection off;
	// defaulting must not rewrite it.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("match:\n  reject_threshold: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Match.RejectThreshold != -1 {
		t.Errorf("reject_threshold = %f, want -1 preserved", cfg.Match.RejectThreshold)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("knowledge_base: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}

	unknown := filepath.Join(dir, "unknown.yaml")
	if err := os.WriteFile(unknown, []byte("knowledge_base:\n  backend: redis\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unknown); err == nil {
		t.Error("expected error for unknown backend")
	}
}
