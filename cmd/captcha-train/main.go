// Command captcha-train rebuilds the knowledge base from a directory of
// labeled captcha files.
//
// Each file's base name is its label: "AB12.svg" must contain the characters
// A, B, 1, 2 left to right. Files whose extracted glyph count disagrees with
// the label, or that cannot be parsed, are skipped and reported; the rebuild
// continues and the previously persisted base is only ever replaced
// atomically at the end.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ironsheep/captcha-match/internal/config"
	"github.com/ironsheep/captcha-match/internal/kb"
	"github.com/ironsheep/captcha-match/internal/train"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	_ = godotenv.Load()

	configPath := flag.String("config", envOr("CAPTCHA_CONFIG", "config.yaml"), "path to the YAML config file")
	dataDir := flag.String("data", "labeled_data", "directory of labeled sample files")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: captcha-train [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	repo, closeRepo, err := kb.Open(cfg.KnowledgeBase.Backend, cfg.KnowledgeBase.Path)
	if err != nil {
		log.Fatalf("knowledge base: %v", err)
	}
	defer closeRepo()

	trainer := train.New(repo, cfg.ExtractOptions())
	report, err := trainer.Rebuild(*dataDir)
	if err != nil {
		log.Fatalf("rebuild: %v", err)
	}

	for _, f := range report.Files {
		if f.Skipped {
			switch f.Reason {
			case train.SkipLabelMismatch:
				log.Printf("skipped %s: %d glyphs vs %d label characters",
					f.Name, f.GlyphCount, len([]rune(f.Label)))
			default:
				log.Printf("skipped %s: %s %s", f.Name, f.Reason, f.Detail)
			}
		}
	}

	fmt.Printf("Rebuild complete.\n")
	fmt.Printf("Processed %d files, skipped %d.\n", report.Processed, report.Skipped)
	fmt.Printf("Knowledge base now holds %d samples (%s).\n", report.Samples, cfg.KnowledgeBase.Path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
