// Command captcha-solve recognizes the text in a captcha image.
//
// The input is a file argument or stdin; SVG markup and PNG/JPEG/GIF raster
// images are both accepted, distinguished by extension and the PNG
// signature. The default engine matches extracted glyph shapes against the
// trained knowledge base; -engine=ocr selects Tesseract instead for raster
// inputs.
//
// The recognized string is written to stdout. Diagnostics go to stderr.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/captcha-match/internal/config"
	"github.com/ironsheep/captcha-match/internal/extract"
	"github.com/ironsheep/captcha-match/internal/kb"
	"github.com/ironsheep/captcha-match/internal/match"
	"github.com/ironsheep/captcha-match/internal/ocr"
	"github.com/ironsheep/captcha-match/internal/solver"
)

// rasterMagics are the signature prefixes of the supported raster formats,
// used to pick the variant for stdin input and misnamed files.
var rasterMagics = [][]byte{
	[]byte("\x89PNG"),
	[]byte("\xff\xd8"), // JPEG
	[]byte("GIF8"),
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	// Optional .env next to the working directory; absence is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("CAPTCHA_CONFIG", "config.yaml"), "path to the YAML config file")
	engine := flag.String("engine", "kb", `recognition engine: "kb" (shape matching) or "ocr" (Tesseract)`)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: captcha-solve [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Reads the captcha from file, or stdin when no file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	data, name, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("input: %v", err)
	}

	rec, cleanup, err := buildRecognizer(*engine, cfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	defer cleanup()

	text, err := rec.Recognize(inputFor(name, data))
	if err != nil {
		log.Fatalf("recognize: %v", err)
	}
	fmt.Println(text)
}

// readInput loads the captcha bytes from the file argument or stdin.
func readInput(path string) (data []byte, name string, err error) {
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "", nil
	}
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(path), nil
}

// inputFor picks the extraction variant from the file name or content.
func inputFor(name string, data []byte) extract.Input {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return extract.RasterInput{Data: data}
	case ".svg":
		return extract.MarkupInput{Markup: string(data)}
	}
	for _, magic := range rasterMagics {
		if bytes.HasPrefix(data, magic) {
			return extract.RasterInput{Data: data}
		}
	}
	return extract.MarkupInput{Markup: string(data)}
}

func buildRecognizer(engine string, cfg *config.Config) (solver.Recognizer, func(), error) {
	switch engine {
	case "kb":
		repo, closeRepo, err := kb.Open(cfg.KnowledgeBase.Backend, cfg.KnowledgeBase.Path)
		if err != nil {
			return nil, nil, err
		}
		metric := match.Chamfer{MaxPoints: cfg.Match.MaxPoints}
		s, err := solver.New(repo, metric, cfg.Match.RejectThreshold, cfg.ExtractOptions())
		if err != nil {
			closeRepo()
			return nil, nil, err
		}
		if s.SampleCount() == 0 {
			log.Printf("warning: knowledge base %s is empty; all glyphs will map to %q",
				cfg.KnowledgeBase.Path, match.SentinelLabel)
		}
		return s, func() { closeRepo() }, nil
	case "ocr":
		rec := &solver.OCRRecognizer{Engine: &ocr.Engine{
			Language:  cfg.OCR.Language,
			Whitelist: cfg.OCR.Whitelist,
		}}
		return rec, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine %q (want kb or ocr)", engine)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
