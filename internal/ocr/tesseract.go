package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes captcha text with Tesseract.
type Engine struct {
	// Language is the Tesseract language code. Empty selects "eng".
	Language string

	// Whitelist restricts recognition to the given characters. Empty
	// means no restriction.
	Whitelist string
}

// Recognize runs single-line OCR over encoded raster image bytes and returns
// the recognized text with surrounding whitespace stripped.
//
// Each call uses a fresh Tesseract client; client setup is cheap next to the
// recognition itself and sharing clients across goroutines is not safe.
func (e *Engine) Recognize(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	lang := e.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if e.Whitelist != "" {
		if err := client.SetWhitelist(e.Whitelist); err != nil {
			return "", fmt.Errorf("failed to set character whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
