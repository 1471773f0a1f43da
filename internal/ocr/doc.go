// Package ocr provides an alternate captcha recognizer backed by the
// Tesseract OCR engine (via gosseract/v2).
//
// It exists for raster captchas whose fonts a trained knowledge base does
// not cover: general-purpose OCR is usually worse than shape matching on the
// distorted fonts captchas use, but it needs no training data at all. The
// shape-matching path never consults it; engine selection happens in the
// CLI.
//
// # Prerequisites
//
// Tesseract must be installed on the system together with language data for
// the configured language (default "eng"):
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Recognition Setup
//
// Captchas are single lines of text, so the engine runs with single-line
// page segmentation. A character whitelist (for example the digits and
// upper-case letters the captcha alphabet uses) cuts the search space
// substantially and is worth configuring whenever the alphabet is known.
package ocr
