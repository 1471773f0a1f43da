// Package train rebuilds the knowledge base from a directory of labeled
// captcha samples.
//
// A sample file's base name is its label: "AB12.svg" must contain exactly
// the four characters A, B, 1, 2, left to right. Extraction order pairs the
// i-th glyph with the i-th label character, which is why the extractor's
// left-to-right sort is part of the training contract, not a cosmetic
// detail.
//
// # Failure Isolation
//
// One bad file never discards work accumulated from other files: a file
// whose glyph count disagrees with its label length, or that cannot be
// parsed at all, is recorded in the report as skipped and the rebuild
// continues. The accumulated collection is persisted once, at the end,
// through the repository's atomic replace, so an aborted run also never
// corrupts the previously persisted base.
package train
