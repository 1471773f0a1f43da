package extract

import (
	"errors"
	"sort"

	"github.com/ironsheep/captcha-match/internal/geometry"
)

// ErrNoGlyphs is returned when extraction yields no shapes after noise
// filtering. There is nothing to classify, so recognition cannot proceed.
var ErrNoGlyphs = errors.New("no glyphs found in input")

// Glyph is one extracted character shape, before normalization.
type Glyph struct {
	// Points is the raw point cloud in source coordinates.
	Points geometry.PointCloud

	// Rank is the glyph's left-to-right position among all glyphs found in
	// the same input, starting at 0.
	Rank int
}

// Input is a tagged extraction source. Exactly two implementations exist:
// MarkupInput for vector markup text and RasterInput for encoded image bytes.
// Dispatch happens through the extract method rather than runtime type
// sniffing; callers decide the variant (typically from the file extension or
// the PNG magic bytes).
type Input interface {
	extract(o Options) ([]geometry.PointCloud, error)
}

// Options controls extraction behavior. The zero value is not useful; use
// DefaultOptions and override fields as needed.
type Options struct {
	// MinArea is the minimum pixel count of a raster component. Smaller
	// components are discarded as speckle.
	MinArea int

	// MinHeight is the minimum bounding-box height in pixels of a raster
	// component. Strike-through line fragments are wide but short.
	MinHeight int

	// UpscaleBelow upscales raster inputs whose height is under this value
	// by a factor of 3 before processing, so morphology has room to work on
	// small captchas.
	UpscaleBelow int

	// SplitAspect is the width/height ratio above which a raster component
	// is assumed to be several characters fused together and is split into
	// equal-width slices.
	SplitAspect float64

	// MinSlicePoints is the minimum boundary point count for a slice of a
	// split component to survive.
	MinSlicePoints int
}

// DefaultOptions returns the extraction parameters the knowledge base was
// trained with.
func DefaultOptions() Options {
	return Options{
		MinArea:        150,
		MinHeight:      20,
		UpscaleBelow:   50,
		SplitAspect:    1.1,
		MinSlicePoints: 10,
	}
}

// Extract decomposes the input into one glyph per character, ordered left to
// right. It returns ErrNoGlyphs when nothing survives noise filtering, or a
// parse error when the input cannot be decoded at all.
func Extract(in Input, o Options) ([]Glyph, error) {
	clouds, err := in.extract(o)
	if err != nil {
		return nil, err
	}

	// Variants should not produce empty clouds, but drop any that slip
	// through so ordering and rank assignment stay well defined.
	kept := clouds[:0]
	for _, c := range clouds {
		if len(c) > 0 {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoGlyphs
	}

	// Left-to-right reading order by bounding-box min X.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Bounds().MinX < kept[j].Bounds().MinX
	})

	glyphs := make([]Glyph, len(kept))
	for i, c := range kept {
		glyphs[i] = Glyph{Points: c, Rank: i}
	}
	return glyphs, nil
}
