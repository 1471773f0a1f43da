package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ironsheep/captcha-match/internal/geometry"
)

// MarkupInput extracts glyphs from SVG markup text.
//
// Shape-drawing path elements are selected from the document; decorative
// paths are filtered out before parsing. Captcha generators draw the
// characters as filled paths and overlay stroked, unfilled arcs as noise, so
// a path with fill="none" or any stroke attribute is treated as noise.
type MarkupInput struct {
	// Markup is the raw SVG document text.
	Markup string

	// Parser overrides the path data parser. Nil selects the default
	// grammar parser.
	Parser PathParser
}

func (in MarkupInput) extract(o Options) ([]geometry.PointCloud, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in.Markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	parser := in.Parser
	if parser == nil {
		parser = NewPathParser()
	}

	var (
		clouds   []geometry.PointCloud
		parseErr error
	)
	doc.Find("path").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if fill, ok := s.Attr("fill"); ok && fill == "none" {
			return true
		}
		if _, ok := s.Attr("stroke"); ok {
			return true
		}
		d, ok := s.Attr("d")
		if !ok || strings.TrimSpace(d) == "" {
			return true
		}

		cloud, err := parser.Parse(d)
		if err != nil {
			parseErr = fmt.Errorf("failed to parse path data: %w", err)
			return false
		}
		if len(cloud) > 0 {
			clouds = append(clouds, cloud)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return clouds, nil
}
