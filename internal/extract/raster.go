package extract

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/captcha-match/internal/geometry"
)

// RasterInput extracts glyphs from encoded raster image bytes.
//
// The pipeline binarizes the image with the character strokes bright on a
// dark background (contour finding expects foreground-on-background), cleans
// speckle and thin strike-through lines with a morphological opening, and
// traces the boundary of every surviving connected component.
type RasterInput struct {
	// Data is the raw encoded image (PNG, JPEG or GIF).
	Data []byte
}

func (in RasterInput) extract(o Options) ([]geometry.PointCloud, error) {
	img, _, err := image.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Small captchas do not leave morphology enough pixels to work with.
	if h := img.Bounds().Dy(); h > 0 && h < o.UpscaleBelow {
		img = imaging.Resize(img, img.Bounds().Dx()*3, h*3, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)

	// Strokes must be bright on dark. Captchas are usually dark text on a
	// light background, but not always; the border tells us which way round
	// this one is.
	if lightBackground(gray) {
		gray = imaging.Invert(gray)
	}

	blurred := blur.Gaussian(gray, 1.0)
	level, ok := otsuLevel(blurred)
	if !ok {
		// Uniform image: no foreground/background split exists.
		return nil, nil
	}
	binary := segment.Threshold(blurred, level)

	// Opening kills speckle and thin noise lines; the extra erode separates
	// characters that touch after the captcha's distortion.
	cleaned := effect.Erode(effect.Dilate(effect.Erode(binary, 1), 1), 1)

	mask := foregroundMask(cleaned)
	comps := findComponents(mask)

	var clouds []geometry.PointCloud
	for _, comp := range comps {
		w := comp.maxX - comp.minX + 1
		h := comp.maxY - comp.minY + 1
		if comp.area < o.MinArea || h < o.MinHeight {
			continue
		}

		boundary := comp.boundary(mask)
		if len(boundary) == 0 {
			continue
		}

		// A component much wider than tall is several characters fused
		// together; slice it into equal-width strips.
		aspect := float64(w) / float64(h)
		if aspect > o.SplitAspect {
			clouds = append(clouds, splitBoundary(boundary, comp.minX, w, aspect, o.MinSlicePoints)...)
			continue
		}
		clouds = append(clouds, boundary)
	}

	return clouds, nil
}

// lightBackground samples the image border and reports whether its mean
// perceptual lightness is closer to white than black.
func lightBackground(img image.Image) bool {
	b := img.Bounds()
	var sum float64
	var n int

	sample := func(x, y int) {
		if c, ok := colorful.MakeColor(img.At(x, y)); ok {
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		sample(x, b.Min.Y)
		sample(x, b.Max.Y-1)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sample(b.Min.X, y)
		sample(b.Max.X-1, y)
	}

	return n > 0 && sum/float64(n) > 0.5
}

// otsuLevel computes the Otsu threshold of a grayscale image: the level that
// maximizes between-class variance of the foreground/background split.
// ok is false when the image is uniform and no split exists.
func otsuLevel(img image.Image) (level uint8, ok bool) {
	b := img.Bounds()
	var hist [256]int
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			hist[r>>8]++
			total++
		}
	}
	if total == 0 {
		return 0, false
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var (
		sumBg, wBg float64
		bestVar    float64
		bestLevel  uint8
	)
	for level := 0; level < 256; level++ {
		wBg += float64(hist[level])
		if wBg == 0 {
			continue
		}
		wFg := float64(total) - wBg
		if wFg == 0 {
			break
		}
		sumBg += float64(level) * float64(hist[level])

		meanBg := sumBg / wBg
		meanFg := (sumAll - sumBg) / wFg
		between := wBg * wFg * (meanBg - meanFg) * (meanBg - meanFg)
		if between > bestVar {
			bestVar = between
			bestLevel = uint8(level)
		}
	}
	return bestLevel, bestVar > 0
}

// foregroundMask converts a binarized image into a boolean grid where true
// marks a foreground (bright) pixel.
func foregroundMask(img image.Image) [][]bool {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := make([][]bool, h)
	for y := 0; y < h; y++ {
		mask[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			mask[y][x] = r>>8 > 127
		}
	}
	return mask
}

// component is one connected foreground region.
type component struct {
	pixels                 []image.Point
	minX, minY, maxX, maxY int
	area                   int
}

// findComponents groups connected foreground pixels using iterative
// flood-fill with 8-connectivity.
func findComponents(mask [][]bool) []component {
	h := len(mask)
	if h == 0 {
		return nil
	}
	w := len(mask[0])

	visited := make([][]bool, h)
	for y := range visited {
		visited[y] = make([]bool, w)
	}

	var comps []component
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y][x] || visited[y][x] {
				continue
			}
			comp := component{minX: x, minY: y, maxX: x, maxY: y}
			floodFill(mask, visited, x, y, &comp)
			comp.area = len(comp.pixels)
			comps = append(comps, comp)
		}
	}
	return comps
}

// floodFill collects the connected region containing (startX, startY).
// Stack-based rather than recursive to avoid stack overflow on large regions.
func floodFill(mask, visited [][]bool, startX, startY int, comp *component) {
	h, w := len(mask), len(mask[0])
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		if visited[p.Y][p.X] || !mask[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		comp.pixels = append(comp.pixels, p)
		if p.X < comp.minX {
			comp.minX = p.X
		}
		if p.X > comp.maxX {
			comp.maxX = p.X
		}
		if p.Y < comp.minY {
			comp.minY = p.Y
		}
		if p.Y > comp.maxY {
			comp.maxY = p.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

// boundary returns the component pixels that touch the background (or the
// image edge) through a 4-neighbor. These are the contour points used for
// shape matching; interior pixels carry no shape information.
func (c *component) boundary(mask [][]bool) geometry.PointCloud {
	h, w := len(mask), len(mask[0])
	out := make(geometry.PointCloud, 0, len(c.pixels)/2)

	for _, p := range c.pixels {
		onEdge := p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1
		if !onEdge {
			if !mask[p.Y][p.X-1] || !mask[p.Y][p.X+1] || !mask[p.Y-1][p.X] || !mask[p.Y+1][p.X] {
				onEdge = true
			}
		}
		if onEdge {
			out = append(out, geometry.Point{X: float64(p.X), Y: float64(p.Y)})
		}
	}
	return out
}

// splitBoundary slices a fused component's boundary into equal-width strips.
// The strip count is estimated from the aspect ratio assuming an average
// character is about 0.8 times as wide as it is tall.
func splitBoundary(boundary geometry.PointCloud, minX, width int, aspect float64, minPoints int) []geometry.PointCloud {
	n := int(math.Round(aspect / 0.8))
	if n < 2 {
		n = 2
	}
	step := width / n
	if step == 0 {
		return []geometry.PointCloud{boundary}
	}

	var out []geometry.PointCloud
	for i := 0; i < n; i++ {
		lo := float64(minX + i*step)
		hi := float64(minX + (i+1)*step)
		var slice geometry.PointCloud
		for _, p := range boundary {
			if p.X >= lo && (p.X < hi || i == n-1 && p.X >= hi) {
				slice = append(slice, p)
			}
		}
		if len(slice) > minPoints {
			out = append(out, slice)
		}
	}
	return out
}
