package geometry

// FrameSize is the side length of the canonical square frame.
//
// Stored knowledge bases are only comparable to queries normalized with the
// same frame size, so this value is fixed by convention rather than made
// configurable per call site.
const FrameSize = 100.0

// Normalize maps a point cloud into the canonical size×size frame.
//
// The cloud is scaled by a single uniform factor size/max(width, height), so
// aspect ratio is preserved, then translated so its bounding box is centered
// in the frame. The result fits the frame exactly along its larger dimension.
//
// Degenerate clouds are handled explicitly: when both width and height are
// zero (a single point, or all points identical) the scale factor is 1 and
// the points are centered without scaling. A cloud that is degenerate along
// one axis only (a perfectly horizontal or vertical stroke) is fine, because
// the scale comes from the larger dimension.
//
// Normalize is idempotent: a cloud already in canonical form has
// max(width, height) == size, so the scale is 1 and the centering translation
// is zero, up to floating-point tolerance.
//
// An empty cloud normalizes to an empty cloud.
func Normalize(cloud PointCloud, size float64) PointCloud {
	if len(cloud) == 0 {
		return PointCloud{}
	}

	b := cloud.Bounds()
	maxDim := b.Width()
	if b.Height() > maxDim {
		maxDim = b.Height()
	}

	scale := 1.0
	if maxDim > 0 {
		scale = size / maxDim
	}

	centerX := (b.MinX + b.MaxX) / 2
	centerY := (b.MinY + b.MaxY) / 2

	out := make(PointCloud, len(cloud))
	for i, p := range cloud {
		out[i] = Point{
			X: (p.X-centerX)*scale + size/2,
			Y: (p.Y-centerY)*scale + size/2,
		}
	}
	return out
}
