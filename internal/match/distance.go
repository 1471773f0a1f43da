package match

import (
	"math"

	"github.com/ironsheep/captcha-match/internal/geometry"
)

// Metric computes a non-negative dissimilarity score between two canonical
// point clouds. Implementations must be symmetric and safe for concurrent
// use. Lower is more similar; 0 means identical.
type Metric interface {
	Distance(a, b geometry.PointCloud) float64
}

// Chamfer is the brute-force symmetric Chamfer distance.
//
// Each direction averages the minimum squared Euclidean distance from every
// point of one cloud to the other; the final score is the mean of the two
// directional averages. Averaging (rather than summing) keeps scores
// comparable across clouds of different sizes, which the reject threshold
// depends on.
type Chamfer struct {
	// MaxPoints bounds the per-cloud point count; larger clouds are
	// decimated before comparison. Zero means no limit.
	MaxPoints int
}

// NewChamfer returns a Chamfer metric with the standard point limit the
// knowledge base was trained with.
func NewChamfer() Chamfer {
	return Chamfer{MaxPoints: 100}
}

// Distance returns the symmetric score between a and b.
//
// Both clouds are downsampled with the same policy, so the score stays
// symmetric and Distance(a, a) stays exactly zero. An empty operand returns
// +Inf: there is nothing to match against.
func (c Chamfer) Distance(a, b geometry.PointCloud) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}
	if c.MaxPoints > 0 {
		a = a.Downsample(c.MaxPoints)
		b = b.Downsample(c.MaxPoints)
	}
	return (directional(a, b) + directional(b, a)) / 2
}

// directional is the one-way score: mean over points of a of the squared
// distance to the nearest point of b.
func directional(a, b geometry.PointCloud) float64 {
	var total float64
	for _, p := range a {
		best := math.Inf(1)
		for _, q := range b {
			dx := p.X - q.X
			dy := p.Y - q.Y
			if d := dx*dx + dy*dy; d < best {
				best = d
			}
		}
		total += best
	}
	return total / float64(len(a))
}
