package match

import (
	"math"
	"sync"

	"github.com/ironsheep/captcha-match/internal/extract"
	"github.com/ironsheep/captcha-match/internal/geometry"
	"github.com/ironsheep/captcha-match/internal/kb"
)

// SentinelLabel marks a glyph that could not be recognized: the knowledge
// base was empty, or no sample scored under the reject threshold.
// Classification degrades to the sentinel instead of failing the whole call,
// so the other glyphs of a sequence still produce useful output.
const SentinelLabel = "?"

// Classifier assigns labels to glyphs by nearest-neighbor search over a
// knowledge-base snapshot.
//
// The snapshot is installed wholesale via SetSamples; concurrent
// classifications are safe and never observe a partially replaced base.
type Classifier struct {
	metric Metric

	// rejectThreshold is the score at or above which the best match is
	// considered too weak and the sentinel is emitted instead.
	rejectThreshold float64

	mu      sync.RWMutex
	samples []kb.Sample
}

// NewClassifier returns a classifier using the given metric. A nil metric
// selects the standard Chamfer distance. rejectThreshold <= 0 disables weak
// match rejection.
func NewClassifier(metric Metric, rejectThreshold float64) *Classifier {
	if metric == nil {
		metric = NewChamfer()
	}
	return &Classifier{metric: metric, rejectThreshold: rejectThreshold}
}

// SetSamples atomically installs a new knowledge-base snapshot.
func (c *Classifier) SetSamples(samples []kb.Sample) {
	c.mu.Lock()
	c.samples = samples
	c.mu.Unlock()
}

// SampleCount returns the size of the current snapshot.
func (c *Classifier) SampleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.samples)
}

// ClassifyGlyph normalizes the raw cloud and returns the label of the
// nearest sample along with its score. Ties keep the sample encountered
// first in base iteration order, so results are deterministic. An empty base
// or a best score at or above the reject threshold yields SentinelLabel with
// the score (or +Inf for the empty base).
func (c *Classifier) ClassifyGlyph(raw geometry.PointCloud) (string, float64) {
	query := geometry.Normalize(raw, geometry.FrameSize)

	c.mu.RLock()
	samples := c.samples
	c.mu.RUnlock()

	best := math.Inf(1)
	label := SentinelLabel
	for _, s := range samples {
		if d := c.metric.Distance(query, s.Points); d < best {
			best = d
			label = s.Label
		}
	}

	if c.rejectThreshold > 0 && best >= c.rejectThreshold {
		return SentinelLabel, best
	}
	return label, best
}

// ClassifySequence classifies each glyph in extraction order and
// concatenates the labels. The order is never changed: glyph ranks were
// assigned left to right by the extractor and the output string reads the
// same way.
func (c *Classifier) ClassifySequence(glyphs []extract.Glyph) string {
	out := make([]byte, 0, len(glyphs))
	for _, g := range glyphs {
		label, _ := c.ClassifyGlyph(g.Points)
		out = append(out, label...)
	}
	return string(out)
}
