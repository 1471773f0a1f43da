package kb

import (
	"github.com/ironsheep/captcha-match/internal/geometry"
)

// Sample is one labeled canonical shape in the knowledge base.
type Sample struct {
	// Label is the single character this shape represents.
	Label string `json:"label"`

	// Points is the canonical point cloud, normalized into the standard
	// frame (geometry.FrameSize) at training time.
	Points geometry.PointCloud `json:"points"`
}

// Repository loads and replaces the persisted knowledge base. Save must be
// atomic: a failed or interrupted save leaves the previously persisted
// collection readable and unchanged.
//
// Repositories are read-mostly. Concurrent Loads are safe; Save is only ever
// called by a single trainer at a time (concurrent writers are out of scope).
type Repository interface {
	// Load returns all persisted samples in stable iteration order. A
	// repository that has never been saved returns an empty collection,
	// not an error.
	Load() ([]Sample, error)

	// Save atomically replaces the persisted collection.
	Save(samples []Sample) error
}
