// Package geometry provides the point-cloud primitives used throughout the
// captcha matcher: 2D points, bounding boxes, and the canonical normalization
// that makes shape comparison scale- and position-invariant.
//
// # Coordinate System
//
// All coordinates follow the standard image convention:
//   - Origin (0, 0) at top-left
//   - X increases rightward
//   - Y increases downward
//
// Coordinates are float64 because vector sources (SVG path data) carry
// fractional positions, and normalization produces fractional results even
// for pixel-aligned raster input.
//
// # Canonical Form
//
// A point cloud is canonical when its bounding box fits inside a fixed
// square frame (side FrameSize, 100 by convention), centered, with aspect
// ratio preserved. The knowledge base only ever stores canonical clouds;
// the frame size is part of the durable persistence contract, so changing
// it invalidates existing databases.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. PointCloud values are
// treated as immutable by this package; Normalize and Downsample return new
// slices and never modify their input.
package geometry
