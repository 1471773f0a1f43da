package geometry

import (
	"encoding/json"
	"fmt"
)

// Point represents a 2D coordinate in shape space.
//
// Points marshal to and from JSON as a two-element array [x, y]. This is the
// wire format of the persisted knowledge base and must not change: databases
// written by earlier versions of the recognizer store points this way.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a [x, y] array into the point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("point must have exactly 2 coordinates, got %d", len(coords))
	}
	p.X, p.Y = coords[0], coords[1]
	return nil
}

// PointCloud is an ordered sequence of points describing one shape.
//
// The order is preserved from extraction but carries no meaning for distance
// computation; clouds are compared as unordered sets.
type PointCloud []Point

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Bounds computes the bounding box of the cloud.
// The zero Box is returned for an empty cloud.
func (c PointCloud) Bounds() Box {
	if len(c) == 0 {
		return Box{}
	}
	b := Box{MinX: c[0].X, MinY: c[0].Y, MaxX: c[0].X, MaxY: c[0].Y}
	for _, p := range c[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// Downsample reduces the cloud to at most max points by uniform decimation.
//
// Clouds at or below the limit are returned unchanged (same backing array).
// Decimation keeps every len/max-th point, preserving the overall outline
// while bounding the cost of pairwise distance computation.
func (c PointCloud) Downsample(max int) PointCloud {
	if max <= 0 || len(c) <= max {
		return c
	}
	step := float64(len(c)) / float64(max)
	out := make(PointCloud, 0, max)
	for i := 0; i < max; i++ {
		out = append(out, c[int(float64(i)*step)])
	}
	return out
}
