// Package geometry provides the millimeter-space primitives shared by the
// curve generator and the output devices.
package geometry

import (
	"fmt"
	"math"
)

// Point is a position on the plot surface, in mm.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

// Distance returns the Euclidean distance to o.
func (pt Point) Distance(o Point) float64 {
	return math.Hypot(pt.X-o.X, pt.Y-o.Y)
}

// Placement is a rigid transform: rotation about the origin followed by a
// translation. It positions a curve generated around (0, 0) anywhere on
// the page.
type Placement struct {
	CenterXMM   float64
	CenterYMM   float64
	RotationRad float64
}

// Apply rotates pt by RotationRad about the origin, then translates it by
// the placement center.
func (p Placement) Apply(pt Point) Point {
	sin, cos := math.Sincos(p.RotationRad)
	return Point{
		X: pt.X*cos - pt.Y*sin + p.CenterXMM,
		Y: pt.X*sin + pt.Y*cos + p.CenterYMM,
	}
}
