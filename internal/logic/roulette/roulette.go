// Package roulette generates the rolling-circle curve family (cycloids,
// trochoids, Spirograph-style hypotrochoids) as ordered point sequences in
// mm.
//
// https://en.wikipedia.org/wiki/Roulette_(curve)
// https://en.wikipedia.org/wiki/Trochoid
package roulette

import (
	"fmt"
	"math"

	"github.com/rthinman/rplotter/internal/debug"
	"github.com/rthinman/rplotter/internal/hw/plotter"
	"github.com/rthinman/rplotter/internal/logic/geometry"
)

// StepsPerRev is the number of samples per rotation of the rolling circle.
const StepsPerRev = 40

// Params describes one hypotrochoid: a circle of RollingRadiusMM rolling
// inside a fixed outer circle, with the pen mounted PenRadiusMM from the
// rolling circle's center. Inner/Outer are small positive integers whose
// ratio fixes the relative circle sizes and the curve's periodicity: with
// coprime values the curve closes after Inner revolutions of the parameter
// and shows Outer radial cusps. Non-coprime values retrace a sub-pattern;
// that is accepted, not corrected.
type Params struct {
	RollingRadiusMM float64
	PenRadiusMM     float64
	Inner           int
	Outer           int
}

// Validate reports configuration errors in the parameters. The accepted
// range keeps the historical check direction: Inner may equal Outer but
// must not exceed it.
func (p Params) Validate() error {
	if p.Inner <= 0 || p.Outer <= 0 {
		return fmt.Errorf("inner and outer must be positive, got %d/%d", p.Inner, p.Outer)
	}
	if p.Inner > p.Outer {
		return fmt.Errorf("inner (%d) must not be greater than outer (%d)", p.Inner, p.Outer)
	}
	if p.RollingRadiusMM <= 0 {
		return fmt.Errorf("rolling radius must be positive, got %g mm", p.RollingRadiusMM)
	}
	if p.PenRadiusMM < 0 {
		return fmt.Errorf("pen radius must not be negative, got %g mm", p.PenRadiusMM)
	}
	return nil
}

// OuterRadiusMM returns the radius of the fixed outer circle.
func (p Params) OuterRadiusMM() float64 {
	ratio := float64(p.Inner) / float64(p.Outer)
	return p.RollingRadiusMM / ratio
}

// PlotRadius returns the maximum extent of the curve from its center, in mm.
func (p Params) PlotRadius() float64 {
	return p.OuterRadiusMM() - p.RollingRadiusMM + p.PenRadiusMM
}

// Points samples one full traversal of the hypotrochoid and applies the
// placement to every sample. The sequence has exactly
// Inner*StepsPerRev + 1 points; for coprime Inner/Outer the first and last
// points coincide (closed curve) up to floating-point error.
func Points(p Params, place geometry.Placement) ([]geometry.Point, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ratio := float64(p.Inner) / float64(p.Outer)
	outerMM := p.RollingRadiusMM / ratio
	pen2outer := p.PenRadiusMM / outerMM

	n := p.Inner*StepsPerRev + 1 // one extra sample to close the curve
	pts := make([]geometry.Point, 0, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / StepsPerRev
		x := outerMM * ((1-ratio)*math.Cos(t) + pen2outer*math.Cos((1-ratio)/ratio*t))
		y := outerMM * ((1-ratio)*math.Sin(t) - pen2outer*math.Sin((1-ratio)/ratio*t))
		pts = append(pts, place.Apply(geometry.Pt(x, y)))
	}
	return pts, nil
}

// Stats aggregates the per-command write outcomes of one traced curve.
// Timeouts and failures are counted, never turned into errors here; policy
// belongs to the caller.
type Stats struct {
	Commands int
	Timeouts int
	Failures int
}

func (s *Stats) record(st plotter.Status) {
	s.Commands++
	switch st {
	case plotter.StatusTimeout:
		s.Timeouts++
	case plotter.StatusFailed:
		s.Failures++
	}
}

// Trace draws one full hypotrochoid on dev as a single continuous stroke:
// the first sample is reached with MoveTo, every subsequent sample with
// Draw. The returned error is a configuration error only; I/O outcomes are
// reported through Stats.
func Trace(dev plotter.Device, p Params, place geometry.Placement) (Stats, error) {
	var stats Stats

	pts, err := Points(p, place)
	if err != nil {
		return stats, err
	}
	debug.Info("Plot radius is %g mm.", p.PlotRadius())
	debug.Verbose("Tracing %d samples (inner=%d, outer=%d)", len(pts), p.Inner, p.Outer)

	stats.record(dev.MoveTo(pts[0].X, pts[0].Y))
	for _, pt := range pts[1:] {
		stats.record(dev.Draw(pt.X, pt.Y))
	}
	return stats, nil
}

// TraceSimple draws the direct Spirograph form: inner and outer are taken
// as the circle radii in mm themselves, with no placement. It is the
// general algorithm with RollingRadiusMM = inner.
func TraceSimple(dev plotter.Device, penRadiusMM float64, inner, outer int) (Stats, error) {
	p := Params{
		RollingRadiusMM: float64(inner),
		PenRadiusMM:     penRadiusMM,
		Inner:           inner,
		Outer:           outer,
	}
	return Trace(dev, p, geometry.Placement{})
}
