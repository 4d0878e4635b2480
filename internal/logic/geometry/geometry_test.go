package geometry

import (
	"math"
	"testing"
)

const tol = 1e-9

func almostEqual(a, b Point) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestPlacementApply(t *testing.T) {
	cases := []struct {
		name  string
		place Placement
		in    Point
		want  Point
	}{
		{"identity", Placement{}, Pt(3, 4), Pt(3, 4)},
		{"translate_only", Placement{CenterXMM: 10, CenterYMM: -5}, Pt(1, 2), Pt(11, -3)},
		{"quarter_turn", Placement{RotationRad: math.Pi / 2}, Pt(1, 0), Pt(0, 1)},
		{"half_turn", Placement{RotationRad: math.Pi}, Pt(2, 3), Pt(-2, -3)},
		{"rotate_then_translate", Placement{CenterXMM: 1, CenterYMM: 1, RotationRad: math.Pi / 2}, Pt(1, 0), Pt(1, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.place.Apply(tc.in)
			if !almostEqual(got, tc.want) {
				t.Errorf("Apply(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlacementPreservesDistance(t *testing.T) {
	place := Placement{CenterXMM: -7.5, CenterYMM: 12, RotationRad: 0.37}
	a, b := Pt(1.25, -4), Pt(-3, 8.5)
	before := a.Distance(b)
	after := place.Apply(a).Distance(place.Apply(b))
	if math.Abs(before-after) > tol {
		t.Errorf("distance changed under rigid transform: %v -> %v", before, after)
	}
}

func TestDistance(t *testing.T) {
	if d := Pt(0, 10).Distance(Pt(0, 5)); d != 5 {
		t.Errorf("got distance %v, want 5", d)
	}
	if d := Pt(-11, 1).Distance(Pt(-7, -2)); d != 5 {
		t.Errorf("got distance %v, want 5", d)
	}
}
