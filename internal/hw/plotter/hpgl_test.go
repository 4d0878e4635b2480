package plotter

import (
	"errors"
	"strings"
	"testing"

	"github.com/rthinman/rplotter/internal/hw/serial"
)

func newTestHPGL(t *testing.T, port *serial.MockPort) *HPGL {
	t.Helper()
	h, err := NewHPGL(port, DefaultCalibration(), -40, -40, 40, 40)
	if err != nil {
		t.Fatalf("NewHPGL: %v", err)
	}
	return h
}

func TestNewHPGLInvalidBounds(t *testing.T) {
	cases := []struct {
		name               string
		llx, lly, urx, ury float64
	}{
		{"inverted_x", 40, -40, -40, 40},
		{"inverted_y", -40, 40, 40, -40},
		{"degenerate_x", 0, -40, 0, 40},
		{"degenerate_y", -40, 0, 40, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHPGL(&serial.MockPort{}, DefaultCalibration(), tc.llx, tc.lly, tc.urx, tc.ury)
			if err == nil {
				t.Error("expected configuration error, got nil")
			}
		})
	}
}

func TestNewHPGLInvalidCalibration(t *testing.T) {
	cal := DefaultCalibration()
	cal.ScaleXMMPerUnit = 0
	if _, err := NewHPGL(&serial.MockPort{}, cal, -40, -40, 40, 40); err == nil {
		t.Error("expected error for zero scale, got nil")
	}
}

func TestTravelLimitsFromBounds(t *testing.T) {
	// 80 mm box with the LPII calibration:
	// x: int(80/0.0251) + 25 = 3212, y: int(80/0.024917) + 25 = 3235.
	h := newTestHPGL(t, &serial.MockPort{})
	if h.maxXUnits != 3212 {
		t.Errorf("maxXUnits = %d, want 3212", h.maxXUnits)
	}
	if h.maxYUnits != 3235 {
		t.Errorf("maxYUnits = %d, want 3235", h.maxYUnits)
	}
}

func TestMappingInsideBoundsNotClipped(t *testing.T) {
	h := newTestHPGL(t, &serial.MockPort{})
	points := []struct{ x, y float64 }{
		{-40, -40}, {0, 0}, {39.9, 39.9}, {-12.34, 27.5},
	}
	for _, p := range points {
		gotX, gotY := h.mapPoint(p.x, p.y)
		if gotX != h.mapX(p.x) || gotY != h.mapY(p.y) {
			t.Errorf("point (%g, %g) was clipped inside bounds: (%d, %d) vs (%d, %d)",
				p.x, p.y, gotX, gotY, h.mapX(p.x), h.mapY(p.y))
		}
	}
}

func TestMappingSaturatesAtTravelLimits(t *testing.T) {
	h := newTestHPGL(t, &serial.MockPort{})
	x, y := h.mapPoint(-1000, 2000)
	if x != 0 {
		t.Errorf("far-left x mapped to %d, want 0", x)
	}
	if y != h.maxYUnits {
		t.Errorf("far-up y mapped to %d, want %d", y, h.maxYUnits)
	}
	x, y = h.mapPoint(5000, -5000)
	if x != h.maxXUnits {
		t.Errorf("far-right x mapped to %d, want %d", x, h.maxXUnits)
	}
	if y != 0 {
		t.Errorf("far-down y mapped to %d, want 0", y)
	}
}

func TestMappingAppliesOffset(t *testing.T) {
	h := newTestHPGL(t, &serial.MockPort{})
	// The lower-left corner lands exactly on the pen offset.
	if got := h.mapX(-40); got != 25 {
		t.Errorf("mapX(llx) = %d, want 25", got)
	}
	if got := h.mapY(-40); got != 25 {
		t.Errorf("mapY(lly) = %d, want 25", got)
	}
}

func TestCommandStream(t *testing.T) {
	port := &serial.MockPort{}
	h := newTestHPGL(t, port)

	if err := h.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.MoveTo(-40, -40)
	h.Draw(-40, -40)
	h.PenUp()
	if err := h.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	want := []string{
		";:H A L0 ECN U ",
		"PU25,25;",
		"PU25,25;",
		"PD25,25;",
		"PU;",
		"PU0,0;!PG;",
	}
	if len(port.Writes) != len(want) {
		t.Fatalf("got %d commands %q, want %d", len(port.Writes), port.Writes, len(want))
	}
	for i, w := range want {
		if port.Writes[i] != w {
			t.Errorf("command %d = %q, want %q", i, port.Writes[i], w)
		}
	}
}

func TestPenStateTracking(t *testing.T) {
	h := newTestHPGL(t, &serial.MockPort{})
	h.Draw(0, 0)
	if !h.PenDown() {
		t.Error("pen should be down after Draw")
	}
	h.MoveTo(1, 1)
	if h.PenDown() {
		t.Error("pen should be up after MoveTo")
	}
	h.Draw(2, 2)
	h.PenUp()
	if h.PenDown() {
		t.Error("pen should be up after PenUp")
	}
}

func TestRelativeMovesAccumulateUnclipped(t *testing.T) {
	port := &serial.MockPort{}
	h := newTestHPGL(t, port)
	h.MoveTo(35, 0)

	// Walk off the right edge: the device saturates, the tracked mm
	// position keeps accumulating.
	for i := 0; i < 3; i++ {
		h.MoveRelative(10, 0)
	}
	x, y := h.Position()
	if x != 65 || y != 0 {
		t.Errorf("position = (%g, %g), want (65, 0)", x, y)
	}
	last := port.Writes[len(port.Writes)-1]
	if !strings.Contains(last, "PU3212,") {
		t.Errorf("last command %q is not saturated at max x 3212", last)
	}

	// Walking back the same distance returns exactly to the start.
	for i := 0; i < 3; i++ {
		h.MoveRelative(-10, 0)
	}
	if x, _ := h.Position(); x != 35 {
		t.Errorf("position x = %g after round trip, want 35", x)
	}
}

func TestWriteTimeoutSkipsAndContinues(t *testing.T) {
	port := &serial.MockPort{Err: serial.ErrTimeout}
	h := newTestHPGL(t, port)
	if got := h.Draw(0, 0); got != StatusTimeout {
		t.Errorf("Draw status = %v, want %v", got, StatusTimeout)
	}

	// Subsequent commands still go out once the port recovers.
	port.Err = nil
	if got := h.Draw(1, 1); got != StatusOK {
		t.Errorf("Draw status after recovery = %v, want %v", got, StatusOK)
	}
}

func TestWriteHardFailureReported(t *testing.T) {
	port := &serial.MockPort{Err: errors.New("port closed")}
	h := newTestHPGL(t, port)
	if got := h.MoveTo(0, 0); got != StatusFailed {
		t.Errorf("MoveTo status = %v, want %v", got, StatusFailed)
	}
}

func TestChangeColorBlocksForOperator(t *testing.T) {
	port := &serial.MockPort{}
	h := newTestHPGL(t, port)
	h.Input = strings.NewReader("\n")

	if err := h.ChangeColor("chartreuse"); err != nil {
		t.Errorf("ChangeColor must accept any name, got %v", err)
	}
	// The pen is raised before the operator touches the carriage.
	if h.PenDown() {
		t.Error("pen should be up during a pen change")
	}
	if port.Writes[len(port.Writes)-1] != "PU;" {
		t.Errorf("last command = %q, want PU;", port.Writes[len(port.Writes)-1])
	}
}

func TestChangeColorInputError(t *testing.T) {
	h := newTestHPGL(t, &serial.MockPort{})
	h.Input = strings.NewReader("") // EOF before confirmation
	if err := h.ChangeColor("black"); err == nil {
		t.Error("expected error when operator input ends early")
	}
}
