package plotter

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rthinman/rplotter/internal/debug"
	"github.com/rthinman/rplotter/internal/hw/serial"
)

// Calibration maps mm to a plotter's native integer units, per axis.
// It is a constructor argument so simulated devices can be tested.
type Calibration struct {
	ScaleXMMPerUnit float64 // mm per plotter unit, x axis
	ScaleYMMPerUnit float64 // mm per plotter unit, y axis
	OffsetXUnits    int     // pen offset in plotter units
	OffsetYUnits    int
}

// DefaultCalibration returns the measured constants for the USCutter LPII.
// The off-nominal scales correct observed line lengths: at 0.025 a "150 mm"
// line comes out 150.6 mm (x) / 149.5 mm (y).
func DefaultCalibration() Calibration {
	return Calibration{
		ScaleXMMPerUnit: 0.0251,
		ScaleYMMPerUnit: 0.024917,
		OffsetXUnits:    25,
		OffsetYUnits:    25,
	}
}

// HPGL drives a pen plotter speaking an HPGL-like command set over a serial
// port. Coordinates are converted from mm to device units with the
// calibration, then clamped to the device's travel rectangle: motion beyond
// the configured bounds is saturated at the boundary rather than rejected,
// so the device never receives a command outside its mechanical travel.
// The tracked position is the unclipped requested mm position, so relative
// moves keep accumulating correctly while the device sits at a clamped
// boundary.
//
// Write outcomes: a timed-out command is logged and skipped (StatusTimeout,
// known data-loss risk); any other write error is logged and reported as
// StatusFailed. Neither stops the backend.
//
// ChangeColor is a manual pen swap: the operator is prompted and the call
// blocks until a line is read from the backend's input (os.Stdin unless
// replaced). Any color name is accepted.
type HPGL struct {
	port serial.Port

	minXMM  float64 // lower-left corner of the plot, in mm
	minYMM  float64
	posXMM  float64 // unclipped pen position, in mm
	posYMM  float64
	penDown bool

	cal       Calibration
	maxXUnits int // maximum allowed pen position, in plotter units
	maxYUnits int

	// Input is where operator confirmations are read from during pen
	// changes. Defaults to os.Stdin.
	Input io.Reader
}

// NewHPGL creates an HPGL backend over an open serial port for a plot area
// from (llxMM, llyMM) to (urxMM, uryMM). The upper-right corner must be
// strictly greater than the lower-left in both axes and the calibration
// scales must be positive; violations are configuration errors.
func NewHPGL(port serial.Port, cal Calibration, llxMM, llyMM, urxMM, uryMM float64) (*HPGL, error) {
	sizeXMM := urxMM - llxMM
	sizeYMM := uryMM - llyMM
	if sizeXMM <= 0 || sizeYMM <= 0 {
		return nil, fmt.Errorf("upper right (%g, %g) is not greater than lower left (%g, %g)",
			urxMM, uryMM, llxMM, llyMM)
	}
	if cal.ScaleXMMPerUnit <= 0 || cal.ScaleYMMPerUnit <= 0 {
		return nil, fmt.Errorf("calibration scales must be positive, got %g/%g",
			cal.ScaleXMMPerUnit, cal.ScaleYMMPerUnit)
	}

	h := &HPGL{
		port:      port,
		minXMM:    llxMM,
		minYMM:    llyMM,
		posXMM:    llxMM,
		posYMM:    llyMM,
		cal:       cal,
		maxXUnits: int(sizeXMM/cal.ScaleXMMPerUnit) + cal.OffsetXUnits,
		maxYUnits: int(sizeYMM/cal.ScaleYMMPerUnit) + cal.OffsetYUnits,
		Input:     os.Stdin,
	}
	debug.Value("Plotter travel x (units)", h.maxXUnits)
	debug.Value("Plotter travel y (units)", h.maxYUnits)
	return h, nil
}

// Initialize sends the device wake sequence and moves the pen to the
// configured offset.
func (h *HPGL) Initialize() error {
	debug.Live("Initializing plotter")
	h.write(";:H A L0 ECN U ")
	h.write(fmt.Sprintf("PU%d,%d;", h.cal.OffsetXUnits, h.cal.OffsetYUnits))
	return nil
}

// Finalize returns the pen to the origin and powers down the device
// circuits.
func (h *HPGL) Finalize() error {
	debug.Live("Finalizing plotter")
	h.write("PU0,0;!PG;")
	return nil
}

// MoveTo relocates the pen without marking.
func (h *HPGL) MoveTo(xMM, yMM float64) Status {
	h.posXMM = xMM
	h.posYMM = yMM
	h.penDown = false
	x, y := h.mapPoint(xMM, yMM)
	return h.write(fmt.Sprintf("PU%d,%d;", x, y))
}

// Draw relocates the pen while marking a straight line from the previous
// position.
func (h *HPGL) Draw(xMM, yMM float64) Status {
	h.posXMM = xMM
	h.posYMM = yMM
	h.penDown = true
	x, y := h.mapPoint(xMM, yMM)
	return h.write(fmt.Sprintf("PD%d,%d;", x, y))
}

// MoveRelative moves without marking by (dxMM, dyMM) and returns the new
// absolute position.
func (h *HPGL) MoveRelative(dxMM, dyMM float64) (float64, float64) {
	h.MoveTo(h.posXMM+dxMM, h.posYMM+dyMM)
	return h.posXMM, h.posYMM
}

// DrawRelative draws by (dxMM, dyMM) and returns the new absolute position.
func (h *HPGL) DrawRelative(dxMM, dyMM float64) (float64, float64) {
	h.Draw(h.posXMM+dxMM, h.posYMM+dyMM)
	return h.posXMM, h.posYMM
}

// PenUp raises the pen without moving it.
func (h *HPGL) PenUp() Status {
	h.penDown = false
	return h.write("PU;")
}

// ChangeColor raises the pen and blocks until the operator confirms the
// manual pen swap with a newline. Any name is accepted; it is only shown
// in the prompt.
func (h *HPGL) ChangeColor(name string) error {
	h.PenUp()
	debug.Pen(debug.Fmt("manual change to %q requested", name))
	fmt.Printf("\nInsert the %s pen and press Enter to continue...", name)
	if _, err := bufio.NewReader(h.Input).ReadString('\n'); err != nil {
		return fmt.Errorf("wait for pen change: %w", err)
	}
	return nil
}

// Position returns the unclipped pen position in mm.
func (h *HPGL) Position() (float64, float64) {
	return h.posXMM, h.posYMM
}

// PenDown reports whether the pen is in the marking state.
func (h *HPGL) PenDown() bool {
	return h.penDown
}

// mapPoint converts an mm position to clipped device units.
func (h *HPGL) mapPoint(xMM, yMM float64) (int, int) {
	x := clip(h.mapX(xMM), h.maxXUnits)
	y := clip(h.mapY(yMM), h.maxYUnits)
	return x, y
}

// mapX converts an x position in mm to plotter units, offset applied.
func (h *HPGL) mapX(xMM float64) int {
	return int(math.Round((xMM-h.minXMM)/h.cal.ScaleXMMPerUnit)) + h.cal.OffsetXUnits
}

// mapY converts a y position in mm to plotter units, offset applied.
func (h *HPGL) mapY(yMM float64) int {
	return int(math.Round((yMM-h.minYMM)/h.cal.ScaleYMMPerUnit)) + h.cal.OffsetYUnits
}

// clip saturates a device-unit coordinate into [0, max].
func clip(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// write sends one command and classifies the outcome. Timeouts and other
// write errors are logged and swallowed here; callers see them only as the
// returned Status.
func (h *HPGL) write(cmd string) Status {
	debug.Command(cmd)
	_, err := h.port.Write([]byte(cmd))
	switch {
	case err == nil:
		debug.Dot()
		return StatusOK
	case os.IsTimeout(err):
		debug.Error(fmt.Errorf("timeout writing %q, command skipped", cmd))
		return StatusTimeout
	default:
		debug.Error(fmt.Errorf("write %q: %w", cmd, err))
		return StatusFailed
	}
}
