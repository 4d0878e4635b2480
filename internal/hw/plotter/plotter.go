// Package plotter defines the device-agnostic drawing contract and its two
// backends: a physical HPGL pen plotter on a serial link and an offline
// PNG preview canvas.
package plotter

// Device is the high-level drawing contract implemented by every output
// backend (physical HPGL plotter, offline preview canvas, mocks for tests).
// The curve generator is written only against this interface.
//
// Initialize must be called exactly once before any drawing call, and
// Finalize exactly once after all drawing. Ordering is the caller's
// responsibility; it is not checked at runtime.
type Device interface {
	// Initialize performs one-time backend setup (device wake sequence,
	// canvas creation).
	Initialize() error

	// Finalize performs shutdown (return pen to origin and power down,
	// or encode the preview image).
	Finalize() error

	// MoveTo relocates the pen to absolute (xMM, yMM) without marking.
	MoveTo(xMM, yMM float64) Status

	// Draw relocates the pen to absolute (xMM, yMM) while marking a
	// straight line from the previous position.
	Draw(xMM, yMM float64) Status

	// MoveRelative moves without marking by (dxMM, dyMM) from the current
	// position and returns the resulting absolute position.
	MoveRelative(dxMM, dyMM float64) (float64, float64)

	// DrawRelative draws by (dxMM, dyMM) from the current position and
	// returns the resulting absolute position.
	DrawRelative(dxMM, dyMM float64) (float64, float64)

	// PenUp forces the pen into the non-marking state without moving it.
	PenUp() Status

	// ChangeColor performs a logical pen change. Behavior is
	// backend-specific and documented on each implementation: the HPGL
	// backend prompts the operator and accepts any name, the preview
	// backend fails closed on names outside its pen palette.
	ChangeColor(name string) error
}

// Status is the outcome of a single device command. Write errors are never
// surfaced to the curve generator as Go errors; they are reported as an
// explicit status so the caller can decide policy (the historical behavior
// is "log and continue" for timeouts).
type Status int

const (
	// StatusOK means the command was accepted by the backend.
	StatusOK Status = iota
	// StatusTimeout means the write timed out and the command was
	// skipped. Processing continues; this is a documented data-loss risk.
	StatusTimeout
	// StatusFailed means the write failed for a reason other than a
	// timeout (port closed, device gone).
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
