package plotter

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/rthinman/rplotter/internal/debug"
)

// PreviewOptions configures the preview canvas.
type PreviewOptions struct {
	WidthPx    int
	HeightPx   int
	OutputPath string
}

// DefaultPreviewOptions returns the canvas size that fits a laptop screen
// with a menu bar on the left, and the default output file.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		WidthPx:    1200,
		HeightPx:   600,
		OutputPath: "preview.png",
	}
}

// penPalette is the set of pen colors the preview understands. The names
// match HP and compatible plotter pen kits (cyan = HP aqua, purple = HP
// violet).
var penPalette = map[string]color.RGBA{
	"black":   {0x00, 0x00, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xcd, 0xff},
	"brown":   {0x8b, 0x45, 0x13, 0xff},
	"cyan":    {0x00, 0xa8, 0xa8, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"magenta": {0xc7, 0x15, 0x85, 0xff},
	"orange":  {0xff, 0x8c, 0x00, 0xff},
	"purple":  {0x6a, 0x0d, 0xad, 0xff},
	"red":     {0xcd, 0x00, 0x00, 0xff},
	"yellow":  {0xcd, 0xb8, 0x00, 0xff},
}

// Preview renders the same drawing contract onto a fixed-size 2-D canvas,
// written out as a PNG at Finalize. A single uniform mm-per-pixel scale is
// chosen so the whole requested bounding box fits without distortion, and
// the box's center lands at the canvas center. No clipping is applied:
// points outside the box draw outside the intended viewport, or are
// silently dropped when they fall off the canvas.
//
// ChangeColor fails closed: names outside the pen palette return an error
// and leave the current color unchanged.
type Preview struct {
	minXMM  float64
	minYMM  float64
	posXMM  float64 // pen position, in mm
	posYMM  float64
	penDown bool

	scaleMMPerPx float64 // uniform scale, applies to both axes
	centerXPx    float64 // bounding-box center in scaled units
	centerYPx    float64

	opts PreviewOptions
	img  *image.RGBA
	pen  color.RGBA
}

// NewPreview creates a preview backend for a plot area from (llxMM, llyMM)
// to (urxMM, uryMM). The upper-right corner must be strictly greater than
// the lower-left in both axes and the canvas must have positive
// dimensions; violations are configuration errors.
func NewPreview(opts PreviewOptions, llxMM, llyMM, urxMM, uryMM float64) (*Preview, error) {
	sizeXMM := urxMM - llxMM
	sizeYMM := uryMM - llyMM
	if sizeXMM <= 0 || sizeYMM <= 0 {
		return nil, fmt.Errorf("upper right (%g, %g) is not greater than lower left (%g, %g)",
			urxMM, uryMM, llxMM, llyMM)
	}
	if opts.WidthPx <= 0 || opts.HeightPx <= 0 {
		return nil, fmt.Errorf("canvas dimensions must be positive, got %dx%d", opts.WidthPx, opts.HeightPx)
	}

	// The larger of the two axis-fit ratios, so nothing is scaled off
	// the canvas.
	scaleX := sizeXMM / float64(opts.WidthPx)
	scaleY := sizeYMM / float64(opts.HeightPx)
	scale := math.Max(scaleX, scaleY)

	p := &Preview{
		minXMM:       llxMM,
		minYMM:       llyMM,
		posXMM:       llxMM,
		posYMM:       llyMM,
		scaleMMPerPx: scale,
		centerXPx:    (urxMM + llxMM) / 2 / scale,
		centerYPx:    (uryMM + llyMM) / 2 / scale,
		opts:         opts,
		pen:          penPalette["black"],
	}
	debug.Value("Preview scale (mm/px)", scale)
	return p, nil
}

// Initialize creates the canvas and clears it to white.
func (p *Preview) Initialize() error {
	debug.Live("Initializing preview canvas (%dx%d px)", p.opts.WidthPx, p.opts.HeightPx)
	p.img = image.NewRGBA(image.Rect(0, 0, p.opts.WidthPx, p.opts.HeightPx))
	xdraw.Draw(p.img, p.img.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	return nil
}

// Finalize parks the pen at the origin and encodes the canvas as a PNG.
func (p *Preview) Finalize() error {
	p.MoveTo(0, 0)
	debug.Live("Finalizing preview, writing %s", p.opts.OutputPath)

	f, err := os.Create(p.opts.OutputPath)
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, p.img); err != nil {
		return fmt.Errorf("encode preview png: %w", err)
	}
	return nil
}

// MoveTo relocates the pen without marking.
func (p *Preview) MoveTo(xMM, yMM float64) Status {
	p.posXMM = xMM
	p.posYMM = yMM
	p.penDown = false
	return StatusOK
}

// Draw marks a straight line from the previous position.
func (p *Preview) Draw(xMM, yMM float64) Status {
	x0, y0 := p.mapPoint(p.posXMM, p.posYMM)
	x1, y1 := p.mapPoint(xMM, yMM)
	p.strokeLine(x0, y0, x1, y1)
	p.posXMM = xMM
	p.posYMM = yMM
	p.penDown = true
	return StatusOK
}

// MoveRelative moves without marking by (dxMM, dyMM) and returns the new
// absolute position.
func (p *Preview) MoveRelative(dxMM, dyMM float64) (float64, float64) {
	p.MoveTo(p.posXMM+dxMM, p.posYMM+dyMM)
	return p.posXMM, p.posYMM
}

// DrawRelative draws by (dxMM, dyMM) and returns the new absolute position.
func (p *Preview) DrawRelative(dxMM, dyMM float64) (float64, float64) {
	p.Draw(p.posXMM+dxMM, p.posYMM+dyMM)
	return p.posXMM, p.posYMM
}

// PenUp raises the pen without moving it.
func (p *Preview) PenUp() Status {
	p.penDown = false
	return StatusOK
}

// ChangeColor switches the pen color. Unknown names are rejected and the
// current color is kept.
func (p *Preview) ChangeColor(name string) error {
	c, ok := penPalette[name]
	if !ok {
		return fmt.Errorf("unknown pen color %q", name)
	}
	debug.Pen(debug.Fmt("color set to %s", name))
	p.pen = c
	return nil
}

// Position returns the pen position in mm.
func (p *Preview) Position() (float64, float64) {
	return p.posXMM, p.posYMM
}

// PenDown reports whether the pen is in the marking state.
func (p *Preview) PenDown() bool {
	return p.penDown
}

// Image exposes the canvas, e.g. for tests or alternative sinks.
func (p *Preview) Image() *image.RGBA {
	return p.img
}

// mapPoint converts an mm position to canvas pixel coordinates. The canvas
// y axis points down, mm y points up.
func (p *Preview) mapPoint(xMM, yMM float64) (float64, float64) {
	px := float64(p.opts.WidthPx)/2 + (xMM/p.scaleMMPerPx - p.centerXPx)
	py := float64(p.opts.HeightPx)/2 - (yMM/p.scaleMMPerPx - p.centerYPx)
	return px, py
}

// strokeLine draws a 1 px line on the canvas by stepping along the longer
// axis. Pixels falling outside the canvas are dropped by Set.
func (p *Preview) strokeLine(x0, y0, x1, y1 float64) {
	dx := x1 - x0
	dy := y1 - y0
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		p.img.Set(int(math.Round(x0+dx*t)), int(math.Round(y0+dy*t)), p.pen)
	}
}
