package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Output targets.
const (
	OutputPreview = "preview"
	OutputPlotter = "plotter"
)

// BoundsConfig is the plot area in mm: lower-left and upper-right corners.
type BoundsConfig struct {
	MinXMM float64 `yaml:"min_x_mm"`
	MinYMM float64 `yaml:"min_y_mm"`
	MaxXMM float64 `yaml:"max_x_mm"`
	MaxYMM float64 `yaml:"max_y_mm"`
}

// PlotterConfig describes the serial plotter and its calibration.
// Scale/offset defaults are the measured USCutter LPII constants.
type PlotterConfig struct {
	Port            string  `yaml:"port"`                // e.g. "/dev/ttyUSB0", "COM12"
	Baud            int     `yaml:"baud"`                // default 9600
	TimeoutMS       int     `yaml:"timeout_ms"`          // write timeout, default 10
	ScaleXMMPerUnit float64 `yaml:"scale_x_mm_per_unit"` // default 0.0251
	ScaleYMMPerUnit float64 `yaml:"scale_y_mm_per_unit"` // default 0.024917
	OffsetXUnits    int     `yaml:"offset_x_units"`      // pen offset, default 25
	OffsetYUnits    int     `yaml:"offset_y_units"`      // default 25
}

// PreviewConfig describes the preview canvas.
type PreviewConfig struct {
	WidthPx  int    `yaml:"width_px"`  // default 1200
	HeightPx int    `yaml:"height_px"` // default 600
	Output   string `yaml:"output"`    // PNG path, default "preview.png"
}

// GridConfig optionally repeats a curve over a rows x columns lattice
// centered on the curve's placement center.
type GridConfig struct {
	Rows    int     `yaml:"rows"`
	Columns int     `yaml:"columns"`
	PitchMM float64 `yaml:"pitch_mm"` // center-to-center spacing
}

// CurveConfig is one curve job: hypotrochoid parameters, pen color and
// placement on the page.
type CurveConfig struct {
	Color           string      `yaml:"color"`
	RollingRadiusMM float64     `yaml:"rolling_radius_mm"`
	PenRadiusMM     float64     `yaml:"pen_radius_mm"`
	Inner           int         `yaml:"inner"`
	Outer           int         `yaml:"outer"`
	CenterXMM       float64     `yaml:"center_x_mm"`
	CenterYMM       float64     `yaml:"center_y_mm"`
	RotationRad     float64     `yaml:"rotation_rad"`
	Grid            *GridConfig `yaml:"grid,omitempty"` // optional
}

// Config aggregates all application configuration.
type Config struct {
	Output     string        `yaml:"output"`      // "preview" or "plotter"
	DebugLevel int           `yaml:"debug_level"` // 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	StrictIO   bool          `yaml:"strict_io"`   // abort the plot on hard write failures
	Bounds     BoundsConfig  `yaml:"bounds"`
	Plotter    PlotterConfig `yaml:"plotter"`
	Preview    PreviewConfig `yaml:"preview"`
	Curves     []CurveConfig `yaml:"curves"`
}

// Load reads a YAML file and returns the validated configuration with
// defaults applied. All validation failures here are configuration errors:
// they abort the run before any device I/O happens.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.applyDefaultsAndValidate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaultsAndValidate() error {
	if c.Output == "" {
		c.Output = OutputPreview
	}
	if c.Output != OutputPreview && c.Output != OutputPlotter {
		return fmt.Errorf("output must be %q or %q, got %q", OutputPreview, OutputPlotter, c.Output)
	}
	if c.DebugLevel < 0 || c.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be 0-4, got %d", c.DebugLevel)
	}

	// The bounds check is fatal by design: both backends derive their
	// calibration from it at construction.
	if c.Bounds.MaxXMM <= c.Bounds.MinXMM || c.Bounds.MaxYMM <= c.Bounds.MinYMM {
		return fmt.Errorf("bounds upper right (%g, %g) must be greater than lower left (%g, %g)",
			c.Bounds.MaxXMM, c.Bounds.MaxYMM, c.Bounds.MinXMM, c.Bounds.MinYMM)
	}

	if c.Output == OutputPlotter && c.Plotter.Port == "" {
		return fmt.Errorf("plotter.port is required when output is %q", OutputPlotter)
	}
	if c.Plotter.Baud <= 0 {
		c.Plotter.Baud = 9600
	}
	if c.Plotter.TimeoutMS <= 0 {
		c.Plotter.TimeoutMS = 10
	}
	if c.Plotter.ScaleXMMPerUnit == 0 {
		c.Plotter.ScaleXMMPerUnit = 0.0251
	}
	if c.Plotter.ScaleYMMPerUnit == 0 {
		c.Plotter.ScaleYMMPerUnit = 0.024917
	}
	if c.Plotter.ScaleXMMPerUnit < 0 || c.Plotter.ScaleYMMPerUnit < 0 {
		return fmt.Errorf("plotter scales must be positive, got %g/%g",
			c.Plotter.ScaleXMMPerUnit, c.Plotter.ScaleYMMPerUnit)
	}
	if c.Plotter.OffsetXUnits == 0 && c.Plotter.OffsetYUnits == 0 {
		c.Plotter.OffsetXUnits = 25
		c.Plotter.OffsetYUnits = 25
	}
	if c.Plotter.OffsetXUnits < 0 || c.Plotter.OffsetYUnits < 0 {
		return fmt.Errorf("plotter offsets must not be negative, got %d/%d",
			c.Plotter.OffsetXUnits, c.Plotter.OffsetYUnits)
	}

	if c.Preview.WidthPx <= 0 {
		c.Preview.WidthPx = 1200
	}
	if c.Preview.HeightPx <= 0 {
		c.Preview.HeightPx = 600
	}
	if c.Preview.Output == "" {
		c.Preview.Output = "preview.png"
	}

	if len(c.Curves) == 0 {
		return fmt.Errorf("at least one curve is required")
	}
	for i := range c.Curves {
		if err := c.Curves[i].validate(); err != nil {
			return fmt.Errorf("curve %d: %w", i, err)
		}
	}
	return nil
}

func (cc *CurveConfig) validate() error {
	if cc.Color == "" {
		cc.Color = "black"
	}
	if cc.Inner <= 0 || cc.Outer <= 0 {
		return fmt.Errorf("inner and outer must be positive, got %d/%d", cc.Inner, cc.Outer)
	}
	if cc.Inner > cc.Outer {
		return fmt.Errorf("inner (%d) must not be greater than outer (%d)", cc.Inner, cc.Outer)
	}
	if cc.RollingRadiusMM <= 0 {
		return fmt.Errorf("rolling_radius_mm must be positive, got %g", cc.RollingRadiusMM)
	}
	if cc.PenRadiusMM < 0 {
		return fmt.Errorf("pen_radius_mm must not be negative, got %g", cc.PenRadiusMM)
	}
	if g := cc.Grid; g != nil {
		if g.Rows <= 0 || g.Columns <= 0 {
			return fmt.Errorf("grid rows and columns must be positive, got %dx%d", g.Rows, g.Columns)
		}
		if g.PitchMM <= 0 {
			return fmt.Errorf("grid pitch_mm must be positive, got %g", g.PitchMM)
		}
	}
	return nil
}
