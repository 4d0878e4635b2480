package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/rthinman/rplotter/internal/config"
	"github.com/rthinman/rplotter/internal/debug"
	"github.com/rthinman/rplotter/internal/hw/plotter"
	"github.com/rthinman/rplotter/internal/hw/serial"
	"github.com/rthinman/rplotter/internal/logic/plot"
)

func main() {
	// CLI flags
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	output := flag.String("output", "", "override output target: preview or plotter")
	port := flag.String("port", "", "override serial port, e.g. /dev/ttyUSB0")
	previewOut := flag.String("preview-out", "", "override preview PNG path")
	debugLevel := flag.Int("debug", -1, "override debug level 0-4 (-1 = use config)")
	flag.Parse()

	if err := validateOverrides(*output, *debugLevel); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	applyOverrides(cfg, *output, *port, *previewOut, *debugLevel)

	// Initialize debug system
	debug.Init(cfg.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Output target", cfg.Output)
	debug.Value("Plot bounds (mm)", debug.Fmt("(%g, %g) to (%g, %g)",
		cfg.Bounds.MinXMM, cfg.Bounds.MinYMM, cfg.Bounds.MaxXMM, cfg.Bounds.MaxYMM))

	// Select and construct the output device
	debug.Step(1, "Constructing output device")
	dev, closer, err := newDeviceFromConfig(cfg)
	if err != nil {
		log.Fatalf("init device failed: %v", err)
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Printf("closing serial port failed: %v", err)
			}
		}()
	}

	// Plot
	debug.Step(2, "Plotting")
	if err := dev.Initialize(); err != nil {
		log.Fatalf("initialize device failed: %v", err)
	}
	runErr := plot.NewRunner(dev, cfg.StrictIO).Run(plot.JobsFromConfig(cfg.Curves))
	// Finalize regardless of the plot outcome, so the pen is parked and
	// the preview file is written even after an aborted strict run.
	if err := dev.Finalize(); err != nil {
		log.Printf("finalize device failed: %v", err)
	}
	if runErr != nil {
		log.Fatalf("plot failed: %v", runErr)
	}

	debug.Section("Plot Complete")
}

// validateOverrides checks CLI override values before they are applied.
// Empty/-1 values mean "use config" and are ignored.
func validateOverrides(output string, debugLevel int) error {
	if output != "" && output != config.OutputPreview && output != config.OutputPlotter {
		return fmt.Errorf("output must be %q or %q, got %q",
			config.OutputPreview, config.OutputPlotter, output)
	}
	if debugLevel < -1 || debugLevel > 4 {
		return fmt.Errorf("debug level must be 0-4, got %d", debugLevel)
	}
	return nil
}

// applyOverrides mutates cfg with CLI overrides. Empty/-1 values are
// ignored.
func applyOverrides(cfg *config.Config, output, port, previewOut string, debugLevel int) {
	if output != "" {
		cfg.Output = output
	}
	if port != "" {
		cfg.Plotter.Port = port
	}
	if previewOut != "" {
		cfg.Preview.Output = previewOut
	}
	if debugLevel >= 0 {
		cfg.DebugLevel = debugLevel
	}
}

// newDeviceFromConfig selects and constructs the output device. The
// returned closer, when non-nil, owns the serial port and must be closed
// after Finalize.
func newDeviceFromConfig(cfg *config.Config) (plotter.Device, io.Closer, error) {
	b := cfg.Bounds
	switch cfg.Output {
	case config.OutputPlotter:
		port, err := serial.Open(serial.Config{
			Device:    cfg.Plotter.Port,
			Baud:      cfg.Plotter.Baud,
			TimeoutMS: cfg.Plotter.TimeoutMS,
		})
		if err != nil {
			return nil, nil, err
		}
		cal := plotter.Calibration{
			ScaleXMMPerUnit: cfg.Plotter.ScaleXMMPerUnit,
			ScaleYMMPerUnit: cfg.Plotter.ScaleYMMPerUnit,
			OffsetXUnits:    cfg.Plotter.OffsetXUnits,
			OffsetYUnits:    cfg.Plotter.OffsetYUnits,
		}
		dev, err := plotter.NewHPGL(port, cal, b.MinXMM, b.MinYMM, b.MaxXMM, b.MaxYMM)
		if err != nil {
			port.Close()
			return nil, nil, err
		}
		return dev, port, nil

	case config.OutputPreview:
		opts := plotter.PreviewOptions{
			WidthPx:    cfg.Preview.WidthPx,
			HeightPx:   cfg.Preview.HeightPx,
			OutputPath: cfg.Preview.Output,
		}
		dev, err := plotter.NewPreview(opts, b.MinXMM, b.MinYMM, b.MaxXMM, b.MaxYMM)
		if err != nil {
			return nil, nil, err
		}
		return dev, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported output target: %s", cfg.Output)
	}
}
