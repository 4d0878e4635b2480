// Package plot executes an ordered list of curve jobs against a single
// output device.
package plot

import (
	"fmt"

	"github.com/rthinman/rplotter/internal/config"
	"github.com/rthinman/rplotter/internal/debug"
	"github.com/rthinman/rplotter/internal/hw/plotter"
	"github.com/rthinman/rplotter/internal/logic/geometry"
	"github.com/rthinman/rplotter/internal/logic/roulette"
)

// GridSpec repeats one curve across a rows x columns lattice centered on
// the job's placement center, pitch mm between neighboring centers.
type GridSpec struct {
	Rows    int
	Columns int
	PitchMM float64
}

// Job is one plotting task: a pen color, curve parameters and where the
// curve (or its grid of repeats) goes on the page.
type Job struct {
	Color     string
	Params    roulette.Params
	Placement geometry.Placement
	Grid      *GridSpec
}

// JobsFromConfig converts the configured curve list into runnable jobs.
// The config is assumed validated by config.Load.
func JobsFromConfig(curves []config.CurveConfig) []Job {
	jobs := make([]Job, 0, len(curves))
	for _, c := range curves {
		job := Job{
			Color: c.Color,
			Params: roulette.Params{
				RollingRadiusMM: c.RollingRadiusMM,
				PenRadiusMM:     c.PenRadiusMM,
				Inner:           c.Inner,
				Outer:           c.Outer,
			},
			Placement: geometry.Placement{
				CenterXMM:   c.CenterXMM,
				CenterYMM:   c.CenterYMM,
				RotationRad: c.RotationRad,
			},
		}
		if c.Grid != nil {
			job.Grid = &GridSpec{
				Rows:    c.Grid.Rows,
				Columns: c.Grid.Columns,
				PitchMM: c.Grid.PitchMM,
			}
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Placements expands a job into the placements to trace: the job's own
// placement, or one per lattice cell when a grid is present. The lattice
// is centered on the placement center; every cell keeps the job's
// rotation.
func (j Job) Placements() []geometry.Placement {
	if j.Grid == nil {
		return []geometry.Placement{j.Placement}
	}
	g := j.Grid
	startX := j.Placement.CenterXMM - float64(g.Columns-1)/2*g.PitchMM
	startY := j.Placement.CenterYMM - float64(g.Rows-1)/2*g.PitchMM

	places := make([]geometry.Placement, 0, g.Rows*g.Columns)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			places = append(places, geometry.Placement{
				CenterXMM:   startX + float64(col)*g.PitchMM,
				CenterYMM:   startY + float64(row)*g.PitchMM,
				RotationRad: j.Placement.RotationRad,
			})
		}
	}
	return places
}

// Runner drives a device through a plot. In strict mode a hard write
// failure aborts the run; timeouts never do — a timed-out command is lost
// and the plot continues, which is the documented historical policy.
type Runner struct {
	dev    plotter.Device
	strict bool
}

// NewRunner creates a runner for dev. strict selects whether hard write
// failures abort the plot.
func NewRunner(dev plotter.Device, strict bool) *Runner {
	return &Runner{dev: dev, strict: strict}
}

// Run traces every job in order. The device must already be initialized;
// the caller finalizes it afterwards, plot outcome notwithstanding.
func (r *Runner) Run(jobs []Job) error {
	if len(jobs) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	var total roulette.Stats
	for i, job := range jobs {
		debug.Curve(i+1, len(jobs), job.Color)
		if err := r.dev.ChangeColor(job.Color); err != nil {
			return fmt.Errorf("change to %s pen: %w", job.Color, err)
		}

		for _, place := range job.Placements() {
			stats, err := roulette.Trace(r.dev, job.Params, place)
			if err != nil {
				return fmt.Errorf("curve %d: %w", i+1, err)
			}
			total.Commands += stats.Commands
			total.Timeouts += stats.Timeouts
			total.Failures += stats.Failures

			if r.strict && stats.Failures > 0 {
				return fmt.Errorf("curve %d: %d of %d commands failed", i+1, stats.Failures, stats.Commands)
			}
		}
	}

	debug.Info("Plot complete: %d commands, %d timeouts, %d failures",
		total.Commands, total.Timeouts, total.Failures)
	if total.Timeouts > 0 {
		debug.Error(fmt.Errorf("%d commands timed out and were skipped", total.Timeouts))
	}
	return nil
}
