package debug

import (
	"fmt"
	"log"
	"os"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (plot summary, calibration)
	LevelLive    = 2 // Live info (curves started, pen changes, progress dots)
	LevelVerbose = 3 // Verbose (coordinates, scaling details)
	LevelTrace   = 4 // Trace (wire commands, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (plot summary, device calibration)
// 2 = live info (curves, pen changes, per-command progress)
// 3 = verbose (point coordinates, scale factors)
// 4 = trace (serial wire commands, very low level)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[rplotter] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Summary prints an important summary (level 1).
func Summary(title string) {
	if level >= LevelOff && logger != nil {
		logger.Printf("═══════════════════════════════════════")
		logger.Printf("  %s", title)
		logger.Printf("═══════════════════════════════════════")
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Curve prints the start of a curve job (level 2).
func Curve(index, total int, color string) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Curve %d/%d (pen: %s)", index, total, color)
	}
}

// Pen prints a pen state or pen change event (level 2).
func Pen(event string) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Pen: %s", event)
	}
}

// Dot prints a bare progress dot (level 2), one per device command,
// without the logger prefix so dots accumulate on a single line.
func Dot() {
	if level >= LevelLive {
		fmt.Print(".")
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Print prints a level 3 message (alias for Verbose).
func Print(format string, args ...interface{}) {
	Verbose(format, args...)
}

// Printf is an alias for Print for compatibility.
func Printf(format string, args ...interface{}) {
	Verbose(format, args...)
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] %s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Printf("  %s", name)
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Step %d: %s", num, description)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// Command prints a wire command about to be written (level 4).
func Command(cmd string) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[WIRE] %q", cmd)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}

// Fmt is a helper function that returns a formatted string
// only if debug is enabled (to avoid unnecessary allocations).
func Fmt(format string, args ...interface{}) string {
	if level > 0 {
		return fmt.Sprintf(format, args...)
	}
	return ""
}
