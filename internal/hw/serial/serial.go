// Package serial abstracts the serial link to the plotter so the HPGL
// backend can be exercised against a mock port in tests.
package serial

import (
	"io"
)

// Port is the write-only serial connection used by the HPGL backend.
// Implementations: a real port via github.com/tarm/serial, or MockPort
// for development and tests.
type Port interface {
	io.Writer
	io.Closer
}

// Config holds serial port configuration.
type Config struct {
	// Device path, e.g. "/dev/ttyUSB0" or "COM12".
	Device string

	// Baud rate. The LPII plotter talks at 9600.
	Baud int

	// Write/read timeout in milliseconds. A timed-out command is skipped,
	// not retried.
	TimeoutMS int
}

// DefaultConfig returns the configuration for the LPII cutter/plotter:
// 9600 baud, 8 data bits, no parity, 1 stop bit, 10 ms timeout.
func DefaultConfig(device string) Config {
	return Config{
		Device:    device,
		Baud:      9600,
		TimeoutMS: 10,
	}
}
