package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"github.com/rthinman/rplotter/internal/debug"
)

// NativePort wraps the tarm/serial implementation.
//
// The plotter's nominal line settings are 9600/8-N-1 with hardware flow
// control. tarm/serial does not expose flow control; the LPII works with
// RTS/CTS left asserted by the OS driver.
type NativePort struct {
	port *serial.Port
	cfg  Config
}

// Open opens a native serial port with the given configuration.
func Open(cfg Config) (*NativePort, error) {
	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	debug.Info("Serial port %s open (%d baud, %d ms timeout)", cfg.Device, cfg.Baud, cfg.TimeoutMS)

	return &NativePort{port: port, cfg: cfg}, nil
}

// Write writes data to the serial port.
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port.
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}
