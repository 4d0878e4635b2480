package serial

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	if cfg.Device != "/dev/ttyUSB0" {
		t.Errorf("Device = %q", cfg.Device)
	}
	if cfg.Baud != 9600 {
		t.Errorf("Baud = %d, want 9600", cfg.Baud)
	}
	if cfg.TimeoutMS != 10 {
		t.Errorf("TimeoutMS = %d, want 10", cfg.TimeoutMS)
	}
}

func TestMockPortRecordsWrites(t *testing.T) {
	m := &MockPort{}
	if _, err := m.Write([]byte("PU25,25;")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := m.Write([]byte("PD100,200;")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(m.Writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(m.Writes))
	}
	if m.Sent() != "PU25,25;PD100,200;" {
		t.Errorf("Sent() = %q", m.Sent())
	}
}

func TestMockPortInjectsErrorAfterRecording(t *testing.T) {
	m := &MockPort{Err: ErrTimeout}
	if _, err := m.Write([]byte("PU;")); err == nil {
		t.Fatal("expected injected error")
	}
	if len(m.Writes) != 1 {
		t.Error("write must be recorded even when the error fires")
	}
}

func TestErrTimeoutClassifies(t *testing.T) {
	if !os.IsTimeout(ErrTimeout) {
		t.Error("os.IsTimeout(ErrTimeout) = false, want true")
	}
}
