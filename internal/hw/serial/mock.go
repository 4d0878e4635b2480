package serial

import (
	"os"

	"github.com/rthinman/rplotter/internal/debug"
)

// MockPort is a Port implementation that records every write. Used for
// development without a plotter attached and for tests. Err, when set, is
// returned by Write after the data has been recorded, so tests can inject
// timeouts and hard failures.
type MockPort struct {
	Writes []string
	Err    error
}

func (m *MockPort) Write(b []byte) (int, error) {
	m.Writes = append(m.Writes, string(b))
	debug.Command(string(b))
	if m.Err != nil {
		return 0, m.Err
	}
	return len(b), nil
}

func (m *MockPort) Close() error {
	debug.Trace("serial close (mock)")
	return nil
}

// Sent returns the concatenated byte stream written so far.
func (m *MockPort) Sent() string {
	var s string
	for _, w := range m.Writes {
		s += w
	}
	return s
}

// timeoutError mimics an OS-level deadline error so the HPGL backend's
// timeout classification can be tested without a real port.
type timeoutError struct{}

func (timeoutError) Error() string { return "serial write timed out" }
func (timeoutError) Timeout() bool { return true }

// ErrTimeout is a reusable injectable timeout; os.IsTimeout reports true
// for it.
var ErrTimeout error = &os.SyscallError{Syscall: "write", Err: timeoutError{}}
