// Package ttytest provides an in-memory tty.Driver for tests.
package ttytest

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/taoky/rawtty/pkg/tty"
)

// Driver is a fake terminal. Input queued with Type is delivered by
// ReadWithTimeout; with nothing queued it sleeps for the applied VTIME.
type Driver struct {
	mu sync.Mutex

	current tty.Config
	pending []byte

	// Error injection
	QueryErr error
	ApplyErr error
	// ReadErrs are returned, in order, by the next reads before any data.
	ReadErrs []error

	// Call tracking
	Queries int
	Applied []tty.Config
	Reads   int
}

// NewDriver returns a fake in cooked mode with echo, canonical mode,
// signals and CR translation on.
func NewDriver() *Driver {
	var t unix.Termios
	t.Iflag = unix.ICRNL | unix.IXON | unix.BRKINT
	t.Oflag = unix.OPOST
	t.Cflag = unix.CS7 | unix.CREAD
	t.Lflag = unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return WithConfig(tty.NewConfig(t))
}

func WithConfig(c tty.Config) *Driver {
	return &Driver{current: c}
}

// Current returns the configuration the fake terminal is in.
func (d *Driver) Current() tty.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Type queues input bytes.
func (d *Driver) Type(b ...byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, b...)
}

func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Driver) QueryConfig() (tty.Config, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Queries++
	if d.QueryErr != nil {
		return tty.Config{}, d.QueryErr
	}
	return d.current, nil
}

func (d *Driver) ApplyConfig(c tty.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ApplyErr != nil {
		return d.ApplyErr
	}
	d.Applied = append(d.Applied, c)
	d.current = c
	d.pending = nil
	return nil
}

func (d *Driver) ReadWithTimeout(p []byte) (int, error) {
	d.mu.Lock()
	d.Reads++
	if len(d.ReadErrs) > 0 {
		err := d.ReadErrs[0]
		d.ReadErrs = d.ReadErrs[1:]
		d.mu.Unlock()
		return 0, err
	}
	if len(d.pending) > 0 {
		n := copy(p, d.pending)
		d.pending = d.pending[n:]
		d.mu.Unlock()
		return n, nil
	}
	wait := time.Duration(d.current.TimeoutDeciseconds()) * 100 * time.Millisecond
	d.mu.Unlock()

	time.Sleep(wait)
	return 0, nil
}
