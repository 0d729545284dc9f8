//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package tty

import (
	"golang.org/x/sys/unix"
)

type unixDriver struct {
	fd int
}

// NewDriver returns a Driver backed by termios ioctls on fd.
func NewDriver(fd int) Driver {
	return &unixDriver{fd: fd}
}

func (d *unixDriver) QueryConfig() (Config, error) {
	termios, err := unix.IoctlGetTermios(d.fd, ioctlGetTermios)
	if err != nil {
		return Config{}, err
	}
	return Config{termios: *termios}, nil
}

// ApplyConfig uses the TCSAFLUSH form of the set request: pending input is
// discarded and c applied in the same call.
func (d *unixDriver) ApplyConfig(c Config) error {
	termios := c.termios
	return unix.IoctlSetTermios(d.fd, ioctlSetTermiosFlush, &termios)
}

// os.File turns a zero-length read into io.EOF, so the fd is read directly.
func (d *unixDriver) ReadWithTimeout(p []byte) (int, error) {
	return unix.Read(d.fd, p)
}
