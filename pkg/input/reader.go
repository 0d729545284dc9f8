package input

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/taoky/rawtty/pkg/tty"
)

var (
	ErrRead   = errors.New("read input")
	ErrNotRaw = errors.New("terminal is not in raw mode")
)

// Reader delivers input one byte per call.
type Reader struct {
	ctrl *tty.Controller
	buf  [1]byte
}

func NewReader(ctrl *tty.Controller) *Reader {
	return &Reader{ctrl: ctrl}
}

// Poll reads one byte. ok is false when the raw mode read timeout elapses
// with nothing typed; that is not an error. An interrupted read is retried
// and a would-block read counts as a timeout.
func (r *Reader) Poll() (b byte, ok bool, err error) {
	if !r.ctrl.Raw() {
		return 0, false, ErrNotRaw
	}
	for {
		n, err := r.ctrl.Driver().ReadWithTimeout(r.buf[:])
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, false, nil
		case err != nil:
			return 0, false, fmt.Errorf("%w: %w", ErrRead, err)
		case n == 0:
			return 0, false, nil
		}
		return r.buf[0], true, nil
	}
}
