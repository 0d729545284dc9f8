// Package fatal terminates the process after a terminal driver failure.
package fatal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"

	"github.com/taoky/rawtty/pkg/exithook"
)

const (
	ClearScreen = "\x1b[2J"
	CursorHome  = "\x1b[H"

	ExitCode = 1
)

type Aborter struct {
	Stdout io.Writer
	Stderr io.Writer
	Hooks  *exithook.Registry
	Exit   func(code int)

	aborting atomic.Bool
	mu       sync.Mutex
	nested   []diagnostic
}

type diagnostic struct {
	label string
	err   error
}

var Default = &Aborter{
	Stdout: os.Stdout,
	Stderr: os.Stderr,
	Hooks:  exithook.Default,
	Exit:   os.Exit,
}

func Abort(label string, err error) {
	Default.Abort(label, err)
}

// Abort clears the screen, runs the exit hooks, prints label and err, and
// exits non-zero. The screen reset is written directly: the terminal state
// is unknown at this point.
//
// An Abort issued while another is in progress (a hook failing during
// the first one) only queues its diagnostic; the outer call prints it
// after its own and exits once.
func (a *Aborter) Abort(label string, err error) {
	if !a.aborting.CompareAndSwap(false, true) {
		a.mu.Lock()
		a.nested = append(a.nested, diagnostic{label, err})
		a.mu.Unlock()
		return
	}
	defer a.aborting.Store(false)

	io.WriteString(a.Stdout, ClearScreen+CursorHome)
	if a.Hooks != nil {
		a.Hooks.Run()
	}

	a.mu.Lock()
	diags := append([]diagnostic{{label, err}}, a.nested...)
	a.nested = nil
	a.mu.Unlock()

	prefix := color.New(color.FgRed, color.Bold).Sprint("fatal:")
	for _, d := range diags {
		if d.err != nil {
			fmt.Fprintf(a.Stderr, "%s %s: %v\n", prefix, d.label, d.err)
		} else {
			fmt.Fprintf(a.Stderr, "%s %s\n", prefix, d.label)
		}
	}
	a.Exit(ExitCode)
}
