package tty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/taoky/rawtty/pkg/exithook"
	"github.com/taoky/rawtty/pkg/tty"
	"github.com/taoky/rawtty/pkg/tty/ttytest"
)

func newController(d tty.Driver) (*tty.Controller, *exithook.Registry) {
	hooks := &exithook.Registry{}
	return tty.New(d, tty.WithExitHooks(hooks)), hooks
}

func TestEnterAndRestore(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)

	require.True(t, d.Current().Echo())
	require.True(t, d.Current().Canonical())

	require.NoError(t, c.EnterRawMode())
	assert.True(t, c.Raw())
	assert.False(t, d.Current().Echo())
	assert.False(t, d.Current().Canonical())

	require.NoError(t, c.RestoreMode())
	assert.False(t, c.Raw())
	assert.True(t, d.Current().Echo())
	assert.True(t, d.Current().Canonical())
}

func TestRoundTrip(t *testing.T) {
	var termios unix.Termios
	termios.Iflag = unix.IGNPAR | unix.ICRNL | unix.ISTRIP
	termios.Oflag = unix.OPOST | unix.ONLCR
	termios.Cflag = unix.CS7 | unix.PARENB
	termios.Lflag = unix.ECHO | unix.ECHOE | unix.ICANON | unix.ISIG
	termios.Cc[unix.VMIN] = 4
	termios.Cc[unix.VTIME] = 9
	termios.Ispeed = 38400
	termios.Ospeed = 38400
	initial := tty.NewConfig(termios)

	d := ttytest.WithConfig(initial)
	c, _ := newController(d)
	require.NoError(t, c.EnterRawMode())
	assert.NotEqual(t, initial, d.Current())
	require.NoError(t, c.RestoreMode())
	assert.Equal(t, initial, d.Current())

	saved, ok := c.Saved()
	assert.True(t, ok)
	assert.Equal(t, initial, saved)
}

func TestRestoreIsIdempotent(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)
	require.NoError(t, c.EnterRawMode())
	require.Len(t, d.Applied, 1)

	require.NoError(t, c.RestoreMode())
	require.NoError(t, c.RestoreMode())

	// One apply for entering, exactly one for restoring.
	assert.Len(t, d.Applied, 2)
}

func TestRestoreBeforeEnter(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)
	require.NoError(t, c.RestoreMode())
	assert.Empty(t, d.Applied)

	// Restoring before entering must not close the controller.
	require.NoError(t, c.EnterRawMode())
	assert.True(t, c.Raw())
}

func TestEnterTwice(t *testing.T) {
	d := ttytest.NewDriver()
	c, hooks := newController(d)
	require.NoError(t, c.EnterRawMode())
	require.NoError(t, c.EnterRawMode())

	assert.Equal(t, 1, d.Queries)
	assert.Len(t, d.Applied, 1)
	assert.Equal(t, 1, hooks.Len())
}

func TestEnterAfterRestore(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)
	require.NoError(t, c.EnterRawMode())
	require.NoError(t, c.RestoreMode())
	assert.ErrorIs(t, c.EnterRawMode(), tty.ErrClosed)
	assert.Len(t, d.Applied, 2)
}

func TestExitHookRestores(t *testing.T) {
	d := ttytest.NewDriver()
	initial := d.Current()
	c, hooks := newController(d)
	require.NoError(t, c.EnterRawMode())

	hooks.Run()
	assert.Equal(t, initial, d.Current())
	assert.False(t, c.Raw())

	// A later explicit restore and a second hook run are both no-ops.
	require.NoError(t, c.RestoreMode())
	hooks.Run()
	assert.Len(t, d.Applied, 2)
}

func TestQueryError(t *testing.T) {
	d := ttytest.NewDriver()
	d.QueryErr = unix.ENOTTY
	c, hooks := newController(d)

	err := c.EnterRawMode()
	assert.ErrorIs(t, err, tty.ErrDriverQuery)
	assert.ErrorIs(t, err, unix.ENOTTY)
	assert.False(t, c.Raw())
	assert.Empty(t, d.Applied)
	assert.Equal(t, 0, hooks.Len())
}

func TestApplyError(t *testing.T) {
	d := ttytest.NewDriver()
	initial := d.Current()
	d.ApplyErr = unix.EIO
	c, hooks := newController(d)

	err := c.EnterRawMode()
	assert.ErrorIs(t, err, tty.ErrDriverApply)
	assert.ErrorIs(t, err, unix.EIO)
	assert.False(t, c.Raw())
	assert.False(t, c.Restored())

	// The hook stays registered and still restores the saved config.
	assert.Equal(t, 1, hooks.Len())
	d.ApplyErr = nil
	hooks.Run()
	require.Len(t, d.Applied, 1)
	assert.Equal(t, initial, d.Applied[0])
	assert.True(t, c.Restored())
}

func TestEnterRetryAfterApplyError(t *testing.T) {
	d := ttytest.NewDriver()
	d.ApplyErr = unix.EIO
	c, hooks := newController(d)
	require.Error(t, c.EnterRawMode())

	d.ApplyErr = nil
	require.NoError(t, c.EnterRawMode())
	assert.True(t, c.Raw())
	assert.Equal(t, 1, d.Queries)
	assert.Equal(t, 1, hooks.Len())
}

func TestEnterDiscardsPendingInput(t *testing.T) {
	d := ttytest.NewDriver()
	d.Type('a', 'b')
	c, _ := newController(d)
	require.NoError(t, c.EnterRawMode())
	assert.Equal(t, 0, d.Pending())
}

func TestWithRawModeJoinsRestoreError(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)
	want := errors.New("stop")
	err := tty.WithRawMode(c, func() error {
		d.ApplyErr = unix.EIO
		return want
	})
	assert.ErrorIs(t, err, want)
	assert.ErrorIs(t, err, tty.ErrDriverApply)
	assert.True(t, c.Restored())
}

func TestRestoreErrorAborts(t *testing.T) {
	d := ttytest.NewDriver()
	hooks := &exithook.Registry{}
	var labels []string
	var errs []error
	c := tty.New(d, tty.WithExitHooks(hooks), tty.WithAbort(func(label string, err error) {
		labels = append(labels, label)
		errs = append(errs, err)
		// A fatal path re-entering the hooks must not restore twice.
		hooks.Run()
	}))
	require.NoError(t, c.EnterRawMode())

	d.ApplyErr = unix.EIO
	hooks.Run()

	require.Len(t, labels, 1)
	assert.Equal(t, "restore terminal", labels[0])
	assert.True(t, errors.Is(errs[0], tty.ErrDriverApply))
}

func TestWithRawMode(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)

	var rawInside bool
	err := tty.WithRawMode(c, func() error {
		rawInside = c.Raw() && !d.Current().Echo()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, rawInside)
	assert.True(t, d.Current().Echo())
}

func TestWithRawModePanic(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)

	assert.PanicsWithValue(t, "boom", func() {
		tty.WithRawMode(c, func() error {
			panic("boom")
		})
	})
	assert.True(t, d.Current().Echo())
	assert.True(t, d.Current().Canonical())
}

func TestWithRawModeReturnsFnError(t *testing.T) {
	d := ttytest.NewDriver()
	c, _ := newController(d)
	want := errors.New("stop")
	err := tty.WithRawMode(c, func() error { return want })
	assert.ErrorIs(t, err, want)
	assert.False(t, c.Raw())
}
