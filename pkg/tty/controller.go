package tty

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/taoky/rawtty/pkg/exithook"
)

var (
	ErrDriverQuery = errors.New("query terminal config")
	ErrDriverApply = errors.New("apply terminal config")
	ErrClosed      = errors.New("terminal already restored")
)

// Driver is the capability surface of a terminal device.
type Driver interface {
	QueryConfig() (Config, error)
	// ApplyConfig discards unread input, then applies the config.
	ApplyConfig(Config) error
	// ReadWithTimeout returns (0, nil) when the configured VTIME expires.
	ReadWithTimeout(p []byte) (int, error)
}

// Controller owns the saved terminal configuration and moves the terminal
// between cooked and raw mode. It is not safe for concurrent callers, except
// that RestoreMode may race with itself (exit hook vs. deferred call).
type Controller struct {
	driver Driver
	hooks  *exithook.Registry
	logger *log.Logger
	abort  func(label string, err error)

	saved      Config
	entered    bool
	active     bool
	registered bool
	restored   atomic.Bool
}

type Option func(*Controller)

// WithExitHooks sets the registry the restore hook is installed in.
// Defaults to exithook.Default.
func WithExitHooks(r *exithook.Registry) Option {
	return func(c *Controller) { c.hooks = r }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithAbort sets what the exit hook does when restoration fails.
func WithAbort(fn func(label string, err error)) Option {
	return func(c *Controller) { c.abort = fn }
}

func New(d Driver, opts ...Option) *Controller {
	c := &Controller{
		driver: d,
		hooks:  exithook.Default,
		logger: log.New(io.Discard, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) SetLogger(l *log.Logger) {
	c.logger = l
}

func (c *Controller) Driver() Driver {
	return c.driver
}

// Raw reports whether raw mode is active.
func (c *Controller) Raw() bool {
	return c.active && !c.restored.Load()
}

// Restored reports whether RestoreMode has run, successfully or not.
func (c *Controller) Restored() bool {
	return c.restored.Load()
}

// Saved returns the configuration captured by the first EnterRawMode.
func (c *Controller) Saved() (Config, bool) {
	return c.saved, c.entered
}

func (c *Controller) EnterRawMode() error {
	if c.restored.Load() {
		return ErrClosed
	}
	if c.active {
		return nil
	}

	// A failed apply leaves the saved config and the hook in place, so a
	// retry reuses them.
	if !c.entered {
		saved, err := c.driver.QueryConfig()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDriverQuery, err)
		}
		c.saved = saved
		c.entered = true
	}

	if !c.registered {
		c.hooks.Register(c.restoreHook)
		c.registered = true
	}

	if err := c.apply(c.saved.Raw()); err != nil {
		return err
	}
	c.active = true
	c.logger.Println("entered raw mode")
	return nil
}

// RestoreMode applies the saved configuration back. Only the first call
// after EnterRawMode touches the driver.
func (c *Controller) RestoreMode() error {
	if !c.entered {
		return nil
	}
	if !c.restored.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.apply(c.saved); err != nil {
		return err
	}
	c.logger.Println("restored terminal mode")
	return nil
}

func (c *Controller) apply(cfg Config) error {
	if err := c.driver.ApplyConfig(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrDriverApply, err)
	}
	return nil
}

func (c *Controller) restoreHook() {
	if err := c.RestoreMode(); err != nil {
		if c.abort != nil {
			c.abort("restore terminal", err)
			return
		}
		c.logger.Printf("restore terminal: %v", err)
	}
}

// WithRawMode runs fn in raw mode. The terminal is restored when fn returns
// or panics.
func WithRawMode(c *Controller, fn func() error) (err error) {
	if err := c.EnterRawMode(); err != nil {
		return err
	}
	// Deferred calls also run while panicking.
	defer func() {
		if rerr := c.RestoreMode(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn()
}
