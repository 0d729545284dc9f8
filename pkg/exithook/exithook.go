// Package exithook runs cleanup functions once before the process exits.
package exithook

import (
	"os"
	"os/signal"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
)

// Registry holds cleanup hooks. Hooks fire at most once per Registry.
type Registry struct {
	mu    sync.Mutex
	hooks []func()
	fired atomic.Bool

	// ExitFunc terminates the process. Defaults to os.Exit.
	ExitFunc func(code int)
}

var Default = &Registry{}

func Register(fn func()) { Default.Register(fn) }
func Run() { Default.Run() }
func Exit(code int) { Default.Exit(code) }

func (r *Registry) Register(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Len reports the number of registered hooks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

// Fired reports whether Run has started.
func (r *Registry) Fired() bool {
	return r.fired.Load()
}

// Run calls the hooks in reverse registration order. Only the first call does
// anything; calls made from inside a hook return immediately.
func (r *Registry) Run() {
	if !r.fired.CompareAndSwap(false, true) {
		return
	}
	r.mu.Lock()
	hooks := slices.Clone(r.hooks)
	r.mu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

func (r *Registry) Exit(code int) {
	r.Run()
	if r.ExitFunc != nil {
		r.ExitFunc(code)
		return
	}
	os.Exit(code)
}

// HandleSignals runs the hooks and exits with 128+signo when one of sigs
// arrives. With no sigs, SIGINT, SIGTERM and SIGHUP are caught. The returned
// func stops the handler.
func (r *Registry) HandleSignals(sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}
	}
	c := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(c, sigs...)
	go func() {
		select {
		case sig := <-c:
			code := 1
			if s, ok := sig.(syscall.Signal); ok {
				code = 128 + int(s)
			}
			r.Exit(code)
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(c)
			close(done)
		})
	}
}
