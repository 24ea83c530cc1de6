// Package lifecycle coordinates startup and shutdown of long-lived subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently, gates readiness on their
// success and on registered checks, and drains shutdown hooks on cancel.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  errgroup.Group
	shutdown sync.WaitGroup

	mu     sync.RWMutex
	ready  bool
	checks map[string]ReadinessChecker
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]ReadinessChecker),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a hook to run concurrently during startup.
// The first hook error is reported by WaitForStartup.
func (c *Coordinator) OnStartup(fn func() error) {
	c.startup.Go(fn)
}

// OnShutdown registers a hook to run concurrently during shutdown.
// Hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Check registers a named readiness check consulted by Ready and Readiness.
func (c *Coordinator) Check(name string, rc ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = rc
}

// Ready reports whether startup completed and every registered check passes.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.ready {
		return false
	}
	for _, rc := range c.checks {
		if !rc.Ready() {
			return false
		}
	}
	return true
}

// Readiness returns the state of each registered check.
func (c *Coordinator) Readiness() map[string]bool {
	c.mu.RLock()
	checks := maps.Clone(c.checks)
	c.mu.RUnlock()

	state := make(map[string]bool, len(checks))
	for name, rc := range checks {
		state[name] = rc.Ready()
	}
	return state
}

// WaitForStartup blocks until every startup hook returns. Readiness is set
// only when all hooks succeed.
func (c *Coordinator) WaitForStartup() error {
	if err := c.startup.Wait(); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	return nil
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
