// Package controller launches and tears down a workflow's engines,
// dispatchers and balancer, in either an in-process goroutine mode or by
// forking one OS process per component, mirroring ControllerV2's
// launch_all/stop_all/listen_for_exit.
package controller

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Pranshu258/OpenPrequal/internal/obslog"
)

// ProcessModel names how a deployment starts its components. A Controller
// records it in Model but does not consult it: callers choose between
// LaunchGoroutine and LaunchSubprocess themselves.
type ProcessModel string

const (
	InProcess ProcessModel = "in-process"
	Fork      ProcessModel = "fork"
)

// component is either an in-process goroutine (tracked by its cancel
// func) or a forked subprocess (tracked by *exec.Cmd).
type component struct {
	name   string
	cancel context.CancelFunc
	cmd    *exec.Cmd
}

// Controller owns the lifecycle of every process/goroutine a workflow
// launches.
type Controller struct {
	Model  ProcessModel
	Logger *log.Logger
	Timing *obslog.TimeRecorder

	mu         sync.Mutex
	components []component
}

// New builds a controller for the given process model.
func New(model ProcessModel, logger *log.Logger, timing *obslog.TimeRecorder) *Controller {
	if model == "" {
		model = InProcess
	}
	return &Controller{Model: model, Logger: logger, Timing: timing}
}

// LaunchGoroutine starts fn in its own goroutine under a cancellable
// context derived from parent, recording it for later shutdown. No cmd/
// binary calls it.
func (c *Controller) LaunchGoroutine(parent context.Context, name string, fn func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(parent)
	c.mu.Lock()
	c.components = append(c.components, component{name: name, cancel: cancel})
	c.mu.Unlock()

	c.measure(name, func() error {
		go fn(ctx)
		return nil
	})
}

// LaunchSubprocess forks binary with args, recording the *exec.Cmd for
// later termination. cmd/controller starts every component this way,
// whatever Model is.
func (c *Controller) LaunchSubprocess(name, binary string, args ...string) error {
	cmd := exec.Command(binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := c.measure(name, func() error { return cmd.Start() })
	if err != nil {
		return fmt.Errorf("controller: launch %s: %w", name, err)
	}

	c.mu.Lock()
	c.components = append(c.components, component{name: name, cmd: cmd})
	c.mu.Unlock()
	return nil
}

func (c *Controller) measure(name string, fn func() error) error {
	if c.Timing != nil {
		return c.Timing.Measure(name, fn)
	}
	return fn()
}

// StopAll cancels every in-process component and kills every subprocess.
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, comp := range c.components {
		if comp.cancel != nil {
			comp.cancel()
		}
		if comp.cmd != nil && comp.cmd.Process != nil {
			_ = comp.cmd.Process.Kill()
			_, _ = comp.cmd.Process.Wait()
		}
		c.logf("controller: stopped %s", comp.name)
	}
	c.components = nil
}

// WaitForSignal blocks until SIGINT/SIGTERM, then stops every component.
func (c *Controller) WaitForSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	c.StopAll()
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
