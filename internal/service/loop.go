package service

import (
	"context"
	"errors"

	"haber_bosch_console/internal/engine"
	"haber_bosch_console/internal/models"
)

// ErrLoopStopped is returned once Run has exited.
var ErrLoopStopped = errors.New("event loop stopped")

type job struct {
	ctx   context.Context
	fn    func(ctx context.Context, c *Controller) error
	reply chan error
}

// EventLoop owns a Controller and runs every operation on it from a single
// goroutine, one at a time and to completion.
type EventLoop struct {
	ctrl *Controller
	jobs chan job
	done chan struct{}
}

func NewEventLoop(c *Controller) *EventLoop {
	return &EventLoop{
		ctrl: c,
		jobs: make(chan job),
		done: make(chan struct{}),
	}
}

// Run processes submitted work until ctx is canceled.
func (l *EventLoop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-l.jobs:
			j.reply <- j.fn(j.ctx, l.ctrl)
		}
	}
}

// do hands fn to the loop and waits for its result. ctx bounds the wait for
// the loop to accept the job; an accepted job always runs to completion.
func (l *EventLoop) do(ctx context.Context, fn func(ctx context.Context, c *Controller) error) error {
	reply := make(chan error, 1)
	select {
	case l.jobs <- job{ctx: ctx, fn: fn, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
	return <-reply
}

// Bootstrap binds the engine and runs the controller's Main. Events
// dispatched before it completes fail with ErrNotReady.
func (l *EventLoop) Bootstrap(ctx context.Context, b engine.Bindings) error {
	return l.do(ctx, func(ctx context.Context, c *Controller) error {
		if err := c.Setup(b); err != nil {
			return err
		}
		return c.Main(ctx)
	})
}

// Dispatch handles ev and returns the page state afterwards. The snapshot is
// filled even when err is not nil, unless the loop never ran the event.
func (l *EventLoop) Dispatch(ctx context.Context, ev Event) (Snapshot, error) {
	var snap Snapshot
	err := l.do(ctx, func(ctx context.Context, c *Controller) error {
		herr := c.Handle(ctx, ev)
		snap = c.Snapshot()
		return herr
	})
	return snap, err
}

func (l *EventLoop) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := l.do(ctx, func(_ context.Context, c *Controller) error {
		snap = c.Snapshot()
		return nil
	})
	return snap, err
}

// Request assembles the request the next refresh would send.
func (l *EventLoop) Request(ctx context.Context) (models.SimulationRequest, error) {
	var req models.SimulationRequest
	err := l.do(ctx, func(_ context.Context, c *Controller) error {
		var aerr error
		req, aerr = c.AssembleRequest()
		return aerr
	})
	return req, err
}
