// Package runner executes example code under an output capture. Whatever the
// example does, the document build keeps going: returned errors and panics
// become the failure side of the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"go4example/pkg/capture"
)

// ErrNestedSuspend is recorded when a suspending example starts another
// suspending example on the same runner.
var ErrNestedSuspend = errors.New("runner: nested suspending examples are not supported")

// Func is a plain example body.
type Func func(out *capture.Capture) (any, error)

// SuspendFunc is an example body that blocks on a context.
type SuspendFunc func(ctx context.Context, out *capture.Capture) (any, error)

// Result is the outcome of running an example.
type Result struct {
	// Value is the return value of the example; nil when it was not run.
	Value any
	// Err is the error returned or the panic raised by the example.
	Err error
}

// OK returns true if the example did not fail.
func (r Result) OK() bool {
	return r.Err == nil
}

// Output pairs the result with the text the example printed.
type Output struct {
	Result Result
	// Stdout is the content of the capture after the example ran.
	Stdout string
}

// Run executes fn with sink as its output. If run is false fn is not called.
func Run(fn Func, sink *capture.Capture, run bool) Output {
	if sink == nil {
		sink = capture.New()
	}
	if !run {
		return Output{Stdout: sink.Output()}
	}
	value, err := call(func() (any, error) { return fn(sink) })
	return Output{Result: Result{Value: value, Err: err}, Stdout: sink.Output()}
}

// Runner bridges suspending examples onto the calling goroutine. The caller
// blocks until the example completes; there is no timeout besides ctx.
type Runner struct {
	suspended atomic.Bool
}

// New creates a Runner.
func New() *Runner {
	return &Runner{}
}

// RunSuspending executes fn on its own goroutine and waits for it. Starting
// a suspending example from inside another one fails with ErrNestedSuspend.
func (r *Runner) RunSuspending(ctx context.Context, fn SuspendFunc, sink *capture.Capture, run bool) Output {
	if sink == nil {
		sink = capture.New()
	}
	if !run {
		return Output{Stdout: sink.Output()}
	}
	if !r.suspended.CompareAndSwap(false, true) {
		return Output{Result: Result{Err: ErrNestedSuspend}, Stdout: sink.Output()}
	}
	defer r.suspended.Store(false)

	var value any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := call(func() (any, error) { return fn(gctx, sink) })
		value = v
		return err
	})
	err := g.Wait()
	return Output{Result: Result{Value: value, Err: err}, Stdout: sink.Output()}
}

func call(fn func() (any, error)) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			value = nil
			if e, ok := p.(error); ok {
				err = fmt.Errorf("example panicked: %w", e)
				return
			}
			err = fmt.Errorf("example panicked: %v", p)
		}
	}()
	return fn()
}
