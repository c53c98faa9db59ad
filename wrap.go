package throttle

import "fmt"

// WrapOptions configures a function-wrapping adapter throttle. It mirrors
// Options, plus the two shutdown signal channels that the source
// restricts to decorator use: ShutdownRequested (caller -> throttle) and
// ShutdownComplete (throttle -> caller), both valid only when Mode is
// Async.
type WrapOptions struct {
	Options

	ShutdownRequested <-chan struct{}
	ShutdownComplete  chan struct{}
}

// Wrapper binds a Throttle to a single user-supplied callable. Calling
// Call routes through the bound Throttle's Send. A Wrapper has no state
// of its own beyond the Throttle and the callable.
type Wrapper struct {
	Throttle *Throttle
	fn       func() (any, error)
}

// Wrap constructs a per-wrapper Throttle per opt and binds it to fn,
// returning a Wrapper whose Call invokes fn through that Throttle. This
// is the Go analogue of the source's @throttle decorator: a small struct
// holding (throttle, callable) instead of a function-rewriting decorator.
func Wrap(opt WrapOptions, fn func() (any, error)) (*Wrapper, error) {
	if opt.Mode == nil {
		return nil, fmt.Errorf("%w: mode is required", ErrInvalidMode)
	}
	if (opt.ShutdownRequested != nil || opt.ShutdownComplete != nil) && opt.Mode.mode() != ModeAsync {
		return nil, fmt.Errorf("%w: supplied for mode %s", ErrInvalidShutdownSignal, opt.Mode.mode())
	}

	base := opt.Options
	base.shutdownRequested = opt.ShutdownRequested
	base.shutdownComplete = opt.ShutdownComplete

	th, err := New(base)
	if err != nil {
		return nil, err
	}
	return &Wrapper{Throttle: th, fn: fn}, nil
}

// Call invokes the bound callable through the Wrapper's Throttle,
// returning whatever Send returns for that mode.
func (w *Wrapper) Call() (any, error) {
	return w.Throttle.Send(w.fn)
}
