package throttle

import "sync/atomic"

// lifecycle coordinates the active/shutdown state machine for an Async
// throttle. The shutdown flag has single-writer semantics — only
// requestShutdown (called from StartShutdown, or observed via the
// external shutdownRequested channel) ever sets it — so a plain atomic
// bool is sufficient; the scheduler and Send only ever read it.
//
// The two optional channels mirror the source's start_shutdown_event /
// shutdown_complete_event pair and are wired only through Wrap's Async
// constructor path (see wrap.go); New never exposes them.
type lifecycle struct {
	shutdown atomic.Bool

	shutdownRequested <-chan struct{} // caller -> throttle, optional
	shutdownComplete  chan struct{}   // throttle -> caller, optional

	workerDone chan struct{} // closed by the scheduler on exit
}

func newLifecycle(shutdownRequested <-chan struct{}, shutdownComplete chan struct{}) *lifecycle {
	return &lifecycle{
		shutdownRequested: shutdownRequested,
		shutdownComplete:  shutdownComplete,
		workerDone:        make(chan struct{}),
	}
}

// isShutdown reports whether shutdown has been requested, either via
// requestShutdown or via a signal on the external shutdownRequested
// channel.
func (l *lifecycle) isShutdown() bool {
	if l.shutdownRequested != nil {
		select {
		case <-l.shutdownRequested:
			l.shutdown.Store(true)
		default:
		}
	}
	return l.shutdown.Load()
}

// requestShutdown flips the state to shutdown. Idempotent.
func (l *lifecycle) requestShutdown() {
	l.shutdown.Store(true)
}

// markComplete signals that the scheduler has exited: workerDone is
// closed so StartShutdown callers waiting on it unblock, and the
// external shutdownComplete channel, if present, is closed too.
func (l *lifecycle) markComplete() {
	close(l.workerDone)
	if l.shutdownComplete != nil {
		close(l.shutdownComplete)
	}
}
