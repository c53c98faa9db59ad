package throttle

import (
	"testing"
)

func TestLifecycleIsShutdownViaRequestShutdown(t *testing.T) {
	l := newLifecycle(nil, nil)
	if l.isShutdown() {
		t.Fatal("fresh lifecycle should not be shut down")
	}
	l.requestShutdown()
	if !l.isShutdown() {
		t.Error("isShutdown should be true after requestShutdown")
	}
}

func TestLifecycleIsShutdownViaExternalChannel(t *testing.T) {
	requested := make(chan struct{})
	l := newLifecycle(requested, nil)
	if l.isShutdown() {
		t.Fatal("fresh lifecycle should not be shut down")
	}
	close(requested)
	if !l.isShutdown() {
		t.Error("isShutdown should observe the external shutdownRequested channel")
	}
}

func TestLifecycleMarkCompleteClosesBothChannels(t *testing.T) {
	complete := make(chan struct{})
	l := newLifecycle(nil, complete)

	l.markComplete()

	select {
	case <-l.workerDone:
	default:
		t.Error("workerDone should be closed by markComplete")
	}
	select {
	case <-complete:
	default:
		t.Error("external shutdownComplete should be closed by markComplete")
	}
}
