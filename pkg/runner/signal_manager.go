package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager turns SIGINT and SIGTERM into context cancellation.
// After an interrupt is handled, Reset re-arms it so a second interrupt can
// be told apart from the first.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager starts listening for signals on top of parent.
func NewSignalManager(parent context.Context) *SignalManager {
	sm := &SignalManager{parent: parent}
	sm.Reset()
	return sm
}

// Context is cancelled by the next signal or by the parent.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Interrupted reports whether the current context ended because of a signal.
func (sm *SignalManager) Interrupted() bool {
	return sm.ctx.Err() != nil && sm.parent.Err() == nil
}

// Reset re-arms the listener. The new registration is made before the old one
// is released so no signal falls through to the default handler.
func (sm *SignalManager) Reset() {
	old := sm.cancel
	sm.ctx, sm.cancel = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
	if old != nil {
		old()
	}
}

// Stop releases the listener and cancels the current context.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}
