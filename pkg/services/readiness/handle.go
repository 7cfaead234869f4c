package readiness

import (
	"context"
)

// Handle is a running readiness wait. Stop cancels it; once Stop returns no
// further update is delivered.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs AwaitReadiness in the background.
func (p *Poller) Start(ctx context.Context, onUpdate UpdateFunc) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()
		h.err = p.AwaitReadiness(ctx, onUpdate)
	}()

	return h
}

func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err is the result of the wait. It is only meaningful after Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}
