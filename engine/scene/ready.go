package scene

import (
	"sync"
	"sync/atomic"
)

// ReadySignal is a one-way, process-wide flag. It starts false and, once set, stays true.
type ReadySignal struct {
	once  sync.Once
	ready atomic.Bool
	done  chan struct{}
}

// NewReadySignal creates an unset signal.
func NewReadySignal() *ReadySignal {
	return &ReadySignal{done: make(chan struct{})}
}

// Set flips the signal to true. Only the first call has any effect.
//
// Returns:
//   - bool: true if this call flipped the signal
func (r *ReadySignal) Set() bool {
	flipped := false
	r.once.Do(func() {
		r.ready.Store(true)
		close(r.done)
		flipped = true
	})
	return flipped
}

// Ready reports whether the signal has been set.
func (r *ReadySignal) Ready() bool {
	return r.ready.Load()
}

// Done returns a channel that is closed when the signal is set.
func (r *ReadySignal) Done() <-chan struct{} {
	return r.done
}
