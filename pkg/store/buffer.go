package store

import (
	"sync"
	"time"
)

// buffer is the staging queue for not-yet-durable records. Each enqueue
// restarts the debounce window, so a burst of appends produces a single
// flush after the last entry plus the window.
type buffer struct {
	mu      sync.Mutex
	pending [][]byte
	timer   *time.Timer
	window  time.Duration
	fire    func()
}

func newBuffer(window time.Duration, fire func()) *buffer {
	return &buffer{window: window, fire: fire}
}

// enqueue appends p to the pending queue and (re)starts the debounce window.
func (b *buffer) enqueue(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, p)
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.window, b.fire)
}

// take cancels the debounce timer and removes and returns the whole queue.
func (b *buffer) take() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimerLocked()
	batch := b.pending
	b.pending = nil
	return batch
}

// requeue restores a failed batch to the FRONT of the queue, preserving the
// original enqueue order for the next flush attempt.
func (b *buffer) requeue(batch [][]byte) {
	if len(batch) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(batch, b.pending...)
}

// discard cancels the debounce timer and drops the queue without writing.
func (b *buffer) discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimerLocked()
	b.pending = nil
}

// size returns the current queue depth.
func (b *buffer) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *buffer) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
