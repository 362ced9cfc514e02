package event

import "fmt"

// ErrOverflow is returned by Push when the buffer's capacity is exceeded.
// This is always a scheduling bug, never a condition to silently
// swallow: callers on the audio thread must surface it as a typed
// Scheduling error (see package control), not drop the event.
type ErrOverflow struct {
	Capacity int
}

func (e *ErrOverflow) Error() string {
	return fmt.Sprintf("event: buffer overflow at capacity %d: scheduler emitted more events than one block can carry", e.Capacity)
}

// Buffer is a bounded, single-producer single-consumer queue of Events for
// one track. The Scheduler is the sole producer; the Audio Graph is the
// sole consumer, draining it once per audio block. Capacity is fixed at
// construction and must exceed the maximum events any single block can
// carry.
type Buffer struct {
	items []Event
}

// NewBuffer returns an empty Buffer with room for capacity events before
// Push reports ErrOverflow.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{items: make([]Event, 0, capacity)}
}

// Push enqueues ev. It never allocates once the buffer has grown to its
// working size, and returns ErrOverflow rather than growing past capacity.
func (b *Buffer) Push(ev Event) error {
	if len(b.items) == cap(b.items) {
		return &ErrOverflow{Capacity: cap(b.items)}
	}
	b.items = append(b.items, ev)
	return nil
}

// Len reports how many events are currently queued.
func (b *Buffer) Len() int { return len(b.items) }

// Cap reports the buffer's fixed capacity.
func (b *Buffer) Cap() int { return cap(b.items) }

// Drain removes the leading run of queued events whose BlockIndex is <=
// blockIndex and appends them, in push order (Drain does not sort), to
// *out, which is truncated to zero length first. It stops at the first
// event for a later block; that event and everything queued after it are
// left queued.
//
// The caller owns *out and is expected to pass the same backing slice on
// every call (package graph keeps one per track): once it has grown to
// its working size, Drain, like Push, never allocates.
func (b *Buffer) Drain(blockIndex uint64, out *[]Event) {
	*out = (*out)[:0]
	if len(b.items) == 0 {
		return
	}
	split := 0
	for split < len(b.items) && b.items[split].BlockIndex <= blockIndex {
		split++
	}
	if split == 0 {
		return
	}
	*out = append(*out, b.items[:split]...)
	remaining := len(b.items) - split
	copy(b.items, b.items[split:])
	b.items = b.items[:remaining]
}

// Reset clears the buffer without releasing its backing array, resetting
// length but keeping capacity.
func (b *Buffer) Reset() {
	b.items = b.items[:0]
}
