package control

import (
	"sync"
	"time"
)

// TrySend sends v to c without blocking. It returns false, dropping v,
// if c's buffer is full.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
		return true
	default:
		return false
	}
}

// TimeoutReceive blocks until a value is received from c or t elapses.
// ok is false on timeout or if c is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}

const channelCapacity = 1024

// Broker is the engine's message-passing bridge: one buffered channel
// per direction, plus a sync.Pool of byte buffers so preset I/O between
// the worker and UI threads does not allocate on every call. Grounded on
// sointu's tracker/broker.go Broker type.
type Broker struct {
	ToEngine chan Command
	ToUI     chan Notification

	CloseWorker    chan struct{}
	FinishedWorker chan struct{}

	presetPool sync.Pool
}

// NewBroker constructs a Broker with a 1024-deep channel capacity and
// an empty byte-buffer pool.
func NewBroker() *Broker {
	return &Broker{
		ToEngine:       make(chan Command, channelCapacity),
		ToUI:           make(chan Notification, channelCapacity),
		CloseWorker:    make(chan struct{}, 1),
		FinishedWorker: make(chan struct{}),
		presetPool:     sync.Pool{New: func() any { buf := make([]byte, 0, 4096); return &buf }},
	}
}

// GetPresetBuffer returns a zero-length byte buffer from the pool.
func (b *Broker) GetPresetBuffer() *[]byte {
	return b.presetPool.Get().(*[]byte)
}

// PutPresetBuffer returns buf to the pool, resetting its length but
// keeping its capacity.
func (b *Broker) PutPresetBuffer(buf *[]byte) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.presetPool.Put(buf)
}

// SendCommand is a non-blocking send to the engine; callers on the UI or
// worker thread use this rather than a raw channel send so a stalled
// audio thread cannot wedge them.
func (b *Broker) SendCommand(cmd Command) bool {
	return TrySend(b.ToEngine, cmd)
}

// SendNotification is a non-blocking send to the UI; notification
// delivery is at-least-once, so a dropped send here is expected to be
// superseded by a later one (e.g. PlayPositionUpdate).
func (b *Broker) SendNotification(n Notification) bool {
	return TrySend(b.ToUI, n)
}
