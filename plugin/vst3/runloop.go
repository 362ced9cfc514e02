// Package vst3 implements the run-loop VST3 plugins needing a host event
// loop are given: a minimal run-loop implementation that multiplexes
// registered file descriptors and periodic timer handlers on a single
// dedicated thread; timers fire with <= 300ms resolution;
// file-descriptor readiness is polled with a 300ms timeout. It also
// supplies the event/parameter type shapes a host-side NativeLoader
// needs to drive a loaded VST3 module.
//
// Event and parameter shapes are modeled on justyntemme-vst3go's
// pkg/midi and pkg/framework/param packages (a VST3 plugin-*implementation*
// framework, the opposite side of the host/guest divide from this
// engine) inverted to the host's perspective; that package is cgo-based
// and is not a dependency of this module — only its naming and field
// shapes are borrowed. The run loop itself is real, pure-Go logic built
// on golang.org/x/sys/unix's epoll, the same package sointu's go.sum
// already carries transitively and which this module promotes to direct.
package vst3

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// pollTimeoutMillis is the file-descriptor polling timeout.
const pollTimeoutMillis = 300

// TimerHandler is called on the run-loop thread at least as often as its
// registered interval; the interval is clamped to pollTimeoutMillis so
// the 300ms event-loop polling tick is preserved.
type TimerHandler func()

// FDHandler is called on the run-loop thread when fd becomes readable.
type FDHandler func(fd int)

type timer struct {
	interval time.Duration
	next     time.Time
	fn       TimerHandler
}

// RunLoop multiplexes registered file descriptors and periodic timers on
// one dedicated thread. It is created per open editor and must be
// Stopped (and its goroutine allowed to exit) before the owning plugin
// instance is destroyed.
type RunLoop struct {
	epfd int

	mu      sync.Mutex
	fds     map[int]FDHandler
	timers  map[int]*timer
	nextID  int
	stop    chan struct{}
	stopped chan struct{}
}

// New creates a RunLoop. Call Run in its own goroutine, then Stop when
// the editor closes.
func New() (*RunLoop, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &RunLoop{
		epfd:    epfd,
		fds:     make(map[int]FDHandler),
		timers:  make(map[int]*timer),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}, nil
}

// RegisterFD starts watching fd for read-readiness.
func (r *RunLoop) RegisterFD(fd int, handler FDHandler) error {
	r.mu.Lock()
	r.fds[fd] = handler
	r.mu.Unlock()
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

// UnregisterFD stops watching fd.
func (r *RunLoop) UnregisterFD(fd int) error {
	r.mu.Lock()
	delete(r.fds, fd)
	r.mu.Unlock()
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// RegisterTimer schedules fn to run at least every interval (clamped to
// the 300ms ceiling), returning an id for UnregisterTimer.
func (r *RunLoop) RegisterTimer(interval time.Duration, fn TimerHandler) int {
	if interval > pollTimeoutMillis*time.Millisecond {
		interval = pollTimeoutMillis * time.Millisecond
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.timers[id] = &timer{interval: interval, next: time.Now().Add(interval), fn: fn}
	return id
}

// UnregisterTimer cancels a timer registered with RegisterTimer.
func (r *RunLoop) UnregisterTimer(id int) {
	r.mu.Lock()
	delete(r.timers, id)
	r.mu.Unlock()
}

// Run polls registered descriptors and fires due timers until Stop is
// called. It must run on its own dedicated goroutine; it blocks.
func (r *RunLoop) Run() {
	defer close(r.stopped)
	events := make([]unix.EpollEvent, 16)
	for {
		select {
		case <-r.stop:
			return
		default:
		}
		n, err := unix.EpollWait(r.epfd, events, pollTimeoutMillis)
		if err != nil && err != unix.EINTR {
			return
		}
		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			r.mu.Lock()
			handler := r.fds[fd]
			r.mu.Unlock()
			if handler != nil {
				handler(fd)
			}
		}
		now := time.Now()
		r.mu.Lock()
		due := make([]TimerHandler, 0, len(r.timers))
		for _, t := range r.timers {
			if !now.Before(t.next) {
				due = append(due, t.fn)
				t.next = now.Add(t.interval)
			}
		}
		r.mu.Unlock()
		for _, fn := range due {
			fn()
		}
	}
}

// Stop signals Run to return; it does not close the epoll fd (Close
// does). The caller must still join Run's goroutine (e.g. via Joined)
// before destroying the owning plugin instance.
func (r *RunLoop) Stop() {
	close(r.stop)
}

// Joined blocks until Run has returned.
func (r *RunLoop) Joined() <-chan struct{} {
	return r.stopped
}

// Close releases the epoll fd. Call after Joined.
func (r *RunLoop) Close() error {
	return unix.Close(r.epfd)
}
