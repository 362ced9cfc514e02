package vst3_test

import (
	"os"
	"testing"
	"time"

	"github.com/riffdaw/engine/plugin/vst3"
)

func TestRunLoopFiresTimerHandler(t *testing.T) {
	rl, err := vst3.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer rl.Close()

	fired := make(chan struct{}, 1)
	rl.RegisterTimer(5*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	go rl.Run()
	defer func() {
		rl.Stop()
		<-rl.Joined()
	}()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("timer handler never fired within 1s")
	}
}

func TestRunLoopFiresFDHandlerOnReadable(t *testing.T) {
	rl, err := vst3.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer rl.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	readable := make(chan struct{}, 1)
	if err := rl.RegisterFD(int(r.Fd()), func(fd int) {
		select {
		case readable <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("RegisterFD: %v", err)
	}

	go rl.Run()
	defer func() {
		rl.Stop()
		<-rl.Joined()
	}()

	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("write to pipe: %v", err)
	}

	select {
	case <-readable:
	case <-time.After(time.Second):
		t.Fatalf("FD handler never fired after the pipe became readable")
	}
}

func TestRunLoopStopJoins(t *testing.T) {
	rl, err := vst3.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer rl.Close()

	go rl.Run()
	rl.Stop()

	select {
	case <-rl.Joined():
	case <-time.After(time.Second):
		t.Fatalf("Run did not return within 1s of Stop")
	}
}

func TestUnregisterTimerStopsFurtherFirings(t *testing.T) {
	rl, err := vst3.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer rl.Close()

	count := make(chan struct{}, 100)
	id := rl.RegisterTimer(5*time.Millisecond, func() {
		select {
		case count <- struct{}{}:
		default:
		}
	})

	go rl.Run()
	defer func() {
		rl.Stop()
		<-rl.Joined()
	}()

	<-count // wait for at least one firing
	rl.UnregisterTimer(id)
	// Drain anything already in flight, then make sure no more arrives.
	for len(count) > 0 {
		<-count
	}
	select {
	case <-count:
		t.Fatalf("timer fired again after UnregisterTimer")
	case <-time.After(50 * time.Millisecond):
	}
}
