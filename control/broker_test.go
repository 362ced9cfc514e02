package control_test

import (
	"testing"
	"time"

	"github.com/riffdaw/engine/control"
)

func TestTrySendDropsOnFullChannel(t *testing.T) {
	c := make(chan int, 1)
	if !control.TrySend(c, 1) {
		t.Fatalf("TrySend into an empty buffered channel returned false")
	}
	if control.TrySend(c, 2) {
		t.Fatalf("TrySend into a full channel returned true, want false (drop)")
	}
}

func TestTimeoutReceiveTimesOut(t *testing.T) {
	c := make(chan int)
	_, ok := control.TimeoutReceive(c, 10*time.Millisecond)
	if ok {
		t.Fatalf("TimeoutReceive on an empty channel returned ok=true")
	}
}

func TestTimeoutReceiveGetsValue(t *testing.T) {
	c := make(chan int, 1)
	c <- 42
	v, ok := control.TimeoutReceive(c, time.Second)
	if !ok || v != 42 {
		t.Fatalf("TimeoutReceive = (%v, %v), want (42, true)", v, ok)
	}
}

func TestBrokerSendCommandAndNotificationAreNonBlocking(t *testing.T) {
	b := control.NewBroker()
	if !b.SendCommand(control.TransportStop{}) {
		t.Fatalf("SendCommand on a fresh broker returned false")
	}
	select {
	case cmd := <-b.ToEngine:
		if _, ok := cmd.(control.TransportStop); !ok {
			t.Fatalf("received command type %T, want TransportStop", cmd)
		}
	default:
		t.Fatalf("ToEngine had no queued command")
	}

	if !b.SendNotification(control.PlayPositionUpdate{}) {
		t.Fatalf("SendNotification on a fresh broker returned false")
	}
}

func TestBrokerPresetBufferReuse(t *testing.T) {
	b := control.NewBroker()
	buf := b.GetPresetBuffer()
	*buf = append(*buf, 1, 2, 3)
	b.PutPresetBuffer(buf)

	buf2 := b.GetPresetBuffer()
	if len(*buf2) != 0 {
		t.Fatalf("GetPresetBuffer after Put returned length %d, want 0", len(*buf2))
	}
}
