package midiio

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/riffdaw/engine/event"
)

// eventChannelCapacity bounds how many decoded messages can queue up
// between MIDI driver callback and drain.
const eventChannelCapacity = 1024

// Context owns the rtmididrv driver and currently open input, decoding
// its messages into engine Events. It is safe to poll Drain from a
// single consumer (the control plane's input-routing goroutine); the
// driver callback itself runs on whatever thread the OS MIDI subsystem
// uses.
type Context struct {
	driver  *rtmididrv.Driver
	current drivers.In
	events  chan midi.Message
}

// NewContext opens the rtmididrv driver. If the platform has no MIDI
// subsystem available, driver is left nil: NewContext itself does not
// fail, Close is then a no-op, and InputDevices and OpenByPrefix return
// an error.
func NewContext() *Context {
	c := &Context{events: make(chan midi.Message, eventChannelCapacity)}
	c.driver, _ = rtmididrv.New()
	return c
}

// Device is one enumerable MIDI input port.
type Device struct {
	ctx *Context
	in  drivers.In
}

func (d Device) String() string { return d.in.String() }

// InputDevices lists the driver's currently available input ports.
func (c *Context) InputDevices() ([]Device, error) {
	if c.driver == nil {
		return nil, fmt.Errorf("midiio: no MIDI driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return nil, err
	}
	devices := make([]Device, len(ins))
	for i, in := range ins {
		devices[i] = Device{ctx: c, in: in}
	}
	return devices, nil
}

// Open switches to d, closing whatever input was previously open.
func (d Device) Open() error {
	if d.ctx.current == d.in {
		return nil
	}
	if d.ctx.current != nil && d.ctx.current.IsOpen() {
		d.ctx.current.Close()
	}
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("midiio: opening input failed: %w", err)
	}
	d.ctx.current = d.in
	_, err := midi.ListenTo(d.in, func(msg midi.Message, _ int32) {
		select {
		case d.ctx.events <- msg:
		default: // drop on a full channel rather than block the driver's thread
		}
	})
	return err
}

// OpenByPrefix opens the first input device whose name has the given
// prefix.
func (c *Context) OpenByPrefix(prefix string) error {
	devices, err := c.InputDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		if strings.HasPrefix(d.String(), prefix) {
			return d.Open()
		}
	}
	return fmt.Errorf("midiio: no input device starting with %q", prefix)
}

// Close closes the current input and the driver.
func (c *Context) Close() {
	if c.driver == nil {
		return
	}
	if c.current != nil && c.current.IsOpen() {
		c.current.Close()
	}
	c.driver.Close()
}

// Drain decodes every message queued since the last call into engine
// Events, stamped with sampleOffset 0 (the control plane, not this
// package, is responsible for placing live input accurately within a
// block; MIDI routing is a track-to-track send, not a sample-accurate
// one). Unsupported message types are skipped.
func (c *Context) Drain() []event.Event {
	var out []event.Event
	for {
		select {
		case msg := <-c.events:
			if ev, ok := decode(msg); ok {
				out = append(out, ev)
			}
		default:
			return out
		}
	}
}

func decode(msg midi.Message) (event.Event, bool) {
	var channel, key, velocity uint8
	if msg.GetNoteOn(&channel, &key, &velocity) {
		return event.Event{Kind: event.NoteOn, Pitch: key, Velocity: velocity}, true
	}
	if msg.GetNoteOff(&channel, &key, &velocity) {
		return event.Event{Kind: event.NoteOff, Pitch: key}, true
	}
	var controller, value uint8
	if msg.GetControlChange(&channel, &controller, &value) {
		return event.Event{Kind: event.Controller, ControllerNumber: int32(controller), Value: float64(value) / 127}, true
	}
	var bend int16
	if msg.GetPitchBend(&channel, &bend, nil) {
		return event.Event{Kind: event.PitchBend, Value: float64(bend) / 8192}, true
	}
	return event.Event{}, false
}
