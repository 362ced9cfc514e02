// Package clap shapes engine events into the clap_event_* structs a
// host-side NativeLoader pushes as clap_event_* items into a loaded
// CLAP module's input event list.
//
// There is no pure-Go CLAP binding in the example corpus (clap-sys is a
// Rust crate); these struct shapes are modeled directly on
// original_source/clap_checker/src/main.rs's use of
// clap_sys::events::{clap_event_header, clap_event_note, clap_event_midi}
// — field names and the header/payload split are carried over field for
// field, translated from Rust's #[repr(C)] structs to plain Go structs a
// cgo-based loader (supplied by the embedding application) would lay out
// identically.
package clap

import "github.com/riffdaw/engine/event"

// Event space/type constants, named exactly as clap_checker imports them
// from clap_sys::events.
const (
	CoreEventSpaceID uint16 = 0

	EventNoteOn         uint16 = 0
	EventNoteOff        uint16 = 1
	EventNoteChoke      uint16 = 2
	EventNoteExpression uint16 = 4
	EventParamValue     uint16 = 5
	EventMIDI           uint16 = 9
)

// Header mirrors clap_event_header: size, time (in samples from the
// block start), space_id, type, flags.
type Header struct {
	Size    uint32
	Time    uint32
	SpaceID uint16
	Type    uint16
	Flags   uint32
}

// NoteEvent mirrors clap_event_note.
type NoteEvent struct {
	Header    Header
	NoteID    int32
	PortIndex int16
	Channel   int16
	Key       int16
	Velocity  float64
}

// ParamValueEvent mirrors clap_event_param_value.
type ParamValueEvent struct {
	Header    Header
	ParamID   uint32
	Cookie    uintptr
	NoteID    int32
	PortIndex int16
	Channel   int16
	Key       int16
	Value     float64
}

// MIDIEvent mirrors clap_event_midi.
type MIDIEvent struct {
	Header    Header
	PortIndex uint16
	Data      [3]byte
}

const noteChokeFlags = 0 // CLAP_EVENT_IS_LIVE not set: these are sequenced events, not live input

func header(size uint32, sampleOffset int, typ uint16) Header {
	return Header{Size: size, Time: uint32(sampleOffset), SpaceID: CoreEventSpaceID, Type: typ, Flags: noteChokeFlags}
}

// EncodeNote converts a NoteOn/NoteOff event into a clap_event_note. ok is
// false for any other Kind. clap_event_note has no pressure field;
// KeyPressureAfterTouch has no CLAP encoding here (it would map to
// CLAP_EVENT_NOTE_EXPRESSION, a different wire struct this package does
// not model).
func EncodeNote(ev event.Event) (NoteEvent, bool) {
	var typ uint16
	velocity := float64(ev.Velocity) / 127
	switch ev.Kind {
	case event.NoteOn:
		typ = EventNoteOn
	case event.NoteOff:
		typ = EventNoteOff
		velocity = 0
	default:
		return NoteEvent{}, false
	}
	return NoteEvent{
		Header:   header(uint32(unsafeSizeofNoteEvent), ev.SampleOffset, typ),
		NoteID:   ev.NoteID,
		Key:      int16(ev.Pitch),
		Velocity: velocity,
	}, true
}

// EncodeParam converts a Controller/PitchBend/Parameter event into a
// clap_event_param_value. ev.Value is copied unchanged: controller and
// parameter values are already 0..1, while a pitch bend stays in -1..+1.
func EncodeParam(ev event.Event) (ParamValueEvent, bool) {
	switch ev.Kind {
	case event.Controller, event.PitchBend, event.Parameter:
		return ParamValueEvent{
			Header:  header(uint32(unsafeSizeofParamEvent), ev.SampleOffset, EventParamValue),
			ParamID: uint32(ev.ControllerNumber),
			Value:   ev.Value,
		}, true
	default:
		return ParamValueEvent{}, false
	}
}

// unsafeSizeofNoteEvent/unsafeSizeofParamEvent stand in for C's sizeof():
// a real cgo loader fills Header.Size with its own sizeof(clap_event_*)
// rather than trusting a cross-compiled constant, but a sensible value is
// still useful for loaders that build the event purely in Go.
const (
	unsafeSizeofNoteEvent  = 40
	unsafeSizeofParamEvent = 56
)
