package vst3

import "github.com/riffdaw/engine/event"

// EventType mirrors the discriminant justyntemme-vst3go's pkg/midi.Event
// interface exposes (Type() EventType), used by a host-side NativeLoader
// to tag entries pushed into a loaded module's IEventList: controller
// and pitch-bend events map through the plugin's MIDI mapping to
// ParameterChange queues.
type EventType uint8

const (
	EventTypeNoteOn EventType = iota
	EventTypeNoteOff
	EventTypePolyPressure
	EventTypeParameterChange
	EventTypeNoteExpressionValue
)

// Event is the VST3-shaped wire event a NativeLoader pushes into a
// loaded module's process call, mirroring the BaseEvent{Channel,
// SampleOffset} + payload-field pattern of pkg/midi.NoteOnEvent /
// ControlChangeEvent.
type Event struct {
	Type         EventType
	SampleOffset int32

	NoteID   int32
	Pitch    uint8
	Velocity float64 // VST3 velocities are normalised 0..1, not 0..127

	ParamID    uint32
	Normalised float64
}

// Encode converts an engine event.Event to the VST3 wire shape. ok is
// false for AllNotesOff, which a NativeLoader must instead realize as one
// NoteOff per currently sounding note-id it is tracking — VST3 has no
// single broadcast event for it.
func Encode(ev event.Event) (Event, bool) {
	switch ev.Kind {
	case event.NoteOn:
		return Event{Type: EventTypeNoteOn, SampleOffset: int32(ev.SampleOffset), NoteID: ev.NoteID, Pitch: ev.Pitch, Velocity: float64(ev.Velocity) / 127}, true
	case event.NoteOff:
		return Event{Type: EventTypeNoteOff, SampleOffset: int32(ev.SampleOffset), NoteID: ev.NoteID, Pitch: ev.Pitch}, true
	case event.KeyPressureAfterTouch:
		return Event{Type: EventTypePolyPressure, SampleOffset: int32(ev.SampleOffset), Pitch: ev.Pitch, Velocity: float64(ev.Pressure) / 127}, true
	case event.Controller, event.PitchBend, event.Parameter:
		return Event{Type: EventTypeParameterChange, SampleOffset: int32(ev.SampleOffset), ParamID: uint32(ev.ControllerNumber), Normalised: ev.Value}, true
	case event.NoteExpression:
		return Event{Type: EventTypeNoteExpressionValue, SampleOffset: int32(ev.SampleOffset), NoteID: ev.NoteID, ParamID: uint32(ev.ExpressionType), Normalised: ev.Value}, true
	default:
		return Event{}, false
	}
}
