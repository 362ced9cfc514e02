package midiio

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/riffdaw/engine/event"
)

func TestDecodeNoteOn(t *testing.T) {
	msg := midi.NoteOn(0, 60, 100)
	ev, ok := decode(msg)
	if !ok {
		t.Fatalf("decode(NoteOn) returned ok=false")
	}
	if ev.Kind != event.NoteOn || ev.Pitch != 60 || ev.Velocity != 100 {
		t.Fatalf("decode(NoteOn) = %+v, want Kind=NoteOn Pitch=60 Velocity=100", ev)
	}
}

func TestDecodeNoteOff(t *testing.T) {
	msg := midi.NoteOff(0, 64)
	ev, ok := decode(msg)
	if !ok {
		t.Fatalf("decode(NoteOff) returned ok=false")
	}
	if ev.Kind != event.NoteOff || ev.Pitch != 64 {
		t.Fatalf("decode(NoteOff) = %+v, want Kind=NoteOff Pitch=64", ev)
	}
}

func TestDecodeControlChangeNormalisesValue(t *testing.T) {
	msg := midi.ControlChange(0, 7, 127)
	ev, ok := decode(msg)
	if !ok {
		t.Fatalf("decode(ControlChange) returned ok=false")
	}
	if ev.Kind != event.Controller || ev.ControllerNumber != 7 {
		t.Fatalf("decode(ControlChange) = %+v, want Kind=Controller ControllerNumber=7", ev)
	}
	if ev.Value != 1.0 {
		t.Fatalf("decode(ControlChange) Value = %v, want 1.0 (127/127)", ev.Value)
	}
}

func TestDecodePitchBend(t *testing.T) {
	msg := midi.Pitchbend(0, 0) // centred
	ev, ok := decode(msg)
	if !ok {
		t.Fatalf("decode(Pitchbend) returned ok=false")
	}
	if ev.Kind != event.PitchBend {
		t.Fatalf("decode(Pitchbend) Kind = %v, want PitchBend", ev.Kind)
	}
	if ev.Value != 0 {
		t.Fatalf("decode(Pitchbend) centred Value = %v, want 0", ev.Value)
	}
}

func TestDecodeUnsupportedMessageIsSkipped(t *testing.T) {
	// A raw system-exclusive-looking byte sequence decode() has no case
	// for: neither note, controller, nor pitch bend getters will match it.
	msg := midi.Message([]byte{0xF0, 0x00, 0xF7})
	if _, ok := decode(msg); ok {
		t.Fatalf("decode() of an unsupported message returned ok=true")
	}
}
