package vst2_test

import (
	"math"
	"testing"

	vst2sdk "pipelined.dev/audio/vst2"

	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/plugin/vst2"
)

func TestEncodeDecodeNoteOnRoundTrip(t *testing.T) {
	in := event.Event{Kind: event.NoteOn, SampleOffset: 7, Pitch: 60, Velocity: 100}
	raw, ok := vst2.EncodeEvent(in)
	if !ok {
		t.Fatalf("EncodeEvent(NoteOn) returned ok=false")
	}
	out, ok := vst2.DecodeEvent(raw)
	if !ok {
		t.Fatalf("DecodeEvent of an encoded NoteOn returned ok=false")
	}
	if out.Kind != event.NoteOn || out.Pitch != 60 || out.Velocity != 100 || out.SampleOffset != 7 {
		t.Fatalf("round trip = %+v, want pitch 60 velocity 100 offset 7", out)
	}
}

func TestEncodeDecodeNoteOffRoundTrip(t *testing.T) {
	in := event.Event{Kind: event.NoteOff, Pitch: 64, Velocity: 0}
	raw, ok := vst2.EncodeEvent(in)
	if !ok {
		t.Fatalf("EncodeEvent(NoteOff) returned ok=false")
	}
	out, ok := vst2.DecodeEvent(raw)
	if !ok || out.Kind != event.NoteOff || out.Pitch != 64 {
		t.Fatalf("round trip = %+v, ok=%v, want NoteOff at pitch 64", out, ok)
	}
}

func TestEncodeDecodeControllerRoundTrip(t *testing.T) {
	in := event.Event{Kind: event.Controller, ControllerNumber: 7, Value: 1.0}
	raw, ok := vst2.EncodeEvent(in)
	if !ok {
		t.Fatalf("EncodeEvent(Controller) returned ok=false")
	}
	out, ok := vst2.DecodeEvent(raw)
	if !ok || out.Kind != event.Controller || out.ControllerNumber != 7 {
		t.Fatalf("round trip = %+v, ok=%v, want Controller number 7", out, ok)
	}
	if math.Abs(out.Value-1.0) > 1.0/127 {
		t.Fatalf("controller value round trip = %v, want close to 1.0", out.Value)
	}
}

func TestEncodeDecodePitchBendRoundTrip(t *testing.T) {
	in := event.Event{Kind: event.PitchBend, Value: 0} // centred
	raw, ok := vst2.EncodeEvent(in)
	if !ok {
		t.Fatalf("EncodeEvent(PitchBend) returned ok=false")
	}
	out, ok := vst2.DecodeEvent(raw)
	if !ok || out.Kind != event.PitchBend {
		t.Fatalf("round trip = %+v, ok=%v, want PitchBend", out, ok)
	}
	if math.Abs(out.Value) > 1.0/8192 {
		t.Fatalf("centred pitch bend round trip = %v, want close to 0", out.Value)
	}
}

func TestEncodeAllNotesOffEmitsCC123(t *testing.T) {
	raw, ok := vst2.EncodeEvent(event.Event{Kind: event.AllNotesOff})
	if !ok {
		t.Fatalf("EncodeEvent(AllNotesOff) returned ok=false")
	}
	if raw.Data[0]&0xF0 != 0xB0 || raw.Data[1] != 123 {
		t.Fatalf("AllNotesOff encoded as %v, want CC 123 (status 0xB0)", raw.Data)
	}
}

func TestEncodeRejectsUnsupportedKinds(t *testing.T) {
	if _, ok := vst2.EncodeEvent(event.Event{Kind: event.Parameter}); ok {
		t.Fatalf("EncodeEvent(Parameter) returned ok=true, want false (no VST2 MIDI encoding)")
	}
	if _, ok := vst2.EncodeEvent(event.Event{Kind: event.NoteExpression}); ok {
		t.Fatalf("EncodeEvent(NoteExpression) returned ok=true, want false")
	}
}

func TestDecodeRejectsUnrecognisedStatus(t *testing.T) {
	var m vst2sdk.MIDIEvent
	m.Data[0] = 0xF0 // system exclusive: not one of the status bytes DecodeEvent handles
	if _, ok := vst2.DecodeEvent(m); ok {
		t.Fatalf("DecodeEvent of a system-exclusive status byte returned ok=true")
	}
}

func TestTempoReportsNotOkWhenFlagUnset(t *testing.T) {
	info := &vst2sdk.TimeInfo{Tempo: 120}
	if _, ok := vst2.Tempo(info); ok {
		t.Fatalf("Tempo() returned ok=true without TempoValid set")
	}
}

func TestTempoReadsValidTempo(t *testing.T) {
	info := &vst2sdk.TimeInfo{Tempo: 128, Flags: vst2sdk.TempoValid}
	bpm, ok := vst2.Tempo(info)
	if !ok || bpm != 128 {
		t.Fatalf("Tempo() = (%v, %v), want (128, true)", bpm, ok)
	}
}

func TestTempoNilInfo(t *testing.T) {
	if _, ok := vst2.Tempo(nil); ok {
		t.Fatalf("Tempo(nil) returned ok=true")
	}
}
