package model

import (
	"errors"

	"github.com/google/uuid"
)

// Riff is a time-bounded clip of events: the unit riff sets, sequences and
// arrangements are built from, per the GLOSSARY.
type Riff struct {
	ID     uuid.UUID
	Name   string
	Length float64 // beats, > 0
	Events []TimedEvent
}

// Copy deep-copies a Riff.
func (r *Riff) Copy() Riff {
	out := *r
	out.Events = append([]TimedEvent(nil), r.Events...)
	return out
}

// Validate checks the per-event invariant: position in [0, length), and
// a note's end may not exceed length by more than one tick's rounding
// tolerance (taken here as 1e-6 beats, comfortably under a single sample
// at any sane sample rate/tempo).
const riffLengthTolerance = 1e-6

func (r *Riff) Validate() error {
	if r.Length <= 0 {
		return errors.New("model: riff " + r.Name + " length must be positive")
	}
	for _, ev := range r.Events {
		pos := ev.Position()
		if pos < 0 || pos >= r.Length {
			return errors.New("model: event in riff " + r.Name + " has position outside [0, length)")
		}
		if n, ok := ev.Kind.(Note); ok {
			if end := pos + n.Duration; end > r.Length+riffLengthTolerance {
				return errors.New("model: note in riff " + r.Name + " ends beyond the riff length")
			}
		}
	}
	return nil
}

// RiffReference places a Riff on a track's timeline.
type RiffReference struct {
	ID       uuid.UUID
	LinkedTo uuid.UUID
	Position float64 // beats, >= 0
}

// TimedEvent is a single scheduled item within a Riff: a position in beats
// (relative to the start of the riff) plus a kind-specific payload: Note,
// Controller, PitchBend, KeyPressure, or NoteExpression.
type TimedEvent struct {
	Pos  float64
	Kind EventKind
}

func (e TimedEvent) Position() float64 { return e.Pos }

// EventKind is implemented by Note, Controller, PitchBend, KeyPressure and
// NoteExpression — the closed set of riff-event payloads.
type EventKind interface {
	eventKind()
}

// Note is a pitched, timed event: pitch and velocity in 0..127, duration in
// beats.
type Note struct {
	Pitch    uint8
	Velocity uint8
	Duration float64
}

func (Note) eventKind() {}

// Controller is a MIDI-style continuous controller change.
type Controller struct {
	Number uint8
	Value  uint8
}

func (Controller) eventKind() {}

// PitchBend is a signed 14-bit pitch bend value (-8192..8191), centred at
// 0; the Scheduler divides it by 8192 to get the -1..+1 event value.
type PitchBend struct {
	Value int16
}

func (PitchBend) eventKind() {}

// KeyPressure is per-note (polyphonic) aftertouch.
type KeyPressure struct {
	Pitch    uint8
	Pressure uint8
}

func (KeyPressure) eventKind() {}

// NoteExpressionType enumerates the VST3 note-expression kinds this engine
// forwards; it is a small, closed subset matching the common host-side
// surface (volume, pan, tuning) rather than the plugin-specific extension
// space.
type NoteExpressionType int

const (
	NoteExpressionVolume NoteExpressionType = iota
	NoteExpressionPan
	NoteExpressionTuning
	NoteExpressionVibrato
	NoteExpressionBrightness
)

// NoteExpression carries a per-note-instance continuous value, keyed by the
// note identifier assigned when the originating NoteOn was emitted.
type NoteExpression struct {
	NoteID int32
	Type   NoteExpressionType
	Value  float64 // normalised 0..1
}

func (NoteExpression) eventKind() {}
