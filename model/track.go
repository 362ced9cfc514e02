package model

import (
	"errors"

	"github.com/google/uuid"
)

// TrackKind tags a Track as hosting an instrument plugin, raw audio, or
// MIDI passthrough; it round-trips to disk as one of "InstrumentTrack",
// "AudioTrack", or "MidiTrack".
type TrackKind int

const (
	InstrumentTrack TrackKind = iota
	AudioTrack
	MidiTrack
)

func (k TrackKind) String() string {
	switch k {
	case InstrumentTrack:
		return "InstrumentTrack"
	case AudioTrack:
		return "AudioTrack"
	case MidiTrack:
		return "MidiTrack"
	default:
		return "UnknownTrack"
	}
}

// Color is the RGBA colour of Track.colour.
type Color struct {
	R, G, B, A uint8
}

// Track is one channel strip: a stable UUID, routing/mix state, and —
// for an InstrumentTrack — the hosted Instrument plugin, its effect chain,
// its riff pool, its placements on the timeline, and its automation lanes.
type Track struct {
	ID     uuid.UUID
	Kind   TrackKind
	Name   string
	Color  Color
	Mute   bool
	Solo   bool
	Volume float64 // linear gain, 0..1
	Pan    float64 // -1..+1

	Instrument *PluginRef
	Effects    []PluginRef

	Riffs          []Riff
	RiffReferences []RiffReference
	Automation     []AutomationLane

	Routes []Routing
}

// Routing is a MIDI/audio send from this track to another, by track UUID.
type Routing struct {
	Target uuid.UUID
	Audio  bool
	MIDI   bool
}

// Copy deep-copies a Track for the Song snapshot handed to the audio
// thread.
func (t *Track) Copy() Track {
	out := *t
	if t.Instrument != nil {
		instr := t.Instrument.Copy()
		out.Instrument = &instr
	}
	out.Effects = make([]PluginRef, len(t.Effects))
	for i := range t.Effects {
		out.Effects[i] = t.Effects[i].Copy()
	}
	out.Riffs = make([]Riff, len(t.Riffs))
	for i := range t.Riffs {
		out.Riffs[i] = t.Riffs[i].Copy()
	}
	out.RiffReferences = append([]RiffReference(nil), t.RiffReferences...)
	out.Automation = make([]AutomationLane, len(t.Automation))
	for i := range t.Automation {
		out.Automation[i] = t.Automation[i].Copy()
	}
	out.Routes = append([]Routing(nil), t.Routes...)
	return out
}

// Validate checks the per-track invariants: volume/pan range, every riff
// on the track satisfying its own per-event invariants, and every
// RiffReference resolving to a riff that lives on this same track.
func (t *Track) Validate() error {
	if t.Volume < 0 || t.Volume > 1 {
		return errors.New("model: track " + t.Name + " volume out of range")
	}
	if t.Pan < -1 || t.Pan > 1 {
		return errors.New("model: track " + t.Name + " pan out of range")
	}
	riffs := make(map[uuid.UUID]bool, len(t.Riffs))
	for i := range t.Riffs {
		if err := t.Riffs[i].Validate(); err != nil {
			return err
		}
		riffs[t.Riffs[i].ID] = true
	}
	for _, ref := range t.RiffReferences {
		if ref.Position < 0 {
			return errors.New("model: riff reference on track " + t.Name + " sits before beat 0")
		}
		if !riffs[ref.LinkedTo] {
			return errors.New("model: riff reference on track " + t.Name + " links to unknown riff " + ref.LinkedTo.String())
		}
	}
	return nil
}

// RiffByID resolves a riff UUID scoped to this track.
func (t *Track) RiffByID(id uuid.UUID) (*Riff, bool) {
	for i := range t.Riffs {
		if t.Riffs[i].ID == id {
			return &t.Riffs[i], true
		}
	}
	return nil, false
}
