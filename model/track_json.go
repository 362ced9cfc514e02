package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// trackFields is the shared, flattened shape used inside each of the three
// tagged-union keys. InstrumentTrack populates the instrument-only fields,
// writing empty lists as []; AudioTrack and MidiTrack leave them at their
// zero value, so on write the instrument is omitted and the lists are null.
type trackFields struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Color  Color     `json:"color"`
	Mute   bool      `json:"mute"`
	Solo   bool      `json:"solo"`
	Volume float64   `json:"volume"`
	Pan    float64   `json:"pan"`

	Instrument     *PluginRef       `json:"instrument,omitempty"`
	Effects        []PluginRef      `json:"effects"`
	Riffs          []Riff           `json:"riffs"`
	RiffReferences []RiffReference  `json:"riffReferences"`
	Automation     []AutomationLane `json:"automation"`
	Routes         []Routing        `json:"routes"`
}

func (t *Track) toFields() trackFields {
	f := trackFields{
		ID:     t.ID,
		Name:   t.Name,
		Color:  t.Color,
		Mute:   t.Mute,
		Solo:   t.Solo,
		Volume: t.Volume,
		Pan:    t.Pan,
	}
	if t.Kind == InstrumentTrack {
		f.Instrument = t.Instrument
		f.Effects = orEmpty(t.Effects)
		f.Riffs = orEmpty(t.Riffs)
		f.RiffReferences = orEmpty(t.RiffReferences)
		f.Automation = orEmpty(t.Automation)
		f.Routes = orEmpty(t.Routes)
	}
	return f
}

// orEmpty turns a nil slice into a non-nil, zero-length one so it encodes
// to "[]" rather than "null" or a sentinel "[0]".
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MarshalJSON writes a Track as a single-key tagged union: exactly one
// of "InstrumentTrack", "AudioTrack", "MidiTrack".
func (t Track) MarshalJSON() ([]byte, error) {
	fields := t.toFields()
	switch t.Kind {
	case InstrumentTrack:
		return json.Marshal(map[string]trackFields{"InstrumentTrack": fields})
	case AudioTrack:
		return json.Marshal(map[string]trackFields{"AudioTrack": fields})
	case MidiTrack:
		return json.Marshal(map[string]trackFields{"MidiTrack": fields})
	default:
		return nil, fmt.Errorf("model: unknown track kind %d", t.Kind)
	}
}

// UnmarshalJSON accepts exactly one of the three known keys; any other
// key, or more than one key, is rejected.
func (t *Track) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("model: track object must have exactly one key, got %d", len(raw))
	}
	var kind TrackKind
	var payload json.RawMessage
	switch {
	case raw["InstrumentTrack"] != nil:
		kind, payload = InstrumentTrack, raw["InstrumentTrack"]
	case raw["AudioTrack"] != nil:
		kind, payload = AudioTrack, raw["AudioTrack"]
	case raw["MidiTrack"] != nil:
		kind, payload = MidiTrack, raw["MidiTrack"]
	default:
		for k := range raw {
			return fmt.Errorf("model: unknown track key %q", k)
		}
		return fmt.Errorf("model: empty track object")
	}
	var f trackFields
	if err := json.Unmarshal(payload, &f); err != nil {
		return err
	}
	*t = Track{
		ID:             f.ID,
		Kind:           kind,
		Name:           f.Name,
		Color:          f.Color,
		Mute:           f.Mute,
		Solo:           f.Solo,
		Volume:         f.Volume,
		Pan:            f.Pan,
		Instrument:     f.Instrument,
		Effects:        f.Effects,
		Riffs:          f.Riffs,
		RiffReferences: f.RiffReferences,
		Automation:     f.Automation,
		Routes:         f.Routes,
	}
	return nil
}
