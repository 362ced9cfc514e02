package model

import (
	"encoding/json"
	"fmt"
)

type noteJSON struct {
	Position float64 `json:"position"`
	Note     uint8   `json:"note"`
	Velocity uint8   `json:"velocity"`
	Length   float64 `json:"length"`
}

type controllerJSON struct {
	Position float64 `json:"position"`
	Number   uint8   `json:"number"`
	Value    uint8   `json:"value"`
}

type pitchBendJSON struct {
	Position float64 `json:"position"`
	Value    int16   `json:"value"`
}

type keyPressureJSON struct {
	Position float64 `json:"position"`
	Note     uint8   `json:"note"`
	Pressure uint8   `json:"pressure"`
}

type noteExpressionJSON struct {
	Position float64            `json:"position"`
	NoteID   int32              `json:"noteId"`
	Type     NoteExpressionType `json:"type"`
	Value    float64            `json:"value"`
}

// MarshalJSON writes a TimedEvent as a single-key tagged union: exactly
// one of "Note", "Controller", "PitchBend", "KeyPressure",
// "NoteExpression".
func (e TimedEvent) MarshalJSON() ([]byte, error) {
	switch k := e.Kind.(type) {
	case Note:
		return json.Marshal(map[string]noteJSON{"Note": {
			Position: e.Pos, Note: k.Pitch, Velocity: k.Velocity, Length: k.Duration,
		}})
	case Controller:
		return json.Marshal(map[string]controllerJSON{"Controller": {
			Position: e.Pos, Number: k.Number, Value: k.Value,
		}})
	case PitchBend:
		return json.Marshal(map[string]pitchBendJSON{"PitchBend": {
			Position: e.Pos, Value: k.Value,
		}})
	case KeyPressure:
		return json.Marshal(map[string]keyPressureJSON{"KeyPressure": {
			Position: e.Pos, Note: k.Pitch, Pressure: k.Pressure,
		}})
	case NoteExpression:
		return json.Marshal(map[string]noteExpressionJSON{"NoteExpression": {
			Position: e.Pos, NoteID: k.NoteID, Type: k.Type, Value: k.Value,
		}})
	default:
		return nil, fmt.Errorf("model: unknown event kind %T", e.Kind)
	}
}

func (e *TimedEvent) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("model: event object must have exactly one key, got %d", len(raw))
	}
	for key, payload := range raw {
		switch key {
		case "Note":
			var v noteJSON
			if err := json.Unmarshal(payload, &v); err != nil {
				return err
			}
			*e = TimedEvent{Pos: v.Position, Kind: Note{Pitch: v.Note, Velocity: v.Velocity, Duration: v.Length}}
		case "Controller":
			var v controllerJSON
			if err := json.Unmarshal(payload, &v); err != nil {
				return err
			}
			*e = TimedEvent{Pos: v.Position, Kind: Controller{Number: v.Number, Value: v.Value}}
		case "PitchBend":
			var v pitchBendJSON
			if err := json.Unmarshal(payload, &v); err != nil {
				return err
			}
			*e = TimedEvent{Pos: v.Position, Kind: PitchBend{Value: v.Value}}
		case "KeyPressure":
			var v keyPressureJSON
			if err := json.Unmarshal(payload, &v); err != nil {
				return err
			}
			*e = TimedEvent{Pos: v.Position, Kind: KeyPressure{Pitch: v.Note, Pressure: v.Pressure}}
		case "NoteExpression":
			var v noteExpressionJSON
			if err := json.Unmarshal(payload, &v); err != nil {
				return err
			}
			*e = TimedEvent{Pos: v.Position, Kind: NoteExpression{NoteID: v.NoteID, Type: v.Type, Value: v.Value}}
		default:
			return fmt.Errorf("model: unknown event key %q", key)
		}
	}
	return nil
}
