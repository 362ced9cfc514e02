// Package vst2 provides VST2 event encoding for a host-side NativeLoader,
// grounded on sointu's cmd/sointu-vsti/main.go — which uses
// pipelined.dev/audio/vst2 from the opposite (guest) side — inverted here
// to the host's perspective: translating engine-domain event.Events into
// the vst2.MIDIEvent wire shape a loaded VST2 module's
// effProcessEvents dispatch expects, and decoding a module's
// vst2.TimeInfo back into the transport fields the engine cares about.
//
// The actual module load (dlopen, resolving VSTPluginMain, driving the
// effect dispatcher) is the NativeLoader seam's job and is not
// implemented here, per plugin.doc.go's boundary note.
package vst2

import (
	"pipelined.dev/audio/vst2"

	"github.com/riffdaw/engine/event"
)

// EncodeEvent converts an engine Event into the raw MIDI bytes a VST2
// module's effProcessEvents dispatch expects, mirroring
// vst2.MIDIEvent.Data's status/data1/data2 layout that
// cmd/sointu-vsti/main.go decodes on the guest side.
func EncodeEvent(ev event.Event) (vst2.MIDIEvent, bool) {
	m := vst2.MIDIEvent{DeltaFrames: int32(ev.SampleOffset)}
	switch ev.Kind {
	case event.NoteOn:
		m.Data[0] = 0x90
		m.Data[1] = ev.Pitch
		m.Data[2] = ev.Velocity
	case event.NoteOff:
		m.Data[0] = 0x80
		m.Data[1] = ev.Pitch
		m.Data[2] = ev.Velocity
	case event.KeyPressureAfterTouch:
		m.Data[0] = 0xA0
		m.Data[1] = ev.Pitch
		m.Data[2] = ev.Pressure
	case event.Controller:
		m.Data[0] = 0xB0
		m.Data[1] = byte(ev.ControllerNumber)
		m.Data[2] = byte(ev.Value * 127)
	case event.PitchBend:
		bend := int32((ev.Value + 1) * 8192)
		if bend < 0 {
			bend = 0
		}
		if bend > 16383 {
			bend = 16383
		}
		m.Data[0] = 0xE0
		m.Data[1] = byte(bend & 0x7F)
		m.Data[2] = byte((bend >> 7) & 0x7F)
	case event.AllNotesOff:
		m.Data[0] = 0xB0
		m.Data[1] = 123 // CC 123: All Notes Off
		m.Data[2] = 0
	default:
		return vst2.MIDIEvent{}, false // Parameter, NoteExpression have no VST2 MIDI encoding
	}
	return m, true
}

// DecodeEvent converts a raw MIDI event the host sent into this process
// (when this engine itself is running as a VST2 instrument, per
// cmd/riffd-vsti) into an engine Event. Status bytes outside
// NoteOn/NoteOff/Controller/PitchBend are reported unsupported, mirroring
// cmd/sointu-vsti/main.go's NextEvent switch, which only ever handles
// note on/off.
func DecodeEvent(m vst2.MIDIEvent) (event.Event, bool) {
	ev := event.Event{SampleOffset: int(m.DeltaFrames)}
	switch {
	case m.Data[0]&0xF0 == 0x90:
		ev.Kind, ev.Pitch, ev.Velocity = event.NoteOn, m.Data[1], m.Data[2]
	case m.Data[0]&0xF0 == 0x80:
		ev.Kind, ev.Pitch, ev.Velocity = event.NoteOff, m.Data[1], m.Data[2]
	case m.Data[0]&0xF0 == 0xB0:
		ev.Kind, ev.ControllerNumber, ev.Value = event.Controller, int32(m.Data[1]), float64(m.Data[2])/127
	case m.Data[0]&0xF0 == 0xE0:
		bend := int32(m.Data[1]) | int32(m.Data[2])<<7
		ev.Kind, ev.Value = event.PitchBend, float64(bend)/8192-1
	default:
		return event.Event{}, false
	}
	return ev, true
}

// Tempo reads the host-clock tempo out of a VST2 module's TimeInfo, per
// cmd/sointu-vsti/main.go's BPM() helper.
func Tempo(info *vst2.TimeInfo) (bpm float64, ok bool) {
	if info == nil || info.Flags&vst2.TempoValid == 0 || info.Tempo == 0 {
		return 0, false
	}
	return info.Tempo, true
}
