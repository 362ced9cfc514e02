//go:build plugin

// Command riffd-vsti exposes the engine itself as a VST2 instrument,
// grounded on sointu's cmd/sointu-vsti/main.go, which registers a
// vst2.PluginAllocator and renders one sointu.AudioBuffer per
// ProcessFloatFunc call. Adapted here to render one Engine.ProcessBlock
// per call and to decode inbound vst2.MIDIEvents onto a single live
// track rather than feeding a tracker.Player directly.
package main

import (
	"github.com/google/uuid"
	vst2 "pipelined.dev/audio/vst2"

	"github.com/riffdaw/engine/control"
	"github.com/riffdaw/engine/engine"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/plugin"
	pluginvst2 "github.com/riffdaw/engine/plugin/vst2"
)

const (
	pluginID      = int32(0x52444157) // "RDAW"
	pluginVersion = int32(100)
	pluginName    = "riffd-vsti"
)

func init() {
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		liveTrackID := uuid.New()
		song := singleInstrumentSong(liveTrackID)

		broker := control.NewBroker()
		host := plugin.NewHost(map[model.PluginFormat]plugin.NativeLoader{})
		eng := engine.New(broker, host, song.SampleRate, song.BlockSize, song.TimeSigNum, song.BPM)
		worker := engine.NewWorker(eng)
		closed := make(chan struct{})
		go worker.Run(closed)

		broker.SendCommand(control.LoadProject{Song: song})

		var pendingEvents []vst2.MIDIEvent

		return vst2.Plugin{
				UniqueID:       pluginID,
				Version:        pluginVersion,
				InputChannels:  0,
				OutputChannels: 2,
				Name:           pluginName,
				Vendor:         "riffdaw",
				Category:       vst2.PluginCategorySynth,
				Flags:          vst2.PluginIsSynth,
				ProcessFloatFunc: func(in, out vst2.FloatBuffer) {
					for _, raw := range pendingEvents {
						if ev, ok := pluginvst2.DecodeEvent(raw); ok {
							eng.PushLiveEvent(liveTrackID, ev)
						}
					}
					pendingEvents = pendingEvents[:0]

					if bpm, ok := pluginvst2.Tempo(h.GetTimeInfo(vst2.TempoValid)); ok {
						eng.Transport().SetTempo(bpm)
					}

					left, right := out.Channel(0), out.Channel(1)
					if out.Frames != song.BlockSize {
						// The session's block size is fixed at song
						// construction time; a host calling with a
						// different buffer size gets silence rather than
						// a wrong-length render.
						zero(left)
						zero(right)
						return
					}
					eng.ProcessBlock(left, right)
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					switch pcds {
					case vst2.PluginCanReceiveEvents, vst2.PluginCanReceiveMIDIEvent, vst2.PluginCanReceiveTimeInfo:
						return vst2.YesCanDo
					}
					return vst2.NoCanDo
				},
				ProcessEventsFunc: func(ev *vst2.EventsPtr) {
					for i := 0; i < ev.NumEvents(); i++ {
						if v, ok := ev.Event(i).(*vst2.MIDIEvent); ok {
							pendingEvents = append(pendingEvents, *v)
						}
					}
				},
				CloseFunc: func() {
					close(closed)
				},
			}
	}
}

// singleInstrumentSong builds the minimal project riffd-vsti needs: one
// InstrumentTrack with no riffs of its own, fed entirely by the host's
// live MIDI input via LiveEvent commands.
func singleInstrumentSong(trackID uuid.UUID) model.Song {
	return model.Song{
		Name:         pluginName,
		BPM:          120,
		TimeSigNum:   4,
		TimeSigDenom: 4,
		SampleRate:   44100,
		BlockSize:    1024,
		Tracks: []model.Track{{
			ID:     trackID,
			Kind:   model.InstrumentTrack,
			Name:   "Live",
			Volume: 1,
		}},
	}
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

func main() {}
