// Package midiio enumerates and opens external MIDI input devices and
// decodes their messages into engine event.Events, feeding a MidiTrack's
// live input.
//
// Grounded directly on sointu's tracker/gomidi/midi.go: the same
// gitlab.com/gomidi/midi/v2 + drivers/rtmididrv driver, the same
// channel-buffered HandleMessage callback feeding a drain loop, adapted
// from sointu's frame-clock-recovery NextEvent (which reconciles a MIDI
// timestamp against the audio callback's frame clock because sointu's
// player is free-running) to this engine's block-clock: decoded events
// carry no timestamp of their own (SampleOffset and BlockIndex are 0);
// whoever delivers them places them in a block (engine.Engine's
// PushLiveEvent stamps the transport's current block index).
package midiio
