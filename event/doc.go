// Package event defines the plugin event vocabulary the Scheduler emits
// and the Audio Graph consumes (NoteOn, NoteOff, KeyPressureAfterTouch,
// Controller, PitchBend, Parameter, NoteExpression), and Buffer, the
// bounded per-track SPSC queue between them.
//
// Grounded on sointu's tracker/broker.go: its sync.Pool-backed reuse of
// *sointu.AudioBuffer across the player/model boundary is the same
// "preallocate, reuse, never allocate on the hot path" discipline Buffer
// applies to typed events instead of audio samples.
package event
