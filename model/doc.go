// Package model defines the in-memory project document: Song, Track, Riff,
// RiffReference, RiffSet, RiffSequence, RiffArrangement, LoopRange and the
// plugin references hosted on instrument tracks. It is mutated only on the
// control-plane thread; the audio thread only ever sees an immutable
// snapshot handed to it by package control.
//
// The shapes here are grounded on sointu's song.go/track.go/patch.go
// (NumVoices bookkeeping, Copy-on-write idiom, Validate) generalized from
// sointu's pattern/row grid to continuous beat positions, and on
// original_source/riff-daw's domain.rs for the riff-set/sequence/arrangement
// composition and the TrackEvent variant set.
package model
