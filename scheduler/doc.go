// Package scheduler converts the beat-domain project model into
// sample-accurate events queued into per-track event.Buffers. It runs on
// the audio thread, once per block, immediately after the transport's
// position has been advanced.
//
// Grounded on sointu's tracker/player.go, which walks song.go's
// PatternRows/Tracks per audio block to decide which note triggers fall
// inside the current row window; here the row-granular walk is
// generalized to continuous beat windows across the five play modes,
// and to riff-set/sequence/arrangement concatenation, which sointu's
// flat pattern-order list has no equivalent for.
package scheduler
