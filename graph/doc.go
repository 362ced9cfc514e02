// Package graph implements the audio graph: the per-block pipeline that
// drains each track's Event Buffer into its instrument, runs the
// instrument then its effect chain, mixes every non-muted (or, if any
// track is solo, every solo) track to the master bus with constant-power
// pan, and writes the result to the output device buffer.
//
// Grounded on sointu's tracker/player.go, whose Process method walks
// tracks once per callback, and oto/oto.go, which is the device-buffer
// sink this package's output feeds (package oto pulls blocks from
// engine.Engine.ProcessBlock, which calls RenderBlock). The instrument/effect processing itself is delegated to
// package plugin; this package owns mixing only.
package graph
