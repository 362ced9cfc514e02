// Package engine wires together transport, scheduler, graph, plugin and
// control into a runnable system, and owns the worker thread that
// performs plugin create/destroy and preset I/O off the audio thread.
//
// Grounded on sointu's tracker/player.go (the single type that held all
// of its per-block state) and tracker/model.go's goroutine-per-concern
// wiring (model/player/detector/GUI, each reachable only through the
// Broker) — generalized from sointu's four fixed goroutines to this
// engine's audio/worker/run-loop split.
package engine
