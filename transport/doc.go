// Package transport implements the play/stop/seek state machine and
// beat↔sample conversions. A Transport is owned and mutated exclusively
// by the audio thread — only non-realtime threads may block or
// allocate, so commands arrive via package control's queue and are
// applied here synchronously at block start; Snapshot gives the
// UI/control-plane threads a read-only, atomically published view.
//
// Grounded on sointu's tracker/player.go (SongPos, the
// StartPlayMsg/IsPlayingMsg/Loop message-driven state machine) and
// song.go's SamplesPerRow, generalized from row granularity to continuous
// beat positions across the five play modes.
package transport
