package model

import (
	"errors"

	"github.com/google/uuid"
)

// Song is the root of the project document. SampleRate and BlockSize are
// fixed for a playback session: changing either requires constructing a new
// engine, never mutating a running one.
type Song struct {
	Name             string
	BPM              float64
	TimeSigNum       int
	TimeSigDenom     int
	SampleRate       int
	BlockSize        int
	Tracks           []Track
	RiffSets         []RiffSet
	RiffSequences    []RiffSequence
	RiffArrangements []RiffArrangement
	Loops            []LoopRange
	RiffGrids        []RiffGrid
	Samples          []Sample
}

// Sample is a reference to host-supplied PCM data. Reading and decoding
// .wav files is the embedder's job; the engine only tracks a sample's
// identity and display name.
type Sample struct {
	ID   uuid.UUID
	Name string
}

// Copy returns a deep copy of the song, suitable for the double-buffered
// snapshot handed to the audio thread by package control.
func (s *Song) Copy() Song {
	out := *s
	out.Tracks = make([]Track, len(s.Tracks))
	for i := range s.Tracks {
		out.Tracks[i] = s.Tracks[i].Copy()
	}
	out.RiffSets = append([]RiffSet(nil), s.RiffSets...)
	for i := range out.RiffSets {
		out.RiffSets[i] = out.RiffSets[i].Copy()
	}
	out.RiffSequences = make([]RiffSequence, len(s.RiffSequences))
	for i := range s.RiffSequences {
		out.RiffSequences[i] = s.RiffSequences[i].Copy()
	}
	out.RiffArrangements = make([]RiffArrangement, len(s.RiffArrangements))
	for i := range s.RiffArrangements {
		out.RiffArrangements[i] = s.RiffArrangements[i].Copy()
	}
	out.Loops = append([]LoopRange(nil), s.Loops...)
	out.RiffGrids = make([]RiffGrid, len(s.RiffGrids))
	for i := range s.RiffGrids {
		out.RiffGrids[i] = s.RiffGrids[i].Copy()
	}
	out.Samples = append([]Sample(nil), s.Samples...)
	return out
}

// Validate checks the song-wide invariants: unique track UUIDs,
// resolvable RiffReferences, RiffSets that only reference tracks present
// on the song.
func (s *Song) Validate() error {
	if s.BPM <= 0 {
		return errors.New("model: BPM must be positive")
	}
	if s.SampleRate <= 0 || s.BlockSize <= 0 {
		return errors.New("model: sample rate and block size must be positive")
	}
	seen := make(map[uuid.UUID]bool, len(s.Tracks))
	for _, t := range s.Tracks {
		if seen[t.ID] {
			return errors.New("model: duplicate track UUID " + t.ID.String())
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, rs := range s.RiffSets {
		for trackID := range rs.Riffs {
			if !seen[trackID] {
				return errors.New("model: riff set " + rs.Name + " references unknown track " + trackID.String())
			}
		}
	}
	for _, loop := range s.Loops {
		if loop.End <= loop.Start {
			return errors.New("model: loop range " + loop.Name + " has end <= start")
		}
	}
	return nil
}

// TrackByID resolves a track UUID; ok is false if no such track exists.
func (s *Song) TrackByID(id uuid.UUID) (*Track, bool) {
	for i := range s.Tracks {
		if s.Tracks[i].ID == id {
			return &s.Tracks[i], true
		}
	}
	return nil, false
}

// Resolver is a single-song-wide cache that turns riff/track UUID lookups
// from O(n) scans into O(1) map hits, amortised outside the hot path so
// cyclic or shared RiffReferences never cost a scan on the audio thread.
// It is rebuilt whenever the control plane swaps in a new song snapshot.
type Resolver struct {
	tracksByID map[uuid.UUID]*Track
	riffsByID  map[uuid.UUID]*Riff
}

// NewResolver builds a Resolver over song. The song must not be mutated
// while the resolver is in use; callers rebuild a fresh Resolver for every
// new Copy() they hand to the audio thread.
func NewResolver(song *Song) *Resolver {
	r := &Resolver{
		tracksByID: make(map[uuid.UUID]*Track, len(song.Tracks)),
		riffsByID:  make(map[uuid.UUID]*Riff),
	}
	for i := range song.Tracks {
		t := &song.Tracks[i]
		r.tracksByID[t.ID] = t
		for j := range t.Riffs {
			r.riffsByID[t.Riffs[j].ID] = &t.Riffs[j]
		}
	}
	return r
}

func (r *Resolver) Track(id uuid.UUID) (*Track, bool) {
	t, ok := r.tracksByID[id]
	return t, ok
}

func (r *Resolver) Riff(id uuid.UUID) (*Riff, bool) {
	riff, ok := r.riffsByID[id]
	return riff, ok
}
