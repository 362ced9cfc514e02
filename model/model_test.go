package model_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/riffdaw/engine/model"
)

func validSong() model.Song {
	trackID := uuid.New()
	return model.Song{
		Name:       "test",
		BPM:        120,
		SampleRate: 44100,
		BlockSize:  1024,
		Tracks: []model.Track{
			{ID: trackID, Kind: model.InstrumentTrack, Name: "lead", Volume: 1, Pan: 0},
		},
	}
}

func TestSongValidateRejectsNonPositiveBPM(t *testing.T) {
	s := validSong()
	s.BPM = 0
	if err := s.Validate(); err == nil {
		t.Fatalf("Validate() with BPM=0 returned nil, want an error")
	}
}

func TestSongValidateRejectsDuplicateTrackIDs(t *testing.T) {
	s := validSong()
	dup := s.Tracks[0]
	s.Tracks = append(s.Tracks, dup)
	if err := s.Validate(); err == nil {
		t.Fatalf("Validate() with duplicate track UUIDs returned nil, want an error")
	}
}

func TestSongValidateRejectsRiffSetReferencingUnknownTrack(t *testing.T) {
	s := validSong()
	s.RiffSets = []model.RiffSet{{
		Name:  "verse",
		Riffs: map[uuid.UUID]uuid.UUID{uuid.New(): uuid.New()},
	}}
	if err := s.Validate(); err == nil {
		t.Fatalf("Validate() with a riff set referencing an unknown track returned nil, want an error")
	}
}

func TestSongValidateRejectsInvertedLoopRange(t *testing.T) {
	s := validSong()
	s.Loops = []model.LoopRange{{Name: "bad", Start: 8, End: 4}}
	if err := s.Validate(); err == nil {
		t.Fatalf("Validate() with End <= Start loop range returned nil, want an error")
	}
}

func TestSongValidateAcceptsWellFormedSong(t *testing.T) {
	s := validSong()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() on a well-formed song: %v", err)
	}
}

func TestSongCopyIsDeep(t *testing.T) {
	s := validSong()
	s.Tracks[0].Riffs = []model.Riff{{ID: uuid.New(), Name: "a", Length: 4}}

	cp := s.Copy()
	cp.Tracks[0].Name = "mutated"
	cp.Tracks[0].Riffs[0].Name = "mutated-riff"

	if s.Tracks[0].Name == "mutated" {
		t.Fatalf("mutating the copy's track name leaked back into the original")
	}
	if s.Tracks[0].Riffs[0].Name == "mutated-riff" {
		t.Fatalf("mutating the copy's riff leaked back into the original (shallow copy of Riffs slice)")
	}
}

func TestSongTrackByID(t *testing.T) {
	s := validSong()
	id := s.Tracks[0].ID
	track, ok := s.TrackByID(id)
	if !ok || track.ID != id {
		t.Fatalf("TrackByID(%v) = (%v, %v), want the matching track", id, track, ok)
	}
	if _, ok := s.TrackByID(uuid.New()); ok {
		t.Fatalf("TrackByID on an unknown UUID returned ok=true")
	}
}

func TestResolverLooksUpTracksAndRiffs(t *testing.T) {
	s := validSong()
	riffID := uuid.New()
	s.Tracks[0].Riffs = []model.Riff{{ID: riffID, Name: "verse", Length: 4}}

	r := model.NewResolver(&s)
	if _, ok := r.Track(s.Tracks[0].ID); !ok {
		t.Fatalf("Resolver.Track did not find a track present on the song")
	}
	if _, ok := r.Riff(riffID); !ok {
		t.Fatalf("Resolver.Riff did not find a riff present on the song")
	}
	if _, ok := r.Riff(uuid.New()); ok {
		t.Fatalf("Resolver.Riff found a riff that was never added")
	}
}

func TestTrackValidateRejectsOutOfRangeVolumeAndPan(t *testing.T) {
	track := model.Track{Name: "t", Volume: 1.5, Pan: 0}
	if err := track.Validate(); err == nil {
		t.Fatalf("Validate() with Volume > 1 returned nil, want an error")
	}
	track = model.Track{Name: "t", Volume: 1, Pan: -2}
	if err := track.Validate(); err == nil {
		t.Fatalf("Validate() with Pan < -1 returned nil, want an error")
	}
}

func TestTrackValidateRejectsRiffReferenceToUnknownRiff(t *testing.T) {
	track := model.Track{
		Name:           "t",
		Volume:         1,
		RiffReferences: []model.RiffReference{{ID: uuid.New(), LinkedTo: uuid.New(), Position: 0}},
	}
	if err := track.Validate(); err == nil {
		t.Fatalf("Validate() with a RiffReference to an unknown riff returned nil, want an error")
	}
}

func TestTrackValidateRejectsNegativeRiffReferencePosition(t *testing.T) {
	riffID := uuid.New()
	track := model.Track{
		Name:           "t",
		Volume:         1,
		Riffs:          []model.Riff{{ID: riffID, Length: 4}},
		RiffReferences: []model.RiffReference{{ID: uuid.New(), LinkedTo: riffID, Position: -1}},
	}
	if err := track.Validate(); err == nil {
		t.Fatalf("Validate() with a negative riff reference position returned nil, want an error")
	}
}

func TestTrackRiffByID(t *testing.T) {
	riffID := uuid.New()
	track := model.Track{Riffs: []model.Riff{{ID: riffID, Name: "a"}}}
	if _, ok := track.RiffByID(riffID); !ok {
		t.Fatalf("RiffByID did not find a riff present on the track")
	}
	if _, ok := track.RiffByID(uuid.New()); ok {
		t.Fatalf("RiffByID found a riff that was never added")
	}
}

func TestRiffValidateRejectsEventOutsideLength(t *testing.T) {
	riff := model.Riff{Name: "r", Length: 4, Events: []model.TimedEvent{
		{Pos: 4, Kind: model.Note{Pitch: 60, Velocity: 100, Duration: 1}},
	}}
	if err := riff.Validate(); err == nil {
		t.Fatalf("Validate() with an event at position==length returned nil, want an error (position must be < length)")
	}
}

func TestRiffValidateRejectsNoteEndingPastLength(t *testing.T) {
	riff := model.Riff{Name: "r", Length: 4, Events: []model.TimedEvent{
		{Pos: 3.5, Kind: model.Note{Pitch: 60, Velocity: 100, Duration: 1}},
	}}
	if err := riff.Validate(); err == nil {
		t.Fatalf("Validate() with a note ending beyond riff length returned nil, want an error")
	}
}

func TestRiffValidateAcceptsNoteEndingExactlyAtLength(t *testing.T) {
	riff := model.Riff{Name: "r", Length: 4, Events: []model.TimedEvent{
		{Pos: 3, Kind: model.Note{Pitch: 60, Velocity: 100, Duration: 1}},
	}}
	if err := riff.Validate(); err != nil {
		t.Fatalf("Validate() with a note ending exactly at riff length: %v", err)
	}
}

func TestAutomationLaneAddPointKeepsSortedOrder(t *testing.T) {
	var lane model.AutomationLane
	lane.AddPoint(model.AutomationPoint{Position: 2, Value: 0.5})
	lane.AddPoint(model.AutomationPoint{Position: 0, Value: 0})
	lane.AddPoint(model.AutomationPoint{Position: 1, Value: 0.25})
	// Replacing an existing position updates in place rather than duplicating.
	lane.AddPoint(model.AutomationPoint{Position: 1, Value: 0.3})

	if len(lane.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3 (duplicate position replaced, not appended)", len(lane.Points))
	}
	for i := 1; i < len(lane.Points); i++ {
		if lane.Points[i].Position < lane.Points[i-1].Position {
			t.Fatalf("Points not sorted by Position: %v", lane.Points)
		}
	}
	if lane.Points[1].Value != 0.3 {
		t.Fatalf("Points[1].Value = %v, want 0.3 (replaced value)", lane.Points[1].Value)
	}
}

func TestAutomationLaneValueAtStepHoldsLastPoint(t *testing.T) {
	lane := model.AutomationLane{Curve: model.AutomationStep}
	lane.AddPoint(model.AutomationPoint{Position: 0, Value: 0.2})
	lane.AddPoint(model.AutomationPoint{Position: 4, Value: 0.8})

	v, ok := lane.ValueAt(3.9)
	if !ok || v != 0.2 {
		t.Fatalf("ValueAt(3.9) = (%v, %v), want (0.2, true) (step lane holds the prior point)", v, ok)
	}
	if _, ok := lane.ValueAt(-1); ok {
		t.Fatalf("ValueAt before the first point returned ok=true")
	}
}

func TestAutomationLaneValueAtContinuousInterpolates(t *testing.T) {
	lane := model.AutomationLane{Curve: model.AutomationContinuous}
	lane.AddPoint(model.AutomationPoint{Position: 0, Value: 0})
	lane.AddPoint(model.AutomationPoint{Position: 4, Value: 1})

	v, ok := lane.ValueAt(2)
	if !ok || v != 0.5 {
		t.Fatalf("ValueAt(2) = (%v, %v), want (0.5, true) (midpoint of a linear ramp)", v, ok)
	}
	v, ok = lane.ValueAt(10)
	if !ok || v != 1 {
		t.Fatalf("ValueAt(10) = (%v, %v), want (1, true) (held past the last point)", v, ok)
	}
}
