package scheduler_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/scheduler"
	"github.com/riffdaw/engine/transport"
)

func TestScheduleEmitsNoteOnAndOffForASimpleRiff(t *testing.T) {
	trackID := uuid.New()
	riff := model.Riff{
		ID:     uuid.New(),
		Name:   "one-note",
		Length: 4,
		Events: []model.TimedEvent{
			{Pos: 0, Kind: model.Note{Pitch: 60, Velocity: 100, Duration: 1}},
		},
	}
	song := &model.Song{
		BPM: 120, SampleRate: 44100, BlockSize: 4096,
		Tracks: []model.Track{{ID: trackID, Kind: model.InstrumentTrack, Name: "t",
			Riffs:          []model.Riff{riff},
			RiffReferences: []model.RiffReference{{ID: uuid.New(), LinkedTo: riff.ID, Position: 0}},
		}},
	}
	resolver := model.NewResolver(song)
	tr := transport.New(song.BPM, song.SampleRate, song.TimeSigNum)
	tr.Play(transport.SongArrangement, nil)

	buf := event.NewBuffer(16)
	buffers := map[uuid.UUID]*event.Buffer{trackID: buf}

	sched := scheduler.New()
	// One beat at 120bpm/44100Hz is 22050 samples; a 4096-sample block
	// covers [0, 4096) samples, well within beat 0's note-on and long
	// before its note-off at beat 1.
	bStart, bEnd := tr.Advance(4096)
	if err := sched.Schedule(song, resolver, tr, bStart, bEnd, 0, 4096, buffers); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	var evs []event.Event
	buf.Drain(0, &evs)
	if len(evs) != 1 {
		t.Fatalf("drained %d events, want 1 (the note-on; note-off is beyond this block)", len(evs))
	}
	if evs[0].Kind != event.NoteOn || evs[0].Pitch != 60 {
		t.Fatalf("event = %+v, want a NoteOn at pitch 60", evs[0])
	}
}

func TestScheduleSkipsTracksWithoutABuffer(t *testing.T) {
	trackID := uuid.New()
	riff := model.Riff{ID: uuid.New(), Length: 4, Events: []model.TimedEvent{
		{Pos: 0, Kind: model.Note{Pitch: 60, Velocity: 100, Duration: 1}},
	}}
	song := &model.Song{
		BPM: 120, SampleRate: 44100, BlockSize: 4096,
		Tracks: []model.Track{{ID: trackID, Kind: model.InstrumentTrack,
			Riffs:          []model.Riff{riff},
			RiffReferences: []model.RiffReference{{ID: uuid.New(), LinkedTo: riff.ID, Position: 0}},
		}},
	}
	resolver := model.NewResolver(song)
	tr := transport.New(song.BPM, song.SampleRate, song.TimeSigNum)
	tr.Play(transport.SongArrangement, nil)

	bStart, bEnd := tr.Advance(4096)
	sched := scheduler.New()
	// No buffer registered for trackID at all.
	if err := sched.Schedule(song, resolver, tr, bStart, bEnd, 0, 4096, map[uuid.UUID]*event.Buffer{}); err != nil {
		t.Fatalf("Schedule with no buffers registered: %v", err)
	}
}

func TestScheduleLoopRangeWithNonZeroStart(t *testing.T) {
	trackID := uuid.New()
	riff := model.Riff{
		ID:     uuid.New(),
		Name:   "one-note",
		Length: 8,
		Events: []model.TimedEvent{
			{Pos: 5, Kind: model.Note{Pitch: 60, Velocity: 100, Duration: 1}},
		},
	}
	song := &model.Song{
		BPM: 120, SampleRate: 44100, BlockSize: 4096,
		Tracks: []model.Track{{ID: trackID, Kind: model.InstrumentTrack, Name: "t",
			Riffs: []model.Riff{riff},
			// The riff is placed at absolute beat 0, so its single note
			// (at riff-relative beat 5) lands at absolute beat 5, inside
			// the loop window [4, 8) below.
			RiffReferences: []model.RiffReference{{ID: uuid.New(), LinkedTo: riff.ID, Position: 0}},
		}},
	}
	resolver := model.NewResolver(song)
	tr := transport.New(song.BPM, song.SampleRate, song.TimeSigNum)
	tr.SetLoop(&transport.LoopRange{Start: 4, End: 8})
	tr.Play(transport.LoopRangeMode, nil)

	buf := event.NewBuffer(16)
	buffers := map[uuid.UUID]*event.Buffer{trackID: buf}

	sched := scheduler.New()
	// One beat at 120bpm/44100Hz is 22050 samples; advance 6 beats'
	// worth of samples so the block covers absolute beats [0, 6),
	// which includes the note at absolute beat 5.
	const blockSamples = 6 * 22050
	bStart, bEnd := tr.Advance(blockSamples)
	if err := sched.Schedule(song, resolver, tr, bStart, bEnd, 0, blockSamples, buffers); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	var evs []event.Event
	buf.Drain(0, &evs)
	if len(evs) == 0 {
		t.Fatalf("drained 0 events, want at least the note-on at absolute beat 5 (loop [4,8))")
	}
	found := false
	for _, ev := range evs {
		if ev.Kind == event.NoteOn && ev.Pitch == 60 {
			found = true
		}
	}
	if !found {
		t.Fatalf("events = %+v, want a NoteOn at pitch 60 from the loop's non-zero start", evs)
	}
}

func TestScheduleAllocatesNothingOnceWarm(t *testing.T) {
	trackID := uuid.New()
	riff := model.Riff{
		ID:     uuid.New(),
		Length: 4,
		Events: []model.TimedEvent{
			{Pos: 0, Kind: model.Note{Pitch: 60, Velocity: 100, Duration: 1}},
		},
	}
	song := &model.Song{
		BPM: 120, SampleRate: 44100, BlockSize: 4096,
		Tracks: []model.Track{{ID: trackID, Kind: model.InstrumentTrack,
			Riffs:          []model.Riff{riff},
			RiffReferences: []model.RiffReference{{ID: uuid.New(), LinkedTo: riff.ID, Position: 0}},
		}},
	}
	resolver := model.NewResolver(song)
	tr := transport.New(song.BPM, song.SampleRate, song.TimeSigNum)
	tr.Play(transport.SongArrangement, nil)

	buf := event.NewBuffer(64)
	buffers := map[uuid.UUID]*event.Buffer{trackID: buf}
	sched := scheduler.New()
	var drained []event.Event

	// Warm up: grow the Scheduler's drafts/byTrack scratch and the
	// buffer's drain slice to their steady-state capacity, and let the
	// riff's single (non-looping) note pass so later blocks emit nothing.
	for i := 0; i < 4; i++ {
		bStart, bEnd := tr.Advance(4096)
		if err := sched.Schedule(song, resolver, tr, bStart, bEnd, tr.BlockIndex(), 4096, buffers); err != nil {
			t.Fatalf("warmup Schedule: %v", err)
		}
		buf.Drain(tr.BlockIndex(), &drained)
	}

	allocs := testing.AllocsPerRun(100, func() {
		bStart, bEnd := tr.Advance(4096)
		if err := sched.Schedule(song, resolver, tr, bStart, bEnd, tr.BlockIndex(), 4096, buffers); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		buf.Drain(tr.BlockIndex(), &drained)
	})
	if allocs > 0 {
		t.Fatalf("Schedule+Drain allocated %v times per run after warmup, want 0", allocs)
	}
}

func TestScheduleSamplesAutomationAtBlockStart(t *testing.T) {
	trackID := uuid.New()
	var lane model.AutomationLane
	lane.ParameterID = 7
	lane.AddPoint(model.AutomationPoint{Position: 0, Value: 0.4})
	song := &model.Song{
		BPM: 120, SampleRate: 44100, BlockSize: 4096,
		Tracks: []model.Track{{ID: trackID, Kind: model.InstrumentTrack, Automation: []model.AutomationLane{lane}}},
	}
	resolver := model.NewResolver(song)
	tr := transport.New(song.BPM, song.SampleRate, song.TimeSigNum)
	tr.Play(transport.SongArrangement, nil)
	bStart, bEnd := tr.Advance(4096)

	buf := event.NewBuffer(16)
	sched := scheduler.New()
	if err := sched.Schedule(song, resolver, tr, bStart, bEnd, 0, 4096, map[uuid.UUID]*event.Buffer{trackID: buf}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	var evs []event.Event
	buf.Drain(0, &evs)
	if len(evs) != 1 || evs[0].Kind != event.Parameter || evs[0].SampleOffset != 0 {
		t.Fatalf("events = %+v, want a single Parameter event at offset 0", evs)
	}
	if evs[0].Value != 0.4 || evs[0].ControllerNumber != 7 {
		t.Fatalf("parameter event = %+v, want ControllerNumber=7 Value=0.4", evs[0])
	}
}
