package scheduler

import (
	"math"

	"github.com/google/uuid"

	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/transport"
)

// priority implements the tie-break order: note-off before note-on,
// controllers/parameters before notes, stable insertion order within a
// kind.
func priority(k event.Kind) int {
	switch k {
	case event.NoteOff, event.AllNotesOff:
		return 0
	case event.Controller, event.PitchBend, event.Parameter, event.KeyPressureAfterTouch, event.NoteExpression:
		return 1
	default: // NoteOn
		return 2
	}
}

// Scheduler materializes the beat-domain project model into per-track
// event.Buffers, one block at a time. Its drafts/byTrack scratch is
// owned by the Scheduler and reused across calls so that, once warmed
// up to its steady-state size, Schedule performs no allocation — it
// runs on the audio thread via graph.RenderBlock.
type Scheduler struct {
	sequence uint64

	drafts     []draft
	byTrack    map[uuid.UUID][]event.Event
	placements []placement
	segments   []segment
}

// New returns a Scheduler with a fresh tie-break sequence counter.
func New() *Scheduler {
	return &Scheduler{byTrack: make(map[uuid.UUID][]event.Event)}
}

type draft struct {
	trackID uuid.UUID
	ev      event.Event
}

// Schedule computes the events falling inside [bStart, bEnd) — the beat
// window covered by the block at blockIndex — and pushes them into the
// matching per-track buffer. buffers must contain an entry for every
// track that can receive events; a track with no buffer is silently
// skipped (e.g. an AudioTrack, which has no Event Buffer at all).
//
// When the active play mode wraps within this block (RiffSet/Sequence/
// Arrangement looping, or LoopRange's end→start), Schedule calls
// tr.WrapTo itself — it is the sole owner of mode-length arithmetic,
// rather than the Transport.
func (s *Scheduler) Schedule(song *model.Song, resolver *model.Resolver, tr *transport.Transport, bStart, bEnd float64, blockIndex uint64, blockSize int, buffers map[uuid.UUID]*event.Buffer) error {
	placements, length, beatOffset := s.span(song, resolver, tr)

	segStart := bStart - beatOffset
	segEnd := bEnd - beatOffset
	s.segments = splitSegments(segStart, segEnd, length, s.segments)
	segments := s.segments

	s.drafts = s.drafts[:0]
	for i, seg := range segments {
		s.scanSegment(placements, seg, blockSize, song.BPM, song.SampleRate, &s.drafts)
		if i > 0 {
			// A wrap happened at the start of this segment: release
			// whatever was sounding before retriggering anything new.
			offset := clampOffset(transport.BeatsToSamples(seg.elapsedBase, song.BPM, song.SampleRate), blockSize)
			for i := range song.Tracks {
				if song.Tracks[i].Kind != model.InstrumentTrack {
					continue
				}
				s.drafts = append(s.drafts, draft{trackID: song.Tracks[i].ID, ev: event.Event{
					BlockIndex: blockIndex, SampleOffset: offset, Kind: event.AllNotesOff,
				}})
			}
		}
	}

	s.scheduleAutomation(song, bStart, blockIndex, &s.drafts)

	if s.byTrack == nil {
		s.byTrack = make(map[uuid.UUID][]event.Event)
	}
	for trackID := range s.byTrack {
		s.byTrack[trackID] = s.byTrack[trackID][:0]
	}
	for _, d := range s.drafts {
		s.byTrack[d.trackID] = append(s.byTrack[d.trackID], d.ev)
	}
	for trackID, evs := range s.byTrack {
		if len(evs) == 0 {
			continue
		}
		buf, ok := buffers[trackID]
		if !ok {
			continue
		}
		sortStableByOffsetAndPriority(evs)
		for i := range evs {
			evs[i].BlockIndex = blockIndex
			evs[i].Sequence = s.sequence
			s.sequence++
			if err := buf.Push(evs[i]); err != nil {
				return err
			}
		}
	}

	if len(segments) > 1 {
		last := segments[len(segments)-1]
		tr.WrapTo(last.virtualEnd + beatOffset)
	}
	return nil
}

// span resolves the active PlayMode into its placements, total length (0
// means unbounded, i.e. SongArrangement), and the beat offset that must
// be subtracted from transport positions before wrap arithmetic (non-zero
// only for LoopRange mode, whose window is [loop.Start, loop.End) rather
// than [0, length)).
//
// Placements are rebuilt into s.placements on every call, reusing its
// backing array: the Scheduler, not the caller, owns this scratch, so
// this allocates only while the array is still growing to the project's
// steady-state placement count.
func (s *Scheduler) span(song *model.Song, resolver *model.Resolver, tr *transport.Transport) (placements []placement, length, beatOffset float64) {
	s.placements = s.placements[:0]
	switch tr.Mode() {
	case transport.RiffSetMode:
		if rs := riffSetByID(song, tr.Audition().ID); rs != nil {
			s.placements, length = riffSetSpan(resolver, rs, s.placements)
		}
	case transport.RiffSequenceMode:
		if seq := riffSequenceByID(song, tr.Audition().ID); seq != nil {
			s.placements, length = riffSequenceSpan(song, resolver, seq, s.placements)
		}
	case transport.RiffArrangementMode:
		if arr := riffArrangementByID(song, tr.Audition().ID); arr != nil {
			s.placements, length = riffArrangementSpan(song, resolver, arr, s.placements)
		}
	case transport.LoopRangeMode:
		if loop := tr.Loop(); loop != nil {
			length = loop.End - loop.Start
			beatOffset = loop.Start
			s.placements = songArrangementPlacements(song, resolver, s.placements)
			s.placements = shiftPlacements(s.placements, beatOffset, length)
		} else {
			s.placements = songArrangementPlacements(song, resolver, s.placements)
		}
	default: // SongArrangement
		s.placements = songArrangementPlacements(song, resolver, s.placements)
	}
	return s.placements, length, beatOffset
}

func riffArrangementByID(song *model.Song, id uuid.UUID) *model.RiffArrangement {
	for i := range song.RiffArrangements {
		if song.RiffArrangements[i].ID == id {
			return &song.RiffArrangements[i]
		}
	}
	return nil
}

type segment struct {
	virtualStart, virtualEnd float64
	elapsedBase              float64
}

// splitSegments breaks [bStart, bEnd) into one or more windows inside
// [0, length), wrapping every time the window crosses the length
// boundary, appending them to dst. length <= 0 means unbounded: the
// whole interval is one segment. Reusing the same dst across calls (the
// Scheduler's own scratch) means this never allocates once dst has grown
// to the steady-state segment count for a block — 1, almost always,
// since a wrap mid-block is rare.
func splitSegments(bStart, bEnd, length float64, dst []segment) []segment {
	dst = dst[:0]
	if length <= 0 {
		return append(dst, segment{virtualStart: bStart, virtualEnd: bEnd, elapsedBase: 0})
	}
	start := math.Mod(bStart, length)
	if start < 0 {
		start += length
	}
	remaining := bEnd - bStart
	elapsed := 0.0
	cur := start
	for remaining > 1e-12 {
		avail := length - cur
		take := remaining
		if avail < take {
			take = avail
		}
		dst = append(dst, segment{virtualStart: cur, virtualEnd: cur + take, elapsedBase: elapsed})
		elapsed += take
		remaining -= take
		cur = 0
	}
	if len(dst) == 0 {
		dst = append(dst, segment{virtualStart: start, virtualEnd: start, elapsedBase: 0})
	}
	return dst
}

func clampOffset(raw int64, blockSize int) int {
	if raw < 0 {
		return 0
	}
	if raw >= int64(blockSize) {
		return blockSize - 1
	}
	return int(raw)
}

// scanSegment finds the events any placement contributes inside one
// segment and appends them to drafts.
func (s *Scheduler) scanSegment(placements []placement, seg segment, blockSize int, bpm float64, sampleRate int, drafts *[]draft) {
	for _, p := range placements {
		for evIdx, ev := range p.riff.Events {
			absPos := p.start + ev.Position()
			if n, ok := ev.Kind.(model.Note); ok {
				if absPos >= seg.virtualStart && absPos < seg.virtualEnd {
					offset := clampOffset(transport.BeatsToSamples(seg.elapsedBase+(absPos-seg.virtualStart), bpm, sampleRate), blockSize)
					*drafts = append(*drafts, draft{trackID: p.trackID, ev: event.Event{
						SampleOffset: offset, Kind: event.NoteOn,
						NoteID: noteID(p.trackID, p.riff.ID, evIdx), Pitch: n.Pitch, Velocity: n.Velocity,
					}})
				}
				offPos := absPos + n.Duration
				if offPos >= seg.virtualStart && offPos < seg.virtualEnd {
					offset := clampOffset(transport.BeatsToSamples(seg.elapsedBase+(offPos-seg.virtualStart), bpm, sampleRate), blockSize)
					*drafts = append(*drafts, draft{trackID: p.trackID, ev: event.Event{
						SampleOffset: offset, Kind: event.NoteOff,
						NoteID: noteID(p.trackID, p.riff.ID, evIdx), Pitch: n.Pitch,
					}})
				}
				continue
			}
			if absPos < seg.virtualStart || absPos >= seg.virtualEnd {
				continue
			}
			offset := clampOffset(transport.BeatsToSamples(seg.elapsedBase+(absPos-seg.virtualStart), bpm, sampleRate), blockSize)
			d := draft{trackID: p.trackID, ev: event.Event{SampleOffset: offset}}
			switch k := ev.Kind.(type) {
			case model.Controller:
				d.ev.Kind = event.Controller
				d.ev.ControllerNumber = int32(k.Number)
				d.ev.Value = float64(k.Value) / 127
			case model.PitchBend:
				d.ev.Kind = event.PitchBend
				d.ev.Value = float64(k.Value) / 8192
			case model.KeyPressure:
				d.ev.Kind = event.KeyPressureAfterTouch
				d.ev.Pitch = k.Pitch
				d.ev.Pressure = k.Pressure
			case model.NoteExpression:
				d.ev.Kind = event.NoteExpression
				d.ev.NoteID = k.NoteID
				d.ev.ExpressionType = int32(k.Type)
				d.ev.Value = k.Value
			default:
				continue
			}
			*drafts = append(*drafts, d)
		}
	}
}

// scheduleAutomation samples every instrument/effect automation lane at
// bStart and, if it has a defined value there, emits a Parameter event at
// offset 0: parameter automation lanes are sampled at block boundaries
// and inserted as Parameter events at offset 0.
func (s *Scheduler) scheduleAutomation(song *model.Song, bStart float64, blockIndex uint64, drafts *[]draft) {
	for i := range song.Tracks {
		t := &song.Tracks[i]
		for j := range t.Automation {
			lane := &t.Automation[j]
			value, ok := lane.ValueAt(bStart)
			if !ok {
				continue
			}
			*drafts = append(*drafts, draft{trackID: t.ID, ev: event.Event{
				BlockIndex: blockIndex, SampleOffset: 0, Kind: event.Parameter,
				ControllerNumber: lane.ParameterID, Value: value,
				OnEffect: lane.OnEffect, EffectIndex: int32(lane.EffectIndex),
			}})
		}
	}
}

// sortStableByOffsetAndPriority orders evs by the tie-break rules,
// preserving the scan's insertion order within equal (offset, priority)
// pairs. It is an in-place insertion sort, so it never allocates.
func sortStableByOffsetAndPriority(evs []event.Event) {
	for i := 1; i < len(evs); i++ {
		for j := i; j > 0; j-- {
			a, b := evs[j-1], evs[j]
			if a.SampleOffset < b.SampleOffset || (a.SampleOffset == b.SampleOffset && priority(a.Kind) <= priority(b.Kind)) {
				break
			}
			evs[j-1], evs[j] = b, a
		}
	}
}
