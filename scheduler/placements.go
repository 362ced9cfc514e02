package scheduler

import (
	"github.com/google/uuid"

	"github.com/riffdaw/engine/model"
)

// placement is one riff occurrence on the mode's virtual timeline: riff r
// plays on track trackID starting at virtual beat start.
type placement struct {
	trackID uuid.UUID
	riff    *model.Riff
	start   float64
}

// riffSetSpan resolves a RiffSet into its placements (one per track, all
// starting at beat 0) and its length (the longest contributing riff) for
// RiffSet play mode. Placements are appended to dst so callers on the
// audio thread can reuse the same backing array block after block.
func riffSetSpan(resolver *model.Resolver, rs *model.RiffSet, dst []placement) (placements []placement, length float64) {
	for trackID, riffID := range rs.Riffs {
		riff, ok := resolver.Riff(riffID)
		if !ok || riff.Length <= 0 {
			continue // unknown riff UUID or zero-length riff: skipped
		}
		dst = append(dst, placement{trackID: trackID, riff: riff, start: 0})
		if riff.Length > length {
			length = riff.Length
		}
	}
	return dst, length
}

// riffSetByID and riffSequenceByID scan the song's top-level lists: these
// lists are small (authored collections, not per-event hot data) so a
// linear scan here is not amortised via the Resolver, unlike per-event
// riff/track lookups.
func riffSetByID(song *model.Song, id uuid.UUID) *model.RiffSet {
	for i := range song.RiffSets {
		if song.RiffSets[i].ID == id {
			return &song.RiffSets[i]
		}
	}
	return nil
}

func riffSequenceByID(song *model.Song, id uuid.UUID) *model.RiffSequence {
	for i := range song.RiffSequences {
		if song.RiffSequences[i].ID == id {
			return &song.RiffSequences[i]
		}
	}
	return nil
}

// riffSequenceSpan concatenates a RiffSequence's riff sets in order, each
// contributing its own max-riff-length span of beats, for RiffSequence
// play mode. Placements are appended to dst, reusing its backing array.
func riffSequenceSpan(song *model.Song, resolver *model.Resolver, seq *model.RiffSequence, dst []placement) (placements []placement, length float64) {
	for _, setID := range seq.RiffSets {
		rs := riffSetByID(song, setID)
		if rs == nil {
			continue
		}
		before := len(dst)
		var setLength float64
		dst, setLength = riffSetSpan(resolver, rs, dst)
		for i := before; i < len(dst); i++ {
			dst[i].start += length
		}
		length += setLength
	}
	return dst, length
}

// riffArrangementSpan concatenates a RiffArrangement's items — RiffSets
// played directly, RiffSequences expanded per riffSequenceSpan — for
// RiffArrangement play mode. Placements are appended to dst, reusing its
// backing array.
func riffArrangementSpan(song *model.Song, resolver *model.Resolver, arr *model.RiffArrangement, dst []placement) (placements []placement, length float64) {
	for _, item := range arr.Items {
		before := len(dst)
		var itemLength float64
		switch item.Kind {
		case model.ArrangementItemRiffSet:
			if rs := riffSetByID(song, item.ID); rs != nil {
				dst, itemLength = riffSetSpan(resolver, rs, dst)
			}
		case model.ArrangementItemRiffSequence:
			if seq := riffSequenceByID(song, item.ID); seq != nil {
				dst, itemLength = riffSequenceSpan(song, resolver, seq, dst)
			}
		}
		for i := before; i < len(dst); i++ {
			dst[i].start += length
		}
		length += itemLength
	}
	return dst, length
}

// shiftPlacements translates placements from absolute song-beat
// positions into a loop's local [0, length) domain, dropping any
// placement whose riff span does not overlap [offset, offset+length) at
// all. Without this, LoopRangeMode would compare absolute placement
// starts against the 0-based segment windows splitSegments produces,
// and a loop whose Start is not 0 would never match anything.
//
// Filtering happens in place, over placements' own backing array, so
// this never allocates.
func shiftPlacements(placements []placement, offset, length float64) []placement {
	out := placements[:0]
	for _, p := range placements {
		if p.start+p.riff.Length <= offset || p.start >= offset+length {
			continue
		}
		p.start -= offset
		out = append(out, p)
	}
	return out
}

// songArrangementPlacements builds placements straight from every
// instrument track's RiffReferences, for SongArrangement play mode.
// There is no overall length: the song's timeline is unbounded.
// Placements are appended to dst, reusing its backing array.
func songArrangementPlacements(song *model.Song, resolver *model.Resolver, dst []placement) []placement {
	for i := range song.Tracks {
		t := &song.Tracks[i]
		if t.Kind != model.InstrumentTrack {
			continue
		}
		for _, ref := range t.RiffReferences {
			riff, ok := resolver.Riff(ref.LinkedTo)
			if !ok || riff.Length <= 0 {
				continue
			}
			dst = append(dst, placement{trackID: t.ID, riff: riff, start: ref.Position})
		}
	}
	return dst
}
