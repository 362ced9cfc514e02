package model

import "github.com/google/uuid"

// RiffSet maps each track to the single riff it plays, starting from beat
// 0 ("RiffSet" play mode). Every Track UUID referenced here must be one
// currently present on the song (checked by Song.Validate).
type RiffSet struct {
	ID    uuid.UUID
	Name  string
	Riffs map[uuid.UUID]uuid.UUID // track UUID -> riff UUID
}

func (rs *RiffSet) Copy() RiffSet {
	out := *rs
	out.Riffs = make(map[uuid.UUID]uuid.UUID, len(rs.Riffs))
	for k, v := range rs.Riffs {
		out.Riffs[k] = v
	}
	return out
}

// RiffSequence is an ordered concatenation of riff sets, each contributing
// its own max-riff-length span of beats.
type RiffSequence struct {
	ID       uuid.UUID
	Name     string
	RiffSets []uuid.UUID
}

func (s *RiffSequence) Copy() RiffSequence {
	out := *s
	out.RiffSets = append([]uuid.UUID(nil), s.RiffSets...)
	return out
}

// ArrangementItemKind tags whether a RiffArrangement item is a RiffSet or a
// RiffSequence.
type ArrangementItemKind int

const (
	ArrangementItemRiffSet ArrangementItemKind = iota
	ArrangementItemRiffSequence
)

// ArrangementItem is one element of a RiffArrangement's ordered item list.
type ArrangementItem struct {
	Kind ArrangementItemKind
	ID   uuid.UUID // a RiffSet.ID or RiffSequence.ID, per Kind
}

// RiffArrangement concatenates riff sets and riff sequences in order.
type RiffArrangement struct {
	ID    uuid.UUID
	Name  string
	Items []ArrangementItem
}

func (a *RiffArrangement) Copy() RiffArrangement {
	out := *a
	out.Items = append([]ArrangementItem(nil), a.Items...)
	return out
}

// LoopRange names a [Start, End) beat range for LoopRange play mode; the
// other play modes do not use a loop range. End must be strictly greater
// than Start.
type LoopRange struct {
	Name  string
	Start float64
	End   float64
}

// RiffGrid is a free-form, per-track timeline of RiffReferences that isn't
// composed into any RiffSet/Sequence/Arrangement — used for auditioning
// riff placements directly. Grounded on original_source/riff-daw's
// grid.rs; its semantics are just "a track's own RiffReferences," already
// modelled by Track.RiffReferences, but RiffGrid exists as a named,
// addressable grouping of such placements so the audition/control-plane
// surface can refer to "this grid" as a unit distinct from the track's
// permanent placements used in SongArrangement mode.
type RiffGrid struct {
	ID             uuid.UUID
	Name           string
	RiffReferences map[uuid.UUID][]RiffReference // track UUID -> placements
}

func (g *RiffGrid) Copy() RiffGrid {
	out := *g
	out.RiffReferences = make(map[uuid.UUID][]RiffReference, len(g.RiffReferences))
	for k, v := range g.RiffReferences {
		out.RiffReferences[k] = append([]RiffReference(nil), v...)
	}
	return out
}
