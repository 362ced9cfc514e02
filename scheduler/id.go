package scheduler

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// noteID derives a stable identifier for a Note's On/Off pair from the
// riff event's position in the project model, not from when it happens to
// be scheduled. Because a riff's own invariant — a note's end may not
// exceed the riff length — guarantees a note is released before its riff
// can loop back around to the same event, track+riff+event-index is
// enough to disambiguate every live NoteOn from every other one without
// carrying occurrence counters across blocks.
func noteID(trackID, riffID uuid.UUID, eventIndex int) int32 {
	h := fnv.New32a()
	h.Write(trackID[:])
	h.Write(riffID[:])
	h.Write([]byte{byte(eventIndex), byte(eventIndex >> 8), byte(eventIndex >> 16), byte(eventIndex >> 24)})
	return int32(h.Sum32())
}
