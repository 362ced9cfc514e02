package transport

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// PlayState is the transport's top-level state.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
)

// PlayMode selects which composite structure the Scheduler materializes
// events from.
type PlayMode int

const (
	SongArrangement PlayMode = iota
	RiffSetMode
	RiffSequenceMode
	RiffArrangementMode
	LoopRangeMode
)

// AuditionKind tags what kind of object AuditionRef.ID names.
type AuditionKind int

const (
	AuditionNone AuditionKind = iota
	AuditionRiff
	AuditionRiffSet
	AuditionRiffSequence
	AuditionRiffArrangement
)

// AuditionRef is the transport's "audition" selection: a riff, riff set,
// riff sequence, or arrangement chosen for standalone playback.
type AuditionRef struct {
	Kind AuditionKind
	ID   uuid.UUID
}

// LoopRange confines playback when non-nil and Transport.Mode ==
// LoopRangeMode. The other play modes ignore it.
type LoopRange struct {
	Start float64
	End   float64
}

// Snapshot is the read-only, atomically published view of transport
// state the UI thread observes: current beat, current bar, current
// play mode, and the rest of the position fields below.
type Snapshot struct {
	State      PlayState
	Mode       PlayMode
	Beat       float64
	Bar        int
	Sample     int64
	BlockIndex uint64
	Loop       *LoopRange
	Audition   AuditionRef
}

// Transport is the playback position/state machine. It is mutated only by
// the audio thread; other threads only ever read Snapshot().
type Transport struct {
	bpm        float64
	sampleRate int
	timeSigNum int
	beatSample int64 // sample position since Play(), i.e. currentSample - playStartSample + startBeat's worth of samples
	state      PlayState
	mode       PlayMode
	loop       *LoopRange
	audition   AuditionRef
	blockIndex uint64

	snapshot atomic.Pointer[Snapshot]
}

// New constructs a Transport for the given tempo, sample rate and time
// signature numerator (used only to compute Snapshot.Bar).
func New(bpm float64, sampleRate, timeSigNum int) *Transport {
	t := &Transport{bpm: bpm, sampleRate: sampleRate, timeSigNum: timeSigNum, state: Stopped}
	t.publish()
	return t
}

// SetTempo updates the BPM used for beat↔sample conversion. Sample rate
// and block size are fixed for a session, but tempo is not.
func (t *Transport) SetTempo(bpm float64) {
	beat := t.CurrentBeat()
	t.bpm = bpm
	t.beatSample = BeatsToSamples(beat, bpm, t.sampleRate)
}

// CurrentBeat returns the transport's current position in beats.
func (t *Transport) CurrentBeat() float64 {
	return SamplesToBeats(t.beatSample, t.bpm, t.sampleRate)
}

// CurrentSample returns the transport's current position in samples,
// counted from beat 0 at the current tempo.
func (t *Transport) CurrentSample() int64 { return t.beatSample }

// State, Mode, Loop and Audition report the transport's current
// configuration, read by the Scheduler within the same (audio) thread.
func (t *Transport) State() PlayState      { return t.state }
func (t *Transport) Mode() PlayMode        { return t.mode }
func (t *Transport) Loop() *LoopRange      { return t.loop }
func (t *Transport) Audition() AuditionRef { return t.audition }
func (t *Transport) BlockIndex() uint64    { return t.blockIndex }

// SetLoop installs or clears the active loop range.
func (t *Transport) SetLoop(l *LoopRange) { t.loop = l }

// SetAudition installs the audition selection used by non-SongArrangement
// play modes.
func (t *Transport) SetAudition(a AuditionRef) { t.audition = a }

// Play transitions Stopped -> Playing (or restarts from a new position
// while already Playing). fromBeat is nil to resume from the current
// position.
func (t *Transport) Play(mode PlayMode, fromBeat *float64) {
	t.mode = mode
	if fromBeat != nil {
		t.beatSample = BeatsToSamples(*fromBeat, t.bpm, t.sampleRate)
	}
	t.state = Playing
	t.publish()
}

// Stop transitions Playing -> Stopped. This must emit an all-notes-off
// for every active track before returning to Stopped; the
// caller (package engine) is responsible for actually emitting those
// events — Stop only flips the state and returns needsAllNotesOff=true so
// the caller knows to do so.
func (t *Transport) Stop() (needsAllNotesOff bool) {
	if t.state == Stopped {
		return false
	}
	t.state = Stopped
	t.publish()
	return true
}

// Seek moves the playback position without changing PlayState. Like
// Stop, it returns needsAllNotesOff=true when the transport is Playing;
// while Stopped it only moves the position and returns false.
func (t *Transport) Seek(beat float64) (needsAllNotesOff bool) {
	t.beatSample = BeatsToSamples(beat, t.bpm, t.sampleRate)
	t.publish()
	return t.state == Playing
}

// WrapTo resets the transport's position to beat without changing
// PlayState, used by the Scheduler when a play mode's total length has
// been exceeded (RiffSet/Sequence/Arrangement looping, or LoopRange mode's
// end->start wrap). Returns needsAllNotesOff, always true, since any wrap
// must release in-flight notes.
func (t *Transport) WrapTo(beat float64) (needsAllNotesOff bool) {
	t.beatSample = BeatsToSamples(beat, t.bpm, t.sampleRate)
	t.publish()
	return true
}

// Advance moves the transport forward by blockSize samples (one audio
// callback quantum) and returns the beat-domain window [bStart, bEnd) the
// Scheduler must materialize events for. It only advances while Playing;
// while Stopped it returns an empty window.
func (t *Transport) Advance(blockSize int) (bStart, bEnd float64) {
	bStart = t.CurrentBeat()
	if t.state != Playing {
		t.blockIndex++
		return bStart, bStart
	}
	t.beatSample += int64(blockSize)
	t.blockIndex++
	bEnd = t.CurrentBeat()
	t.publish()
	return bStart, bEnd
}

func (t *Transport) publish() {
	var loop *LoopRange
	if t.loop != nil {
		cp := *t.loop
		loop = &cp
	}
	beat := t.CurrentBeat()
	bar := 0
	if t.timeSigNum > 0 {
		bar = int(beat) / t.timeSigNum
	}
	t.snapshot.Store(&Snapshot{
		State:      t.state,
		Mode:       t.mode,
		Beat:       beat,
		Bar:        bar,
		Sample:     t.beatSample,
		BlockIndex: t.blockIndex,
		Loop:       loop,
		Audition:   t.audition,
	})
}

// Snapshot returns the most recently published read-only snapshot. Safe to
// call from any thread.
func (t *Transport) Snapshot() Snapshot {
	if s := t.snapshot.Load(); s != nil {
		return *s
	}
	return Snapshot{}
}
