package graph

import (
	"github.com/google/uuid"

	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/plugin"
	"github.com/riffdaw/engine/scheduler"
	"github.com/riffdaw/engine/transport"
)

// eventBufferCapacity bounds how many events one track can receive per
// block before event.Buffer.Push reports ErrOverflow. It comfortably
// exceeds any block this engine's tests schedule; a real deployment
// tunes it to its densest expected riff.
const eventBufferCapacity = 256

// trackRuntime is the live plugin wiring for one instrument track,
// installed by the worker thread via AttachTrack once its plugins have
// been created off the audio thread: plugin creation and destruction
// happen on a dedicated worker thread, and the audio thread receives
// only pointers to already-activated instances.
type trackRuntime struct {
	instrument plugin.ID
	effects    []plugin.ID

	scratchL, scratchR []float32
	eventScratch       []event.Event
}

// Graph is the Audio Graph: per-block, it drains each instrument track's
// Event Buffer, runs its plugin chain, and mixes to the master bus.
type Graph struct {
	host      *plugin.Host
	blockSize int

	buffers map[uuid.UUID]*event.Buffer
	runtime map[uuid.UUID]*trackRuntime

	// OnError is invoked on the audio thread when a plugin call fails;
	// the affected track is then silenced for the rest of the session.
	// Package engine sets it to send a control.Error notification without
	// blocking the audio thread.
	OnError func(trackID uuid.UUID, err error)

	// MasterGain is applied to the mixed master bus after every track
	// has been summed in.
	MasterGain float64

	silencedTracks map[uuid.UUID]bool
}

// New constructs a Graph that hosts plugins through host and processes
// blocks of blockSize frames.
func New(host *plugin.Host, blockSize int) *Graph {
	return &Graph{
		host:           host,
		blockSize:      blockSize,
		buffers:        make(map[uuid.UUID]*event.Buffer),
		runtime:        make(map[uuid.UUID]*trackRuntime),
		MasterGain:     1,
		silencedTracks: make(map[uuid.UUID]bool),
	}
}

// AttachTrack installs the live plugin handles for trackID's instrument
// and effect chain, and allocates its Event Buffer if this is the first
// attach. Package engine calls it on the audio thread, at the start of
// ProcessBlock, when it drains the attachments the worker thread queued;
// the worker never calls it directly.
func (g *Graph) AttachTrack(trackID uuid.UUID, instrument plugin.ID, effects []plugin.ID) {
	if _, ok := g.buffers[trackID]; !ok {
		g.buffers[trackID] = event.NewBuffer(eventBufferCapacity)
	}
	g.runtime[trackID] = &trackRuntime{
		instrument: instrument,
		effects:    append([]plugin.ID(nil), effects...),
		scratchL:   make([]float32, g.blockSize),
		scratchR:   make([]float32, g.blockSize),
	}
	delete(g.silencedTracks, trackID)
}

// DetachTrack removes trackID's live plugin wiring: removing a plugin
// during playback results in silence on that track and no crash.
func (g *Graph) DetachTrack(trackID uuid.UUID) {
	delete(g.runtime, trackID)
}

// Buffers exposes the per-track Event Buffers for Scheduler.Schedule to
// fill.
func (g *Graph) Buffers() map[uuid.UUID]*event.Buffer { return g.buffers }

// RenderBlock executes one audio callback's worth of work: advances the
// transport, asks the Scheduler to top up event buffers, then drains,
// processes and mixes every eligible track in that order. outL/outR must
// have length blockSize and are overwritten (not accumulated into).
func (g *Graph) RenderBlock(song *model.Song, resolver *model.Resolver, tr *transport.Transport, sched *scheduler.Scheduler, outL, outR []float32) error {
	bStart, bEnd := tr.Advance(g.blockSize)
	blockIndex := tr.BlockIndex()

	if err := sched.Schedule(song, resolver, tr, bStart, bEnd, blockIndex, g.blockSize, g.buffers); err != nil {
		return err
	}

	for i := range outL {
		outL[i] = 0
		outR[i] = 0
	}

	anySolo := false
	for i := range song.Tracks {
		if song.Tracks[i].Solo {
			anySolo = true
			break
		}
	}

	for i := range song.Tracks {
		t := &song.Tracks[i]
		if t.Kind != model.InstrumentTrack || t.Mute || g.silencedTracks[t.ID] {
			continue
		}
		if anySolo && !t.Solo {
			continue
		}
		g.renderTrack(t, blockIndex, outL, outR)
	}

	gain := float32(g.MasterGain)
	for i := range outL {
		outL[i] *= gain
		outR[i] *= gain
	}
	return nil
}

func (g *Graph) renderTrack(t *model.Track, blockIndex uint64, outL, outR []float32) {
	rt, ok := g.runtime[t.ID]
	if !ok {
		return // no live plugin wiring yet: contributes silence
	}
	buf := g.buffers[t.ID]
	if buf != nil {
		buf.Drain(blockIndex, &rt.eventScratch)
	} else {
		rt.eventScratch = rt.eventScratch[:0]
	}

	for _, ev := range rt.eventScratch {
		target := rt.instrument
		if ev.Kind == event.Parameter && ev.OnEffect {
			if int(ev.EffectIndex) >= len(rt.effects) {
				continue
			}
			target = rt.effects[ev.EffectIndex]
		}
		if err := g.host.PushEvent(target, ev); err != nil {
			g.fail(t.ID, err)
			return
		}
	}

	clear32(rt.scratchL)
	clear32(rt.scratchR)
	ok2, err := g.host.Process(rt.instrument, nil, nil, rt.scratchL, rt.scratchR)
	if err != nil {
		g.fail(t.ID, err)
		return
	}
	if !ok2 {
		clear32(rt.scratchL)
		clear32(rt.scratchR)
	}

	for _, effectID := range rt.effects {
		ok2, err = g.host.Process(effectID, rt.scratchL, rt.scratchR, rt.scratchL, rt.scratchR)
		if err != nil {
			g.fail(t.ID, err)
			return
		}
		if !ok2 {
			clear32(rt.scratchL)
			clear32(rt.scratchR)
		}
	}

	left, right := PanGains(t.Pan)
	volume := t.Volume
	for i := range outL {
		mono := 0.5 * (rt.scratchL[i] + rt.scratchR[i])
		outL[i] += mono * float32(volume*left)
		outR[i] += mono * float32(volume*right)
	}
}

// fail records trackID as silenced for the rest of the session — muted
// until the plugin is replaced — and reports err via OnError without
// blocking.
func (g *Graph) fail(trackID uuid.UUID, err error) {
	g.silencedTracks[trackID] = true
	if g.OnError != nil {
		g.OnError(trackID, err)
	}
}

// Unsilence clears trackID's silenced-for-session flag, used when the
// control plane replaces its plugin.
func (g *Graph) Unsilence(trackID uuid.UUID) {
	delete(g.silencedTracks, trackID)
}

func clear32(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
