package engine

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/riffdaw/engine/control"
	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/graph"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/plugin"
	"github.com/riffdaw/engine/scheduler"
	"github.com/riffdaw/engine/transport"
)

// trackAttachment is the worker thread's handoff of a freshly created (or
// recreated) plugin chain to the audio thread: the audio thread receives
// only pointers to already-activated instances, via the command queue.
type trackAttachment struct {
	trackID    uuid.UUID
	instrument plugin.ID
	effects    []plugin.ID
}

// Engine is the top-level wiring: one Transport, one Scheduler, one
// Graph, one plugin Host, bridged to the rest of the application through
// a Broker. ProcessBlock is the entire audio callback; everything else
// runs off the audio thread.
type Engine struct {
	broker    *control.Broker
	host      *plugin.Host
	graph     *graph.Graph
	sched     *scheduler.Scheduler
	transport *transport.Transport

	song     atomic.Pointer[model.Song]
	resolver atomic.Pointer[model.Resolver]

	attachments  chan trackAttachment
	slowCommands chan control.Command

	sampleRate int
	blockSize  int
}

// New constructs an Engine. host's loaders must already be registered
// for every plugin format the project may use.
func New(broker *control.Broker, host *plugin.Host, sampleRate, blockSize, timeSigNum int, bpm float64) *Engine {
	tr := transport.New(bpm, sampleRate, timeSigNum)
	e := &Engine{
		broker:       broker,
		host:         host,
		graph:        graph.New(host, blockSize),
		sched:        scheduler.New(),
		transport:    tr,
		attachments:  make(chan trackAttachment, 64),
		slowCommands: make(chan control.Command, 64),
		sampleRate:   sampleRate,
		blockSize:    blockSize,
	}
	e.graph.OnError = func(trackID uuid.UUID, err error) {
		id := trackID
		e.broker.SendNotification(control.Error{Kind: control.PluginProcess, TrackID: &id, Err: err})
	}
	return e
}

// LoadSong atomically swaps in a new, validated song snapshot and rebuilds
// its Resolver. The audio thread always sees an immutable, atomically
// swapped snapshot; this is the ONLY way the project model the audio
// thread sees ever changes. Call it from the control thread only, never
// from inside ProcessBlock.
func (e *Engine) LoadSong(song model.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}
	cp := song.Copy()
	e.song.Store(&cp)
	e.resolver.Store(model.NewResolver(&cp))
	return nil
}

// Song returns the song snapshot currently visible to the audio thread,
// or nil if none has been loaded yet.
func (e *Engine) Song() *model.Song { return e.song.Load() }

// Transport exposes the engine's Transport for control-plane commands
// and UI snapshot reads.
func (e *Engine) Transport() *transport.Transport { return e.transport }

// Host exposes the engine's plugin Host so the worker can create,
// destroy and query instances off the audio thread.
func (e *Engine) Host() *plugin.Host { return e.host }

// SlowCommands returns the channel of commands the audio thread has
// forwarded for off-thread handling (AddTrack, RemoveTrack, LoadProject,
// SavePresetFromPlugin). Only a Worker should receive from it.
func (e *Engine) SlowCommands() <-chan control.Command { return e.slowCommands }

// PushLiveEvent queues one event for delivery to trackID ahead of
// whatever the Scheduler drafts for the current block, for input that
// does not originate from the project's own riffs: a MIDI controller
// routed through midiio, or this engine itself running embedded as a
// plugin (cmd/riffd-vsti) and receiving events from its own host. Safe
// to call from any thread: the event travels through the same Broker
// queue as every other command and is applied on the audio thread,
// which is the Graph's event.Buffer map's only writer.
func (e *Engine) PushLiveEvent(trackID uuid.UUID, ev event.Event) bool {
	return e.broker.SendCommand(control.LiveEvent{TrackID: trackID, Event: ev})
}

func (e *Engine) pushLiveEvent(trackID uuid.UUID, ev event.Event) {
	buf, ok := e.graph.Buffers()[trackID]
	if !ok {
		return
	}
	ev.BlockIndex = e.transport.BlockIndex()
	if err := buf.Push(ev); err != nil {
		e.broker.SendNotification(control.Error{Kind: control.Scheduling, TrackID: &trackID, Err: err})
	}
}

// AttachTrack is called by the worker thread once it has created (or
// recreated) a track's plugin instances; the attachment is queued and
// applied on the audio thread at the next ProcessBlock, never applied
// directly from the worker.
func (e *Engine) AttachTrack(trackID uuid.UUID, instrument plugin.ID, effects []plugin.ID) {
	control.TrySend(e.attachments, trackAttachment{trackID: trackID, instrument: instrument, effects: effects})
}

// ProcessBlock is the entire realtime audio callback: drain commands,
// apply queued worker attachments, render one block. outL/outR must each
// have length blockSize.
func (e *Engine) ProcessBlock(outL, outR []float32) error {
	e.drainAttachments()
	e.drainCommands()

	song := e.song.Load()
	resolver := e.resolver.Load()
	if song == nil || resolver == nil {
		for i := range outL {
			outL[i], outR[i] = 0, 0
		}
		e.transport.Advance(e.blockSize)
		return nil
	}

	if err := e.graph.RenderBlock(song, resolver, e.transport, e.sched, outL, outR); err != nil {
		e.broker.SendNotification(control.Error{Kind: control.Scheduling, Err: err})
	}
	e.broker.SendNotification(control.PlayPositionUpdate{Snapshot: e.transport.Snapshot()})
	return nil
}

func (e *Engine) drainAttachments() {
	for {
		select {
		case a := <-e.attachments:
			e.graph.AttachTrack(a.trackID, a.instrument, a.effects)
		default:
			return
		}
	}
}

func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.broker.ToEngine:
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(cmd control.Command) {
	switch c := cmd.(type) {
	case control.TransportPlay:
		e.transport.Play(c.Mode, c.From)
	case control.TransportStop:
		if e.transport.Stop() {
			e.allNotesOff()
		}
	case control.TransportSeek:
		if e.transport.Seek(c.Beat) {
			e.allNotesOff()
		}
	case control.SetParameter:
		if err := e.host.SetParameter(c.PluginID, c.ParameterID, c.Value); err != nil {
			e.broker.SendNotification(control.Error{Kind: control.PluginProcess, Err: err})
		}
	case control.LiveEvent:
		e.pushLiveEvent(c.TrackID, c.Event)
	case control.RemoveTrack:
		// Detach immediately so the track goes silent this block; the
		// worker destroys the underlying plugin instances afterwards.
		e.graph.DetachTrack(c.TrackID)
		control.TrySend(e.slowCommands, cmd)
	default:
		// AddTrack, LoadProject, SavePresetFromPlugin need plugin
		// creation, preset I/O or large copies, none of which may run on
		// the audio thread; hand them to the worker.
		control.TrySend(e.slowCommands, cmd)
	}
}

func (e *Engine) allNotesOff() {
	song := e.song.Load()
	if song == nil {
		return
	}
	blockIndex := e.transport.BlockIndex()
	for i := range song.Tracks {
		if song.Tracks[i].Kind != model.InstrumentTrack {
			continue
		}
		buf, ok := e.graph.Buffers()[song.Tracks[i].ID]
		if !ok {
			continue
		}
		if err := buf.Push(event.Event{BlockIndex: blockIndex, SampleOffset: 0, Kind: event.AllNotesOff}); err != nil {
			id := song.Tracks[i].ID
			e.broker.SendNotification(control.Error{Kind: control.Scheduling, TrackID: &id, Err: err})
		}
	}
}
