package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/riffdaw/engine/control"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/plugin"
)

// Worker performs everything a Command might need that must not run on
// the audio thread: loading/destroying plugin instances and reading or
// writing preset bytes. It owns no state of its own beyond a reference
// to the Engine whose SlowCommands it drains, matching sointu's
// separation of tracker/model.go's "detector" goroutine from the
// realtime player loop.
type Worker struct {
	engine *Engine
}

// NewWorker builds a Worker bound to engine.
func NewWorker(engine *Engine) *Worker {
	return &Worker{engine: engine}
}

// Run drains engine.SlowCommands until closed is signalled, as part of
// the shutdown sequence that drains the control plane before destroying
// plugins. Intended to run in its own goroutine.
func (w *Worker) Run(closed <-chan struct{}) {
	cmds := w.engine.SlowCommands()
	for {
		select {
		case <-closed:
			return
		case cmd := <-cmds:
			w.handle(cmd)
		}
	}
}

func (w *Worker) handle(cmd control.Command) {
	switch c := cmd.(type) {
	case control.AddTrack:
		w.addTrack(c.Track)
	case control.RemoveTrack:
		w.removeTrack(c.TrackID)
	case control.LoadProject:
		w.loadProject(c.Song)
	case control.SavePresetFromPlugin:
		w.savePreset(c.PluginID)
	}
}

func (w *Worker) reportError(kind control.ErrorKind, err error) {
	w.engine.broker.SendNotification(control.Error{Kind: kind, Err: err})
}

// createChain loads and activates a track's instrument and effect chain,
// leaving every instance in Processing, ready to be handed to the audio
// thread. Create/activate/setProcessing all happen here, off the audio
// thread; the audio thread only ever calls PushEvent/Process/SetParameter
// on instances already in Processing.
func (w *Worker) createChain(t *model.Track) (plugin.ID, []plugin.ID, error) {
	host := w.engine.Host()
	if t.Instrument == nil {
		return plugin.ID{}, nil, fmt.Errorf("engine: track %s has no instrument", t.ID)
	}
	instrumentID, err := w.bringUp(host, *t.Instrument)
	if err != nil {
		return plugin.ID{}, nil, err
	}
	effects := make([]plugin.ID, 0, len(t.Effects))
	for i := range t.Effects {
		id, err := w.bringUp(host, t.Effects[i])
		if err != nil {
			w.tearDown(host, instrumentID)
			for _, e := range effects {
				w.tearDown(host, e)
			}
			return plugin.ID{}, nil, err
		}
		effects = append(effects, id)
	}
	return instrumentID, effects, nil
}

func (w *Worker) bringUp(host *plugin.Host, ref model.PluginRef) (plugin.ID, error) {
	id, err := host.Create(ref, w.engine.sampleRate, w.engine.blockSize, plugin.Callbacks{
		ParameterChanged: func(id plugin.ID, parameterID int32, normalised float64) {
			w.engine.broker.SendNotification(control.ParameterChanged{PluginID: id, ParameterID: parameterID, Value: normalised})
		},
		ResizeRequested: func(id plugin.ID, width, height int) {
			w.engine.broker.SendNotification(control.PluginWindowResize{PluginID: id, Width: width, Height: height})
		},
	})
	if err != nil {
		return plugin.ID{}, fmt.Errorf("engine: loading plugin %s: %w", ref.ID, err)
	}
	if len(ref.Preset) > 0 {
		if err := host.SetPreset(id, ref.Preset); err != nil {
			w.tearDown(host, id)
			return plugin.ID{}, err
		}
	}
	if err := host.Activate(id, true); err != nil {
		w.tearDown(host, id)
		return plugin.ID{}, err
	}
	if err := host.SetProcessing(id, true); err != nil {
		w.tearDown(host, id)
		return plugin.ID{}, err
	}
	return id, nil
}

// tearDown walks id back down through Processing/Activated to Destroyed,
// tolerating whichever state it was actually left in by a failed
// bringUp, in the required unwind order: editor closed, then
// deactivated, then released.
func (w *Worker) tearDown(host *plugin.Host, id plugin.ID) {
	state, err := host.State(id)
	if err != nil {
		return
	}
	_ = host.CloseEditor(id)
	if state == plugin.Processing {
		_ = host.SetProcessing(id, false)
		state = plugin.Activated
	}
	if state == plugin.Activated {
		_ = host.Activate(id, false)
	}
	_ = host.Destroy(id)
}

func (w *Worker) addTrack(t model.Track) {
	instrument, effects, err := w.createChain(&t)
	if err != nil {
		w.reportError(control.PluginLoad, err)
		return
	}
	w.engine.AttachTrack(t.ID, instrument, effects)
}

func (w *Worker) removeTrack(trackID uuid.UUID) {
	song := w.engine.Song()
	if song == nil {
		return
	}
	for i := range song.Tracks {
		if song.Tracks[i].ID != trackID {
			continue
		}
		t := &song.Tracks[i]
		host := w.engine.Host()
		if t.Instrument != nil {
			w.tearDown(host, t.Instrument.ID)
		}
		for j := range t.Effects {
			w.tearDown(host, t.Effects[j].ID)
		}
		return
	}
}

func (w *Worker) loadProject(song model.Song) {
	if err := w.engine.LoadSong(song); err != nil {
		w.reportError(control.Persistence, err)
		return
	}
	for i := range song.Tracks {
		t := &song.Tracks[i]
		if t.Kind != model.InstrumentTrack {
			continue
		}
		instrument, effects, err := w.createChain(t)
		if err != nil {
			w.reportError(control.PluginLoad, err)
			continue
		}
		w.engine.AttachTrack(t.ID, instrument, effects)
	}
}

func (w *Worker) savePreset(pluginID uuid.UUID) {
	preset, err := w.engine.Host().GetPreset(pluginID)
	if err != nil {
		w.reportError(control.PluginProcess, err)
		return
	}
	buf := w.engine.broker.GetPresetBuffer()
	*buf = append((*buf)[:0], preset...)
	w.engine.broker.SendNotification(control.PresetSaved{PluginID: pluginID, Preset: append([]byte(nil), (*buf)...)})
	w.engine.broker.PutPresetBuffer(buf)
}
