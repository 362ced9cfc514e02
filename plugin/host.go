package plugin

import (
	"fmt"
	"sync"

	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/model"
)

// ErrInvalidTransition reports an operation attempted from a State that
// does not permit it — e.g. Process is legal only in Processing.
type ErrInvalidTransition struct {
	ID        ID
	Operation string
	From      State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("plugin %s: %s is not valid in state %s", e.ID, e.Operation, e.From)
}

type instance struct {
	native Native
	state  State
	ref    model.PluginRef
}

// Host is the engine-owned map of live plugin instances keyed by UUID,
// reframing the native SDK's per-thread global registry as explicit
// state passed to every hosting call.
type Host struct {
	loaders map[model.PluginFormat]NativeLoader

	mu        sync.Mutex
	instances map[ID]*instance
}

// NewHost builds a Host that dispatches Create to the loader registered
// for each PluginFormat. A format with no registered loader makes Create
// return a plain error; there is no dedicated error type for it.
// engine.Worker reports Create failures as control.PluginLoad notifications.
func NewHost(loaders map[model.PluginFormat]NativeLoader) *Host {
	return &Host{loaders: loaders, instances: make(map[ID]*instance)}
}

// Create loads ref's plugin module and leaves the new instance in
// Created. sampleRate/blockSize are fixed for the session.
func (h *Host) Create(ref model.PluginRef, sampleRate, blockSize int, cb Callbacks) (ID, error) {
	loader, ok := h.loaders[ref.Format]
	if !ok {
		return ID{}, fmt.Errorf("plugin: no loader registered for format %s", ref.Format)
	}
	native, err := loader.Load(ref, sampleRate, blockSize, cb)
	if err != nil {
		return ID{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.instances[ref.ID] = &instance{native: native, state: Created, ref: ref}
	return ref.ID, nil
}

func (h *Host) get(id ID) (*instance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[id]
	if !ok {
		return nil, fmt.Errorf("plugin: no instance %s", id)
	}
	return inst, nil
}

// Activate transitions Created/Activated <-> Activated/Created.
func (h *Host) Activate(id ID, on bool) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	if inst.state == Processing {
		return &ErrInvalidTransition{ID: id, Operation: "Activate", From: inst.state}
	}
	if err := inst.native.Activate(on); err != nil {
		return err
	}
	if on {
		inst.state = Activated
	} else {
		inst.state = Created
	}
	return nil
}

// SetProcessing transitions Activated <-> Processing.
func (h *Host) SetProcessing(id ID, on bool) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	if on && inst.state != Activated {
		return &ErrInvalidTransition{ID: id, Operation: "SetProcessing(true)", From: inst.state}
	}
	if !on && inst.state != Processing {
		return &ErrInvalidTransition{ID: id, Operation: "SetProcessing(false)", From: inst.state}
	}
	if err := inst.native.SetProcessing(on); err != nil {
		return err
	}
	if on {
		inst.state = Processing
	} else {
		inst.state = Activated
	}
	return nil
}

// PushEvent queues one event for the next Process call; legal in
// Processing only.
func (h *Host) PushEvent(id ID, ev event.Event) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	if inst.state != Processing {
		return &ErrInvalidTransition{ID: id, Operation: "PushEvent", From: inst.state}
	}
	return inst.native.PushEvent(ev)
}

// Process runs one block; legal in Processing only.
func (h *Host) Process(id ID, inL, inR, outL, outR []float32) (ok bool, err error) {
	inst, err := h.get(id)
	if err != nil {
		return false, err
	}
	if inst.state != Processing {
		return false, &ErrInvalidTransition{ID: id, Operation: "Process", From: inst.state}
	}
	return inst.native.Process(inL, inR, outL, outR)
}

// SetParameter applies an immediate, out-of-band parameter change; legal
// once the instance has been activated.
func (h *Host) SetParameter(id ID, parameterID int32, normalised float64) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	if inst.state == Created || inst.state == Destroyed {
		return &ErrInvalidTransition{ID: id, Operation: "SetParameter", From: inst.state}
	}
	return inst.native.SetParameter(parameterID, normalised)
}

func (h *Host) GetPreset(id ID) ([]byte, error) {
	inst, err := h.get(id)
	if err != nil {
		return nil, err
	}
	return inst.native.GetPreset()
}

func (h *Host) SetPreset(id ID, preset []byte) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	return inst.native.SetPreset(preset)
}

func (h *Host) ParameterCount(id ID) (int, error) {
	inst, err := h.get(id)
	if err != nil {
		return 0, err
	}
	return inst.native.ParameterCount(), nil
}

func (h *Host) ParameterInfo(id ID, index int) (ParameterInfo, error) {
	inst, err := h.get(id)
	if err != nil {
		return ParameterInfo{}, err
	}
	return inst.native.ParameterInfo(index)
}

// OpenEditor embeds the plugin's editor into nativeWindowID; the caller
// owns that window's lifetime.
func (h *Host) OpenEditor(id ID, nativeWindowID uintptr) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	return inst.native.OpenEditor(nativeWindowID)
}

func (h *Host) CloseEditor(id ID) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	return inst.native.CloseEditor()
}

// Destroy releases id's resources and removes it from the registry.
// The caller must have already closed the editor and deactivated
// before calling Destroy; Destroy itself does not cascade those steps,
// since they cross thread boundaries (worker thread destroys, but the
// editor close happens on the UI/run-loop
// thread) that Host does not arbitrate.
func (h *Host) Destroy(id ID) error {
	inst, err := h.get(id)
	if err != nil {
		return err
	}
	if inst.state == Processing {
		return &ErrInvalidTransition{ID: id, Operation: "Destroy", From: inst.state}
	}
	if err := inst.native.Destroy(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.instances, id)
	return nil
}

// State reports id's current lifecycle state.
func (h *Host) State(id ID) (State, error) {
	inst, err := h.get(id)
	if err != nil {
		return Destroyed, err
	}
	return inst.state, nil
}
