package plugin

import (
	"github.com/google/uuid"

	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/model"
)

// ID names one live plugin instance. It is always the UUID of the
// model.PluginRef the instance was created from.
type ID = uuid.UUID

// State is the per-instance lifecycle: Created -> Activated ->
// Processing <-> Activated -> Destroyed.
type State int

const (
	Created State = iota
	Activated
	Processing
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Activated:
		return "Activated"
	case Processing:
		return "Processing"
	case Destroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// ParameterInfo describes one automatable parameter.
type ParameterInfo struct {
	ID                int32
	Title             string
	ShortTitle        string
	Units             string
	StepCount         int32 // 0 for continuous
	DefaultNormalised float64
	UnitID            int32
	Flags             uint32
}

// Callbacks are supplied at Create: ParameterChanged fires when the
// plugin's own UI edits a parameter; ResizeRequested fires when the
// plugin asks its embedded editor window be resized.
type Callbacks struct {
	ParameterChanged func(id ID, parameterID int32, normalised float64)
	ResizeRequested  func(id ID, width, height int)
}

// Native is the uniform surface a format adapter's NativeLoader hands
// back for one plugin instance — every per-instance operation, Destroy
// included, except creation, which NativeLoader itself owns.
type Native interface {
	Activate(on bool) error
	SetProcessing(on bool) error
	PushEvent(ev event.Event) error
	// SetParameter applies an out-of-band parameter change (e.g. from the
	// UI, not from automation) immediately rather than queuing it as a
	// Parameter event for the next block.
	SetParameter(parameterID int32, normalised float64) error
	// Process runs one block. inL/inR are nil for an instrument (no audio
	// input). ok is false if the plugin signalled failure; the caller
	// substitutes silence and keeps going.
	Process(inL, inR, outL, outR []float32) (ok bool, err error)
	GetPreset() ([]byte, error)
	SetPreset([]byte) error
	ParameterCount() int
	ParameterInfo(index int) (ParameterInfo, error)
	OpenEditor(nativeWindowID uintptr) error
	CloseEditor() error
	Destroy() error
}

// NativeLoader constructs a Native instance for one plugin reference. It
// is the seam across which an embedding application's real dlopen/cgo
// bridge is injected; this module never implements one itself.
type NativeLoader interface {
	Load(ref model.PluginRef, sampleRate, blockSize int, cb Callbacks) (Native, error)
}
