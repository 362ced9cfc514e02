package control

import (
	"github.com/google/uuid"

	"github.com/riffdaw/engine/transport"
)

// ErrorKind is the closed set of error categories.
type ErrorKind int

const (
	PluginLoad ErrorKind = iota
	PluginInitialise
	PluginProcess
	Scheduling
	Transport
	Persistence
	Device
)

func (k ErrorKind) String() string {
	switch k {
	case PluginLoad:
		return "PluginLoad"
	case PluginInitialise:
		return "PluginInitialise"
	case PluginProcess:
		return "PluginProcess"
	case Scheduling:
		return "Scheduling"
	case Transport:
		return "Transport"
	case Persistence:
		return "Persistence"
	case Device:
		return "Device"
	default:
		return "UnknownErrorKind"
	}
}

// Notification is the closed set of engine -> UI messages. Delivery is
// at-least-once: the UI must treat repeated or out-of-order-but-monotonic
// notifications as idempotent.
type Notification interface {
	notificationKind()
}

// PlayPositionUpdate carries the transport's current read-only snapshot.
// BlockIndex is monotonically increasing.
type PlayPositionUpdate struct {
	Snapshot transport.Snapshot
}

func (PlayPositionUpdate) notificationKind() {}

// ParameterChanged reports a plugin-initiated parameter edit, fired from
// the plugin's own ParameterChanged callback (its own UI was used).
type ParameterChanged struct {
	PluginID    uuid.UUID
	ParameterID int32
	Value       float64
}

func (ParameterChanged) notificationKind() {}

// PluginWindowResize forwards a plugin's editor resize request.
type PluginWindowResize struct {
	PluginID uuid.UUID
	Width    int
	Height   int
}

func (PluginWindowResize) notificationKind() {}

// PresetSaved carries a plugin's current preset bytes back to the
// control plane in response to a SavePresetFromPlugin command, for the
// persistence layer to fold into the project's PluginRef.
type PresetSaved struct {
	PluginID uuid.UUID
	Preset   []byte
}

func (PresetSaved) notificationKind() {}

// Error reports an engine-side failure. TrackID is set when the failure
// is scoped to one track (e.g. PluginProcess); it is nil for session-wide
// failures (e.g. Persistence, Device).
type Error struct {
	Kind    ErrorKind
	TrackID *uuid.UUID
	Err     error
}

func (Error) notificationKind() {}
