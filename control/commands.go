package control

import (
	"github.com/google/uuid"

	"github.com/riffdaw/engine/event"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/transport"
)

// Command is the closed set of UI/worker -> engine messages. Each
// carries a Sequence for the at-most-once delivery guarantee
// state-changing commands require.
type Command interface {
	commandKind()
	sequence() uint64
}

// CommandMeta embeds the sequence number every concrete Command carries.
type CommandMeta struct {
	Sequence uint64
}

func (m CommandMeta) sequence() uint64 { return m.Sequence }

// TransportPlay starts playback in the given mode, optionally seeking
// first.
type TransportPlay struct {
	CommandMeta
	Mode transport.PlayMode
	From *float64
}

func (TransportPlay) commandKind() {}

// TransportStop stops playback.
type TransportStop struct{ CommandMeta }

func (TransportStop) commandKind() {}

// TransportSeek moves the playback position.
type TransportSeek struct {
	CommandMeta
	Beat float64
}

func (TransportSeek) commandKind() {}

// AddTrack appends a track to the song.
type AddTrack struct {
	CommandMeta
	Track model.Track
}

func (AddTrack) commandKind() {}

// RemoveTrack removes the track with the given UUID.
type RemoveTrack struct {
	CommandMeta
	TrackID uuid.UUID
}

func (RemoveTrack) commandKind() {}

// LoadProject atomically swaps in a new song snapshot.
type LoadProject struct {
	CommandMeta
	Song model.Song
}

func (LoadProject) commandKind() {}

// SavePresetFromPlugin asks the worker to fetch and persist a plugin's
// current preset bytes into its PluginRef.
type SavePresetFromPlugin struct {
	CommandMeta
	PluginID uuid.UUID
}

func (SavePresetFromPlugin) commandKind() {}

// SetParameter sets a normalised parameter value on a live plugin
// instance.
type SetParameter struct {
	CommandMeta
	PluginID    uuid.UUID
	ParameterID int32
	Value       float64
}

func (SetParameter) commandKind() {}

// LiveEvent delivers one event to a track's buffer outside of whatever
// the Scheduler drafts from the project's own riffs: live MIDI input or
// this engine running embedded as a plugin in another host.
type LiveEvent struct {
	CommandMeta
	TrackID uuid.UUID
	Event   event.Event
}

func (LiveEvent) commandKind() {}
