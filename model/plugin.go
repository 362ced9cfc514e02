package model

import "github.com/google/uuid"

// PluginFormat tags which native ABI a PluginRef targets.
type PluginFormat int

const (
	FormatVST2 PluginFormat = iota
	FormatVST3
	FormatCLAP
)

func (f PluginFormat) String() string {
	switch f {
	case FormatVST2:
		return "VST2"
	case FormatVST3:
		return "VST3"
	case FormatCLAP:
		return "CLAP"
	default:
		return "UnknownFormat"
	}
}

// PluginRef is a project-model reference to a hosted plugin instance
// (instrument or effect). The live plugin.Native handle lives in the audio
// engine, keyed by ID; PluginRef only records what is needed to recreate or
// persist it.
//
// Category, ShellSubID and IsInstrument are carried over from
// original_source/riff-daw's PluginParameter/track handling.
type PluginRef struct {
	ID           uuid.UUID
	Name         string
	Format       PluginFormat
	Path         string
	Category     string
	ShellSubID   int32
	IsInstrument bool

	Preset     []byte
	Parameters map[int32]float64 // last-known normalised parameter snapshot, by parameter ID
}

func (p *PluginRef) Copy() PluginRef {
	out := *p
	out.Preset = append([]byte(nil), p.Preset...)
	out.Parameters = make(map[int32]float64, len(p.Parameters))
	for k, v := range p.Parameters {
		out.Parameters[k] = v
	}
	return out
}
