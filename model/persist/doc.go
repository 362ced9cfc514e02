// Package persist implements the on-disk project file format: a JSON
// document shaped `{"song": Song}`, with Track and TimedEvent as
// tagged unions keyed by their kind, preset bytes base64-encoded
// (encoding/json's native []byte behaviour), and an optional LZMA
// wrapper with magic header "FDAW", auto-detected on read.
//
// Grounded on sointu's tracker/files.go (ReadSong/WriteSong's
// dual-format sniff) and tracker/midi.go's hand-rolled MarshalJSON for a
// shape encoding/json cannot express as a struct (there: a map with
// struct keys; here: a closed set of tagged unions).
package persist
