// Package control implements the control plane: a bidirectional
// message-passing bridge between the non-realtime threads (UI, project
// load/save, worker) and the realtime audio thread.
//
// Grounded directly on sointu's tracker/broker.go: one channel per
// recipient, a sync.Pool for buffer reuse, and the TrySend/TimeoutReceive
// non-blocking helpers. sointu's fixed ToModel/ToPlayer/ToDetector/ToGUI
// channel set is generalized to this engine's two recipients — ToEngine
// (commands, consumed by the audio thread at block start) and ToUI
// (notifications) — since this engine has no detector/GUI process split
// to mirror.
package control
