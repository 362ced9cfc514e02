// Package oto bridges the engine's per-block rendering to the local
// sound card via ebitengine/oto/v3. Grounded on sointu's oto/oto.go
// OtoContext/OtoOutput split, adapted from oto v2's push-style
// Player.Write to v3's pull-style Player, which reads PCM bytes from
// an io.Reader as the device callback needs them.
package oto

import (
	"fmt"

	oto "github.com/ebitengine/oto/v3"

	"github.com/riffdaw/engine/engine"
)

const channelCount = 2

// Sink owns the process-wide oto Context and one Player pulling
// rendered blocks from an Engine.
type Sink struct {
	ctx    *oto.Context
	player *oto.Player
	reader *blockReader
}

// NewSink opens the default output device at sampleRate and wires a
// Player that pulls blockSize-sample blocks from eng on demand.
func NewSink(eng *engine.Engine, sampleRate, blockSize int) (*Sink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("oto: cannot create context: %w", err)
	}
	<-ready
	r := &blockReader{engine: eng, blockSize: blockSize}
	return &Sink{ctx: ctx, player: ctx.NewPlayer(r), reader: r}, nil
}

// Play starts pulling blocks from the engine; the device callback runs
// on its own goroutine, so this call returns immediately.
func (s *Sink) Play() { s.player.Play() }

// Pause stops pulling blocks without releasing the player.
func (s *Sink) Pause() { s.player.Pause() }

// Close stops playback and releases the player.
func (s *Sink) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("oto: cannot close player: %w", err)
	}
	return nil
}

// blockReader adapts Engine.ProcessBlock's push model to io.Reader's
// pull model: every Read renders exactly one more block once the bytes
// left over from the previous block are exhausted.
type blockReader struct {
	engine      *engine.Engine
	blockSize   int
	left, right []float32
	pending     []byte
}

func (r *blockReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		if r.left == nil {
			r.left = make([]float32, r.blockSize)
			r.right = make([]float32, r.blockSize)
		}
		if err := r.engine.ProcessBlock(r.left, r.right); err != nil {
			return 0, fmt.Errorf("oto: rendering block: %w", err)
		}
		r.pending = InterleaveFloat32LE(r.left, r.right, r.pending[:0])
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
