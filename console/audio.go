package console

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// audioSampleRate matches ebiten's audio context default.
const audioSampleRate = 44100

// AudioStub is a placeholder output device for the front end. APU
// synthesis is a non-goal (spec.md §1 Non-goals), so this plays
// silence rather than decoding the console's (nonexistent) audio
// channels; it exists so cmd/gintendo has somewhere to wire an
// audio.Player without pulling ebiten/audio into mos6502 or ppu.
type AudioStub struct {
	player *audio.Player
}

// NewAudioStub opens a player over 100ms of silence on ctx. A nil ctx
// disables audio entirely (Close becomes a no-op).
func NewAudioStub(ctx *audio.Context) (*AudioStub, error) {
	if ctx == nil {
		return &AudioStub{}, nil
	}
	silence := bytes.NewReader(make([]byte, audioSampleRate/10*4)) // 100ms of 16-bit stereo zeros
	p, err := ctx.NewPlayer(silence)
	if err != nil {
		return nil, err
	}
	return &AudioStub{player: p}, nil
}

// Play starts (or restarts) silent playback.
func (a *AudioStub) Play() {
	if a.player == nil {
		return
	}
	a.player.Rewind()
	a.player.Play()
}

// Close releases the underlying player, if any.
func (a *AudioStub) Close() error {
	if a.player == nil {
		return nil
	}
	return a.player.Close()
}
