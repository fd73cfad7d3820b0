package console

import (
	"context"
	"image/color"
	"sync"

	"github.com/bdwalton/gintendo/mappers"
	"github.com/bdwalton/gintendo/ppu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// audioCtxOnce guards ebiten/audio's singleton context, which panics if
// constructed more than once per process.
var audioCtxOnce struct {
	sync.Once
	ctx *audio.Context
}

func sharedAudioContext() *audio.Context {
	audioCtxOnce.Do(func() {
		audioCtxOnce.ctx = audio.NewContext(audioSampleRate)
	})
	return audioCtxOnce.ctx
}

// Keymap binds each Button to the ebiten key that drives it, so the
// CLI can select between named input profiles (spec.md §6 "nemu
// <profile> <rom>").
type Keymap map[Button]ebiten.Key

// DefaultKeymap is the "default" input profile.
var DefaultKeymap = Keymap{
	ButtonA:      ebiten.KeyZ,
	ButtonB:      ebiten.KeyX,
	ButtonSelect: ebiten.KeyShift,
	ButtonStart:  ebiten.KeyEnter,
	ButtonUp:     ebiten.KeyUp,
	ButtonDown:   ebiten.KeyDown,
	ButtonLeft:   ebiten.KeyLeft,
	ButtonRight:  ebiten.KeyRight,
}

// WASDKeymap is the "wasd" input profile.
var WASDKeymap = Keymap{
	ButtonA:      ebiten.KeyPeriod,
	ButtonB:      ebiten.KeyComma,
	ButtonSelect: ebiten.KeyTab,
	ButtonStart:  ebiten.KeyEnter,
	ButtonUp:     ebiten.KeyW,
	ButtonDown:   ebiten.KeyS,
	ButtonLeft:   ebiten.KeyA,
	ButtonRight:  ebiten.KeyD,
}

// Profiles is the CLI's built-in named keymap table.
var Profiles = map[string]Keymap{
	"default": DefaultKeymap,
	"wasd":    WASDKeymap,
}

// Console adapts a Bus to ebiten.Game: Update polls the keyboard into
// player 1's gamepad, Draw blits the PPU's palette-index canvas, and
// the emulation itself advances on a separate goroutine started by Run
// (spec.md §5 "ebiten's Update/Draw run on the UI goroutine; Run's
// goroutine is the sole writer of CPU/PPU state").
type Console struct {
	*Bus
	keymap Keymap
	audio  *AudioStub
}

// NewConsole constructs a Console around a loaded mapper. A nil keymap
// selects DefaultKeymap.
func NewConsole(m mappers.Mapper, strict bool, keymap Keymap) *Console {
	if keymap == nil {
		keymap = DefaultKeymap
	}

	stub, err := NewAudioStub(sharedAudioContext())
	if err != nil {
		logger.Printf("audio stub disabled: %v", err)
		stub, _ = NewAudioStub(nil)
	}

	return &Console{Bus: New(m, strict), keymap: keymap, audio: stub}
}

// Run drives the master clock until ctx is cancelled. Intended to run
// on its own goroutine alongside ebiten.RunGame.
func (c *Console) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			c.Bus.Tick()
		}
	}
}

// Update implements ebiten.Game. The emulation advances on Run's
// goroutine; Update translates keyboard state into player 1's gamepad,
// since only the UI goroutine may call ebiten.IsKeyPressed, and
// restarts the silent audio stub.
func (c *Console) Update() error {
	pad := c.Gamepad(0)
	for btn, key := range c.keymap {
		if ebiten.IsKeyPressed(key) {
			pad.Press(btn)
		} else {
			pad.Release(btn)
		}
	}
	c.audio.Play()
	return nil
}

// Draw implements ebiten.Game, converting the PPU's palette-index
// canvas to RGB only at this boundary (spec.md §4.9).
func (c *Console) Draw(screen *ebiten.Image) {
	frame := c.FrameCanvas()
	for y := 0; y < ppu.NES_RES_HEIGHT; y++ {
		for x := 0; x < ppu.NES_RES_WIDTH; x++ {
			r, g, b := ppu.RGB(frame[y][x])
			screen.Set(x, y, color.RGBA{r, g, b, 0xFF})
		}
	}
}

// Layout implements ebiten.Game, returning the NES's fixed resolution
// so ebiten scales the window rather than the emulated picture.
func (c *Console) Layout(outsideWidth, outsideHeight int) (int, int) {
	return c.Resolution()
}

// Close releases the audio stub's player.
func (c *Console) Close() error {
	return c.audio.Close()
}
