// Package ppu implements the NES picture processing unit: the
// scanline/dot timing loop, the $2000-$2007 register file, VRAM and
// palette RAM, and background/sprite rendering into a palette-index
// frame buffer.
package ppu

import "github.com/bdwalton/gintendo/nesrom"

const (
	VRAM_SIZE    = 2048
	OAM_SIZE     = 256
	PALETTE_SIZE = 32
)

// Display constants
const (
	NES_RES_WIDTH  = 256
	NES_RES_HEIGHT = 240
)

// Special registers, as CPU-visible addresses. The console mirrors
// these through $2000-$3FFF by masking to the low 3 bits before
// calling WriteReg/ReadReg, so only the canonical addresses appear
// here.
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
	OAMDMA    = 0x4014
)

// PPUCTRL bit flags
// 7  bit  0
// ---- ----
// VPHB SINN
// |||| ||||
// |||| ||++- Base nametable address (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
// |||| |+--- VRAM address increment per CPU read/write of PPUDATA
// |||| |     (0: add 1, going across; 1: add 32, going down)
// |||| +---- Sprite pattern table address for 8x8 sprites
// |||+------ Background pattern table address (0: $0000; 1: $1000)
// ||+------- Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
// |+-------- PPU master/slave select (unused by this core)
// +--------- Generate an NMI at the start of vertical blank
const (
	CTRL_NAMETABLE1          = 1
	CTRL_NAMETABLE2          = 1 << 1
	CTRL_VRAM_ADD_INCREMENT  = 1 << 2
	CTRL_SPRITE_PATTERN_ADDR = 1 << 3
	CTRL_BACKGROUND_PATTERN  = 1 << 4
	CTRL_SPRITE_SIZE         = 1 << 5
	CTRL_MASTER_SLAVE_SELECT = 1 << 6
	CTRL_GENERATE_NMI        = 1 << 7
)

const (
	CTRL_INCR_ACROSS = 1
	CTRL_INCR_DOWN   = 32
)

// PPUMASK bit flags.
const (
	MASK_GREYSCALE      = 1
	MASK_SHOW_BG_LEFT8  = 1 << 1
	MASK_SHOW_SPR_LEFT8 = 1 << 2
	MASK_SHOW_BG        = 1 << 3
	MASK_SHOW_SPR       = 1 << 4
)

// PPUSTATUS bit flags. Cleared at dot 1 of the pre-render line
// (sprite overflow, sprite 0 hit, vertical blank) or by a PPUSTATUS
// read (vertical blank only).
const (
	STATUS_SPRITE_OVERFLOW = 1 << 5
	STATUS_SPRITE_0_HIT    = 1 << 6
	STATUS_VERTICAL_BLANK  = 1 << 7
)

// Bus is everything the PPU needs from its owner: CHR access routed
// through the cartridge mapper, and the line the PPU pulls to signal
// an NMI to the CPU (spec.md §4.6).
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	TriggerNMI()
}

// PPU holds all PPU-private state: registers, VRAM, OAM, palette RAM,
// and the scanline/dot counters that drive rendering and NMI timing
// (spec.md §3 "PPU registers", §4.5).
type PPU struct {
	bus Bus

	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr uint8
	oamData [OAM_SIZE]uint8

	vram    [VRAM_SIZE]uint8
	palette [PALETTE_SIZE]uint8
	mirror  nesrom.Mirror

	addr    addrReg // accumulates PPUADDR's two writes into vramAddr
	vramAddr uint16
	scrollX, scrollY uint8
	w       bool // shared write-toggle latch for $2005/$2006

	buffer uint8 // PPUDATA read buffer

	scanline int16 // 0-261 (261 is pre-render)
	scandot  int16 // 0-340
	oddFrame bool

	canvas [NES_RES_HEIGHT][NES_RES_WIDTH]uint8 // palette indices, valid after a completed frame
}

// New constructs a PPU wired to bus. mirror is the cartridge's
// nametable mirroring mode at power-on; the console keeps it current
// for mappers that change mirroring dynamically (MMC1) via SetMirror.
func New(b Bus, mirror nesrom.Mirror) *PPU {
	return &PPU{
		bus:      b,
		mirror:   mirror,
		scanline: 261, // power on into the pre-render line
	}
}

// SetMirror updates the nametable mirroring mode. The console calls
// this on every tick with the mapper's current mode, so mirroring
// switched through on-cartridge registers (MMC1) takes effect (spec.md §4.2).
func (p *PPU) SetMirror(m nesrom.Mirror) {
	p.mirror = m
}

// FrameCanvas returns the most recently completed frame as a grid of
// palette indices (0-63); the caller maps each index through RGB (or
// SYSTEM_PALETTE directly) to get displayable color (spec.md §6, §4.9
// "Palette-index canvas vs. RGB canvas").
func (p *PPU) FrameCanvas() *[NES_RES_HEIGHT][NES_RES_WIDTH]uint8 {
	return &p.canvas
}

func (p *PPU) Resolution() (int, int) {
	return NES_RES_WIDTH, NES_RES_HEIGHT
}

// RGB converts a palette index (0-63) to its system-palette color,
// for front ends that want pixels rather than indices.
func RGB(index uint8) (r, g, b uint8) {
	c := SYSTEM_PALETTE[index&0x3F]
	return c[0], c[1], c[2]
}

// WriteReg handles a CPU write to one of the 8 PPU registers (reg is
// already masked to 0-7 by the bus: spec.md §4.6 "mirrored through
// $3FFF by AND 0x0007").
func (p *PPU) WriteReg(reg uint8, val uint8) {
	switch reg {
	case 0: // PPUCTRL
		p.ctrl = val
	case 1: // PPUMASK
		p.mask = val
	case 2: // PPUSTATUS is read-only
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		p.oamData[p.oamAddr] = val
	case 5: // PPUSCROLL, write twice
		if !p.w {
			p.scrollX = val
		} else {
			p.scrollY = val
		}
		p.w = !p.w
	case 6: // PPUADDR, write twice
		p.addr.set(p.w, val)
		if p.w {
			p.vramAddr = p.addr.get()
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.write(p.vramAddr&0x3FFF, val)
		p.vramIncrement()
	}
}

// ReadReg handles a CPU read from one of the 8 PPU registers.
func (p *PPU) ReadReg(reg uint8) uint8 {
	switch reg {
	case 2: // PPUSTATUS
		v := p.status
		p.status &^= STATUS_VERTICAL_BLANK
		p.w = false
		return v
	case 4: // OAMDATA
		return p.oamData[p.oamAddr]
	case 7: // PPUDATA
		addr := p.vramAddr & 0x3FFF
		var data uint8
		if addr < 0x3F00 {
			data = p.buffer
			p.buffer = p.read(addr)
		} else {
			data = p.read(addr)
			p.buffer = p.read(addr - 0x1000)
		}
		p.vramIncrement()
		return data
	}
	// PPUCTRL/PPUMASK/OAMADDR/PPUSCROLL/PPUADDR are write-only; real
	// hardware returns stale open-bus contents, which this core does
	// not model (spec.md never requires it).
	return 0
}

func (p *PPU) vramIncrement() {
	step := uint16(CTRL_INCR_ACROSS)
	if p.ctrl&CTRL_VRAM_ADD_INCREMENT != 0 {
		step = CTRL_INCR_DOWN
	}
	p.vramAddr = (p.vramAddr + step) & 0x3FFF
}

// WriteOAM loads OAM directly, used by console's OAM DMA (spec.md §4.6).
func (p *PPU) WriteOAM(i uint8, val uint8) {
	p.oamData[i] = val
}

func (p *PPU) spriteSize16() bool  { return p.ctrl&CTRL_SPRITE_SIZE != 0 }
func (p *PPU) bgBank() uint8       { return (p.ctrl >> 4) & 1 }
func (p *PPU) sprBank() uint8      { return (p.ctrl >> 3) & 1 }
func (p *PPU) nmiEnabled() bool    { return p.ctrl&CTRL_GENERATE_NMI != 0 }
func (p *PPU) bgShow() bool        { return p.mask&MASK_SHOW_BG != 0 }
func (p *PPU) sprShow() bool       { return p.mask&MASK_SHOW_SPR != 0 }

// nametableOffset folds a $2000-$3EFF address (ANDed here to $0FFF)
// down to one of the PPU's two physical 1 KiB nametables,
// according to the cartridge's mirroring mode (spec.md §4.5 "Address
// translation"). It never panics: an unrecognized mode falls back to
// nametable 0 rather than aborting.
func (p *PPU) nametableOffset(addr uint16) uint16 {
	a := addr & 0x0FFF
	quadrant := a / 0x400
	local := a % 0x400
	return p.nametableQuadrant(quadrant)*0x400 + local
}

// nametableQuadrant maps one of the four logical nametable quadrants
// (0 = top-left .. 3 = bottom-right) to one of the PPU's two physical
// 1 KiB nametables, per the cartridge's mirroring mode.
func (p *PPU) nametableQuadrant(q uint16) uint16 {
	switch p.mirror {
	case nesrom.MirrorHorizontal:
		return [4]uint16{0, 0, 1, 1}[q]
	case nesrom.MirrorVertical:
		return [4]uint16{0, 1, 0, 1}[q]
	case nesrom.MirrorOneScreenUp:
		return 1
	}
	return 0
}

func paletteMirror(i uint16) uint16 {
	switch i {
	case 0x10, 0x14, 0x18, 0x1C:
		return i - 0x10
	}
	return i
}

func (p *PPU) read(addr uint16) uint8 {
	a := addr & 0x3FFF
	switch {
	case a < 0x2000:
		return p.bus.ChrRead(a)
	case a < 0x3F00:
		return p.vram[p.nametableOffset(a)]
	default:
		return p.palette[paletteMirror((a-0x3F00)%0x20)]
	}
}

func (p *PPU) write(addr uint16, val uint8) {
	a := addr & 0x3FFF
	switch {
	case a < 0x2000:
		p.bus.ChrWrite(a, val)
	case a < 0x3F00:
		p.vram[p.nametableOffset(a)] = val
	default:
		p.palette[paletteMirror((a-0x3F00)%0x20)] = val
	}
}

// Tick advances the PPU by n master-clock-derived dots (spec.md §4.5:
// the PPU runs 3 dots per CPU cycle; the console supplies n already
// scaled).
func (p *PPU) Tick(n int) {
	for i := 0; i < n; i++ {
		p.tick()
	}
}

func (p *PPU) tick() {
	if p.scanline == 241 && p.scandot == 1 {
		p.status |= STATUS_VERTICAL_BLANK
		p.renderFrame()
		if p.nmiEnabled() {
			p.bus.TriggerNMI()
		}
	}
	if p.scanline == 261 && p.scandot == 1 {
		p.status &^= STATUS_VERTICAL_BLANK | STATUS_SPRITE_OVERFLOW | STATUS_SPRITE_0_HIT
	}

	p.scandot++
	if p.scanline == 261 && p.scandot == 340 && p.oddFrame && p.bgShow() {
		// Odd-frame pre-render line skips the idle dot 339->340
		// (spec.md §4.5 "P-ODD").
		p.scandot = 341
	}
	if p.scandot >= 341 {
		p.scandot = 0
		p.scanline++
		if p.scanline >= 262 {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}
}

type color []uint8

func newColor(r, g, b uint8) color {
	return []uint8{r, g, b, 0xff}
}

var SYSTEM_PALETTE [64]color = [64]color{
	newColor(0x80, 0x80, 0x80), newColor(0x00, 0x3D, 0xA6), newColor(0x00, 0x12, 0xB0), newColor(0x44, 0x00, 0x96), newColor(0xA1, 0x00, 0x5E),
	newColor(0xC7, 0x00, 0x28), newColor(0xBA, 0x06, 0x00), newColor(0x8C, 0x17, 0x00), newColor(0x5C, 0x2F, 0x00), newColor(0x10, 0x45, 0x00),
	newColor(0x05, 0x4A, 0x00), newColor(0x00, 0x47, 0x2E), newColor(0x00, 0x41, 0x66), newColor(0x00, 0x00, 0x00), newColor(0x05, 0x05, 0x05),
	newColor(0x05, 0x05, 0x05), newColor(0xC7, 0xC7, 0xC7), newColor(0x00, 0x77, 0xFF), newColor(0x21, 0x55, 0xFF), newColor(0x82, 0x37, 0xFA),
	newColor(0xEB, 0x2F, 0xB5), newColor(0xFF, 0x29, 0x50), newColor(0xFF, 0x22, 0x00), newColor(0xD6, 0x32, 0x00), newColor(0xC4, 0x62, 0x00),
	newColor(0x35, 0x80, 0x00), newColor(0x05, 0x8F, 0x00), newColor(0x00, 0x8A, 0x55), newColor(0x00, 0x99, 0xCC), newColor(0x21, 0x21, 0x21),
	newColor(0x09, 0x09, 0x09), newColor(0x09, 0x09, 0x09), newColor(0xFF, 0xFF, 0xFF), newColor(0x0F, 0xD7, 0xFF), newColor(0x69, 0xA2, 0xFF),
	newColor(0xD4, 0x80, 0xFF), newColor(0xFF, 0x45, 0xF3), newColor(0xFF, 0x61, 0x8B), newColor(0xFF, 0x88, 0x33), newColor(0xFF, 0x9C, 0x12),
	newColor(0xFA, 0xBC, 0x20), newColor(0x9F, 0xE3, 0x0E), newColor(0x2B, 0xF0, 0x35), newColor(0x0C, 0xF0, 0xA4), newColor(0x05, 0xFB, 0xFF),
	newColor(0x5E, 0x5E, 0x5E), newColor(0x0D, 0x0D, 0x0D), newColor(0x0D, 0x0D, 0x0D), newColor(0xFF, 0xFF, 0xFF), newColor(0xA6, 0xFC, 0xFF),
	newColor(0xB3, 0xEC, 0xFF), newColor(0xDA, 0xAB, 0xEB), newColor(0xFF, 0xA8, 0xF9), newColor(0xFF, 0xAB, 0xB3), newColor(0xFF, 0xD2, 0xB0),
	newColor(0xFF, 0xEF, 0xA6), newColor(0xFF, 0xF7, 0x9C), newColor(0xD7, 0xE8, 0x95), newColor(0xA6, 0xED, 0xAF), newColor(0xA2, 0xF2, 0xDA),
	newColor(0x99, 0xFF, 0xFC), newColor(0xDD, 0xDD, 0xDD), newColor(0x11, 0x11, 0x11), newColor(0x11, 0x11, 0x11),
}
