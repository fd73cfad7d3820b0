// Package console wires the CPU, PPU, mapper, gamepads, and work RAM
// together behind the address-decoding bus each component talks
// through, and drives the master clock (spec.md §3 "Console (bus)",
// §4.6).
package console

import (
	"fmt"
	"log"
	"os"

	"github.com/bdwalton/gintendo/mappers"
	"github.com/bdwalton/gintendo/mos6502"
	"github.com/bdwalton/gintendo/nesrom"
	"github.com/bdwalton/gintendo/ppu"
)

// logger reports non-fatal runtime anomalies (unclaimed bus accesses),
// in strict and non-strict operation alike (spec.md §4.7).
var logger = log.New(os.Stderr, "console: ", log.LstdFlags)

const (
	ramSize    = mappers.BaseRAMSize
	ramMirror  = 0x1FFF
	ppuMirror  = 0x3FFF
	ioWindow   = 0x4018
	oamDMAAddr = 0x4014
	pad1Addr   = 0x4016
	pad2Addr   = 0x4017
)

// Bus is the console's address-decoding bus. Its strict flag controls
// what happens when the bus is asked to service an address nothing
// claims: the access is always treated as open bus and reads return 0
// (spec.md §4.9 "strict address-fault mode"); in strict mode the first
// such access is also recorded as the error returned by Bus.Fault.
type Bus struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	mapper mappers.Mapper
	ram    [ramSize]uint8

	pad1, pad2 Gamepad

	cpuCycles uint64

	strict bool
	fault  error
}

// New constructs a console around an already-loaded mapper (spec.md
// §3 "Lifecycle: ROM is parsed once; mapper is constructed from the
// ROM"). strict enables strict address-fault mode.
func New(m mappers.Mapper, strict bool) *Bus {
	b := &Bus{mapper: m, strict: strict}
	b.cpu = mos6502.New(b)
	b.ppu = ppu.New(b, m.Mirror())
	b.cpu.Reset()
	return b
}

// CPU and PPU expose the underlying components for callers that need
// direct access (debug tooling, the front-end's frame pull).
func (b *Bus) CPU() *mos6502.CPU { return b.cpu }
func (b *Bus) PPU() *ppu.PPU     { return b.ppu }

// Gamepad returns player 1 (i=0) or player 2 (i=1)'s controller for
// the host to Press/Release buttons on (spec.md §6 "Input contract").
func (b *Bus) Gamepad(i int) *Gamepad {
	if i == 0 {
		return &b.pad1
	}
	return &b.pad2
}

// Fault reports the error recorded by the most recent unclaimed access
// in strict mode, or nil otherwise.
func (b *Bus) Fault() error {
	return b.fault
}

// fail records an unclaimed-address anomaly. In strict mode the first
// one becomes the sticky fault returned by Fault; regardless of mode,
// it is logged to stderr so a non-strict run still surfaces what it
// silently papered over (spec.md §4.7, §4.9).
func (b *Bus) fail(format string, args ...any) {
	err := fmt.Errorf(format, args...)
	logger.Print(err)
	if b.strict && b.fault == nil {
		b.fault = err
	}
}

// ChrRead/ChrWrite implement ppu.Bus by routing pattern-table and
// nametable-adjacent accesses to the mapper.
func (b *Bus) ChrRead(addr uint16) uint8 {
	if v, ok := b.mapper.PPURead(addr); ok {
		return v
	}
	b.fail("console: unclaimed PPU read at %#04x", addr)
	return 0
}

func (b *Bus) ChrWrite(addr uint16, val uint8) {
	if !b.mapper.PPUWrite(addr, val) {
		b.fail("console: unclaimed PPU write at %#04x", addr)
	}
}

// TriggerNMI implements ppu.Bus: the PPU calls this once per VBLANK-
// set edge when NMI generation is enabled.
func (b *Bus) TriggerNMI() {
	b.cpu.NMI()
}

// Read implements mos6502.Bus (spec.md §4.6 "CPU address decode").
// The mapper is offered the address first; if it declines, the bus
// falls through to RAM, PPU registers, gamepads, or open bus.
func (b *Bus) Read(addr uint16) uint8 {
	if v, ok := b.mapper.CPURead(addr); ok {
		return v
	}

	switch {
	case addr <= ramMirror:
		return b.ram[addr&0x07FF]
	case addr <= ppuMirror:
		return b.ppu.ReadReg(uint8(addr & 0x0007))
	case addr == pad1Addr:
		return b.pad1.Read()
	case addr == pad2Addr:
		return b.pad2.Read()
	case addr < ioWindow:
		return 0 // APU stub (spec.md §6 "reads 0, writes no-op")
	}

	b.fail("console: unclaimed CPU read at %#04x", addr)
	return 0
}

// Write implements mos6502.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	if b.mapper.CPUWrite(addr, val) {
		return
	}

	switch {
	case addr <= ramMirror:
		b.ram[addr&0x07FF] = val
	case addr <= ppuMirror:
		b.ppu.WriteReg(uint8(addr&0x0007), val)
	case addr == oamDMAAddr:
		b.startOAMDMA(val)
	case addr == pad1Addr:
		b.pad1.Write(val)
	case addr == pad2Addr:
		b.pad2.Write(val)
	case addr < ioWindow:
		// APU stub: writes are no-ops.
	default:
		b.fail("console: unclaimed CPU write at %#04x = %#02x", addr, val)
	}
}

// startOAMDMA stalls the CPU for 513 cycles (514 if the DMA starts on
// an odd CPU cycle, to resync with the CPU's internal clock) and
// copies 256 bytes from page*0x100 into OAM (spec.md §3 "DMA in-
// progress state", §4.6).
func (b *Bus) startOAMDMA(page uint8) {
	stall := 513
	if b.cpuCycles%2 == 1 {
		stall = 514
	}
	b.cpu.AddStallCycles(stall)

	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAM(uint8(i), b.Read(base+uint16(i)))
	}
}

// Tick advances the console by one master clock cycle: the PPU runs 3
// dots, then the CPU runs 1 cycle (spent on the stall count while
// stalled). Gamepads have no per-tick step (spec.md §4.6 "Ordering
// guarantees").
func (b *Bus) Tick() {
	// MMC1 (and any future mapper with runtime-selectable mirroring)
	// changes mirroring through ordinary CPU writes the mapper
	// claims directly; the PPU never sees those writes, so the bus
	// resyncs it here (spec.md §4.2 "mirror mode" is mapper state).
	b.ppu.SetMirror(b.mapper.Mirror())

	b.ppu.Tick(3)
	if !b.cpu.Stalled() {
		b.cpuCycles++
	}
	b.cpu.Tick()
}

// Reset re-initializes the CPU (spec.md §3 "init() resets all
// components").
func (b *Bus) Reset() {
	b.cpu.Reset()
	b.fault = nil
}

// FrameCanvas returns the PPU's most recently completed frame as
// palette indices (spec.md §4.9).
func (b *Bus) FrameCanvas() *[ppu.NES_RES_HEIGHT][ppu.NES_RES_WIDTH]uint8 {
	return b.ppu.FrameCanvas()
}

func (b *Bus) MirrorMode() nesrom.Mirror {
	return b.mapper.Mirror()
}

// Resolution returns the PPU's fixed output size, for sizing a window.
func (b *Bus) Resolution() (int, int) {
	return b.ppu.Resolution()
}
