package mappers

import "github.com/bdwalton/gintendo/nesrom"

func init() {
	RegisterMapper(0, &nrom{})
}

// nrom is mapper 0: no bank switching. PRG is 16 or 32 KiB, mirrored
// into the $8000-$FFFF window when only one 16 KiB page is present; CHR
// is a single fixed 8 KiB bank (spec.md §4.2).
type nrom struct {
	rom     *nesrom.ROM
	chrRAM  []uint8 // backing store when the cartridge has no CHR ROM
	prgWide bool    // two 16 KiB PRG pages present
	saveRAM []uint8
}

func (n *nrom) Name() string { return "NROM" }

func (n *nrom) Init(r *nesrom.ROM) {
	n.rom = r
	n.prgWide = r.NumPrgBlocks() > 1
	if r.HasCHRRAM() {
		n.chrRAM = make([]uint8, 0x2000)
	}
	n.saveRAM = make([]uint8, 0x2000)
}

func (n *nrom) CPURead(addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return n.saveRAM[addr-0x6000], true
	case addr >= 0x8000:
		off := addr & 0x7FFF
		if !n.prgWide {
			off &= 0x3FFF
		}
		return n.rom.PrgRead(uint32(off)), true
	}
	return 0, false
}

// CPUWrite never accepts writes to the PRG window (spec.md §4.2); save
// RAM below $8000 is writable.
func (n *nrom) CPUWrite(addr uint16, val uint8) bool {
	if addr >= 0x6000 && addr < 0x8000 {
		n.saveRAM[addr-0x6000] = val
		return true
	}
	return addr >= 0x8000
}

func (n *nrom) PPURead(addr uint16) (uint8, bool) {
	if addr >= 0x2000 {
		return 0, false
	}
	if n.chrRAM != nil {
		return n.chrRAM[addr], true
	}
	return n.rom.ChrRead(uint32(addr)), true
}

func (n *nrom) PPUWrite(addr uint16, val uint8) bool {
	if addr >= 0x2000 {
		return false
	}
	if n.chrRAM != nil {
		n.chrRAM[addr] = val
	}
	return true
}

func (n *nrom) Mirror() nesrom.Mirror {
	return n.rom.MirroringMode()
}

func (n *nrom) HasSaveRAM() bool {
	return n.rom.HasSaveRAM()
}
