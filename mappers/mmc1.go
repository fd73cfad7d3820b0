package mappers

import "github.com/bdwalton/gintendo/nesrom"

func init() {
	RegisterMapper(1, &mmc1{})
}

// mmc1 is mapper 1: a 5-bit serial shift register feeding four internal
// registers (control, two CHR banks, one PRG bank). Grounded on the
// nemu core's mapper_mmc1.cpp and cross-checked against a second Go
// implementation in the retrieval pack (cartridge.Mapper1) for idiom
// (spec.md §4.2, §9 "tagged union over concrete mapper states").
type mmc1 struct {
	rom *nesrom.ROM

	prg    []uint8 // full PRG ROM, copied from rom's region via PrgRead in Init
	chr    []uint8 // CHR ROM or CHR-RAM backing
	chrRAM bool
	sram   []uint8 // 8 KiB PRG-RAM at $6000-$7FFF

	prgBanks uint8
	chrBanks uint8

	shift      uint8
	shiftCount uint8

	control uint8 // mirror (0-1), prg mode (2-3), chr mode (4)
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8
}

func (m *mmc1) Name() string { return "MMC1" }

// Init mirrors mapper_mmc1.cpp's power-on state: control = 0x1C (fix
// last PRG bank, 4 KiB CHR mode, one-screen lower-bank mirroring), shift
// register and shift count cleared.
func (m *mmc1) Init(r *nesrom.ROM) {
	m.rom = r
	m.prgBanks = uint8(r.NumPrgBlocks())
	m.chrBanks = uint8(r.NumChrBlocks() * 2) // 8 KiB pages as 4 KiB banks
	if m.chrBanks == 0 {
		m.chrRAM = true
		m.chrBanks = 2 // 8 KiB of CHR-RAM as two 4 KiB banks
		m.chr = make([]uint8, 0x2000)
	} else {
		m.chr = make([]uint8, int(m.chrBanks)*0x1000)
		for i := range m.chr {
			m.chr[i] = r.ChrRead(uint32(i))
		}
	}
	m.prg = make([]uint8, int(m.prgBanks)*0x4000)
	for i := range m.prg {
		m.prg[i] = r.PrgRead(uint32(i))
	}
	m.sram = make([]uint8, 0x2000)

	m.control = 0x1C
	m.shift = 0
	m.shiftCount = 0
}

func (m *mmc1) CPURead(addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.sram[addr-0x6000], true
	case addr >= 0x8000:
		bank, off := m.prgBankFor(addr)
		idx := int(bank)*0x4000 + int(off)
		if idx < 0 || idx >= len(m.prg) {
			return 0, true
		}
		return m.prg[idx], true
	}
	return 0, false
}

// prgMode returns control bits 2-3.
func (m *mmc1) prgMode() uint8 { return (m.control >> 2) & 0x03 }

// chrMode returns control bit 4: 0 -> 8 KiB switch, 1 -> two 4 KiB switches.
func (m *mmc1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mmc1) prgBankFor(addr uint16) (bank uint8, off uint16) {
	switch {
	case addr < 0xC000: // $8000-$BFFF
		switch m.prgMode() {
		case 0, 1:
			return m.prgBank &^ 1, addr - 0x8000
		case 2:
			return 0, addr - 0x8000
		default: // 3: lower slot selectable
			return m.prgBank, addr - 0x8000
		}
	default: // $C000-$FFFF
		switch m.prgMode() {
		case 0, 1:
			return (m.prgBank &^ 1) | 1, addr - 0xC000
		case 2:
			return m.prgBank, addr - 0xC000
		default: // 3: upper slot fixed at last bank
			return m.prgBanks - 1, addr - 0xC000
		}
	}
}

// CPUWrite feeds the serial shift register. Writes to $6000-$7FFF go to
// PRG-RAM directly (spec.md §4.2).
func (m *mmc1) CPUWrite(addr uint16, val uint8) bool {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.sram[addr-0x6000] = val
		return true
	case addr >= 0x8000:
		if val&0x80 != 0 {
			m.shift = 0
			m.shiftCount = 0
			m.control |= 0x0C
			return true
		}
		m.shift = (m.shift >> 1) | ((val & 1) << 4)
		m.shiftCount++
		if m.shiftCount == 5 {
			m.writeRegister(addr, m.shift&0x1F)
			m.shift = 0
			m.shiftCount = 0
		}
		return true
	}
	return false
}

// writeRegister dispatches the completed 5-bit value to one of
// {control, CHR bank 0, CHR bank 1, PRG bank} selected by address bits
// 13-14 (spec.md §4.2).
func (m *mmc1) writeRegister(addr uint16, val uint8) {
	switch {
	case addr < 0xA000:
		m.control = val
	case addr < 0xC000:
		m.chrBank0 = val
	case addr < 0xE000:
		m.chrBank1 = val
	default:
		m.prgBank = val & 0x0F
	}
}

func (m *mmc1) chrBankFor(addr uint16) (bank uint16, off uint16) {
	if m.chrMode() == 0 {
		b := uint16(m.chrBank0 &^ 1)
		if addr >= 0x1000 {
			b |= 1
		}
		return b, addr & 0x0FFF
	}
	if addr < 0x1000 {
		return uint16(m.chrBank0), addr
	}
	return uint16(m.chrBank1), addr - 0x1000
}

func (m *mmc1) PPURead(addr uint16) (uint8, bool) {
	if addr >= 0x2000 {
		return 0, false
	}
	bank, off := m.chrBankFor(addr)
	idx := int(bank)*0x1000 + int(off)
	if idx < 0 || idx >= len(m.chr) {
		return 0, true
	}
	return m.chr[idx], true
}

func (m *mmc1) PPUWrite(addr uint16, val uint8) bool {
	if addr >= 0x2000 {
		return false
	}
	if !m.chrRAM {
		return true
	}
	bank, off := m.chrBankFor(addr)
	idx := int(bank)*0x1000 + int(off)
	if idx >= 0 && idx < len(m.chr) {
		m.chr[idx] = val
	}
	return true
}

// Mirror derives mirroring from control bits 0-1, not the header: MMC1
// owns mirroring once constructed (spec.md §3).
func (m *mmc1) Mirror() nesrom.Mirror {
	switch m.control & 0x03 {
	case 0:
		return nesrom.MirrorOneScreenLo
	case 1:
		return nesrom.MirrorOneScreenUp
	case 2:
		return nesrom.MirrorVertical
	default:
		return nesrom.MirrorHorizontal
	}
}

func (m *mmc1) HasSaveRAM() bool {
	return m.rom.HasSaveRAM()
}
