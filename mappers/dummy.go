package mappers

import "github.com/bdwalton/gintendo/nesrom"

// dummyMapper is a flat, fully writable 64 KiB address space used by
// CPU/PPU/console tests that need a mapper but don't care about real
// bank switching.
type dummyMapper struct {
	mem     []uint8
	chr     []uint8
	mirror  nesrom.Mirror
	saveRAM bool
}

// Dummy is shared by tests; set Dummy.mirror before constructing a bus
// if a test needs non-default mirroring.
var Dummy = &dummyMapper{
	mem: make([]uint8, 0x10000),
	chr: make([]uint8, 0x2000),
}

func (dm *dummyMapper) Name() string { return "dummy" }

func (dm *dummyMapper) Init(r *nesrom.ROM) {}

func (dm *dummyMapper) CPURead(addr uint16) (uint8, bool) {
	if addr < 0x8000 {
		return 0, false
	}
	return dm.mem[addr], true
}

func (dm *dummyMapper) CPUWrite(addr uint16, val uint8) bool {
	if addr < 0x8000 {
		return false
	}
	dm.mem[addr] = val
	return true
}

func (dm *dummyMapper) PPURead(addr uint16) (uint8, bool) {
	if addr >= 0x2000 {
		return 0, false
	}
	return dm.chr[addr], true
}

func (dm *dummyMapper) PPUWrite(addr uint16, val uint8) bool {
	if addr >= 0x2000 {
		return false
	}
	dm.chr[addr] = val
	return true
}

func (dm *dummyMapper) Mirror() nesrom.Mirror { return dm.mirror }

func (dm *dummyMapper) HasSaveRAM() bool { return dm.saveRAM }
