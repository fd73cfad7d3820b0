// Package mappers implements and registers the cartridge mappers
// referenced numerically by iNES ROM headers: their job is to translate
// CPU/PPU addresses into PRG/CHR/PRG-RAM offsets and to decide nametable
// mirroring.
package mappers

import (
	"errors"
	"fmt"

	"github.com/bdwalton/gintendo/nesrom"
)

// ErrUnknownMapper is returned by Get when the ROM names a mapper id
// this core does not implement.
var ErrUnknownMapper = errors.New("unknown mapper id")

// BaseRAMSize is the console's 2 KiB of built-in work RAM. It is not
// part of a mapper's own address space, but lives here as the single
// source of truth so mappers and console agree on it without either
// importing the other's package for a bare number.
const BaseRAMSize = 2048

// A global registry of mappers, keyed by mapper id.
var allMappers = map[uint16]Mapper{}

// RegisterMapper installs m under id. Mapper implementations call this
// from an init() func; registering the same id twice is a programming
// error and panics.
func RegisterMapper(id uint16, m Mapper) {
	if om, ok := allMappers[id]; ok {
		panic(fmt.Sprintf("mappers: id %d already registered by %q", id, om.Name()))
	}
	allMappers[id] = m
}

// Get constructs the mapper named by rom's header and initializes it
// against rom's PRG/CHR data.
func Get(rom *nesrom.ROM) (Mapper, error) {
	id := rom.MapperNum()
	m, ok := allMappers[id]
	if !ok {
		return nil, fmt.Errorf("mappers: %w: %d", ErrUnknownMapper, id)
	}
	m.Init(rom)
	return m, nil
}

// Mapper rewrites CPU and PPU addresses for one cartridge. CPURead,
// CPUWrite, PPURead and PPUWrite report whether the mapper claims the
// given address via their second return; when false, the bus falls
// through to its own decode (spec.md §4.2, §4.6).
type Mapper interface {
	Name() string
	Init(*nesrom.ROM)

	CPURead(addr uint16) (uint8, bool)
	CPUWrite(addr uint16, val uint8) bool

	PPURead(addr uint16) (uint8, bool)
	PPUWrite(addr uint16, val uint8) bool

	// Mirror reports the cartridge's current nametable mirroring. NROM
	// returns a fixed value from the header; MMC1 derives it from its
	// control register and it can change at runtime.
	Mirror() nesrom.Mirror

	HasSaveRAM() bool
}
