package mappers

import (
	"testing"

	"github.com/bdwalton/gintendo/nesrom"
)

func romWithPRG(pages uint8, fill byte) *nesrom.ROM {
	b := make([]byte, 16)
	copy(b[0:4], []byte{'N', 'E', 'S', 0x1A})
	b[4] = pages
	b[5] = 1
	prg := make([]byte, int(pages)*16384)
	for i := range prg {
		prg[i] = fill
	}
	b = append(b, prg...)
	b = append(b, make([]byte, 8192)...)
	r, err := nesrom.New(b)
	if err != nil {
		panic(err)
	}
	return r
}

func TestNROMSinglePageMirrored(t *testing.T) {
	r := romWithPRG(1, 0x55)
	m, err := Get(r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	lo, ok := m.CPURead(0x8000)
	if !ok || lo != 0x55 {
		t.Fatalf("CPURead(0x8000) = %#x, %v; want 0x55, true", lo, ok)
	}
	hi, ok := m.CPURead(0xC000)
	if !ok || hi != 0x55 {
		t.Fatalf("CPURead(0xC000) = %#x, %v; want 0x55, true (mirrored)", hi, ok)
	}
}

func TestNROMTwoPagesNotMirrored(t *testing.T) {
	b := make([]byte, 16)
	copy(b[0:4], []byte{'N', 'E', 'S', 0x1A})
	b[4] = 2
	b[5] = 1
	prg := make([]byte, 2*16384)
	prg[0] = 0x11
	prg[16384] = 0x22
	b = append(b, prg...)
	b = append(b, make([]byte, 8192)...)
	r, err := nesrom.New(b)
	if err != nil {
		t.Fatalf("nesrom.New: %v", err)
	}
	m, err := Get(r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	lo, _ := m.CPURead(0x8000)
	hi, _ := m.CPURead(0xC000)
	if lo != 0x11 || hi != 0x22 {
		t.Errorf("CPURead(0x8000)=%#x CPURead(0xC000)=%#x, want 0x11, 0x22", lo, hi)
	}
}

func TestNROMRejectsPRGWrites(t *testing.T) {
	r := romWithPRG(1, 0)
	m, _ := Get(r)
	if claimed := m.CPUWrite(0x8000, 0xFF); !claimed {
		t.Fatal("CPUWrite(0x8000) claimed=false, want true (claimed but ignored)")
	}
	v, _ := m.CPURead(0x8000)
	if v != 0 {
		t.Errorf("PRG byte mutated by CPUWrite, got %#x want 0", v)
	}
}

func TestNROMSaveRAM(t *testing.T) {
	r := romWithPRG(1, 0)
	m, _ := Get(r)
	if !m.CPUWrite(0x6000, 0x42) {
		t.Fatal("CPUWrite(0x6000) claimed=false, want true")
	}
	got, ok := m.CPURead(0x6000)
	if !ok || got != 0x42 {
		t.Errorf("CPURead(0x6000) = %#x, %v; want 0x42, true", got, ok)
	}
}

func TestNROMUnclaimedBelow6000(t *testing.T) {
	r := romWithPRG(1, 0)
	m, _ := Get(r)
	if _, ok := m.CPURead(0x4000); ok {
		t.Error("CPURead(0x4000) claimed, want unclaimed so the bus can fall through")
	}
}
