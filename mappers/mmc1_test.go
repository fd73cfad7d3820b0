package mappers

import (
	"testing"

	"github.com/bdwalton/gintendo/nesrom"
)

func mmc1ROM(prgPages, chrPages uint8) *nesrom.ROM {
	b := make([]byte, 16)
	copy(b[0:4], []byte{'N', 'E', 'S', 0x1A})
	b[4] = prgPages
	b[5] = chrPages
	b[6] = 0x10 // mapper low nibble = 1
	prg := make([]byte, int(prgPages)*16384)
	for bank := 0; bank < int(prgPages); bank++ {
		prg[bank*16384] = byte(bank) // tag each bank's first byte with its index
	}
	b = append(b, prg...)
	if chrPages > 0 {
		b = append(b, make([]byte, int(chrPages)*8192)...)
	}
	r, err := nesrom.New(b)
	if err != nil {
		panic(err)
	}
	return r
}

// writeShift drives five writes through the MMC1 serial shift register
// to land val (5 bits) at target address addr.
func writeShift(t *testing.T, m Mapper, addr uint16, val uint8) {
	t.Helper()
	for i := 0; i < 5; i++ {
		bit := (val >> i) & 1
		if !m.CPUWrite(addr, bit) {
			t.Fatalf("CPUWrite(%#x) claimed=false on shift bit %d", addr, i)
		}
	}
}

func TestMMC1ResetOnBit7(t *testing.T) {
	r := mmc1ROM(4, 1)
	m, err := Get(r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	writeShift(t, m, 0x8000, 0x02) // control: prgMode=0 (32 KiB), chrMode=0, mirror=vertical
	if !m.CPUWrite(0x8000, 0x80) {
		t.Fatal("reset write not claimed")
	}
	// After reset, prg mode forces "fix last" (bits 2-3 = 11); upper
	// bank should read from the last 16 KiB page (tag byte == 3).
	hi, _ := m.CPURead(0xC000)
	if hi != 3 {
		t.Errorf("CPURead(0xC000) after reset = %d, want 3 (last bank fixed)", hi)
	}
}

func TestMMC1PRGBankSwitch16K(t *testing.T) {
	r := mmc1ROM(4, 1)
	m, err := Get(r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	writeShift(t, m, 0x8000, 0x0C) // control: prgMode=3 (lower selectable, upper fixed last)
	writeShift(t, m, 0xE000, 0x02) // prg bank select = 2
	lo, _ := m.CPURead(0x8000)
	hi, _ := m.CPURead(0xC000)
	if lo != 2 {
		t.Errorf("CPURead(0x8000) = %d, want 2 (selected lower bank)", lo)
	}
	if hi != 3 {
		t.Errorf("CPURead(0xC000) = %d, want 3 (fixed last bank)", hi)
	}
}

func TestMMC1Mirroring(t *testing.T) {
	r := mmc1ROM(2, 1)
	m, err := Get(r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	writeShift(t, m, 0x8000, 0x02) // mirror bits = 10 -> vertical
	if got := m.Mirror(); got != nesrom.MirrorVertical {
		t.Errorf("Mirror() = %v, want vertical", got)
	}
	writeShift(t, m, 0x8000, 0x03) // mirror bits = 11 -> horizontal
	if got := m.Mirror(); got != nesrom.MirrorHorizontal {
		t.Errorf("Mirror() = %v, want horizontal", got)
	}
}

func TestMMC1SaveRAM(t *testing.T) {
	r := mmc1ROM(2, 1)
	m, err := Get(r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !m.CPUWrite(0x6000, 0x42) {
		t.Fatal("CPUWrite(0x6000) claimed=false")
	}
	got, ok := m.CPURead(0x6000)
	if !ok || got != 0x42 {
		t.Errorf("CPURead(0x6000) = %#x, %v; want 0x42, true", got, ok)
	}
}
