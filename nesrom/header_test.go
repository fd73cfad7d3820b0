package nesrom

import (
	"errors"
	"testing"
)

func makeHeaderBytes(prgPages, chrPages, flags6, flags7 uint8) []byte {
	b := make([]byte, headerSize)
	copy(b[0:4], []byte{'N', 'E', 'S', 0x1A})
	b[4] = prgPages
	b[5] = chrPages
	b[6] = flags6
	b[7] = flags7
	return b
}

func TestParseHeader(t *testing.T) {
	b := makeHeaderBytes(2, 1, flag6Trainer, 0)
	h, err := parseHeader(b)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.prgPages != 2 || h.chrPages != 1 {
		t.Errorf("got prgPages=%d chrPages=%d, want 2, 1", h.prgPages, h.chrPages)
	}
	if !h.hasTrainer() {
		t.Error("hasTrainer() = false, want true")
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	b := makeHeaderBytes(1, 1, 0, 0)
	b[0] = 'X'
	if _, err := parseHeader(b); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("parseHeader error = %v, want ErrInvalidMagic", err)
	}
}

func TestParseHeaderTruncated(t *testing.T) {
	if _, err := parseHeader([]byte{'N', 'E', 'S', 0x1A}); !errors.Is(err, ErrTruncated) {
		t.Errorf("parseHeader error = %v, want ErrTruncated", err)
	}
}

func TestParseHeaderUnsupportedVersion(t *testing.T) {
	b := makeHeaderBytes(1, 1, 0, 0x08) // version nibble = 2
	if _, err := parseHeader(b); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("parseHeader error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestMapperNum(t *testing.T) {
	cases := []struct {
		name           string
		flags6, flags7 uint8
		want           uint16
	}{
		{"nrom", 0x00, 0x00, 0},
		{"mmc1 lo nibble only", 0x10, 0x00, 1},
		{"hi nibble only", 0x00, 0x10, 16},
		{"both nibbles", 0xF0, 0xF0, 0xFF},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, err := parseHeader(makeHeaderBytes(1, 1, c.flags6, c.flags7))
			if err != nil {
				t.Fatalf("parseHeader: %v", err)
			}
			if got := h.mapperNum(); got != c.want {
				t.Errorf("mapperNum() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestHasTrainer(t *testing.T) {
	h, _ := parseHeader(makeHeaderBytes(1, 1, flag6Trainer, 0))
	if !h.hasTrainer() {
		t.Error("hasTrainer() = false, want true")
	}
	h, _ = parseHeader(makeHeaderBytes(1, 1, 0, 0))
	if h.hasTrainer() {
		t.Error("hasTrainer() = true, want false")
	}
}

func TestHasPlayChoice10(t *testing.T) {
	h, _ := parseHeader(makeHeaderBytes(1, 1, 0, flag7PlayChoice10))
	if !h.hasPlayChoice() {
		t.Error("hasPlayChoice() = false, want true")
	}
}

func TestBatteryBackedSRAM(t *testing.T) {
	h, _ := parseHeader(makeHeaderBytes(1, 1, flag6Battery, 0))
	if !h.hasBatteryBackedSRAM() {
		t.Error("hasBatteryBackedSRAM() = false, want true")
	}
}

func TestMirroringMode(t *testing.T) {
	cases := []struct {
		name   string
		flags6 uint8
		want   Mirror
	}{
		{"horizontal", 0x00, MirrorHorizontal},
		{"vertical", flag6Mirror, MirrorVertical},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, _ := parseHeader(makeHeaderBytes(1, 1, c.flags6, 0))
			if got := h.mirrorMode(); got != c.want {
				t.Errorf("mirrorMode() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestChrIsRAM(t *testing.T) {
	h, _ := parseHeader(makeHeaderBytes(1, 0, 0, 0))
	if !h.chrIsRAM() {
		t.Error("chrIsRAM() = false, want true for zero CHR pages")
	}
	h, _ = parseHeader(makeHeaderBytes(1, 1, 0, 0))
	if h.chrIsRAM() {
		t.Error("chrIsRAM() = true, want false for one CHR page")
	}
}
