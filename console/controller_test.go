package console

import "testing"

func TestGamepadStrobeShiftOut(t *testing.T) {
	var g Gamepad
	g.Press(ButtonA)
	g.Press(ButtonStart)

	g.Write(0x01) // strobe high
	g.Write(0x00) // falling edge latches held state

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, w := range want {
		if got := g.Read(); got != w {
			t.Errorf("bit %d = %d, want %d", i, got, w)
		}
	}
	for i := 0; i < 3; i++ {
		if got := g.Read(); got != 1 {
			t.Errorf("post-exhaustion read %d = %d, want 1", i, got)
		}
	}
}

func TestGamepadLiveReadsWhileStrobed(t *testing.T) {
	var g Gamepad
	g.Write(0x01) // strobe held high

	if got := g.Read(); got != 0 {
		t.Errorf("Read() = %d, want 0 before pressing A", got)
	}
	g.Press(ButtonA)
	if got := g.Read(); got != 1 {
		t.Errorf("Read() = %d, want 1 with A held and strobe high", got)
	}
	g.Release(ButtonA)
	if got := g.Read(); got != 0 {
		t.Errorf("Read() = %d, want 0 after releasing A", got)
	}
}

func TestGamepadReleaseBeforeLatchIsNotShiftedOut(t *testing.T) {
	var g Gamepad
	g.Press(ButtonB)
	g.Write(0x01)
	g.Release(ButtonB)
	g.Write(0x00) // latches held (B no longer pressed)

	if got := g.Read(); got != 0 {
		t.Errorf("first shifted-out bit = %d, want 0 (B released before latch)", got)
	}
}

func TestGamepadRestrobeResetsShiftIndex(t *testing.T) {
	var g Gamepad
	g.Press(ButtonA)
	g.Write(0x01)
	g.Write(0x00)
	g.Read()
	g.Read() // idx now at 2

	g.Write(0x01)
	g.Write(0x00) // restrobe should reset idx to 0
	if got := g.Read(); got != 1 {
		t.Errorf("first read after restrobe = %d, want 1 (A still pressed)", got)
	}
}
