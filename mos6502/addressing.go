package mos6502

// resolveAddress consumes PC-relative operand bytes per mode and
// returns the effective address (meaningless for IMPLICIT/ACCUMULATOR)
// and whether the effective address's computation crossed a page
// boundary, for callers that apply a conditional cycle penalty.
func (c *CPU) resolveAddress(mode uint8) (addr uint16, pageCrossed bool) {
	switch mode {
	case IMPLICIT, ACCUMULATOR:
		return 0, false

	case IMMEDIATE:
		addr = c.PC
		c.PC++
		return addr, false

	case ZERO_PAGE:
		return uint16(c.fetch()), false

	case ZERO_PAGE_X:
		return uint16(c.fetch() + c.X), false

	case ZERO_PAGE_Y, ZERO_PAGE_X_BUT_Y:
		return uint16(c.fetch() + c.Y), false

	case RELATIVE:
		// Signed offset relative to the address of the NEXT instruction.
		off := int8(c.fetch())
		base := c.PC
		addr = uint16(int32(base) + int32(off))
		return addr, (addr & 0xFF00) != (base & 0xFF00)

	case ABSOLUTE:
		return c.fetch16(), false

	case ABSOLUTE_X:
		base := c.fetch16()
		addr = base + uint16(c.X)
		return addr, (base & 0xFF00) != (addr & 0xFF00)

	case ABSOLUTE_Y:
		base := c.fetch16()
		addr = base + uint16(c.Y)
		return addr, (base & 0xFF00) != (addr & 0xFF00)

	case INDIRECT:
		ptr := c.fetch16()
		lo := c.bus.Read(ptr)
		// Indirect JMP page-wrap bug: when the pointer's low byte is
		// 0xFF, the high byte comes from the SAME page, not the next.
		var hiAddr uint16
		if ptr&0x00FF == 0x00FF {
			hiAddr = ptr & 0xFF00
		} else {
			hiAddr = ptr + 1
		}
		hi := c.bus.Read(hiAddr)
		return uint16(hi)<<8 | uint16(lo), false

	case INDIRECT_X:
		zp := c.fetch() + c.X // zero-page wrap
		lo := c.bus.Read(uint16(zp))
		hi := c.bus.Read(uint16(zp + 1)) // also wraps, zp+1 is uint8 arithmetic
		return uint16(hi)<<8 | uint16(lo), false

	case INDIRECT_Y:
		zp := c.fetch()
		lo := c.bus.Read(uint16(zp))
		hi := c.bus.Read(uint16(zp + 1))
		base := uint16(hi)<<8 | uint16(lo)
		addr = base + uint16(c.Y)
		return addr, (base & 0xFF00) != (addr & 0xFF00)
	}

	return 0, false
}

// operand fetches the byte an instruction operates on, reading the
// accumulator directly for ACCUMULATOR mode rather than the bus.
func (c *CPU) operand(mode uint8, addr uint16) uint8 {
	if mode == ACCUMULATOR {
		return c.A
	}
	return c.bus.Read(addr)
}

// storeResult writes an instruction's result back to the accumulator
// or memory, matching how operand read it.
func (c *CPU) storeResult(mode uint8, addr uint16, v uint8) {
	if mode == ACCUMULATOR {
		c.A = v
		return
	}
	c.bus.Write(addr, v)
}

// pageCrossPenaltyInst is the set of mnemonics that pay a conditional
// +1 cycle on a crossed-page indexed read. Read-modify-write
// instructions (ASL, INC, ...) do not incur it, and stores always pay
// it; for both, that cost is already baked into their fixed table entry.
var pageCrossPenaltyInst = map[uint8]bool{
	ADC: true, AND: true, CMP: true, EOR: true,
	LDA: true, LDX: true, LDY: true, ORA: true, SBC: true,
}

func pageCrossPenaltyMode(mode uint8) bool {
	return mode == ABSOLUTE_X || mode == ABSOLUTE_Y || mode == INDIRECT_Y
}
