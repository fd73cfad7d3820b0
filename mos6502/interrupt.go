package mos6502

// interruptKind names the four interrupt descriptor instances
// (spec.md §3 "Interrupt descriptor", §9 "collapse to a small
// descriptor table indexed by {NMI, IRQ, BRK, RESET}"). RESET is
// handled directly by Reset rather than through this table since it
// never pushes anything.
type interruptKind uint8

const (
	interruptNMI interruptKind = iota
	interruptIRQ
	interruptBRK
)

// interruptDescriptor bundles a vector address, base cycle cost, and
// the status bits ORed into P when the interrupt is serviced.
type interruptDescriptor struct {
	kind       interruptKind
	vector     uint16
	cycles     uint8
	statusMask uint8 // ORed into live P after the status push; the pushed copy does not carry it
	setB       bool  // BRK pushes status with B set
}

var (
	nmiDescriptor = interruptDescriptor{kind: interruptNMI, vector: 0xFFFA, cycles: 7, statusMask: FlagI}
	irqDescriptor = interruptDescriptor{kind: interruptIRQ, vector: 0xFFFE, cycles: 7, statusMask: FlagI}
	brkDescriptor = interruptDescriptor{kind: interruptBRK, vector: 0xFFFE, cycles: 7, statusMask: FlagI, setB: true}
)

// serviceInterrupt pushes PC then status (with B/U forced per kind),
// sets I, and loads PC from the vector (spec.md §4.4 "Interrupt
// service").
func (c *CPU) serviceInterrupt(d interruptDescriptor) uint8 {
	c.push16(c.PC)
	status := c.P | FlagU
	if d.setB {
		status |= FlagB
	} else {
		status &^= FlagB
	}
	c.push(status)
	c.P |= d.statusMask
	c.PC = c.read16(d.vector)
	return d.cycles
}
