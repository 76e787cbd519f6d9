// Package cpu implements the SM83 interpreter: the register file, the
// instruction dispatch tables, and the interrupt servicing protocol.
package cpu

import (
	"fmt"

	"dmgcore/internal/interrupt"
	"dmgcore/internal/mmu"
)

// runState tracks whether the core is executing, parked by HALT, or
// parked by STOP. STOP is modeled like HALT: with no joypad in scope,
// both wake when an interrupt becomes pending.
type runState int

const (
	stateRunning runState = iota
	stateHalted
	stateStopped
)

// IllegalOpcodeError reports an undefined encoding. PC is the address
// the opcode was fetched from.
type IllegalOpcodeError struct {
	Opcode byte
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode %#02X at %#04X", e.Opcode, e.PC)
}

// CPU is the SM83 core. Register fields are exported for tools and
// tests, as is conventional for the tracing front-end.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME bool
	// EI enables IME only after the following instruction
	imePending bool

	state runState

	// opcode currently being executed; handlers decode operand
	// fields out of it
	opcode byte

	mmu *mmu.MMU
	ic  *interrupt.Controller
}

// New creates a CPU in DMG post-boot state wired to its bus and
// interrupt controller. Both references are non-owning.
func New(m *mmu.MMU, ic *interrupt.Controller) *CPU {
	c := &CPU{mmu: m, ic: ic}
	c.Reset()
	return c
}

// Reset restores the deterministic DMG post-boot register state.
func (c *CPU) Reset() {
	c.A, c.F = 0x01, 0xB0 // Z=1 N=0 H=1 C=1
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = false
	c.imePending = false
	c.state = stateRunning
}

// Halted reports whether the core is parked by HALT or STOP.
func (c *CPU) Halted() bool { return c.state != stateRunning }

// Flag bits in F. The low nibble of F is always zero.
const (
	FlagZ byte = 1 << 7
	FlagN byte = 1 << 6
	FlagH byte = 1 << 5
	FlagC byte = 1 << 4
)

func (c *CPU) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= FlagZ
	}
	if n {
		f |= FlagN
	}
	if h {
		f |= FlagH
	}
	if carry {
		f |= FlagC
	}
	c.F = f
}

func (c *CPU) flagSet(flag byte) bool { return c.F&flag != 0 }

// 16-bit register pair access. SetAF masks the low nibble of F.
func (c *CPU) AF() uint16     { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) SetAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }
func (c *CPU) BC() uint16     { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) SetBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) DE() uint16     { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) SetDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) HL() uint16     { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) SetHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

func (c *CPU) read8(addr uint16) byte     { return c.mmu.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.mmu.Write(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | hi<<8
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

// push16 stores the low byte at the new SP and the high byte above it.
func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// ExecuteNextInstruction fetches and runs one instruction, returning
// the T-cycles consumed. A pending EI takes effect before the fetch, so
// the instruction that directly follows EI completes before
// HandleInterrupts can dispatch. A parked core burns 4 cycles per call until an interrupt is
// pending (regardless of IME — that only gates dispatch).
func (c *CPU) ExecuteNextInstruction() (int, error) {
	if c.imePending {
		c.IME = true
		c.imePending = false
	}
	if c.state != stateRunning {
		if c.ic.Pending() {
			c.state = stateRunning
		} else {
			return 4, nil
		}
	}
	pc := c.PC
	c.opcode = c.fetch8()
	h := opTable[c.opcode]
	if h == nil {
		return 0, &IllegalOpcodeError{Opcode: c.opcode, PC: pc}
	}
	return h(c), nil
}

// HandleInterrupts dispatches the highest-priority pending interrupt
// when IME is set: it pushes PC, clears IME and the winning IF bit,
// jumps to the vector, and returns 20 T-cycles. A parked core with
// IE&IF nonzero is unparked here even when IME is clear, but without
// dispatch — waking never implies vectoring.
func (c *CPU) HandleInterrupts() int {
	if c.state != stateRunning && c.ic.Pending() {
		c.state = stateRunning
	}
	if !c.IME {
		return 0
	}
	vec, ok := c.ic.PendingVector()
	if !ok {
		return 0
	}
	c.state = stateRunning
	c.IME = false
	c.push16(c.PC)
	c.PC = vec
	return 20
}
