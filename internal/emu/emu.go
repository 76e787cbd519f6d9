// Package emu owns the machine aggregate and the emulation loop. The
// loop is the only place that commits cycle deltas to peripherals, so
// every T-cycle the CPU observes is observed exactly once by each of
// them.
package emu

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"dmgcore/internal/cart"
	"dmgcore/internal/cpu"
	"dmgcore/internal/interrupt"
	"dmgcore/internal/mmu"
	"dmgcore/internal/timer"
)

// Machine wires the components for one emulation session. The
// cartridge outlives the MMU; the CPU and timer hold non-owning
// references downward. All of it lives for the session — no dynamic
// re-seating.
type Machine struct {
	cart  *cart.Cartridge
	ic    *interrupt.Controller
	timer *timer.Timer
	mmu   *mmu.MMU
	cpu   *cpu.CPU

	cfg   Config
	log   *logrus.Logger
	trace *TraceLog

	stopped atomic.Bool
	cycles  uint64
}

// New builds a machine around a loaded cartridge.
func New(c *cart.Cartridge, cfg Config) (*Machine, error) {
	cfg.Defaults()
	m := &Machine{cart: c, cfg: cfg, log: cfg.Log}

	m.ic = interrupt.New()
	m.timer = timer.New(m.ic)
	m.mmu = mmu.New(c, m.ic, m.timer)
	m.cpu = cpu.New(m.mmu, m.ic)

	if cfg.Trace {
		t, err := OpenTraceLog(cfg.TraceFile)
		if err != nil {
			return nil, err
		}
		m.trace = t
	}

	h := c.Header()
	m.log.WithFields(logrus.Fields{
		"title":    h.Title,
		"type":     h.CartTypeStr,
		"romBanks": h.ROMBanks,
		"ramBytes": h.RAMSizeBytes,
	}).Info("cartridge loaded")

	return m, nil
}

// Step executes one instruction, services interrupts, and forwards the
// combined cycle count to the timer. Returns the T-cycles consumed.
func (m *Machine) Step() (int, error) {
	var pc uint16
	var op byte
	if m.trace != nil {
		pc = m.cpu.PC
		op = m.mmu.Read(pc)
	}

	cycles, err := m.cpu.ExecuteNextInstruction()
	if err != nil {
		return 0, err
	}
	cycles += m.cpu.HandleInterrupts()
	m.timer.Tick(cycles)
	m.cycles += uint64(cycles)

	if m.trace != nil {
		m.trace.Record(pc, op, m.cpu)
	}
	return cycles, nil
}

// Run drives the loop until Stop is called, MaxSteps is reached, or
// the core surfaces a fatal error.
func (m *Machine) Run() error {
	for steps := 0; !m.stopped.Load(); steps++ {
		if m.cfg.MaxSteps > 0 && steps >= m.cfg.MaxSteps {
			return nil
		}
		if _, err := m.Step(); err != nil {
			m.log.WithError(err).Error("core fault")
			return err
		}
	}
	return nil
}

// Stop sets the stop sentinel; safe to call from another goroutine
// (typically a signal handler).
func (m *Machine) Stop() { m.stopped.Store(true) }

// Close releases the trace log, if open.
func (m *Machine) Close() error {
	if m.trace != nil {
		return m.trace.Close()
	}
	return nil
}

// Cycles returns the total T-cycles executed so far.
func (m *Machine) Cycles() uint64 { return m.cycles }

// Component accessors for tools and tests.
func (m *Machine) CPU() *cpu.CPU                     { return m.cpu }
func (m *Machine) MMU() *mmu.MMU                     { return m.mmu }
func (m *Machine) Timer() *timer.Timer               { return m.timer }
func (m *Machine) Interrupts() *interrupt.Controller { return m.ic }
