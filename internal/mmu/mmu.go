// Package mmu demultiplexes the 16-bit CPU address space onto the
// cartridge, the on-chip RAM regions, the timer and interrupt registers,
// and HRAM. It is a pure dispatcher: it does not snoop cycles.
package mmu

import (
	"dmgcore/internal/cart"
	"dmgcore/internal/interrupt"
	"dmgcore/internal/timer"
)

// MMU routes reads and writes by address range:
//
//	0x0000–0x7FFF  cartridge ROM via MBC
//	0x8000–0x9FFF  VRAM
//	0xA000–0xBFFF  cartridge RAM via MBC
//	0xC000–0xDFFF  WRAM
//	0xE000–0xFDFF  echo of 0xC000–0xDDFF
//	0xFE00–0xFE9F  OAM
//	0xFEA0–0xFEFF  prohibited (reads 0xFF, writes dropped)
//	0xFF00–0xFF7F  I/O (timer at FF04–FF07, IF at FF0F)
//	0xFF80–0xFFFE  HRAM
//	0xFFFF         IE
type MMU struct {
	cart  *cart.Cartridge
	ic    *interrupt.Controller
	timer *timer.Timer

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte
}

// New wires the MMU to its collaborators. The cartridge outlives the
// MMU; all three references are non-owning.
func New(c *cart.Cartridge, ic *interrupt.Controller, t *timer.Timer) *MMU {
	return &MMU{cart: c, ic: ic, timer: t}
}

func (m *MMU) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return m.cart.Read(addr)
	case addr <= 0x9FFF:
		return m.vram[addr-0x8000]
	case addr <= 0xBFFF:
		return m.cart.Read(addr)
	case addr <= 0xDFFF:
		return m.wram[addr-0xC000]
	case addr <= 0xFDFF:
		// Echo RAM mirrors 0xC000–0xDDFF
		return m.wram[addr-0xE000]
	case addr <= 0xFE9F:
		return m.oam[addr-0xFE00]
	case addr <= 0xFEFF:
		// Prohibited region
		return 0xFF
	case addr >= timer.AddrDIV && addr <= timer.AddrTAC:
		return m.timer.Read(addr)
	case addr == interrupt.AddrIF, addr == interrupt.AddrIE:
		v, _ := m.ic.Read(addr)
		return v
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return m.hram[addr-0xFF80]
	default:
		// Remaining I/O ports (PPU, audio, serial, joypad) are
		// out-of-scope collaborators.
		return 0xFF
	}
}

func (m *MMU) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		m.cart.Write(addr, value)
	case addr <= 0x9FFF:
		m.vram[addr-0x8000] = value
	case addr <= 0xBFFF:
		m.cart.Write(addr, value)
	case addr <= 0xDFFF:
		m.wram[addr-0xC000] = value
	case addr <= 0xFDFF:
		m.wram[addr-0xE000] = value
	case addr <= 0xFE9F:
		m.oam[addr-0xFE00] = value
	case addr <= 0xFEFF:
		// Prohibited region: dropped
	case addr >= timer.AddrDIV && addr <= timer.AddrTAC:
		m.timer.Write(addr, value)
	case addr == interrupt.AddrIF, addr == interrupt.AddrIE:
		_ = m.ic.Write(addr, value)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		m.hram[addr-0xFF80] = value
	default:
		// Unrouted I/O: dropped
	}
}
