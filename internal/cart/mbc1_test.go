package cart

import "testing"

// bankedROM builds a ROM where the first byte of each 16 KiB bank is the
// bank number.
func bankedROM(banks int) []byte {
	rom := make([]byte, banks*BankSize)
	for b := 0; b < banks; b++ {
		rom[b*BankSize] = byte(b)
	}
	return rom
}

func TestMBC1_ROMBanking(t *testing.T) {
	m := NewMBC1(bankedROM(8), nil)

	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}
	// Switchable bank defaults to 1.
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}
}

func TestMBC1_BankZeroRule(t *testing.T) {
	m := NewMBC1(bankedROM(8), nil)

	m.Write(0x2000, 0x01)
	want := m.Read(0x4000)
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != want {
		t.Fatalf("writing 0x00 selected a different bank: got %02X want %02X", got, want)
	}
	if want != 0x01 {
		t.Fatalf("switchable window not on bank 1: %02X", want)
	}
}

func TestMBC1_HighBitsExtendBank(t *testing.T) {
	// 2 MiB: 128 banks, enough for the high latch to matter.
	m := NewMBC1(bankedROM(128), nil)

	m.Write(0x2000, 0x02) // low = 2
	m.Write(0x4000, 0x01) // high = 1 -> bank 0x22
	if got := m.Read(0x4000); got != 0x22 {
		t.Fatalf("bank 0x22 read got %02X", got)
	}

	// Mode 1 applies the high latch to the fixed window too.
	m.Write(0x6000, 0x01)
	if got := m.Read(0x0000); got != 0x20 {
		t.Fatalf("mode1 bank0 window got %02X want 20", got)
	}
	// Back to mode 0 the fixed window is bank 0 again.
	m.Write(0x6000, 0x00)
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("mode0 bank0 window got %02X want 00", got)
	}
}

func TestMBC1_BankModulo(t *testing.T) {
	// Small ROM: 4 banks. Selecting bank 6 wraps to 2.
	m := NewMBC1(bankedROM(4), nil)
	m.Write(0x2000, 0x06)
	if got := m.Read(0x4000); got != 0x02 {
		t.Fatalf("bank modulo got %02X want 02", got)
	}
}

func TestMBC1_RAMEnableAndBanking(t *testing.T) {
	m := NewMBC1(bankedROM(8), make([]byte, 32*1024))

	// Disabled RAM reads 0xFF and drops writes.
	m.Write(0xA000, 0x12)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read got %02X want FF", got)
	}

	m.Write(0x0000, 0x0A) // enable
	m.Write(0x6000, 0x01) // RAM banking mode
	m.Write(0x4000, 0x02) // RAM bank 2
	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}

	// Bank 0 is distinct.
	m.Write(0x4000, 0x00)
	if got := m.Read(0xA000); got == 0x77 {
		t.Fatalf("RAM banks alias: bank0 read %02X", got)
	}

	// Any value without low nibble 0x0A disables again.
	m.Write(0x0000, 0x00)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM not disabled: got %02X", got)
	}
}

func TestMBC1_OutOfRangeReads(t *testing.T) {
	// 32 KiB ROM, bank 1 is the last valid bank.
	m := NewMBC1(bankedROM(2), nil)
	if got := m.Read(0x9000); got != 0xFF {
		t.Fatalf("out-of-scope address got %02X want FF", got)
	}
}

func TestMBC0_LinearROMAndRAM(t *testing.T) {
	rom := make([]byte, 2*BankSize)
	rom[0x0000] = 0xAA
	rom[0x7FFF] = 0xBB
	m := NewMBC0(rom, make([]byte, 0x2000))

	if got := m.Read(0x0000); got != 0xAA {
		t.Fatalf("ROM start got %02X want AA", got)
	}
	if got := m.Read(0x7FFF); got != 0xBB {
		t.Fatalf("ROM end got %02X want BB", got)
	}

	// ROM writes are ignored.
	m.Write(0x1000, 0x55)
	if got := m.Read(0x1000); got != rom[0x1000] {
		t.Fatalf("ROM write not ignored: got %02X", got)
	}

	m.Write(0xA000, 0x5A)
	if got := m.Read(0xA000); got != 0x5A {
		t.Fatalf("RAM RW got %02X want 5A", got)
	}
}

func TestMBC0_NoRAM(t *testing.T) {
	m := NewMBC0(make([]byte, 2*BankSize), nil)
	m.Write(0xA000, 0x5A)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM-less read got %02X want FF", got)
	}
}
