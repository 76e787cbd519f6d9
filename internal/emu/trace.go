package emu

import (
	"fmt"
	"io"
	"os"

	"dmgcore/internal/cpu"
)

// TraceLog writes one record per executed instruction: PC, opcode, all
// register pairs, and IME.
type TraceLog struct {
	w      io.Writer
	closer io.Closer
}

// NewTraceLog traces into an arbitrary writer.
func NewTraceLog(w io.Writer) *TraceLog {
	t := &TraceLog{w: w}
	fmt.Fprintf(w, "=== DMG CPU Log ===\n\n")
	return t
}

// OpenTraceLog creates (truncates) the named trace file.
func OpenTraceLog(path string) (*TraceLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	t := NewTraceLog(f)
	t.closer = f
	return t, nil
}

// Record appends one instruction record.
func (t *TraceLog) Record(pc uint16, opcode byte, c *cpu.CPU) {
	ime := 0
	if c.IME {
		ime = 1
	}
	fmt.Fprintf(t.w, "PC:%04X OP:%02X AF:%04X BC:%04X DE:%04X HL:%04X SP:%04X IME:%d\n",
		pc, opcode, c.AF(), c.BC(), c.DE(), c.HL(), c.SP, ime)
}

// Close releases the underlying file, if any.
func (t *TraceLog) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
