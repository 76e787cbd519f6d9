package emu

import "github.com/sirupsen/logrus"

// Config contains settings that affect a machine run.
type Config struct {
	Trace     bool   // write an instruction-level trace
	TraceFile string // trace destination, default cpu_log.txt
	MaxSteps  int    // stop Run after this many instructions; 0 means unlimited
	Log       *logrus.Logger
	// Later: wall-clock pacing, debugger hooks, etc.
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.TraceFile == "" {
		c.TraceFile = "cpu_log.txt"
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
}
