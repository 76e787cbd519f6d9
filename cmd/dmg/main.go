package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"dmgcore/internal/cart"
	"dmgcore/internal/emu"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: dmg [-l] [-steps N] [-trace-file F] <rom-path>\n")
	fmt.Fprintf(os.Stderr, "  -l    Enable CPU logging to cpu_log.txt\n")
	flag.PrintDefaults()
}

func main() {
	logging := flag.Bool("l", false, "enable instruction-level CPU log")
	steps := flag.Int("steps", 0, "max CPU steps to run (0 = unlimited)")
	traceFile := flag.String("trace-file", "cpu_log.txt", "CPU log destination (with -l)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	c, err := cart.Load(romPath)
	if err != nil {
		log.WithError(err).Fatal("load cartridge")
	}

	m, err := emu.New(c, emu.Config{
		Trace:     *logging,
		TraceFile: *traceFile,
		MaxSteps:  *steps,
		Log:       log,
	})
	if err != nil {
		log.WithError(err).Fatal("build machine")
	}
	defer m.Close()
	if *logging {
		log.WithField("file", *traceFile).Info("CPU logging enabled")
	}

	// SIGINT/SIGTERM set the stop sentinel; the loop exits between
	// instructions.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		m.Stop()
	}()

	if err := m.Run(); err != nil {
		log.WithError(err).Error("emulation stopped")
		os.Exit(1)
	}
	log.WithField("cycles", m.Cycles()).Info("done")
}
