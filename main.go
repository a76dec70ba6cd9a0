// main.go - entry point for the lc3vm interpreter.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/lc3vm/lc3vm/internal/logger"
)

func main() {
	optLog := getopt.StringLong("log", 'l', "", "Log file (default: none; --debug mirrors records to stderr)")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror log records to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Show usage")
	getopt.SetParameters("image.obj [image.obj ...]")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	images := getopt.Args()
	if len(images) == 0 {
		fmt.Fprintln(os.Stderr, "lc3vm: at least one object image is required")
		getopt.Usage()
		os.Exit(2)
	}

	var logFile *os.File
	if *optLog != "" {
		f, err := os.Create(*optLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lc3vm: cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logFile = f
	}
	log := slog.New(logger.New(logFile, *optDebug))

	host := NewTerminalHost()
	if err := host.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		host.Stop()
		os.Exit(130)
	}()

	machine := NewMachine(host, log)

	for _, path := range images {
		if err := loadImageFile(machine, path, log); err != nil {
			host.Stop()
			fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
			os.Exit(1)
		}
	}

	err := machine.Run()
	host.Stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
		os.Exit(1)
	}
}

func loadImageFile(m *Machine, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	origin, words, err := LoadImage(m.Mem, f)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	log.Info("image loaded", "path", path, "origin", fmt.Sprintf("%#04x", origin), "words", words)
	return nil
}
