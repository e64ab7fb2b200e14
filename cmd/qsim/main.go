// Command qsim runs restricted OpenQASM programs on a state-vector
// simulator.
package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"qsim/internal/config"
	"qsim/internal/console"
	"qsim/internal/export"
	"qsim/internal/qasm"
	"qsim/internal/repl"
	"qsim/internal/rng"
	"qsim/internal/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	p := console.New(stdout)
	p.Banner()

	cfg, err := config.Load(args)
	if errors.Is(err, config.ErrHelp) {
		p.Usage("qsim", config.Usage())
		return 0
	}
	if err != nil {
		p.Errorf("%v", err)
		p.Usage("qsim", config.Usage())
		return 1
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "qsim", Level: cfg.LogLevel})

	src := rng.New()
	if cfg.Seeded {
		src = rng.NewSeeded(cfg.Seed)
	}

	switch cfg.Mode {
	case config.ModeTUI:
		return runTUI(cfg, src, p)
	case config.ModeREPL:
		return runREPL(cfg, src, logger, p)
	}
	return runBatch(cfg, src, logger, p)
}

func runBatch(cfg *config.Config, src rng.Source, logger *log.Logger, p *console.Printer) int {
	in, err := qasm.New(qasm.WithLogger(logger), qasm.WithSource(src), qasm.WithQubits(cfg.Qubits))
	if err != nil {
		p.Errorf("%v", err)
		return 1
	}

	p.Loading(cfg.File)
	summary, err := in.RunFile(cfg.File)
	if err != nil {
		p.Errorf("%v", err)
		return 1
	}
	p.Summary(summary)

	sys := in.System()
	if cfg.Shots > 1 {
		p.Histogram(sys.RunShots(cfg.Shots))
	} else {
		p.State(sys)
	}

	exports := []struct {
		on     bool
		path   string
		format export.Format
	}{
		{cfg.JSON, cfg.JSONPath, export.FormatJSON},
		{cfg.CSV, cfg.CSVPath, export.FormatCSV},
	}
	for _, e := range exports {
		if !e.on {
			continue
		}
		if err := export.WriteFile(e.path, e.format, sys); err != nil {
			p.Errorf("%v", err)
			continue
		}
		p.Exported(e.path)
	}

	if cfg.VerifyTeleport {
		report, err := in.VerifyTeleportation(cfg.File)
		p.Teleport(report)
		if err != nil {
			p.Errorf("%v", err)
			return 0
		}
		if v, err := sys.QubitState(qasm.TeleportTarget); err == nil {
			p.Ket("receiver", v)
		}
		p.State(sys)
	}
	return 0
}

func runTUI(cfg *config.Config, src rng.Source, p *console.Printer) int {
	data, err := os.ReadFile(cfg.File)
	if err != nil {
		p.Errorf("%v", err)
		return 1
	}
	m, err := tui.New(string(data), tui.Options{
		Qubits:   cfg.Qubits,
		Shots:    cfg.Shots,
		Source:   src,
		LogLevel: cfg.LogLevel,
	})
	if err != nil {
		p.Errorf("%v", err)
		return 1
	}
	if err := tui.Run(m); err != nil {
		p.Errorf("%v", err)
		return 1
	}
	return 0
}

func runREPL(cfg *config.Config, src rng.Source, logger *log.Logger, p *console.Printer) int {
	in, err := qasm.New(qasm.WithLogger(logger), qasm.WithSource(src), qasm.WithQubits(cfg.Qubits))
	if err != nil {
		p.Errorf("%v", err)
		return 1
	}
	if cfg.File != "" {
		p.Loading(cfg.File)
		summary, err := in.RunFile(cfg.File)
		if err != nil {
			p.Errorf("%v", err)
			return 1
		}
		p.Summary(summary)
	}

	if err := repl.New(in).Run(historyFile()); err != nil {
		p.Errorf("%v", err)
		return 1
	}
	return 0
}

// historyFile is the readline history location, or "" to disable history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "qsim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
