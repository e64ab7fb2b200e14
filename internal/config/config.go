// Package config resolves command line flags, QSIM_* environment
// variables and an optional .env file into a Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"qsim/internal/quantum"
)

// EnvPrefix prefixes every environment override, e.g. QSIM_SHOTS.
const EnvPrefix = "QSIM"

// DotEnv is loaded before flags are resolved when present.
const DotEnv = ".env"

var (
	ErrUsage = errors.New("usage")
	// ErrHelp is returned when -h/--help was requested.
	ErrHelp = pflag.ErrHelp
)

// Mode selects the front end.
type Mode string

const (
	ModeRun  Mode = "run"
	ModeTUI  Mode = "tui"
	ModeREPL Mode = "repl"
)

// Config is the resolved configuration of one invocation.
type Config struct {
	File           string
	Mode           Mode
	Qubits         int
	Shots          int
	Seed           uint64
	Seeded         bool
	JSON           bool
	JSONPath       string
	CSV            bool
	CSVPath        string
	VerifyTeleport bool
	LogLevel       log.Level
}

func newFlagSet() *pflag.FlagSet {
	set := pflag.NewFlagSet("qsim", pflag.ContinueOnError)
	set.SetOutput(io.Discard)
	set.SortFlags = false

	set.String("mode", string(ModeRun), "front end: run, tui or repl")
	set.Int("qubits", 3, "initial register size before any qreg declaration")
	set.Int("shots", 1, "sample the final state N times")
	set.Uint64("seed", 0, "seed the measurement generator for reproducible runs")
	set.Bool("json", false, "export state to JSON after execution")
	set.String("json-path", "state.json", "JSON export destination")
	set.Bool("csv", false, "export state to CSV after execution")
	set.String("csv-path", "state.csv", "CSV export destination")
	set.Bool("verify-teleport", false, "verify the circuit as a teleportation protocol")
	set.String("log-level", "warn", "log level: debug, info, warn or error")
	return set
}

// Usage returns the flag table.
func Usage() string {
	return newFlagSet().FlagUsages()
}

// Load reads .env when present and resolves args against it.
func Load(args []string) (*Config, error) {
	if err := loadDotEnv(DotEnv); err != nil {
		return nil, err
	}
	return load(args, viper.New())
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func load(args []string, v *viper.Viper) (*Config, error) {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:           Mode(strings.ToLower(v.GetString("mode"))),
		Qubits:         v.GetInt("qubits"),
		Shots:          v.GetInt("shots"),
		Seed:           v.GetUint64("seed"),
		Seeded:         v.IsSet("seed"),
		JSON:           v.GetBool("json"),
		JSONPath:       v.GetString("json-path"),
		CSV:            v.GetBool("csv"),
		CSVPath:        v.GetString("csv-path"),
		VerifyTeleport: v.GetBool("verify-teleport"),
	}

	level, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	cfg.LogLevel = level

	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		cfg.File = rest[0]
	default:
		return nil, fmt.Errorf("%w: expected one circuit file, got %d", ErrUsage, len(rest))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeRun, ModeTUI:
		if c.File == "" {
			return fmt.Errorf("%w: no QASM file provided", ErrUsage)
		}
	case ModeREPL:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrUsage, c.Mode)
	}
	if c.Shots < 1 {
		return fmt.Errorf("%w: shots must be at least 1, got %d", ErrUsage, c.Shots)
	}
	if c.Qubits < 1 || c.Qubits > quantum.MaxQubits {
		return fmt.Errorf("%w: qubits must be in [1, %d], got %d", ErrUsage, quantum.MaxQubits, c.Qubits)
	}
	return nil
}
