package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := load([]string{"bell.qasm"}, viper.New())
	require.NoError(t, err)

	assert.Equal(t, &Config{
		File:     "bell.qasm",
		Mode:     ModeRun,
		Qubits:   3,
		Shots:    1,
		JSONPath: "state.json",
		CSVPath:  "state.csv",
		LogLevel: log.WarnLevel,
	}, cfg)
}

func TestFlags(t *testing.T) {
	cfg, err := load([]string{
		"--json", "--csv", "--shots", "100", "--seed", "42",
		"--json-path", "out/a.json", "--verify-teleport", "--log-level", "debug",
		"teleport.qasm",
	}, viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.JSON)
	assert.True(t, cfg.CSV)
	assert.Equal(t, 100, cfg.Shots)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.Seeded)
	assert.Equal(t, "out/a.json", cfg.JSONPath)
	assert.True(t, cfg.VerifyTeleport)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "teleport.qasm", cfg.File)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("QSIM_SHOTS", "64")
	t.Setenv("QSIM_CSV_PATH", "env.csv")
	t.Setenv("QSIM_MODE", "REPL")

	cfg, err := load(nil, viper.New())
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Shots)
	assert.Equal(t, "env.csv", cfg.CSVPath)
	assert.Equal(t, ModeREPL, cfg.Mode)
	assert.False(t, cfg.Seeded)

	cfg, err = load([]string{"--shots", "2", "--mode", "run", "x.qasm"}, viper.New())
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Shots, "flags win over the environment")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", nil},
		{"two files", []string{"a.qasm", "b.qasm"}},
		{"unknown flag", []string{"--bogus", "a.qasm"}},
		{"zero shots", []string{"--shots", "0", "a.qasm"}},
		{"bad shots", []string{"--shots", "many", "a.qasm"}},
		{"bad mode", []string{"--mode", "gui", "a.qasm"}},
		{"too many qubits", []string{"--qubits", "64", "a.qasm"}},
		{"no qubits", []string{"--qubits", "0", "a.qasm"}},
		{"bad level", []string{"--log-level", "loud", "a.qasm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.args, viper.New())
			assert.ErrorIs(t, err, ErrUsage)
		})
	}
}

func TestREPLNeedsNoFile(t *testing.T) {
	cfg, err := load([]string{"--mode", "repl"}, viper.New())
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
}

func TestHelp(t *testing.T) {
	_, err := load([]string{"--help"}, viper.New())
	assert.ErrorIs(t, err, ErrHelp)
	assert.Contains(t, Usage(), "--verify-teleport")
}

func TestDotEnv(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QSIM_QUBITS=5\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("QSIM_QUBITS") })

	require.NoError(t, loadDotEnv(path))
	cfg, err := load([]string{"a.qasm"}, viper.New())
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Qubits)
}
