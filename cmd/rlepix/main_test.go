package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	app := newApp(dir)
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.Run(append([]string{"rlepix", "--db", filepath.Join(dir, "rlepix.db")}, args...))
}

func TestTrimRange(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"encode", []string{"encode", "--trim", "256", "missing.png"}},
		{"decode", []string{"decode", "--trim", "256", "6020"}},
		{"decode wrapped", []string{"decode", "--trim", "271", "6020"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runApp(t, tt.args...)
			require.Error(t, err)
			assert.ErrorContains(t, err, "trim must be 0 to 255")
		})
	}
}

func TestDecodeTrim(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, runApp(t, "decode", "--trim", "15", "--out", out, "6020"))
	assert.FileExists(t, out)

	// 271 would wrap to 15 if it were truncated
	out = filepath.Join(t.TempDir(), "wrapped.png")
	require.Error(t, runApp(t, "decode", "--trim", "271", "--out", out, "6020"))
	assert.NoFileExists(t, out)
}
