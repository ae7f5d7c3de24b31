package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", "testdata/missing.yaml", "--log-level", "error"}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	out := run(t, "classify", "123", "12", "12-34", "--tracks", "Real")
	assert.Contains(t, out, "Pick 3")
	assert.Contains(t, out, "RD-Quiniela")
	assert.Contains(t, out, "Pale-RD")
}

func TestTotalCommand(t *testing.T) {
	out := run(t, "total", "123", "--straight", "1", "--box", "1", "--combo", "1")
	assert.Equal(t, "123 (Pick 3): 8.00\n", out)
}

func TestRoundDownCommand(t *testing.T) {
	out := run(t, "rounddown", "120-129", "--straight", "2")
	assert.Contains(t, out, "129")
	assert.Contains(t, out, "Total: 20.00")
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, run(t, "version"), "beast-reader dev")
}
