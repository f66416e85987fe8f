package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCatalog(t *testing.T) {
	out, err := execute(t, "catalog")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "KEY"))
	assert.Contains(t, out, "Gold")
	assert.Contains(t, out, "guard")

	wild, err := execute(t, "catalog", "--faction", "wild")
	require.NoError(t, err)
	assert.NotContains(t, wild, "IMPERIAL")
	assert.Contains(t, wild, "WILD")

	_, err = execute(t, "catalog", "--faction", "pirates")
	assert.Error(t, err)
}

func TestSimulateAndVerifyReplay(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "simulate", "--seed", "3", "--replay-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "seed 3,")
	assert.Contains(t, out, "replay: ")

	files, err := filepath.Glob(filepath.Join(dir, "*.replay"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	out, err = execute(t, "replay", "verify", files[0])
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+files[0])

	out, err = execute(t, "replay", "show", files[0])
	require.NoError(t, err)
	assert.Contains(t, out, "setup base, seed 3")
	assert.Contains(t, out, "seat 0")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	steps := lines[2:]
	require.NotEmpty(t, steps)

	out, err = execute(t, "replay", "show", "--step", "0", files[0])
	require.NoError(t, err)
	assert.Equal(t, steps[0], strings.Split(strings.TrimSpace(out), "\n")[2])

	out, err = execute(t, "replay", "show", "--reverse", files[0])
	require.NoError(t, err)
	reversed := strings.Split(strings.TrimSpace(out), "\n")[2:]
	require.Len(t, reversed, len(steps))
	for i := range steps {
		assert.Equal(t, steps[i], reversed[len(steps)-1-i])
	}

	_, err = execute(t, "replay", "show", "--step", "100000", files[0])
	assert.ErrorContains(t, err, "out of range")
}

func TestSimulateIsReproducible(t *testing.T) {
	first, err := execute(t, "simulate", "--seed", "11", "--players", "3", "--limit", "200")
	require.NoError(t, err)
	second, err := execute(t, "simulate", "--seed", "11", "--players", "3", "--limit", "200")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimulateRejectsBadInput(t *testing.T) {
	_, err := execute(t, "simulate", "--setup", "expansion")
	assert.Error(t, err)
	_, err = execute(t, "simulate", "--players", "1")
	assert.Error(t, err)
}

func TestReplayVerifyReportsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.replay")
	require.NoError(t, os.WriteFile(path, []byte("not a replay"), 0o644))

	out, err := execute(t, "replay", "verify", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1")
	assert.Contains(t, out, "FAIL "+path)
}
