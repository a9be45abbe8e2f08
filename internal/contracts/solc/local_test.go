package solc

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRunsBinaryInSourcesDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as solc")
	}

	sourcesDir := t.TempDir()
	binDir := t.TempDir()
	script := filepath.Join(binDir, "solc")
	// The fake compiler echoes its arguments and working directory.
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf '%s|' \"$@\"\npwd\n"), 0755))

	out, err := Local{Binary: script}.CombinedJSON(context.Background(), sourcesDir, []string{"MetaGovernor.sol"})
	require.NoError(t, err)

	parts := strings.Split(strings.TrimSpace(string(out)), "|")
	assert.Equal(t, []string{"--combined-json", "abi,bin", "--base-path", ".", "MetaGovernor.sol"}, parts[:5])
	wantDir, err := filepath.EvalSymlinks(sourcesDir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(parts[5])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
}

func TestLocalReportsStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as solc")
	}

	script := filepath.Join(t.TempDir(), "solc")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'Error: Source not found' >&2\nexit 1\n"), 0755))

	_, err := Local{Binary: script}.CombinedJSON(context.Background(), t.TempDir(), []string{"Missing.sol"})
	assert.ErrorContains(t, err, "Error: Source not found")
}
