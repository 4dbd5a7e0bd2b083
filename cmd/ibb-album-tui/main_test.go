package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "ibb-album-tui", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestNewRootCmd_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json5")
	require.NoError(t, os.WriteFile(path, []byte("{ nope"), 0644))

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--config", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestNewRootCmd_RejectsArgs(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"https://ibb.co/album/Jw0Rgd"})
	assert.Error(t, cmd.Execute())
}
