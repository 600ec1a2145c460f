package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starterapi/internal/bootstrap"
)

func TestRootCmd_SkipInstall(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, bootstrap.ExampleConfigFile), []byte("PORT=8000\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--dir", root, "--skip-install"})

	require.NoError(t, cmd.Execute())

	got, err := os.ReadFile(filepath.Join(root, bootstrap.ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "PORT=8000\n", string(got))
	assert.DirExists(t, filepath.Join(root, bootstrap.EnvDir))
	assert.Contains(t, out.String(), "skipping dependency installation")

	// second run leaves .env alone
	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", root, "--skip-install"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), ".env already exists")
}

func TestRootCmd_MissingExample(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--dir", t.TempDir(), "--skip-install"})

	err := cmd.Execute()
	require.ErrorIs(t, err, bootstrap.ErrExampleMissing)
	assert.Equal(t, 1, bootstrap.ExitCode(err))
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
