package osdetail

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmdNoCommand(t *testing.T) {
	t.Parallel()

	_, err := RunCmd()
	require.Error(t, err)
}

func TestRunCmdNotInstalled(t *testing.T) {
	t.Parallel()

	_, err := RunCmd("this-command-does-not-exist-anywhere")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRunCmd(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("echo is a shell builtin on windows")
	}

	output, err := RunCmd("echo", "  resolver  ")
	require.NoError(t, err)
	assert.Equal(t, "resolver", string(output))

	_, err = RunCmd("echo", "")
	assert.ErrorIs(t, err, ErrEmptyOutput)
}
