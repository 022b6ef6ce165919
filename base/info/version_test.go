package info

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) { //nolint:paralleltest // Modifies package state.
	assert.Equal(t, "0.0.0", SemVer().String(), "dev build")

	require.Error(t, Set("sysresolvers", "not-a-version", "GPLv3"))
	require.NoError(t, Set("sysresolvers", "v1.2.3", "GPLv3"))
	assert.Equal(t, "1.2.3", SemVer().String())

	full := FullVersion()
	assert.True(t, strings.HasPrefix(full, "sysresolvers v1.2.3\n"), full)
	assert.Contains(t, full, "GPLv3")
	require.NoError(t, CheckVersion())
}
