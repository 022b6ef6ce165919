package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/sysresolvers/service/netenv"
)

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "warning", s.Log)
	assert.Equal(t, netenv.DefaultResolvConfPath, s.Discovery.ResolvConfPath)

	path := filepath.Join(t.TempDir(), "sysresolvers.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
log: debug
discovery:
  disable_networkmanager: true
  resolv_conf: /run/systemd/resolve/resolv.conf
`), 0o600))

	s, err = loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.Log)
	assert.True(t, s.Discovery.DisableNetworkManager)
	assert.False(t, s.Discovery.DisableResolved)
	assert.Equal(t, "/run/systemd/resolve/resolv.conf", s.Discovery.ResolvConfPath)
}

func TestLoadSettingsErrors(t *testing.T) {
	t.Parallel()

	_, err := loadSettings(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("discovery: [not, a, map]\n"), 0o600))
	_, err = loadSettings(path)
	require.Error(t, err)
}
