package netenv

import (
	"strconv"
	"syscall"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInterfaceName(index int) string {
	switch index {
	case 2:
		return "enp3s0"
	case 3:
		return "wlan0"
	default:
		return strconv.Itoa(index)
	}
}

func TestResolvedNameservers(t *testing.T) {
	t.Parallel()

	bus := fakeBus{
		resolvedObjectPath: {
			resolvedDNSProperty: [][]interface{}{
				{int32(3), int32(syscall.AF_INET), []byte{192, 168, 178, 1}},
				{int32(0), int32(syscall.AF_INET), []byte{1, 1, 1, 1}},
				{int32(3), int32(syscall.AF_INET6), []byte{0xfe, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}},
				{int32(2), int32(syscall.AF_INET6), []byte{0x26, 0x06, 0x47, 0, 0x47, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x11, 0x11}},
				{int32(2), int32(syscall.AF_INET), []byte{1, 2, 3}}, // Invalid.
			},
		},
	}

	sets, err := getNameserversFromResolved(bus, testInterfaceName)
	require.NoError(t, err)
	require.Len(t, sets, 3)

	assert.Equal(t, "wlan0", sets[0].Interface)
	assert.Equal(t, 0, sets[0].Priority)
	assert.Equal(t, []string{"192.168.178.1", "fe80::1%wlan0"}, sets[0].Servers)

	assert.Equal(t, "global", sets[1].Interface)
	assert.Equal(t, []string{"1.1.1.1"}, sets[1].Servers)

	assert.Equal(t, "enp3s0", sets[2].Interface)
	assert.Equal(t, 2, sets[2].Priority)
	assert.Equal(t, []string{"2606:4700:4700::1111", ""}, sets[2].Servers)

	snapshot, skipped := buildSnapshot(sets)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []ResolverAddress{"192.168.178.1", "fe80::1%wlan0", "1.1.1.1", "2606:4700:4700::1111"}, snapshot.Addresses())
}

func TestResolvedUnexpectedType(t *testing.T) {
	t.Parallel()

	bus := fakeBus{
		resolvedObjectPath: {
			resolvedDNSProperty: "not a list",
		},
	}
	_, err := getNameserversFromResolved(bus, testInterfaceName)
	require.Error(t, err)
}

func TestResolvedUnavailable(t *testing.T) {
	t.Parallel()

	_, err := getNameserversFromResolved(fakeBus{}, testInterfaceName)
	require.Error(t, err)
}

func TestDecodeResolvedDNSSkipsMalformed(t *testing.T) {
	t.Parallel()

	entries, err := decodeResolvedDNS(dbus.MakeVariant([][]interface{}{
		{int32(1), int32(syscall.AF_INET)},
		{"eth0", int32(syscall.AF_INET), []byte{1, 1, 1, 1}},
		{int32(1), int32(syscall.AF_INET), []byte{9, 9, 9, 9}},
	}))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte{9, 9, 9, 9}, entries[0].Address)
}

func TestLinuxDefaultSourceOptions(t *testing.T) {
	t.Parallel()

	stack, ok := defaultSource(DefaultOptions()).(*stackedSource)
	require.True(t, ok)
	require.Len(t, stack.sources, 3)
	assert.Equal(t, "networkmanager", stack.sources[0].Name())
	assert.Equal(t, "systemd-resolved", stack.sources[1].Name())
	resolved, ok := stack.sources[1].(*fallbackSource)
	require.True(t, ok)
	require.Len(t, resolved.sources, 2)
	assert.Equal(t, "systemd-resolved-dbus", resolved.sources[0].Name())
	assert.Equal(t, "systemd-resolved-varlink", resolved.sources[1].Name())
	assert.Equal(t, "resolv.conf", stack.sources[2].Name())

	stack, ok = defaultSource(&Options{DisableNetworkManager: true, DisableResolved: true}).(*stackedSource)
	require.True(t, ok)
	require.Len(t, stack.sources, 1)
	assert.Equal(t, "resolv.conf", stack.sources[0].Name())
}
