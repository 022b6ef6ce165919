package netenv

import (
	"errors"
	"net/netip"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSource(sets ...InterfaceResolverSet) Source {
	return SourceFunc{
		SourceName: "static",
		Fn: func() ([]InterfaceResolverSet, error) {
			return sets, nil
		},
	}
}

func failingSource(name string) Source {
	return SourceFunc{
		SourceName: name,
		Fn: func() ([]InterfaceResolverSet, error) {
			return nil, errors.New("subsystem unavailable")
		},
	}
}

func TestNoInterfaces(t *testing.T) {
	t.Parallel()

	d := NewDiscoveryWithSource(staticSource())

	resolvers, err := d.ListResolvers()
	require.NoError(t, err)
	assert.Empty(t, resolvers)

	_, ok, err := d.BestIPv6Resolver()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTwoInterfaces(t *testing.T) {
	t.Parallel()

	// Reported in reverse priority order on purpose.
	d := NewDiscoveryWithSource(staticSource(
		InterfaceResolverSet{Interface: "B", Priority: 1, Servers: []string{"8.8.8.8", "2606:4700:4700::1111"}},
		InterfaceResolverSet{Interface: "A", Priority: 0, Servers: []string{"8.8.8.8", "2001:4860:4860::8888"}},
	))

	resolvers, err := d.ListResolvers()
	require.NoError(t, err)
	assert.Equal(t, []ResolverAddress{"8.8.8.8", "2001:4860:4860::8888", "2606:4700:4700::1111"}, resolvers)

	best, ok, err := d.BestIPv6Resolver()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ResolverAddress("2001:4860:4860::8888"), best)
}

func TestLinkLocalZoneIsKept(t *testing.T) {
	t.Parallel()

	d := NewDiscoveryWithSource(staticSource(
		InterfaceResolverSet{Interface: "en0", Servers: []string{"fe80::1%en0"}},
	))

	resolvers, err := d.ListResolvers()
	require.NoError(t, err)
	assert.Equal(t, []ResolverAddress{"fe80::1%en0"}, resolvers)

	best, ok, err := d.BestIPv6Resolver()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ResolverAddress("fe80::1%en0"), best)
}

func TestPlatformFailure(t *testing.T) {
	t.Parallel()

	d := NewDiscoveryWithSource(failingSource("broken"))

	resolvers, err := d.ListResolvers()
	require.Error(t, err)
	assert.Nil(t, resolvers)
	assert.ErrorIs(t, err, ErrPlatformQuery)

	var pqErr *PlatformQueryError
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, "broken", pqErr.Source)

	best, ok, err := d.BestIPv6Resolver()
	assert.ErrorIs(t, err, ErrPlatformQuery)
	assert.False(t, ok)
	assert.Empty(t, best)

	snapshot, err := d.Snapshot()
	assert.ErrorIs(t, err, ErrPlatformQuery)
	assert.Nil(t, snapshot)
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	d := NewDiscoveryWithSource(staticSource(
		InterfaceResolverSet{Priority: 2, Servers: []string{"9.9.9.9", "2620:fe::fe"}},
		InterfaceResolverSet{Priority: 0, Servers: []string{"1.1.1.1"}},
		InterfaceResolverSet{Priority: 2, Servers: []string{"149.112.112.112"}},
	))

	first, err := d.ListResolvers()
	require.NoError(t, err)
	second, err := d.ListResolvers()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []ResolverAddress{"1.1.1.1", "9.9.9.9", "2620:fe::fe", "149.112.112.112"}, first)
}

func TestEveryAddressParses(t *testing.T) {
	t.Parallel()

	d := NewDiscoveryWithSource(staticSource(
		InterfaceResolverSet{Servers: []string{"", "  ", "dns.example.com", "1.2.3.4", "1.2.3.4%eth0", "300.1.1.1", "::1", "fe80::53%wlan0", "[::1]", "10.0.0.1:53"}},
	))

	resolvers, err := d.ListResolvers()
	require.NoError(t, err)
	assert.Equal(t, []ResolverAddress{"1.2.3.4", "::1", "fe80::53%wlan0"}, resolvers)
	for _, r := range resolvers {
		_, err := netip.ParseAddr(r.String())
		assert.NoError(t, err, r)
	}
}

func TestBestIPv6IsFirstIPv6(t *testing.T) {
	t.Parallel()

	d := NewDiscoveryWithSource(staticSource(
		InterfaceResolverSet{Priority: 0, Servers: []string{"192.168.1.1"}},
		InterfaceResolverSet{Priority: 1, Servers: []string{"10.0.0.1", "fd00::1", "2001:db8::53"}},
	))

	snapshot, err := d.Snapshot()
	require.NoError(t, err)

	best, ok := snapshot.BestIPv6()
	require.True(t, ok)
	for _, addr := range snapshot.Addresses() {
		if addr.IsIPv6() {
			assert.Equal(t, addr, best)
			break
		}
	}
	assert.Contains(t, snapshot.Addresses(), best)
}

func TestConcurrentQueries(t *testing.T) {
	t.Parallel()

	d := NewDiscoveryWithSource(staticSource(
		InterfaceResolverSet{Servers: []string{"8.8.8.8", "2001:4860:4860::8888"}},
	))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resolvers, err := d.ListResolvers()
			assert.NoError(t, err)
			assert.Len(t, resolvers, 2)
		}()
	}
	wg.Wait()
}

func TestNewDiscoveryUsesPlatformSource(t *testing.T) {
	t.Parallel()

	d := NewDiscovery(nil)
	require.NotNil(t, d.Source())
	assert.NotEmpty(t, d.Source().Name())
}
