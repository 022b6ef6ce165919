package netenv

import (
	"github.com/safing/sysresolvers/base/log"
)

// Discovery discovers the resolvers of the operating system.
// It holds no state between queries and is safe for concurrent use.
type Discovery struct {
	source Source
}

// NewDiscovery returns a Discovery using the platform sources configured by opts.
// If opts is nil, DefaultOptions is used.
func NewDiscovery(opts *Options) *Discovery {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Discovery{
		source: defaultSource(opts),
	}
}

// NewDiscoveryWithSource returns a Discovery using the given source.
func NewDiscoveryWithSource(src Source) *Discovery {
	return &Discovery{
		source: src,
	}
}

// Source returns the source used by the Discovery.
func (d *Discovery) Source() Source {
	return d.source
}

// Snapshot queries the operating system once and returns the merged result.
func (d *Discovery) Snapshot() (*ResolverSnapshot, error) {
	queriesTotal.Inc()

	sets, err := d.source.Query()
	if err != nil {
		queryErrorsTotal.Inc()
		return nil, newQueryError(d.source.Name(), err)
	}

	snapshot, skipped := buildSnapshot(sets)
	if skipped > 0 {
		skippedEntriesTotal.Add(skipped)
		log.Tracef("netenv: skipped %d invalid resolver entries from %s", skipped, d.source.Name())
	}
	resolverCount.Update(float64(snapshot.Len()))

	return snapshot, nil
}

// ListResolvers returns all resolver addresses in order of preference.
// An empty list is a valid result.
func (d *Discovery) ListResolvers() ([]ResolverAddress, error) {
	snapshot, err := d.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Addresses(), nil
}

// BestIPv6Resolver returns the most preferred IPv6 resolver address.
// If no IPv6 resolver is configured, ok is false and err is nil.
func (d *Discovery) BestIPv6Resolver() (addr ResolverAddress, ok bool, err error) {
	snapshot, err := d.Snapshot()
	if err != nil {
		return "", false, err
	}
	addr, ok = snapshot.BestIPv6()
	return addr, ok, nil
}

// GetSnapshot queries the operating system with the default options.
func GetSnapshot() (*ResolverSnapshot, error) {
	return NewDiscovery(nil).Snapshot()
}

// ListResolvers returns all resolver addresses with the default options.
func ListResolvers() ([]ResolverAddress, error) {
	return NewDiscovery(nil).ListResolvers()
}

// BestIPv6Resolver returns the most preferred IPv6 resolver with the default options.
func BestIPv6Resolver() (ResolverAddress, bool, error) {
	return NewDiscovery(nil).BestIPv6Resolver()
}
