package netenv

import (
	"crypto/sha1" //nolint:gosec // Only used for change detection.
	"encoding/hex"
	"sort"
)

// ResolverSnapshot is the result of a single resolver discovery query.
// It is immutable after construction.
type ResolverSnapshot struct {
	addresses []ResolverAddress
	bestIPv6  ResolverAddress
	hasIPv6   bool
}

// buildSnapshot merges the given sets into a snapshot.
// Sets are ordered by priority, sets with the same priority keep the order
// they were reported in. Within a set, the server order is kept. Invalid
// entries are skipped and only the first occurrence of an address is used.
func buildSnapshot(sets []InterfaceResolverSet) (snapshot *ResolverSnapshot, skipped int) {
	ordered := make([]InterfaceResolverSet, len(sets))
	copy(ordered, sets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	snapshot = &ResolverSnapshot{}
	seen := make(map[ResolverAddress]struct{})
	for _, set := range ordered {
		for _, server := range set.Servers {
			addr, ok := normalizeAddress(server)
			if !ok {
				skipped++
				continue
			}
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}

			snapshot.addresses = append(snapshot.addresses, addr)
			if !snapshot.hasIPv6 && addr.IsIPv6() {
				snapshot.bestIPv6 = addr
				snapshot.hasIPv6 = true
			}
		}
	}

	return snapshot, skipped
}

// Addresses returns all resolver addresses in order of preference.
func (s *ResolverSnapshot) Addresses() []ResolverAddress {
	return s.filter(func(ResolverAddress) bool { return true })
}

// Len returns the amount of resolver addresses.
func (s *ResolverSnapshot) Len() int {
	return len(s.addresses)
}

// BestIPv6 returns the most preferred IPv6 resolver address, if any.
func (s *ResolverSnapshot) BestIPv6() (ResolverAddress, bool) {
	return s.bestIPv6, s.hasIPv6
}

// IPv4 returns the IPv4 resolver addresses in order of preference.
func (s *ResolverSnapshot) IPv4() []ResolverAddress {
	return s.filter(ResolverAddress.IsIPv4)
}

// IPv6 returns the IPv6 resolver addresses in order of preference.
func (s *ResolverSnapshot) IPv6() []ResolverAddress {
	return s.filter(ResolverAddress.IsIPv6)
}

// Primary returns the most preferred resolver address, if any.
func (s *ResolverSnapshot) Primary() (ResolverAddress, bool) {
	return s.nth(0)
}

// Secondary returns the second most preferred resolver address, if any.
func (s *ResolverSnapshot) Secondary() (ResolverAddress, bool) {
	return s.nth(1)
}

// Checksum returns a checksum over the ordered addresses.
// Two snapshots with the same addresses in the same order have the same checksum.
func (s *ResolverSnapshot) Checksum() string {
	hasher := sha1.New() //nolint:gosec // Only used for change detection.
	for _, addr := range s.addresses {
		_, _ = hasher.Write([]byte(addr))
		_, _ = hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func (s *ResolverSnapshot) nth(n int) (ResolverAddress, bool) {
	if n >= len(s.addresses) {
		return "", false
	}
	return s.addresses[n], true
}

func (s *ResolverSnapshot) filter(fn func(ResolverAddress) bool) []ResolverAddress {
	filtered := make([]ResolverAddress, 0, len(s.addresses))
	for _, addr := range s.addresses {
		if fn(addr) {
			filtered = append(filtered, addr)
		}
	}
	return filtered
}
