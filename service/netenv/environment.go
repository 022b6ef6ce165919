package netenv

import (
	"net/netip"
	"strings"
)

// ResolverAddress is the textual form of a resolver IP address as reported by
// the operating system. IPv6 link-local addresses may carry a zone suffix,
// eg. "fe80::1%en0".
type ResolverAddress string

// String returns the address as reported by the operating system.
func (ra ResolverAddress) String() string {
	return string(ra)
}

// IsIPv6 returns whether the address is an IPv6 literal.
// IPv4-mapped IPv6 addresses count as IPv6, as they are written as such.
func (ra ResolverAddress) IsIPv6() bool {
	addr, err := netip.ParseAddr(string(ra))
	if err != nil {
		return false
	}
	return addr.Is6()
}

// IsIPv4 returns whether the address is an IPv4 literal.
func (ra ResolverAddress) IsIPv4() bool {
	addr, err := netip.ParseAddr(string(ra))
	if err != nil {
		return false
	}
	return addr.Is4()
}

// InterfaceResolverSet holds the resolvers one network interface or service
// is configured with.
type InterfaceResolverSet struct {
	// Interface is the OS name of the interface or service.
	// It is empty or a descriptive name for global configuration.
	Interface string
	// Source is the name of the platform source that reported the set.
	Source string
	// Priority ranks the set, lower is preferred.
	Priority int
	// Servers holds the resolver addresses in the order the OS reports them.
	Servers []string
}

// normalizeAddress checks if the given candidate is a usable resolver
// address. Only surrounding whitespace is removed, the textual form is
// otherwise left untouched.
func normalizeAddress(candidate string) (ResolverAddress, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}
	if _, err := netip.ParseAddr(candidate); err != nil {
		return "", false
	}
	return ResolverAddress(candidate), true
}

// withZone adds the zone to IPv6 link-local addresses that do not have one.
// All other addresses are returned unchanged.
func withZone(address, zone string) string {
	if zone == "" {
		return address
	}
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return address
	}
	if addr.Is6() && addr.Zone() == "" &&
		(addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast()) {
		return address + "%" + zone
	}
	return address
}
