package netenv

import (
	"fmt"

	"github.com/miekg/dns"
)

// resolvConfSource reads the resolvers from a resolv.conf style file.
type resolvConfSource struct {
	path string
}

var _ Source = (*resolvConfSource)(nil)

func (rs *resolvConfSource) Name() string { return "resolv.conf" }

func (rs *resolvConfSource) Query() ([]InterfaceResolverSet, error) {
	config, err := dns.ClientConfigFromFile(rs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rs.path, err)
	}
	return setsFromResolvConf(config, rs.path), nil
}

// setsFromResolvConf converts a parsed resolv.conf into a single set.
// The nameserver entries are kept exactly as written.
func setsFromResolvConf(config *dns.ClientConfig, path string) []InterfaceResolverSet {
	if config == nil || len(config.Servers) == 0 {
		return nil
	}

	servers := make([]string, len(config.Servers))
	copy(servers, config.Servers)

	return []InterfaceResolverSet{{
		Interface: path,
		Source:    "resolv.conf",
		Priority:  0,
		Servers:   servers,
	}}
}
