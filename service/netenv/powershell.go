package netenv

import (
	"errors"
	"math"
	"net/netip"

	"github.com/tidwall/gjson"

	"github.com/safing/sysresolvers/base/log"
)

// siteLocalPlaceholders are configured by Windows on adapters without any
// DNS servers. They are not real resolvers.
var siteLocalPlaceholders = []netip.Addr{
	netip.MustParseAddr("fec0:0:0:ffff::1"),
	netip.MustParseAddr("fec0:0:0:ffff::2"),
	netip.MustParseAddr("fec0:0:0:ffff::3"),
}

func isSiteLocalPlaceholder(address string) bool {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return false
	}
	addr = addr.WithZone("")
	for _, placeholder := range siteLocalPlaceholders {
		if addr == placeholder {
			return true
		}
	}
	return false
}

// adapterMetric returns the metric used to rank an adapter. The IPv4 metric is
// 0 on adapters without IPv4, these use their IPv6 metric instead.
func adapterMetric(ipv4Metric, ipv6Metric uint32) int {
	if ipv4Metric == 0 {
		return int(ipv6Metric)
	}
	return int(ipv4Metric)
}

// parseDNSClientServerAddresses parses the JSON output of
// Get-DnsClientServerAddress. ConvertTo-Json emits a single object instead of
// an array if there is only one entry. Server addresses are kept as printed.
func parseDNSClientServerAddresses(data []byte) ([]InterfaceResolverSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("failed to parse dns client server addresses: invalid json")
	}

	var entries []gjson.Result
	result := gjson.ParseBytes(data)
	switch {
	case result.IsArray():
		entries = result.Array()
	case result.IsObject():
		entries = []gjson.Result{result}
	default:
		return nil, errors.New("failed to parse dns client server addresses: unexpected json type")
	}

	var sets []InterfaceResolverSet
	positions := make(map[uint64]int)
	for _, entry := range entries {
		ifIndex := entry.Get("InterfaceIndex").Uint()
		pos, ok := positions[ifIndex]
		if !ok {
			// Without a metric, rank after every interface that has one.
			priority := math.MaxInt32
			if metric := entry.Get("InterfaceMetric"); metric.Type == gjson.Number {
				priority = int(metric.Int())
			}
			pos = len(sets)
			positions[ifIndex] = pos
			sets = append(sets, InterfaceResolverSet{
				Interface: entry.Get("InterfaceAlias").String(),
				Source:    "powershell",
				Priority:  priority,
			})
		}

		servers := entry.Get("ServerAddresses")
		if !servers.IsArray() && servers.Type == gjson.String {
			servers = gjson.Parse("[" + servers.Raw + "]")
		}
		for _, server := range servers.Array() {
			if server.Type != gjson.String || isSiteLocalPlaceholder(server.Str) {
				continue
			}
			sets[pos].Servers = append(sets[pos].Servers, server.Str)
		}
	}

	// Drop interfaces without servers.
	filtered := sets[:0]
	for _, set := range sets {
		if len(set.Servers) > 0 {
			filtered = append(filtered, set)
		} else {
			log.Tracef("netenv: interface %s has no dns servers", set.Interface)
		}
	}
	return filtered, nil
}
