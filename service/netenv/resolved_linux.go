package netenv

import (
	"fmt"
	"net"
	"strconv"
	"syscall"

	"github.com/godbus/dbus/v5"
)

const (
	resolvedDest        = "org.freedesktop.resolve1"
	resolvedObjectPath  = dbus.ObjectPath("/org/freedesktop/resolve1")
	resolvedDNSProperty = "org.freedesktop.resolve1.Manager.DNS"
)

// resolvedSource asks systemd-resolved for its upstream DNS servers over D-Bus.
type resolvedSource struct{}

var _ Source = resolvedSource{}

func (resolvedSource) Name() string { return "systemd-resolved-dbus" }

func (resolvedSource) Query() ([]InterfaceResolverSet, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("dbus: failed to connect to system bus: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	return getNameserversFromResolved(busPropertyReader{conn: conn, dest: resolvedDest}, interfaceName)
}

// resolvedDNSEntry is one entry of the Manager.DNS property, a(iiay).
type resolvedDNSEntry struct {
	IfIndex int32
	Family  int32
	Address []byte
}

func getNameserversFromResolved(bus propertyReader, ifNameByIndex func(int) string) ([]InterfaceResolverSet, error) {
	dnsVariant, err := bus.GetProperty(resolvedObjectPath, resolvedDNSProperty)
	if err != nil {
		return nil, fmt.Errorf("dbus: failed to access %s: %w", resolvedDNSProperty, err)
	}

	entries, err := decodeResolvedDNS(dnsVariant)
	if err != nil {
		return nil, err
	}

	return groupResolvedEntries(entries, ifNameByIndex), nil
}

func decodeResolvedDNS(v dbus.Variant) ([]resolvedDNSEntry, error) {
	raw, ok := v.Value().([][]interface{})
	if !ok {
		return nil, fmt.Errorf("could not assert type of %s", resolvedDNSProperty)
	}

	entries := make([]resolvedDNSEntry, 0, len(raw))
	for _, fields := range raw {
		if len(fields) != 3 {
			continue
		}
		ifIndex, ok1 := fields[0].(int32)
		family, ok2 := fields[1].(int32)
		address, ok3 := fields[2].([]byte)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		entries = append(entries, resolvedDNSEntry{
			IfIndex: ifIndex,
			Family:  family,
			Address: address,
		})
	}
	return entries, nil
}

// groupResolvedEntries groups the entries by interface. Groups are ranked
// by the position of their first entry; ifindex 0 is the global configuration.
func groupResolvedEntries(entries []resolvedDNSEntry, ifNameByIndex func(int) string) []InterfaceResolverSet {
	var sets []InterfaceResolverSet
	positions := make(map[int32]int)

	for _, entry := range entries {
		pos, ok := positions[entry.IfIndex]
		if !ok {
			name := "global"
			if entry.IfIndex != 0 {
				name = ifNameByIndex(int(entry.IfIndex))
			}
			pos = len(sets)
			positions[entry.IfIndex] = pos
			sets = append(sets, InterfaceResolverSet{
				Interface: name,
				Source:    "systemd-resolved",
				Priority:  pos,
			})
		}

		zone := ""
		if entry.IfIndex != 0 {
			zone = sets[pos].Interface
		}

		var server string
		switch {
		case entry.Family == syscall.AF_INET && len(entry.Address) == net.IPv4len:
			server = net.IP(entry.Address).String()
		case entry.Family == syscall.AF_INET6 && len(entry.Address) == net.IPv6len:
			server = withZone(net.IP(entry.Address).String(), zone)
		default:
			// Keep the entry, so that it is counted as invalid.
			server = ""
		}
		sets[pos].Servers = append(sets[pos].Servers, server)
	}

	return sets
}

// interfaceName returns the name of the interface with the given index.
// If the interface does not exist, the index is returned as a string.
func interfaceName(index int) string {
	iface, err := net.InterfaceByIndex(index)
	if err != nil {
		return strconv.Itoa(index)
	}
	return iface.Name
}
