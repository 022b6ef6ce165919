package netenv

import (
	"errors"
	"fmt"
	"net"

	"github.com/godbus/dbus/v5"

	"github.com/safing/sysresolvers/base/log"
)

const (
	nmDest       = "org.freedesktop.NetworkManager"
	nmObjectPath = dbus.ObjectPath("/org/freedesktop/NetworkManager")
)

// propertyReader reads D-Bus properties of a single destination.
type propertyReader interface {
	GetProperty(path dbus.ObjectPath, property string) (dbus.Variant, error)
}

type busPropertyReader struct {
	conn *dbus.Conn
	dest string
}

func (bpr busPropertyReader) GetProperty(path dbus.ObjectPath, property string) (dbus.Variant, error) {
	return bpr.conn.Object(bpr.dest, path).GetProperty(property)
}

// networkManagerSource asks NetworkManager for the nameservers of all active
// connections. The primary connection ranks first, the others follow in the
// order NetworkManager lists them.
type networkManagerSource struct{}

var _ Source = networkManagerSource{}

func (networkManagerSource) Name() string { return "networkmanager" }

func (networkManagerSource) Query() ([]InterfaceResolverSet, error) {
	// cmdline tool for exploring: gdbus introspect --system --dest org.freedesktop.NetworkManager --object-path /org/freedesktop/NetworkManager
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("dbus: failed to connect to system bus: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	return getNameserversFromNetworkManager(busPropertyReader{conn: conn, dest: nmDest})
}

func getNameserversFromNetworkManager(bus propertyReader) ([]InterfaceResolverSet, error) {
	primaryConnectionVariant, err := bus.GetProperty(nmObjectPath, "org.freedesktop.NetworkManager.PrimaryConnection")
	if err != nil {
		return nil, fmt.Errorf("dbus: failed to access NetworkManager.PrimaryConnection: %w", err)
	}
	primaryConnection, ok := primaryConnectionVariant.Value().(dbus.ObjectPath)
	if !ok {
		return nil, errors.New("dbus: could not assert type of /org/freedesktop/NetworkManager:org.freedesktop.NetworkManager.PrimaryConnection")
	}

	activeConnectionsVariant, err := bus.GetProperty(nmObjectPath, "org.freedesktop.NetworkManager.ActiveConnections")
	if err != nil {
		return nil, fmt.Errorf("dbus: failed to access NetworkManager.ActiveConnections: %w", err)
	}
	activeConnections, ok := activeConnectionsVariant.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, errors.New("dbus: could not assert type of /org/freedesktop/NetworkManager:org.freedesktop.NetworkManager.ActiveConnections")
	}

	// The primary connection is "/" if there is none.
	var sortedConnections []dbus.ObjectPath
	if isActiveObject(primaryConnection) {
		sortedConnections = append(sortedConnections, primaryConnection)
	}
	for _, activeConnection := range activeConnections {
		if isActiveObject(activeConnection) && !objectPathInSlice(activeConnection, sortedConnections) {
			sortedConnections = append(sortedConnections, activeConnection)
		}
	}

	sets := make([]InterfaceResolverSet, 0, len(sortedConnections))
	for priority, activeConnection := range sortedConnections {
		ifName := dbusGetConnectionInterface(bus, activeConnection)
		set := InterfaceResolverSet{
			Interface: ifName,
			Source:    "networkmanager",
			Priority:  priority,
		}

		for _, ipVersion := range []uint8{4, 6} {
			servers, err := dbusGetConnectionNameservers(bus, activeConnection, ipVersion, ifName)
			if err != nil {
				log.Warningf("netenv: failed to get IPv%d nameservers of %s: %s", ipVersion, activeConnection, err)
				continue
			}
			set.Servers = append(set.Servers, servers...)
		}

		if len(set.Servers) > 0 {
			sets = append(sets, set)
		}
	}

	return sets, nil
}

func dbusGetConnectionNameservers(bus propertyReader, connection dbus.ObjectPath, ipVersion uint8, ifName string) ([]string, error) {
	ipConfigPropertyKey := fmt.Sprintf("org.freedesktop.NetworkManager.Connection.Active.Ip%dConfig", ipVersion)
	nameserversIPsPropertyKey := fmt.Sprintf("org.freedesktop.NetworkManager.IP%dConfig.Nameservers", ipVersion)

	// Get Interface Configuration.
	ipConfigVariant, err := bus.GetProperty(connection, ipConfigPropertyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s:%s: %w", connection, ipConfigPropertyKey, err)
	}
	ipConfig, ok := ipConfigVariant.Value().(dbus.ObjectPath)
	if !ok {
		return nil, fmt.Errorf("could not assert type of %s:%s", connection, ipConfigPropertyKey)
	}

	// Check if interface is active in the selected IP version
	if !isActiveObject(ipConfig) {
		return nil, nil
	}

	// Get Nameserver IPs
	nameserverIPsVariant, err := bus.GetProperty(ipConfig, nameserversIPsPropertyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s:%s: %w", ipConfig, nameserversIPsPropertyKey, err)
	}

	var servers []string
	switch ipVersion {
	case 4:
		nameserverIP4s, ok := nameserverIPsVariant.Value().([]uint32)
		if !ok {
			return nil, fmt.Errorf("could not assert type of %s:%s", ipConfig, nameserversIPsPropertyKey)
		}
		for _, ip := range nameserverIP4s {
			servers = append(servers, nmIPv4(ip).String())
		}
	case 6:
		nameserverIP6s, ok := nameserverIPsVariant.Value().([][]byte)
		if !ok {
			return nil, fmt.Errorf("could not assert type of %s:%s", ipConfig, nameserversIPsPropertyKey)
		}
		for _, ip := range nameserverIP6s {
			if len(ip) != net.IPv6len {
				log.Tracef("netenv: skipping IPv6 nameserver with invalid length from %s: %q", ipConfig, ip)
				continue
			}
			servers = append(servers, withZone(net.IP(ip).String(), ifName))
		}
	}

	return servers, nil
}

// dbusGetConnectionInterface returns the IP interface name of the first
// device of the connection, or an empty string.
func dbusGetConnectionInterface(bus propertyReader, connection dbus.ObjectPath) string {
	devicesVariant, err := bus.GetProperty(connection, "org.freedesktop.NetworkManager.Connection.Active.Devices")
	if err != nil {
		return ""
	}
	devices, ok := devicesVariant.Value().([]dbus.ObjectPath)
	if !ok || len(devices) == 0 {
		return ""
	}

	for _, property := range []string{
		"org.freedesktop.NetworkManager.Device.IpInterface",
		"org.freedesktop.NetworkManager.Device.Interface",
	} {
		nameVariant, err := bus.GetProperty(devices[0], property)
		if err != nil {
			continue
		}
		if name, ok := nameVariant.Value().(string); ok && name != "" {
			return name
		}
	}
	return ""
}

// nmIPv4 converts an IPv4 address as sent by NetworkManager.
// The address is in network byte order, read as a little endian integer.
func nmIPv4(ip uint32) net.IP {
	a := uint8(ip / 16777216)
	b := uint8((ip % 16777216) / 65536)
	c := uint8((ip % 65536) / 256)
	d := uint8(ip % 256)
	return net.IPv4(d, c, b, a)
}

func isActiveObject(path dbus.ObjectPath) bool {
	return path.IsValid() && path != "/"
}

func objectPathInSlice(a dbus.ObjectPath, list []dbus.ObjectPath) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}
