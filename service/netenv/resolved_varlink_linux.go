package netenv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/varlink/go/varlink"

	"github.com/safing/sysresolvers/base/log"
)

const (
	resolvedMonitorAddress = "unix:/run/systemd/resolve/io.systemd.Resolve.Monitor"
	resolvedDumpServers    = "io.systemd.Resolve.Monitor.DumpServerState"

	varlinkTimeout = 2 * time.Second
)

// resolvedVarlinkSource asks systemd-resolved for its upstream DNS servers
// over the varlink monitor interface. Access usually requires root.
type resolvedVarlinkSource struct {
	address string
}

var _ Source = resolvedVarlinkSource{}

func (resolvedVarlinkSource) Name() string { return "systemd-resolved-varlink" }

func (rs resolvedVarlinkSource) Query() ([]InterfaceResolverSet, error) {
	address := rs.address
	if address == "" {
		address = resolvedMonitorAddress
	}

	ctx, cancel := context.WithTimeout(context.Background(), varlinkTimeout)
	defer cancel()

	varlinkConn, err := varlink.NewConnection(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd-resolved varlink service: %w", err)
	}
	defer func() {
		if err := varlinkConn.Close(); err != nil {
			log.Debugf("netenv: failed to close varlink connection: %s", err)
		}
	}()

	receive, err := varlinkConn.Send(ctx, resolvedDumpServers, nil, 0)
	if err != nil {
		return nil, varlinkError("failed to issue Varlink call", err)
	}
	var reply resolvedServerStateReply
	if _, err := receive(ctx, &reply); err != nil {
		return nil, varlinkError("failed to receive Varlink reply", err)
	}

	return groupResolvedServerState(reply.Dump, interfaceName), nil
}

func varlinkError(msg string, err error) error {
	var varlinkErr *varlink.Error
	if errors.As(err, &varlinkErr) {
		return fmt.Errorf("%s: %+v", msg, varlinkErr.Parameters)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

type resolvedServerStateReply struct {
	Dump []resolvedServerState `json:"dump"`
}

// resolvedServerState is the part of a server state dump used here.
type resolvedServerState struct {
	Server         string `json:"Server"`
	Type           string `json:"Type"`
	Interface      string `json:"Interface,omitempty"`
	InterfaceIndex int    `json:"InterfaceIndex,omitempty"`
}

// groupResolvedServerState groups the servers like groupResolvedEntries.
// Fallback servers are not part of the configuration and are ignored.
func groupResolvedServerState(servers []resolvedServerState, ifNameByIndex func(int) string) []InterfaceResolverSet {
	var sets []InterfaceResolverSet
	positions := make(map[int]int)

	for _, server := range servers {
		ifIndex := 0
		switch server.Type {
		case "fallback":
			continue
		case "link":
			ifIndex = server.InterfaceIndex
		}

		pos, ok := positions[ifIndex]
		if !ok {
			name := "global"
			if ifIndex != 0 {
				name = server.Interface
				if name == "" {
					name = ifNameByIndex(ifIndex)
				}
			}
			pos = len(sets)
			positions[ifIndex] = pos
			sets = append(sets, InterfaceResolverSet{
				Interface: name,
				Source:    "systemd-resolved",
				Priority:  pos,
			})
		}

		address, zone := splitResolvedServer(server.Server)
		switch {
		case ifIndex != 0:
			zone = sets[pos].Interface
		case zone != "":
			if index, err := strconv.Atoi(zone); err == nil {
				zone = ifNameByIndex(index)
			}
		}
		sets[pos].Servers = append(sets[pos].Servers, withZone(address, zone))
	}

	return sets
}

// splitResolvedServer splits the textual server representation of
// systemd-resolved, eg. "[fe80::1]:5353%2#dns.example", into the address
// and the zone. Port and server name are dropped.
func splitResolvedServer(server string) (address, zone string) {
	if i := strings.IndexByte(server, '#'); i >= 0 {
		server = server[:i]
	}
	if i := strings.IndexByte(server, '%'); i >= 0 {
		zone = server[i+1:]
		server = server[:i]
		if j := strings.IndexAny(zone, "]:"); j >= 0 {
			// Zone inside brackets, eg. "[fe80::1%2]:53".
			server += zone[j:]
			zone = zone[:j]
		}
	}

	switch {
	case strings.HasPrefix(server, "["):
		end := strings.IndexByte(server, ']')
		if end < 0 {
			return server, zone
		}
		return server[1:end], zone
	case strings.Count(server, ":") == 1:
		// IPv4 with port.
		return server[:strings.IndexByte(server, ':')], zone
	default:
		return server, zone
	}
}
