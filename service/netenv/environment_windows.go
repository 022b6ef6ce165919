package netenv

import (
	"errors"
	"fmt"
	"strconv"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/safing/sysresolvers/base/utils/osdetail"
)

const (
	gaaFlagSkipUnicast   = 0x0001
	gaaFlagSkipAnycast   = 0x0002
	gaaFlagSkipMulticast = 0x0004
)

// adaptersSource reads the DNS servers of all adapters that are up.
// Adapters are ranked by their interface metric, see adapterMetric.
type adaptersSource struct{}

var _ Source = adaptersSource{}

func (adaptersSource) Name() string { return "adapters" }

func (adaptersSource) Query() ([]InterfaceResolverSet, error) {
	first, err := getAdapterAddresses()
	if err != nil {
		return nil, err
	}

	var sets []InterfaceResolverSet
	for aa := first; aa != nil; aa = aa.Next {
		if aa.OperStatus != windows.IfOperStatusUp {
			continue
		}

		ifIndex := aa.Ipv6IfIndex
		if ifIndex == 0 {
			ifIndex = aa.IfIndex
		}
		zone := strconv.FormatUint(uint64(ifIndex), 10)
		var servers []string
		for server := aa.FirstDnsServerAddress; server != nil; server = server.Next {
			address := socketAddressString(&server.Address)
			if isSiteLocalPlaceholder(address) {
				continue
			}
			servers = append(servers, withZone(address, zone))
		}
		if len(servers) == 0 {
			continue
		}

		sets = append(sets, InterfaceResolverSet{
			Interface: windows.UTF16PtrToString(aa.FriendlyName),
			Source:    "adapters",
			Priority:  adapterMetric(aa.Ipv4Metric, aa.Ipv6Metric),
			Servers:   servers,
		})
	}

	return sets, nil
}

func getAdapterAddresses() (*windows.IpAdapterAddresses, error) {
	size := uint32(15000) // Recommended initial size.
	for {
		buf := make([]byte, size)
		first := (*windows.IpAdapterAddresses)(unsafe.Pointer(&buf[0]))
		err := windows.GetAdaptersAddresses(
			windows.AF_UNSPEC,
			gaaFlagSkipUnicast|gaaFlagSkipAnycast|gaaFlagSkipMulticast,
			0,
			first,
			&size,
		)
		switch {
		case err == nil:
			if size == 0 {
				return nil, nil
			}
			return first, nil
		case errors.Is(err, windows.ERROR_BUFFER_OVERFLOW) && size > uint32(len(buf)):
			// Retry with the size requested by the system.
		case errors.Is(err, windows.ERROR_NO_DATA):
			return nil, nil
		default:
			return nil, fmt.Errorf("GetAdaptersAddresses: %w", err)
		}
	}
}

// socketAddressString returns the textual form of the address, including the
// scope id of IPv6 addresses that have one.
func socketAddressString(sa *windows.SocketAddress) string {
	ip := sa.IP()
	if ip == nil {
		return ""
	}
	address := ip.String()

	if ip.To4() == nil && sa.Sockaddr.Addr.Family == windows.AF_INET6 {
		raw := (*windows.RawSockaddrInet6)(unsafe.Pointer(sa.Sockaddr))
		if raw.Scope_id != 0 && ip.IsLinkLocalUnicast() {
			address += "%" + strconv.FormatUint(uint64(raw.Scope_id), 10)
		}
	}
	return address
}

// powershellSource asks the DnsClient PowerShell module.
type powershellSource struct{}

var _ Source = powershellSource{}

func (powershellSource) Name() string { return "powershell" }

const dnsClientServerScript = `Get-DnsClientServerAddress | ForEach-Object { [PSCustomObject]@{
  InterfaceAlias = $_.InterfaceAlias
  InterfaceIndex = $_.InterfaceIndex
  AddressFamily = [int]$_.AddressFamily
  ServerAddresses = @($_.ServerAddresses)
  InterfaceMetric = (Get-NetIPInterface -InterfaceIndex $_.InterfaceIndex -ErrorAction SilentlyContinue | Measure-Object -Property InterfaceMetric -Minimum).Minimum
} } | ConvertTo-Json -Compress`

func (powershellSource) Query() ([]InterfaceResolverSet, error) {
	output, err := osdetail.RunPowershellCmd(dnsClientServerScript)
	switch {
	case errors.Is(err, osdetail.ErrEmptyOutput):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get dns client server addresses: %w", err)
	}
	return parseDNSClientServerAddresses(output)
}

// defaultSource uses the adapter API and falls back to PowerShell.
func defaultSource(_ *Options) Source {
	return &fallbackSource{
		name: "windows",
		sources: []Source{
			adaptersSource{},
			powershellSource{},
		},
	}
}
