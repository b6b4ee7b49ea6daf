// Package tailnet discovers this machine's primary addresses on a Tailscale
// style overlay network by scanning local interfaces.
package tailnet

import (
	"net"
	"net/netip"
	"sort"
	"strings"
)

var (
	// IPv4Range is the shared address space overlay nodes are numbered from.
	IPv4Range = netip.MustParsePrefix("100.64.0.0/10")
	// IPv6Range is the overlay's unique local IPv6 range.
	IPv6Range = netip.MustParsePrefix("fd7a:115c:a1e0::/48")
)

// preferredInterfacePrefixes name interfaces the overlay client creates.
var preferredInterfacePrefixes = []string{"tailscale", "utun", "ts"}

// InterfaceAddr is one address assigned to a local interface.
type InterfaceAddr struct {
	Interface string
	Addr      netip.Addr
}

// Lister enumerates interface addresses.
type Lister func() ([]InterfaceAddr, error)

// Discovery implements gatewaynet.OverlayNetwork. Every lookup rescans the
// interfaces, so addresses assigned after startup are seen.
type Discovery struct {
	list Lister
}

// New returns a Discovery backed by the host's network interfaces.
func New() *Discovery {
	return NewWithLister(SystemInterfaces)
}

// NewWithLister returns a Discovery backed by list. A nil list reports no
// addresses.
func NewWithLister(list Lister) *Discovery {
	return &Discovery{list: list}
}

// PrimaryIPv4 returns the primary overlay IPv4 address, if any.
func (d *Discovery) PrimaryIPv4() (string, bool) {
	return d.primary(IPv4Range)
}

// PrimaryIPv6 returns the primary overlay IPv6 address, if any.
func (d *Discovery) PrimaryIPv6() (string, bool) {
	return d.primary(IPv6Range)
}

func (d *Discovery) primary(prefix netip.Prefix) (string, bool) {
	if d == nil || d.list == nil {
		return "", false
	}

	addrs, err := d.list()
	if err != nil {
		return "", false
	}

	candidates := make([]InterfaceAddr, 0, len(addrs))
	for _, a := range addrs {
		addr := a.Addr.Unmap()
		if addr.IsValid() && prefix.Contains(addr) {
			candidates = append(candidates, InterfaceAddr{Interface: a.Interface, Addr: addr})
		}
	}

	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := isPreferredInterface(candidates[i].Interface), isPreferredInterface(candidates[j].Interface)
		if pi != pj {
			return pi
		}
		if candidates[i].Interface != candidates[j].Interface {
			return candidates[i].Interface < candidates[j].Interface
		}
		return candidates[i].Addr.Less(candidates[j].Addr)
	})

	return candidates[0].Addr.String(), true
}

func isPreferredInterface(name string) bool {
	name = strings.ToLower(name)
	for _, prefix := range preferredInterfacePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// IsTailnetAddr reports whether ip is inside either overlay range.
func IsTailnetAddr(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}

	addr = addr.Unmap()
	return IPv4Range.Contains(addr) || IPv6Range.Contains(addr)
}

// SystemInterfaces lists addresses of interfaces that are up and not loopback.
func SystemInterfaces() ([]InterfaceAddr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []InterfaceAddr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}

			addr, ok := netip.AddrFromSlice(ipNet.IP)
			if !ok {
				continue
			}
			out = append(out, InterfaceAddr{Interface: iface.Name, Addr: addr.Unmap()})
		}
	}

	return out, nil
}
