package transport

import (
	"net/netip"
	"net/url"
	"regexp"
	"strconv"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// Ports at or below this value need root, so a swap peer never uses them.
const maxPrivilegedPort = 1023

var dottedQuad = regexp.MustCompile(`^[0-9.]+$`)

// Subnet is the local network the device is on. Swap peers are only
// recognized inside it. The zero value contains nothing.
type Subnet struct {
	prefix netip.Prefix
}

// ParseSubnet parses CIDR notation such as "192.168.1.0/24". An empty string
// yields the zero Subnet.
func ParseSubnet(cidr string) (Subnet, error) {
	if cidr == "" {
		return Subnet{}, nil
	}
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return Subnet{}, errors.Wrapf(errors.ErrInvalidSubnet, "%s: %v", cidr, err)
	}
	return Subnet{prefix: p.Masked()}, nil
}

// MustParseSubnet is ParseSubnet for constants; it panics on bad input.
func MustParseSubnet(cidr string) Subnet {
	s, err := ParseSubnet(cidr)
	if err != nil {
		panic(err)
	}
	return s
}

// IsZero reports whether no subnet is configured.
func (s Subnet) IsZero() bool { return !s.prefix.IsValid() }

// String returns the CIDR form, or "" for the zero Subnet.
func (s Subnet) String() string {
	if s.IsZero() {
		return ""
	}
	return s.prefix.String()
}

// Contains reports whether host is an IP literal inside the subnet.
func (s Subnet) Contains(host string) bool {
	if s.IsZero() {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	return s.prefix.Contains(addr.Unmap())
}

// IsSwapHost classifies host:port as a local swap peer: a non-privileged
// port, a dotted-quad literal host and an address inside subnet.
func IsSwapHost(host string, port int, subnet Subnet) bool {
	return port > maxPrivilegedPort &&
		dottedQuad.MatchString(host) &&
		subnet.Contains(host)
}

// IsSwapURL applies IsSwapHost to a URL. A URL without an explicit port is
// never a swap URL.
func IsSwapURL(u *url.URL, subnet Subnet) bool {
	if u == nil {
		return false
	}
	return IsSwapHost(u.Hostname(), explicitPort(u), subnet)
}

func explicitPort(u *url.URL) int {
	p := u.Port()
	if p == "" {
		return -1
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return -1
	}
	return n
}
