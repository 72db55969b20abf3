// Package netaddr canonicalizes listen addresses.
//
// A listen address may be spelled many ways: a bare port (3000, "3000",
// "*:3000"), an IPv4 "host:port", a bracketed IPv6 "[::1]:3000", or a host
// name. Normalize maps all of them onto one textual "host:port" form so
// that equal addresses compare equal.
package netaddr

import (
	"context"
	"net"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/jubilee-go/internal/core/domain"
)

// AnyIPv4 is the host used when an address names only a port.
const AnyIPv4 = "0.0.0.0"

// resolveTimeout bounds host name lookups during canonicalization.
const resolveTimeout = 5 * time.Second

var (
	portOnlyPattern  = regexp.MustCompile(`\A(?:\*:)?(\d+)\z`)
	bracketedPattern = regexp.MustCompile(`\A\[([a-fA-F0-9:.]+)\]:(\d+)\z`)
	hostPortPattern  = regexp.MustCompile(`\A(.*):(\d+)\z`)
	dottedPattern    = regexp.MustCompile(`\A[0-9.]+\z`)
)

// lookupNetIP resolves host names. Replaced in tests.
var lookupNetIP = net.DefaultResolver.LookupNetIP

// Normalize translates an address specification into a canonical
// "host:port" string.
//
// Recognized forms, in order:
//
//	3000, "3000", "*:3000"   -> "0.0.0.0:3000"
//	"[::1]:3000"             -> "[::1]:3000"
//	"127.0.0.1:3000"         -> "127.0.0.1:3000"
//	"::1:3000"               -> "[::1]:3000"
//	"127.000.000.001:3000"   -> "127.0.0.1:3000"
//	"[::ffff:10.0.0.1]:80"   -> "10.0.0.1:80"
//
// Strings without a colon are returned unchanged. Everything else that
// cannot be canonicalized fails with domain.ErrInvalidAddress.
func Normalize(addr any) (string, error) {
	switch v := addr.(type) {
	case string:
		return normalizeString(v)
	case int:
		return portOnly(int64(v))
	case int64:
		return portOnly(v)
	case int32:
		return portOnly(int64(v))
	case uint16:
		return portOnly(int64(v))
	default:
		return "", domain.ErrInvalidAddress.Detailf("unsupported address %v (%T)", addr, addr)
	}
}

func normalizeString(s string) (string, error) {
	if m := portOnlyPattern.FindStringSubmatch(s); m != nil {
		port, err := parsePort(m[1])
		if err != nil {
			return "", err
		}
		return AnyIPv4 + ":" + strconv.Itoa(port), nil
	}
	if m := bracketedPattern.FindStringSubmatch(s); m != nil {
		return canonicalize(m[1], m[2])
	}
	if m := hostPortPattern.FindStringSubmatch(s); m != nil {
		return canonicalize(m[1], m[2])
	}
	if strings.Contains(s, ":") {
		return "", domain.ErrInvalidAddress.Detailf("missing or non-numeric port in %q", s)
	}
	return s, nil
}

func portOnly(port int64) (string, error) {
	if port < 1 || port > 65535 {
		return "", domain.ErrInvalidAddress.Detailf("port out of range: %d", port)
	}
	return AnyIPv4 + ":" + strconv.FormatInt(port, 10), nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, domain.ErrInvalidAddress.Detailf("port out of range: %s", s)
	}
	return port, nil
}

// canonicalize packs host and port through the address family rules and
// unpacks them again. IPv6 hosts come back wrapped in brackets.
func canonicalize(host, portText string) (string, error) {
	port, err := parsePort(portText)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if host == "" || host == "*" {
		return AnyIPv4 + ":" + strconv.Itoa(port), nil
	}
	if strings.ContainsAny(host, "[]") {
		return "", domain.ErrInvalidAddress.Detailf("malformed brackets in host %q", host)
	}

	ip, err := resolve(host)
	if err != nil {
		return "", err
	}

	unpacked := ip.String()
	if strings.Contains(unpacked, ":") {
		return "[" + unpacked + "]:" + strconv.Itoa(port), nil
	}
	return unpacked + ":" + strconv.Itoa(port), nil
}

// resolve returns the address host names. IPv4-mapped IPv6 results are
// unmapped, so IPv4 hosts never come back bracketed.
func resolve(host string) (netip.Addr, error) {
	if ip, err := netip.ParseAddr(host); err == nil {
		return ip.Unmap(), nil
	}
	// Dotted digits are never host names.
	if dottedPattern.MatchString(host) {
		if ip, ok := parseDottedDecimal(host); ok {
			return ip, nil
		}
		return netip.Addr{}, domain.ErrInvalidAddress.Detailf("malformed IPv4 address %q", host)
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	ips, err := lookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.Addr{}, domain.ErrInvalidAddress.Detailf("cannot resolve host %q", host).WithCause(err)
	}
	if len(ips) == 0 {
		return netip.Addr{}, domain.ErrInvalidAddress.Detailf("no addresses for host %q", host)
	}
	return ips[0].Unmap(), nil
}

// parseDottedDecimal accepts four decimal octets with leading zeros, which
// netip rejects. Octets are always decimal: "010" is 10.
func parseDottedDecimal(s string) (netip.Addr, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return netip.Addr{}, false
	}
	var octets [4]byte
	for i, p := range parts {
		if p == "" {
			return netip.Addr{}, false
		}
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return netip.Addr{}, false
		}
		octets[i] = byte(n)
	}
	return netip.AddrFrom4(octets), true
}

// Split separates a canonical address into its host and numeric port.
// IPv6 hosts keep their brackets.
func Split(canonical string) (string, int, error) {
	i := strings.LastIndex(canonical, ":")
	if i < 0 {
		return "", 0, domain.ErrInvalidAddress.Detailf("no port in address %q", canonical)
	}
	port, err := parsePort(canonical[i+1:])
	if err != nil {
		return "", 0, err
	}
	return canonical[:i], port, nil
}

// Join is the inverse of Split.
func Join(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}
