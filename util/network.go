package util

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// PeerAddr turns what the operator typed ("10.0.0.7" or
// "10.0.0.7:7800") into a dialable address, filling in defaultPort when
// no port is given.
func PeerAddr(peer string, defaultPort int) (string, error) {
	if peer == "" {
		return "", fmt.Errorf("empty peer address")
	}
	host, port, err := net.SplitHostPort(peer)
	if err != nil {
		// No port, or a bare IPv6 literal.
		return FormatAddr(strings.Trim(peer, "[]"), defaultPort), nil
	}
	if host == "" {
		return "", fmt.Errorf("peer %q has no host", peer)
	}
	n, err := strconv.Atoi(port)
	if err != nil || !ValidPort(n) {
		return "", fmt.Errorf("peer %q: invalid port %q", peer, port)
	}
	return peer, nil
}

// ValidPort reports whether p is a usable TCP port.
func ValidPort(p int) bool { return p >= 1 && p <= 65535 }

// HostOf returns the host part of a "host:port" address, or addr
// unchanged when it has no port.
func HostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// LocalIP returns the first non-loopback IPv4 address of this host, the
// address a peer on the same network would use to reach us.  It falls
// back to 127.0.0.1.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "127.0.0.1"
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
