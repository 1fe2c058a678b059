package tcp

import (
	"fmt"
	"net"
	"strconv"
)

// TCPAddr is a resolved listen address.
type TCPAddr struct {
	IP   string // IP address or host name; empty listens on every interface
	Port int
}

func (a *TCPAddr) Network() string {
	return "tcp"
}

// String returns the address in "host:port" form, bracketing IPv6 hosts.
// Returns "<nil>" if the address is nil.
func (a *TCPAddr) String() string {
	if a == nil {
		return "<nil>"
	}
	return net.JoinHostPort(a.IP, strconv.Itoa(a.Port))
}

// ResolveTCPAddr parses address for one of the tcp networks.
//
// Examples:
//   - ResolveTCPAddr("tcp", "127.0.0.1:8080") → {IP: "127.0.0.1", Port: 8080}
//   - ResolveTCPAddr("tcp", ":8080") → {IP: "", Port: 8080}
//   - ResolveTCPAddr("tcp6", "[::1]:0") → {IP: "::1", Port: 0}
func ResolveTCPAddr(network, address string) (*TCPAddr, error) {
	if network != "tcp" && network != "tcp4" && network != "tcp6" {
		return nil, fmt.Errorf("unsupported network: %s", network)
	}

	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port: %s", portStr)
	}

	return &TCPAddr{
		IP:   host,
		Port: port,
	}, nil
}
