package tcp

import (
	"context"
	"fmt"
	"net"
	"syscall"
)

// Listen binds a listening socket on address with SO_REUSEADDR set, so a
// restarted server can rebind while old connections sit in TIME_WAIT.
//
// Example:
//
//	ln, err := tcp.Listen("tcp", ":8080")
//	if err != nil {
//	    return err
//	}
//	defer ln.Close()
func Listen(network, address string) (net.Listener, error) {
	addr, err := ResolveTCPAddr(network, address)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{Control: setSocketOptions}
	ln, err := lc.Listen(context.Background(), network, addr.String())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// setSocketOptions runs on the raw socket before bind.
func setSocketOptions(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	if sockErr != nil {
		return fmt.Errorf("failed to set SO_REUSEADDR: %w", sockErr)
	}
	return nil
}
