package mcp

import (
	"fmt"
	"net"
	"strconv"
)

// FreePort returns the first loopback port in [first, last] that can be bound.
func FreePort(first, last int) (int, error) {
	for port := first; port <= last; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		_ = l.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no free port in %d-%d", first, last)
}
