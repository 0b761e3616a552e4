// Copyright (c) 2024 Neomantra Corp

// Package sockopt negotiates the receive-buffer size for a session's TCP
// connection, the way §4.2.1 requires: request a large buffer, accept
// whatever the kernel actually grants, and fail if that is below the floor
// the double-buffered receive loop needs.
package sockopt

import (
	"fmt"
	"net"

	"github.com/higebu/netfd"
	"golang.org/x/sys/unix"
)

// RequestRcvBuf asks the kernel for a socket receive buffer of at least
// wantBytes on conn, then reads back the value the kernel actually granted
// (Linux doubles the requested value for bookkeeping overhead, so the
// granted value is read back rather than assumed). It returns an error if
// the granted buffer is smaller than wantBytes.
func RequestRcvBuf(conn net.Conn, wantBytes int) (int, error) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return 0, fmt.Errorf("sockopt: connection is not a *net.TCPConn")
	}

	fd := netfd.GetFdFromConn(tcpConn)
	if fd < 0 {
		return 0, fmt.Errorf("sockopt: could not extract file descriptor")
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, wantBytes); err != nil {
		return 0, fmt.Errorf("sockopt: setsockopt SO_RCVBUF: %w", err)
	}

	got, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF)
	if err != nil {
		return 0, fmt.Errorf("sockopt: getsockopt SO_RCVBUF: %w", err)
	}

	// The kernel commonly reports double the requested value to account
	// for its own bookkeeping overhead (see socket(7)), so an honored
	// request reads back at or above wantBytes. The second clause is
	// implied by the first: only a grant below wantBytes is rejected.
	if got < wantBytes && got < wantBytes*2 {
		return got, fmt.Errorf("sockopt: kernel granted %d bytes, want at least %d", got, wantBytes)
	}
	return got, nil
}
