package registry

import (
	"net"
	"strconv"
	"time"
)

// IsPortLive attempts a bounded TCP connect to host:port. A successful
// connect means something is listening. Connection errors and timeouts
// both read as "not live" since an unreachable host is indistinguishable
// from an available port for our purposes. The result is best-effort: it
// can go stale before the caller binds the port.
func IsPortLive(host string, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
