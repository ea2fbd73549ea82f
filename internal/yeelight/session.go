package yeelight

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultPort is the TCP port Yeelight fixtures listen on for LAN control.
const DefaultPort = 55443

const (
	DefaultDialTimeout  = 2 * time.Second
	DefaultWriteTimeout = 2 * time.Second
)

// Session delivers encoded commands to one fixture. Every Send opens a fresh
// connection and closes it before returning, even on failure; the fixture
// drops idle connections on its own schedule, so there is no keep-alive.
// Connect and write both carry deadlines so a hung fixture cannot stall the
// control loop forever.
type Session struct {
	addr         string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewSession targets a fixture at host:port. A non-positive port selects
// DefaultPort; non-positive timeouts select the defaults.
func NewSession(host string, port int, dialTimeout, writeTimeout time.Duration) *Session {
	if port <= 0 {
		port = DefaultPort
	}
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Session{
		addr:         net.JoinHostPort(host, strconv.Itoa(port)),
		dialTimeout:  dialTimeout,
		writeTimeout: writeTimeout,
	}
}

// Addr returns the fixture endpoint in host:port form.
func (s *Session) Addr() string {
	return s.addr
}

// Send writes one encoded command over a dedicated connection and returns
// the number of bytes written. Failures are reported to the caller and never
// retried here; each cycle of the control loop attempts its own connection.
func (s *Session) Send(ctx context.Context, payload []byte) (int, error) {
	d := net.Dialer{Timeout: s.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return 0, fmt.Errorf("connect to fixture %s: %w", s.addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return 0, fmt.Errorf("set write deadline for %s: %w", s.addr, err)
	}

	n, err := conn.Write(payload)
	if err != nil {
		return n, fmt.Errorf("write to fixture %s: %w", s.addr, err)
	}
	return n, nil
}
