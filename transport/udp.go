package transport

import (
	"fmt"
	"net"
	"time"
)

// UDPTransport sends and receives advertisements over a UDP socket.
// Binding failure is the one condition treated as fatal at startup;
// every error past construction is non-fatal — Send failures are
// returned to the caller to log, and Recv failures are
// indistinguishable from a timeout.
type UDPTransport struct {
	conn *net.UDPConn
}

// Listen opens a UDP socket on bindAddr (host:port).
func Listen(bindAddr string) (*UDPTransport, error) {
	addr, err := net.ResolveUDPAddr("udp", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve bind address %q: %w", bindAddr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind udp socket on %q: %w", bindAddr, err)
	}
	return &UDPTransport{conn: conn}, nil
}

// Send transmits payload to addr (host:port). A destination that cannot
// be resolved or reached is reported to the caller, who logs and
// continues — a single unreachable neighbor must not stall the loop.
func (t *UDPTransport) Send(addr string, payload []byte) error {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("resolve neighbor address %q: %w", addr, err)
	}
	_, err = t.conn.WriteToUDP(payload, raddr)
	return err
}

// Recv waits up to timeout for the next inbound datagram. A timeout, a
// transient read error, and "nothing arrived" are all reported the same
// way: ok=false, nothing else to act on.
func (t *UDPTransport) Recv(timeout time.Duration) (payload []byte, from string, ok bool) {
	buf := make([]byte, 64*1024)
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, "", false
	}
	n, raddr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, "", false
	}
	out := make([]byte, n)
	copy(out, buf[:n])
	return out, raddr.String(), true
}

// LocalAddr returns the bound socket's address.
func (t *UDPTransport) LocalAddr() string {
	return t.conn.LocalAddr().String()
}

// Close releases the underlying socket.
func (t *UDPTransport) Close() error {
	return t.conn.Close()
}
