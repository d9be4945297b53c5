// Package transport provides the datagram transport abstraction the
// router's event loop is built against, so the same core loop runs over
// a real UDP socket in production and over an in-memory queue in tests.
package transport

import "time"

// Transport sends and receives routing advertisements. Recv blocks for
// up to timeout and returns ok=false with no error on a plain timeout —
// that is the expected, frequent case in a quiet network, not a
// failure.
type Transport interface {
	// Send transmits payload to the neighbor endpoint addr.
	Send(addr string, payload []byte) error

	// Recv waits up to timeout for the next inbound datagram.
	Recv(timeout time.Duration) (payload []byte, from string, ok bool)

	// LocalAddr returns the address neighbors should use to reach this
	// transport.
	LocalAddr() string

	// Close releases the transport's resources.
	Close() error
}
