// Package forwarding installs and removes routes in the host's kernel
// forwarding table; the reconciliation that decides which intents to
// emit lives in core.ForwardingReconciler.
package forwarding

import "net"

// Plane installs and removes kernel forwarding-table entries, keyed by
// destination prefix in CIDR notation. Both operations are idempotent:
// installing an already-installed route, or removing an already-absent
// one, is not an error, and neither returns one — failures are logged by
// the implementation itself; the core never observes them.
type Plane interface {
	// Install ensures prefix is routed via nextHop, replacing any
	// existing route to the same prefix. A nil nextHop installs a
	// directly-connected route.
	Install(prefix string, nextHop net.IP)

	// Remove ensures no route to prefix remains.
	Remove(prefix string)
}
