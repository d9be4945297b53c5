package core

import (
	"net"

	"dvrouter/forwarding"
)

// ForwardingReconciler maintains a shadow map of what the core has asked
// the kernel to install, and emits the minimal set of install/remove
// intents to converge kernel state to logical state.
//
// Owned exclusively by the event loop goroutine; no locking.
type ForwardingReconciler struct {
	plane     forwarding.Plane
	network   map[string]string // router id -> CIDR prefix it owns
	installed map[string]string // prefix -> next-hop address currently requested
}

// NewForwardingReconciler builds a reconciler against network, the
// global router-identifier-to-prefix mapping from configuration.
func NewForwardingReconciler(plane forwarding.Plane, network map[string]string) *ForwardingReconciler {
	return &ForwardingReconciler{
		plane:     plane,
		network:   network,
		installed: make(map[string]string),
	}
}

// Reconcile runs one pass against rt, resolving next hops through
// neighbors' configured addresses.
func (fr *ForwardingReconciler) Reconcile(rt *RoutingTable, neighbors *NeighborTable, infinity float64) {
	reachablePrefixes := make(map[string]bool, len(rt.routes))

	for destination, r := range rt.routes {
		if destination == rt.self {
			continue
		}
		prefix, known := fr.network[destination]
		if !known {
			// Unresolvable identifier: leave it in the logical table,
			// retried each reconciliation.
			continue
		}

		if r.Cost >= infinity {
			if _, present := fr.installed[prefix]; present {
				fr.plane.Remove(prefix)
				delete(fr.installed, prefix)
			}
			continue
		}

		nb, known := neighbors.Get(r.NextHop)
		if !known {
			// Next hop not in the neighbor map: not installed, retried
			// each pass.
			continue
		}
		nextHopAddr := hostOf(nb.Addr)
		reachablePrefixes[prefix] = true
		if current, present := fr.installed[prefix]; !present || current != nextHopAddr {
			fr.plane.Install(prefix, net.ParseIP(nextHopAddr))
			fr.installed[prefix] = nextHopAddr
		}
	}

	for prefix := range fr.installed {
		if !reachablePrefixes[prefix] {
			fr.plane.Remove(prefix)
			delete(fr.installed, prefix)
		}
	}
}

// hostOf strips a trailing ":port" from a neighbor's configured
// "host:port" address, since a forwarding-table next hop is a bare IP.
func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
