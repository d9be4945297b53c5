package core

import "time"

// Route is one entry of the routing table: the current best-known cost
// and next hop to a destination router.
type Route struct {
	Cost    float64
	NextHop string
}

// Reachable reports whether r is usable, i.e. its cost is below the
// unreachable sentinel.
func (r Route) Reachable(infinity float64) bool {
	return r.Cost < infinity
}

// RoutingTable is the current best-known distance and next hop to every
// reachable destination.
//
// Owned exclusively by the event loop goroutine; no locking. Route
// records are created on first learning a destination and are never
// removed — a poisoned route stays in the table forever rather than
// being garbage-collected; see DESIGN.md for the reasoning.
type RoutingTable struct {
	self   string
	routes map[string]*Route
}

// NewRoutingTable creates a table containing only the self-route
// (cost 0, next hop self). Exactly one self-route exists at all times.
func NewRoutingTable(self string) *RoutingTable {
	rt := &RoutingTable{
		self:   self,
		routes: map[string]*Route{self: {Cost: 0, NextHop: self}},
	}
	return rt
}

// Self returns this router's own identifier.
func (rt *RoutingTable) Self() string { return rt.self }

// Get returns a copy of the route to destination, if known.
func (rt *RoutingTable) Get(destination string) (Route, bool) {
	r, ok := rt.routes[destination]
	if !ok {
		return Route{}, false
	}
	return *r, true
}

// Snapshot returns a copy of the full table, keyed by destination.
func (rt *RoutingTable) Snapshot() map[string]Route {
	out := make(map[string]Route, len(rt.routes))
	for dest, r := range rt.routes {
		out[dest] = *r
	}
	return out
}

// saturate caps cost arithmetic at infinity: any result at or above
// infinity is treated as exactly infinity, so a sum of two
// merely-large-but-finite costs can never wrap into a deceptively small
// or overflowed value.
func saturate(cost, infinity float64) float64 {
	if cost >= infinity {
		return infinity
	}
	return cost
}

// ApplyUpdate applies one neighbor's advertised table to this routing
// table. The caller is responsible for the unknown-sender gate — drop
// the whole datagram before calling this — and supplies that neighbor's
// precomputed link cost. It returns true if the table changed.
func (rt *RoutingTable) ApplyUpdate(
	senderID string,
	linkCost float64,
	advertised map[string]Route,
	holddown *HoldDownRegistry,
	infinity float64,
	now time.Time,
	notify Listener,
) bool {
	changed := false
	for destination, adv := range advertised {
		// The self-route is never mutated by inbound updates.
		if destination == rt.self {
			continue
		}
		// Gate 2: hold-down. Active() evicts an expired entry as a side
		// effect.
		held := holddown.Has(destination)
		if holddown.Active(destination, now) {
			continue
		}
		if held {
			notifyEvent(notify, EvHoldDownExpired, destination, "", 0)
		}
		// Gate 3: reverse path. The neighbor is re-advertising a route
		// it learned from us.
		if adv.NextHop == rt.self {
			continue
		}

		newCost := saturate(linkCost+adv.Cost, infinity)
		current, exists := rt.routes[destination]

		switch {
		case !exists:
			// Learn.
			if newCost < infinity {
				rt.routes[destination] = &Route{Cost: newCost, NextHop: senderID}
				changed = true
				notifyEvent(notify, EvRouteLearned, destination, senderID, newCost)
			}

		case current.NextHop == senderID:
			// Trusted update: unconditionally adopt, good news or bad.
			if current.Cost != newCost {
				current.Cost = newCost
				changed = true
				notifyEvent(notify, EvRouteUpdated, destination, senderID, newCost)
			}

		case newCost < current.Cost:
			// Competing update: adopt only if strictly better. Ties do
			// not switch next hop (stability).
			current.Cost = newCost
			current.NextHop = senderID
			changed = true
			notifyEvent(notify, EvRouteUpdated, destination, senderID, newCost)
		}
	}
	return changed
}

// OutboundFor assembles the advertisement to send to neighbor N, applying
// split horizon with poisoned reverse: any non-self route whose next hop
// is N is advertised back to N at infinite cost.
func (rt *RoutingTable) OutboundFor(neighborID string, infinity float64) map[string]Route {
	out := make(map[string]Route, len(rt.routes))
	for dest, r := range rt.routes {
		if dest != rt.self && r.NextHop == neighborID {
			out[dest] = Route{Cost: infinity, NextHop: r.NextHop}
		} else {
			out[dest] = *r
		}
	}
	return out
}

// PoisonViaNextHop poisons every reachable route whose next hop is
// neighborID (cost set to infinity, next hop preserved) and installs a
// hold-down entry for it. Returns true if any route changed.
func (rt *RoutingTable) PoisonViaNextHop(
	neighborID string,
	now time.Time,
	holdDownDeadline time.Time,
	holddown *HoldDownRegistry,
	infinity float64,
	notify Listener,
) bool {
	changed := false
	for destination, r := range rt.routes {
		if r.NextHop == neighborID && r.Cost < infinity {
			r.Cost = infinity
			holddown.Install(destination, holdDownDeadline)
			changed = true
			notifyEvent(notify, EvRoutePoisoned, destination, neighborID, infinity)
		}
	}
	return changed
}

func notifyEvent(notify Listener, evType int, destination, neighbor string, cost float64) {
	if notify == nil {
		return
	}
	notify(&Event{Type: evType, Destination: destination, Neighbor: neighbor, Cost: cost})
}
