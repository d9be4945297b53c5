package core

import (
	"sort"
	"time"

	"dvrouter/forwarding"
	"dvrouter/transport"
)

// Field is a structured logging key/value pair.
type Field struct {
	Key string
	Val any
}

// F builds a Field concisely.
func F(key string, val any) Field { return Field{Key: key, Val: val} }

// Logger is the leveled logging seam the core depends on. Log formatting
// lives outside the core; the core only needs to call a handful of
// methods on whatever formats and ships the result.
type Logger interface {
	Named(name string) Logger
	With(fields ...Field) Logger
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// RouterConfig collects everything a Router needs to run the event loop,
// independent of how that configuration was loaded or parsed — that
// parsing is the external collaborator's job.
type RouterConfig struct {
	Self      string
	Neighbors []Neighbor
	Network   map[string]string // router id -> CIDR prefix it owns

	UpdateInterval   time.Duration
	TimeoutInterval  time.Duration
	HoldDownInterval time.Duration
	Infinity         float64
	RecvTimeout      time.Duration
	TickSleep        time.Duration
}

// Router owns the four logical components (neighbor table, routing
// table, hold-down registry, forwarding reconciler) and drives the
// single-threaded event loop. A Router is built once per process and
// driven by exactly one goroutine; it holds no lock because it needs
// none.
type Router struct {
	cfg RouterConfig

	neighbors *NeighborTable
	routes    *RoutingTable
	holddown  *HoldDownRegistry
	reconcile *ForwardingReconciler

	tr     transport.Transport
	clock  Clock
	log    Logger
	notify Listener

	lastUpdateSent time.Time
}

// NewRouter assembles a Router from cfg. The neighbor table's composite
// link costs are computed here, once — cfg.Neighbors must already
// contain the complete peer list.
func NewRouter(cfg RouterConfig, tr transport.Transport, plane forwarding.Plane, clock Clock, log Logger, notify Listener) *Router {
	if log == nil {
		log = nopLogger{}
	}
	log = log.Named(cfg.Self)
	return &Router{
		cfg:       cfg,
		neighbors: NewNeighborTable(cfg.Neighbors),
		routes:    NewRoutingTable(cfg.Self),
		holddown:  NewHoldDownRegistry(),
		reconcile: NewForwardingReconciler(plane, cfg.Network),
		tr:        tr,
		clock:     clock,
		log:       log,
		notify:    notify,
	}
}

// RoutingTable exposes the router's logical routing table, for operator
// tooling (a /debug dump) and tests.
func (r *Router) RoutingTable() *RoutingTable { return r.routes }

// Neighbors exposes the router's neighbor table.
func (r *Router) Neighbors() *NeighborTable { return r.neighbors }

// HoldDown exposes the router's hold-down registry.
func (r *Router) HoldDown() *HoldDownRegistry { return r.holddown }

// Reconcile runs one forwarding-reconciliation pass immediately, outside
// the normal change-triggered schedule.
func (r *Router) Reconcile() {
	r.reconcile.Reconcile(r.routes, r.neighbors, r.cfg.Infinity)
}

// Run executes the event loop until stop is closed. The table is logged
// and reconciled once before the loop begins, so the self-route is
// logged immediately rather than waiting for the first mutation. The
// reconciler skips the self-route, so it is never installed.
func (r *Router) Run(stop <-chan struct{}) {
	r.logTable()
	r.Reconcile()

	for {
		select {
		case <-stop:
			return
		default:
		}
		r.Tick()
	}
}

// Tick runs exactly one iteration of the event loop's sequencing:
// send-if-due, bounded-wait receive, timeout scan, conditional
// reprint+reconcile, sleep.
func (r *Router) Tick() {
	now := r.clock.Now()

	if r.lastUpdateSent.IsZero() || now.Sub(r.lastUpdateSent) >= r.cfg.UpdateInterval {
		r.sendUpdates()
		r.lastUpdateSent = now
	}

	changed := false
	if payload, from, ok := r.tr.Recv(r.cfg.RecvTimeout); ok {
		if r.handleDatagram(payload, from, r.clock.Now()) {
			changed = true
		}
	}

	if r.scanTimeouts(r.clock.Now()) {
		changed = true
	}

	if changed {
		r.logTable()
		r.reconcile.Reconcile(r.routes, r.neighbors, r.cfg.Infinity)
	}

	if r.cfg.TickSleep > 0 {
		time.Sleep(r.cfg.TickSleep)
	}
}

// sendUpdates emits a split-horizon advertisement to every neighbor. A
// send failure to one neighbor is logged and does not interrupt the
// round.
func (r *Router) sendUpdates() {
	for _, nb := range r.neighbors.All() {
		table := r.routes.OutboundFor(nb.ID, r.cfg.Infinity)
		payload, err := EncodeUpdate(r.cfg.Self, table)
		if err != nil {
			r.log.Error("encode update failed", F("neighbor", nb.ID), F("err", err))
			continue
		}
		if err := r.tr.Send(nb.Addr, payload); err != nil {
			r.log.Warn("send update failed", F("neighbor", nb.ID), F("err", err))
		}
	}
}

// handleDatagram decodes and applies one inbound advertisement. A
// malformed payload is logged at warn and discarded.
func (r *Router) handleDatagram(payload []byte, from string, now time.Time) bool {
	msg, err := DecodeUpdate(payload)
	if err != nil {
		r.log.Warn("malformed datagram discarded", F("from", from), F("err", err))
		notifyEvent(r.notify, EvMalformed, "", from, 0)
		return false
	}

	// Unknown sender gate: drop the entire datagram.
	nb, known := r.neighbors.Get(msg.SenderID)
	if !known {
		return false
	}

	r.neighbors.MarkSeen(msg.SenderID, now)
	return r.routes.ApplyUpdate(msg.SenderID, nb.LinkCost, msg.Table, r.holddown, r.cfg.Infinity, now, r.notify)
}

// scanTimeouts checks every configured neighbor's liveness, poisoning
// and holding down any that have gone silent past the timeout interval.
func (r *Router) scanTimeouts(now time.Time) bool {
	changed := false
	for _, nb := range r.neighbors.All() {
		last := r.neighbors.LastSeen(nb.ID)
		if last.IsZero() || now.Sub(last) <= r.cfg.TimeoutInterval {
			continue
		}
		deadline := now.Add(r.cfg.HoldDownInterval)
		if r.routes.PoisonViaNextHop(nb.ID, now, deadline, r.holddown, r.cfg.Infinity, r.notify) {
			changed = true
		}
		notifyEvent(r.notify, EvNeighborTimeout, "", nb.ID, 0)
		r.neighbors.ResetSeen(nb.ID)
	}
	return changed
}

// logTable prints the routing table for operators: sorted by
// destination, poisoned entries omitted.
func (r *Router) logTable() {
	snapshot := r.routes.Snapshot()
	destinations := make([]string, 0, len(snapshot))
	for dest, route := range snapshot {
		if route.Cost < r.cfg.Infinity {
			destinations = append(destinations, dest)
		}
	}
	sort.Strings(destinations)
	for _, dest := range destinations {
		route := snapshot[dest]
		r.log.Info("route", F("destination", dest), F("cost", route.Cost), F("next_hop", route.NextHop))
	}
}

// nopLogger discards everything; used when NewRouter is given a nil
// Logger, e.g. by tests that don't care about log output.
type nopLogger struct{}

func (nopLogger) Named(string) Logger      { return nopLogger{} }
func (nopLogger) With(...Field) Logger     { return nopLogger{} }
func (nopLogger) Debug(string, ...Field)   {}
func (nopLogger) Info(string, ...Field)    {}
func (nopLogger) Warn(string, ...Field)    {}
func (nopLogger) Error(string, ...Field)   {}
