package core

import (
	"testing"
	"time"
)

const testInfinity = 999.0

func TestNewRoutingTableHasExactlyOneSelfRoute(t *testing.T) {
	rt := NewRoutingTable("r1")
	route, ok := rt.Get("r1")
	if !ok || route.Cost != 0 || route.NextHop != "r1" {
		t.Fatalf("self-route = %+v, ok=%v, want cost=0 next_hop=r1", route, ok)
	}
	if len(rt.Snapshot()) != 1 {
		t.Fatalf("expected exactly one route at startup, got %d", len(rt.Snapshot()))
	}
}

func TestApplyUpdateLearn(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	now := time.Now()
	changed := rt.ApplyUpdate("r2", 10, map[string]Route{
		"r3": {Cost: 5, NextHop: "r2"},
	}, hd, testInfinity, now, nil)
	if !changed {
		t.Fatal("expected change on learning a new destination")
	}
	route, ok := rt.Get("r3")
	if !ok || route.Cost != 15 || route.NextHop != "r2" {
		t.Fatalf("route to r3 = %+v, ok=%v, want cost=15 next_hop=r2", route, ok)
	}
}

func TestApplyUpdateLearnUnreachableIsNoop(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	changed := rt.ApplyUpdate("r2", 10, map[string]Route{
		"r3": {Cost: testInfinity, NextHop: "r2"},
	}, hd, testInfinity, time.Now(), nil)
	if changed {
		t.Fatal("learning an already-unreachable destination should not insert a route")
	}
	if _, ok := rt.Get("r3"); ok {
		t.Fatal("unexpected route entry for an unreachable destination never learned")
	}
}

func TestApplyUpdateTrustedUpdateAdoptsBadNews(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	now := time.Now()
	rt.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: 5, NextHop: "r2"}}, hd, testInfinity, now, nil)

	changed := rt.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: testInfinity, NextHop: "r2"}}, hd, testInfinity, now, nil)
	if !changed {
		t.Fatal("trusted update should adopt worsening cost from current next hop")
	}
	route, _ := rt.Get("r3")
	if route.Cost != testInfinity {
		t.Fatalf("route.Cost = %v, want infinity", route.Cost)
	}
}

func TestApplyUpdateCompetingUpdateRequiresStrictImprovement(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	now := time.Now()
	rt.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: 5, NextHop: "r2"}}, hd, testInfinity, now, nil)

	// Equal cost via a different neighbor must not switch next hop.
	changed := rt.ApplyUpdate("r4", 15, map[string]Route{"r3": {Cost: 0, NextHop: "r4"}}, hd, testInfinity, now, nil)
	if changed {
		t.Fatal("tied cost via a non-current next hop must not switch")
	}
	route, _ := rt.Get("r3")
	if route.NextHop != "r2" {
		t.Fatalf("next hop switched on a tie: %+v", route)
	}

	// Strictly better cost via a different neighbor must switch.
	changed = rt.ApplyUpdate("r4", 5, map[string]Route{"r3": {Cost: 0, NextHop: "r4"}}, hd, testInfinity, now, nil)
	if !changed {
		t.Fatal("expected competing update to adopt a strictly better route")
	}
	route, _ = rt.Get("r3")
	if route.NextHop != "r4" || route.Cost != 5 {
		t.Fatalf("route after competing update = %+v, want next_hop=r4 cost=5", route)
	}
}

func TestApplyUpdateGatesUnknownSenderHandledByCaller(t *testing.T) {
	// ApplyUpdate itself does not check neighbor membership — that is the
	// caller's responsibility (Router.handleDatagram); this test documents
	// that an unfiltered sender id is otherwise treated normally.
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	changed := rt.ApplyUpdate("ghost", 10, map[string]Route{"r3": {Cost: 5, NextHop: "ghost"}}, hd, testInfinity, time.Now(), nil)
	if !changed {
		t.Fatal("expected ApplyUpdate to process the update regardless of sender validity")
	}
}

func TestApplyUpdateHoldDownGateSuppressesDestination(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	now := time.Now()
	hd.Install("r3", now.Add(time.Minute))

	changed := rt.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: 1, NextHop: "r2"}}, hd, testInfinity, now, nil)
	if changed {
		t.Fatal("held-down destination must not accept new information")
	}
	if _, ok := rt.Get("r3"); ok {
		t.Fatal("held-down destination should not have been learned")
	}
}

func TestApplyUpdateReversePathGateSkipsSelfOrigin(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	changed := rt.ApplyUpdate("r2", 10, map[string]Route{"r1": {Cost: 0, NextHop: "r1"}}, hd, testInfinity, time.Now(), nil)
	if changed {
		t.Fatal("self-route must never be mutated by an inbound update")
	}

	// advertised_next_hop == self for a non-self destination is also gated.
	rt2 := NewRoutingTable("r1")
	changed = rt2.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: 1, NextHop: "r1"}}, hd, testInfinity, time.Now(), nil)
	if changed {
		t.Fatal("reverse-path gate should have skipped this destination")
	}
}

func TestOutboundForAppliesSplitHorizonPoisonedReverse(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	rt.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: 5, NextHop: "r2"}}, hd, testInfinity, time.Now(), nil)

	out := rt.OutboundFor("r2", testInfinity)
	if out["r3"].Cost < testInfinity {
		t.Fatalf("expected poisoned reverse for r3 toward r2, got %+v", out["r3"])
	}
	if out["r1"].Cost != 0 || out["r1"].NextHop != "r1" {
		t.Fatalf("self-route must be advertised verbatim, got %+v", out["r1"])
	}

	outOther := rt.OutboundFor("r4", testInfinity)
	if outOther["r3"].Cost != 15 {
		t.Fatalf("route to r3 should be advertised verbatim to an unrelated neighbor, got %+v", outOther["r3"])
	}
}

func TestPoisonViaNextHopInstallsHoldDown(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	now := time.Now()
	rt.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: 5, NextHop: "r2"}}, hd, testInfinity, now, nil)

	changed := rt.PoisonViaNextHop("r2", now, now.Add(time.Minute), hd, testInfinity, nil)
	if !changed {
		t.Fatal("expected poisoning to report a change")
	}
	route, _ := rt.Get("r3")
	if route.Cost != testInfinity || route.NextHop != "r2" {
		t.Fatalf("poisoned route = %+v, want cost=infinity next_hop preserved", route)
	}
	if !hd.Active("r3", now) {
		t.Fatal("expected hold-down to be installed for the poisoned destination")
	}
}

func TestPoisonViaNextHopIsIdempotent(t *testing.T) {
	rt := NewRoutingTable("r1")
	hd := NewHoldDownRegistry()
	now := time.Now()
	rt.ApplyUpdate("r2", 10, map[string]Route{"r3": {Cost: 5, NextHop: "r2"}}, hd, testInfinity, now, nil)
	rt.PoisonViaNextHop("r2", now, now.Add(time.Minute), hd, testInfinity, nil)

	changed := rt.PoisonViaNextHop("r2", now, now.Add(time.Minute), hd, testInfinity, nil)
	if changed {
		t.Fatal("poisoning an already-poisoned route should report no change")
	}
}
