package core

import "testing"

func TestCompositeLinkCostDefaults(t *testing.T) {
	got := compositeLinkCost(Metrics{}, 4)
	want := 500.0 + 1000.0/1.0 + 0.5*4
	if got != want {
		t.Fatalf("compositeLinkCost(defaults, 4) = %v, want %v", got, want)
	}
}

func TestCompositeLinkCostConfigured(t *testing.T) {
	got := compositeLinkCost(Metrics{LatencyMS: 10, BandwidthMbps: 100}, 2)
	want := 10.0 + 1000.0/100.0 + 0.5*2
	if got != want {
		t.Fatalf("compositeLinkCost = %v, want %v", got, want)
	}
}

func TestNewNeighborTableUsesFullCountForEveryEntry(t *testing.T) {
	nt := NewNeighborTable([]Neighbor{
		{ID: "r2", Addr: "10.0.0.2:9000", Metrics: Metrics{LatencyMS: 10, BandwidthMbps: 100}},
		{ID: "r3", Addr: "10.0.0.3:9000", Metrics: Metrics{LatencyMS: 20, BandwidthMbps: 50}},
	})
	r2, _ := nt.Get("r2")
	r3, _ := nt.Get("r3")
	wantR2 := 10.0 + 1000.0/100.0 + 0.5*2
	wantR3 := 20.0 + 1000.0/50.0 + 0.5*2
	if r2.LinkCost != wantR2 {
		t.Errorf("r2.LinkCost = %v, want %v", r2.LinkCost, wantR2)
	}
	if r3.LinkCost != wantR3 {
		t.Errorf("r3.LinkCost = %v, want %v", r3.LinkCost, wantR3)
	}
}

func TestNeighborTableLastSeenSentinel(t *testing.T) {
	nt := NewNeighborTable([]Neighbor{{ID: "r2", Addr: "10.0.0.2:9000"}})
	if !nt.LastSeen("r2").IsZero() {
		t.Fatal("expected never-heard-from neighbor to have zero LastSeen")
	}
	if nt.Has("r9") {
		t.Fatal("unconfigured neighbor reported as known")
	}
}
