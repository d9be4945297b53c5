// Command dvtopo is an offline debug aid: it reads a captured router
// topology (each router's id plus a dump of its routing table, in the
// same shape as an "update.table" wire message) and draws the
// who-thinks-whose-next-hop-is-whom graph to an SVG file. It never
// imports core's concurrency-sensitive types, only a standalone copy of
// the wire shape, since it runs entirely offline against captured state.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"dvrouter/internal/topology"
)

// routeDump is one router's snapshot: its own id and the routing table
// it would advertise as "update.table" on the wire.
type routeDump struct {
	RouterID string                   `json:"router_id"`
	Table    map[string]wireRouteDump `json:"table"`
}

type wireRouteDump struct {
	Cost    float64 `json:"cost"`
	NextHop string  `json:"next_hop"`
}

const infinity = 999

func main() {
	in := flag.String("in", "", "path to a JSON array of router route dumps")
	out := flag.String("out", "topology.svg", "output SVG path")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: dvtopo -in dumps.json -out topology.svg")
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *in, err)
		os.Exit(1)
	}
	var dumps []routeDump
	if err := json.Unmarshal(data, &dumps); err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", *in, err)
		os.Exit(1)
	}

	if err := render(dumps, *out); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

const canvasSize = 800

func render(dumps []routeDump, outPath string) error {
	ids := make([]string, 0, len(dumps))
	for _, d := range dumps {
		ids = append(ids, d.RouterID)
	}
	sort.Strings(ids)
	positions := layoutCircle(ids, canvasSize)

	c := topology.NewCanvas(canvasSize, canvasSize)
	c.Start()
	for _, d := range dumps {
		x1, y1 := positions[d.RouterID][0], positions[d.RouterID][1]
		for _, r := range d.Table {
			px, known := positions[r.NextHop]
			if !known {
				continue
			}
			clr := topology.ColorBlue
			if r.Cost >= infinity {
				clr = topology.ColorRed
			}
			c.Edge(x1, y1, px[0], px[1], r.Cost, clr)
		}
	}
	for _, id := range ids {
		p := positions[id]
		c.Node(p[0], p[1], id)
	}
	c.End()
	return c.WriteFile(outPath)
}

// layoutCircle places the router ids evenly around a circle, the
// simplest static layout for a topology with no positional information
// in the dump.
func layoutCircle(ids []string, size int) map[string][2]int {
	positions := make(map[string][2]int, len(ids))
	cx, cy := size/2, size/2
	radius := float64(size) * 0.4
	n := len(ids)
	for i, id := range ids {
		angle := 2 * math.Pi * float64(i) / math.Max(1, float64(n))
		x := cx + int(radius*math.Cos(angle))
		y := cy + int(radius*math.Sin(angle))
		positions[id] = [2]int{x, y}
	}
	return positions
}
