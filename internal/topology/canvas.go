// Package topology draws the router-to-next-hop graph captured by a set
// of routing-table dumps, using two drawing primitives: a node circle
// with a label, and a directed edge between two nodes.
package topology

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	svg "github.com/ajstarks/svgo"
)

// Color convention: red marks poisoned (unreachable) state, blue marks a
// live, reachable one.
var (
	ColorBlack = &color.RGBA{R: 0, G: 0, B: 0}
	ColorRed   = &color.RGBA{R: 255, G: 0, B: 0}
	ColorBlue  = &color.RGBA{R: 0, G: 0, B: 255}
)

// Canvas is the minimal drawing surface dvtopo needs.
type Canvas struct {
	buf  *bytes.Buffer
	svg  *svg.SVG
	w, h int
}

// NewCanvas creates a canvas of the given pixel dimensions.
func NewCanvas(w, h int) *Canvas {
	buf := new(bytes.Buffer)
	return &Canvas{buf: buf, svg: svg.New(buf), w: w, h: h}
}

// Start begins a new SVG document.
func (c *Canvas) Start() { c.svg.Start(c.w, c.h) }

// End finalizes the document.
func (c *Canvas) End() { c.svg.End() }

// Node draws a labeled circle for a router at (x, y).
func (c *Canvas) Node(x, y int, label string) {
	style := fmt.Sprintf("fill:#%02x%02x%02x", ColorBlack.R, ColorBlack.G, ColorBlack.B)
	c.svg.Circle(x, y, 18, "fill:none;"+style)
	c.svg.Text(x, y+5, label, "text-anchor:middle;font-size:14px")
}

// Edge draws a directed edge from (x1,y1) to (x2,y2) in clr, annotated
// with cost.
func (c *Canvas) Edge(x1, y1, x2, y2 int, cost float64, clr *color.RGBA) {
	style := fmt.Sprintf("stroke:#%02x%02x%02x;stroke-width:2", clr.R, clr.G, clr.B)
	c.svg.Line(x1, y1, x2, y2, style)
	mx, my := (x1+x2)/2, (y1+y2)/2
	c.svg.Text(mx, my, fmt.Sprintf("%.0f", cost), "font-size:10px")
}

// WriteFile writes the accumulated document to path.
func (c *Canvas) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(c.buf.Bytes())
	return err
}
