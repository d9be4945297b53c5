package forwarding

import "net"

// LoggingPlane logs intended forwarding-table changes without touching
// the kernel, for -dry-run and for tests run without CAP_NET_ADMIN.
type LoggingPlane struct {
	Log Log
}

// Install reports the intended change.
func (p *LoggingPlane) Install(prefix string, nextHop net.IP) {
	gw := "direct"
	if nextHop != nil {
		gw = nextHop.String()
	}
	p.log("would install route", "prefix", prefix, "next_hop", gw)
}

// Remove reports the intended removal.
func (p *LoggingPlane) Remove(prefix string) {
	p.log("would remove route", "prefix", prefix)
}

func (p *LoggingPlane) log(msg string, kv ...any) {
	if p.Log != nil {
		p.Log(msg, kv...)
	}
}
