package forwarding

import (
	"net"

	"github.com/vishvananda/netlink"
)

// Log is a narrow logging seam so this adapter and LoggingPlane can share
// a call shape without forwarding depending on the logging package.
type Log func(msg string, kv ...any)

// NetlinkPlane installs routes via RTNETLINK on the named interface
// instead of shelling out to "ip route". Errors never escape to the
// caller: they are logged here and nowhere else.
type NetlinkPlane struct {
	link  netlink.Link
	table int // 0 selects the kernel's main table
	log   Log
}

const protoDVRouter = 200 // unreserved rt_protocol value for dynamic routing daemons

// NewNetlinkPlane resolves ifaceName once at construction; an invalid
// interface name is the one condition reported as a startup error.
func NewNetlinkPlane(ifaceName string, table int, log Log) (*NetlinkPlane, error) {
	link, err := netlink.LinkByName(ifaceName)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = func(string, ...any) {}
	}
	return &NetlinkPlane{link: link, table: table, log: log}, nil
}

// Install replaces any existing route to prefix with one via nextHop, or
// a directly-connected route when nextHop is nil.
func (p *NetlinkPlane) Install(prefix string, nextHop net.IP) {
	_, dst, err := net.ParseCIDR(prefix)
	if err != nil {
		p.log("forwarding: invalid prefix, skipping install", "prefix", prefix, "err", err)
		return
	}
	route := &netlink.Route{
		LinkIndex: p.link.Attrs().Index,
		Dst:       dst,
		Gw:        nextHop,
		Table:     p.table,
		Protocol:  netlink.RouteProtocol(protoDVRouter),
	}
	if err := netlink.RouteReplace(route); err != nil {
		p.log("forwarding: install failed", "prefix", prefix, "err", err)
	}
}

// Remove deletes any route to prefix. A prefix already absent from the
// forwarding table is not logged as an error; repeated removal must stay
// idempotent.
func (p *NetlinkPlane) Remove(prefix string) {
	_, dst, err := net.ParseCIDR(prefix)
	if err != nil {
		p.log("forwarding: invalid prefix, skipping remove", "prefix", prefix, "err", err)
		return
	}
	route := &netlink.Route{
		LinkIndex: p.link.Attrs().Index,
		Dst:       dst,
		Table:     p.table,
	}
	if err := netlink.RouteDel(route); err != nil && !isNotExist(err) {
		p.log("forwarding: remove failed", "prefix", prefix, "err", err)
	}
}

func isNotExist(err error) bool {
	return err != nil && err.Error() == "no such process"
}
