package layout

import "github.com/matzehuels/blueprint/pkg/graph"

// Port is an arrow anchor on a card edge.
type Port struct {
	// Neighbor is the card at the other end of the edge.
	Neighbor string `json:"neighbor"`
	// Edge is the index of the edge in the routed edge list.
	Edge int `json:"edge"`
	// Offset is the distance from the top of the card.
	Offset float64 `json:"offset"`
}

// Ports holds the anchors of every card. Outgoing ports sit on the right
// edge, incoming ports on the left edge. Cards without edges in a direction
// have no entry for it.
type Ports struct {
	Outgoing map[string][]Port `json:"outgoing"`
	Incoming map[string][]Port `json:"incoming"`
}

// AllocatePorts spreads each card's outgoing and incoming edges evenly over
// its height. With k edges in a direction, the i-th (1-based, in edge
// order) sits at cardHeight*i/(k+1). Parallel edges get separate ports.
func AllocatePorts(edges []graph.Edge, cfg Config) Ports {
	cfg = cfg.WithDefaults()
	ps := Ports{
		Outgoing: make(map[string][]Port),
		Incoming: make(map[string][]Port),
	}
	for i, e := range edges {
		ps.Outgoing[e.From] = append(ps.Outgoing[e.From], Port{Neighbor: e.To, Edge: i})
		ps.Incoming[e.To] = append(ps.Incoming[e.To], Port{Neighbor: e.From, Edge: i})
	}
	spread(ps.Outgoing, cfg.CardHeight)
	spread(ps.Incoming, cfg.CardHeight)
	return ps
}

func spread(side map[string][]Port, height float64) {
	for _, ports := range side {
		k := float64(len(ports))
		for i := range ports {
			ports[i].Offset = height * float64(i+1) / (k + 1)
		}
	}
}

// OutgoingOffset returns the offset of the port edge leaves from.
func (ps Ports) OutgoingOffset(from string, edge int) (float64, bool) {
	return lookup(ps.Outgoing[from], edge)
}

// IncomingOffset returns the offset of the port edge arrives at.
func (ps Ports) IncomingOffset(to string, edge int) (float64, bool) {
	return lookup(ps.Incoming[to], edge)
}

// OutgoingTo returns the offsets of every port of from that leads to the
// given neighbor, in edge order.
func (ps Ports) OutgoingTo(from, to string) []float64 {
	var out []float64
	for _, p := range ps.Outgoing[from] {
		if p.Neighbor == to {
			out = append(out, p.Offset)
		}
	}
	return out
}

func lookup(ports []Port, edge int) (float64, bool) {
	for _, p := range ports {
		if p.Edge == edge {
			return p.Offset, true
		}
	}
	return 0, false
}
