package core

import (
	"github.com/encodeous/distvec/state"
)

// Sender delivers one node's full table to a peer. The fabric implements it
// over a real transport; tests substitute an in-memory one.
type Sender interface {
	Send(from, to *state.Node, table []state.Entry) error
}

// InitTables seeds every node's distance vector: 0 to itself, the direct
// edge weight to each neighbour, Inf to everything else.
func InitTables(g *state.Graph) {
	for _, src := range g.Order {
		table := make([]state.Entry, 0, g.Len())
		for _, dst := range g.Order {
			table = append(table, state.Entry{Src: src, Dst: dst, Cost: g.DirectCost(src, dst)})
		}
		g.Get(src).SetTable(table)
	}
}

// Broadcast sends every node's entire current table to each of its true
// neighbours, i.e. every peer sharing a finite non-zero direct edge. A
// failed send is logged and dropped; the round continues with whatever
// advertisements did arrive.
func Broadcast(env *state.Env, g *state.Graph, s Sender) {
	for _, src := range g.Order {
		from := g.Get(src)
		table := from.Snapshot()
		for _, dst := range g.Order {
			if src == dst {
				continue
			}
			cost := g.DirectCost(src, dst)
			if !cost.Finite() || cost == 0 {
				continue
			}
			if err := s.Send(from, g.Get(dst), table); err != nil {
				env.Log.Debug("advertisement lost", "from", src, "to", dst, "err", err)
			}
		}
	}
}

// UpdateNode applies the relaxation rule to one node: for every advertised
// row (adv, dst, c) received since the last update, if adv is a known
// neighbour (finite own cost), adopt own[adv]+c whenever it is strictly
// smaller than the current belief. Advertised information never touches the
// node's distance to itself. Returns the rebuilt table and whether anything
// changed.
//
// There is no split horizon or poison reverse; the strict-less-than test is
// the only loop guard, so a cost increase can leave stale lower bounds in
// place until fresh information overwrites them.
func UpdateNode(n *state.Node) ([]state.Entry, bool) {
	changed := false
	table := n.Snapshot()
	costs := make(map[state.NodeId]state.Cost, len(table))
	order := make([]state.NodeId, 0, len(table))
	for _, e := range table {
		costs[e.Dst] = e.Cost
		order = append(order, e.Dst)
	}

	for _, batch := range n.DrainInbox() {
		for _, row := range batch {
			if row.Src == n.Id || row.Dst == n.Id {
				continue
			}
			via, known := costs[row.Src]
			if !known || !via.Finite() {
				// not a neighbour we can reach directly, ignore the row
				continue
			}
			candidate := via + row.Cost
			cur, known := costs[row.Dst]
			if !known {
				order = append(order, row.Dst)
			}
			if !known || candidate < cur {
				costs[row.Dst] = candidate
				changed = true
			}
		}
	}

	rebuilt := make([]state.Entry, 0, len(order))
	for _, dst := range order {
		rebuilt = append(rebuilt, state.Entry{Src: n.Id, Dst: dst, Cost: costs[dst]})
	}
	n.SetTable(rebuilt)
	return rebuilt, changed
}
