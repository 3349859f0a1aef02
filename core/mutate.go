package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/encodeous/distvec/state"
)

var ErrLinkNotFound = errors.New("link not found")

// AdjustLink overwrites the cost of the direct link between a and b in both
// directions: the mirrored edge pair and the (a->b) and (b->a) table
// entries. Both nodes must exist and the link must be present in both
// directions; otherwise ErrLinkNotFound is returned and nothing is touched.
//
// AdjustLink does not reconverge the rest of the network. Re-run the
// controller afterwards to propagate the change.
func AdjustLink(g *state.Graph, a, b state.NodeId, cost state.Cost) error {
	if cost < 0 || !cost.Finite() {
		return fmt.Errorf("link cost must be finite and non-negative, got %s", cost)
	}
	na, nb := g.Get(a), g.Get(b)
	if na == nil || nb == nil {
		return fmt.Errorf("%w: unknown node", ErrLinkNotFound)
	}

	ea := slices.IndexFunc(na.Edges, func(e state.Edge) bool { return e.Dst == b })
	eb := slices.IndexFunc(nb.Edges, func(e state.Edge) bool { return e.Dst == a })
	ta, tb := na.Snapshot(), nb.Snapshot()
	ia := slices.IndexFunc(ta, func(e state.Entry) bool { return e.Src == a && e.Dst == b })
	ib := slices.IndexFunc(tb, func(e state.Entry) bool { return e.Src == b && e.Dst == a })
	if ea == -1 || eb == -1 || ia == -1 || ib == -1 {
		return fmt.Errorf("%w: no direct link between %s and %s", ErrLinkNotFound, a, b)
	}

	// all lookups succeeded, apply symmetrically
	na.Edges[ea].Weight = cost
	nb.Edges[eb].Weight = cost
	ta[ia].Cost = cost
	tb[ib].Cost = cost
	na.SetTable(ta)
	nb.SetTable(tb)
	return nil
}
