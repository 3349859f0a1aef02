package state

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

type NodeId string

// Cost is a non-negative link or path cost. Unreachable destinations carry Inf.
type Cost float64

var Inf = Cost(math.Inf(1))

func (c Cost) Finite() bool {
	return !math.IsInf(float64(c), 1)
}

func (c Cost) String() string {
	if !c.Finite() {
		return "inf"
	}
	return fmt.Sprintf("%g", float64(c))
}

// Entry is one row of a node's distance-vector table: the cost Src currently
// believes it takes to reach Dst.
type Entry struct {
	Src  NodeId
	Dst  NodeId
	Cost Cost
}

func (e Entry) String() string {
	return fmt.Sprintf("(%s -> %s: %s)", e.Src, e.Dst, e.Cost)
}

func CloneTable(table []Entry) []Entry {
	return slices.Clone(table)
}

// TableCosts flattens a table into a dst -> cost lookup.
func TableCosts(table []Entry) map[NodeId]Cost {
	costs := make(map[NodeId]Cost, len(table))
	for _, e := range table {
		costs[e.Dst] = e.Cost
	}
	return costs
}

func StringTable(table []Entry) string {
	sb := strings.Builder{}
	for i, e := range table {
		if i != 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}
