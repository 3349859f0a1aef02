package core

import (
	"testing"

	"github.com/encodeous/distvec/state"
	"github.com/stretchr/testify/assert"
)

func TestInitTables(t *testing.T) {
	g := mustParse(t, workedTopology)
	InitTables(g)

	assert.Equal(t, []state.Entry{
		{Src: "1", Dst: "1", Cost: 0},
		{Src: "1", Dst: "2", Cost: 3},
		{Src: "1", Dst: "3", Cost: 10},
	}, g.Get("1").Snapshot())
	assert.Equal(t, map[state.NodeId]state.Cost{"1": 3, "2": 0, "3": 1}, costs(t, g, "2"))
	assert.Equal(t, map[state.NodeId]state.Cost{"1": 10, "2": 1, "3": 0}, costs(t, g, "3"))
}

func TestInitTablesUnreachable(t *testing.T) {
	g := mustParse(t, pathTopology)
	InitTables(g)
	// no direct 1-3 link, so both start at Inf
	assert.Equal(t, state.Inf, costs(t, g, "1")["3"])
	assert.Equal(t, state.Inf, costs(t, g, "3")["1"])
	// self distance is always 0
	for _, id := range g.Order {
		assert.EqualValues(t, 0, costs(t, g, id)[id])
	}
}

func TestBroadcastOnlyToNeighbours(t *testing.T) {
	g := mustParse(t, pathTopology)
	InitTables(g)
	s := &memSender{}
	Broadcast(state.MockEnv(), g, s)
	// 1 and 3 are not neighbours, nothing flows between them directly
	assert.Equal(t, []string{"1->2", "2->1", "2->3", "3->2"}, s.sent)
}

func TestRelaxationWorkedExample(t *testing.T) {
	g := mustParse(t, workedTopology)
	InitTables(g)

	n1 := g.Get("1")
	n1.PushInbox(g.Get("2").Snapshot())
	table, changed := UpdateNode(n1)

	// cost(1,3) relaxes to cost(1,2) + advertised(2,3) = 3 + 1 = 4
	assert.True(t, changed)
	assert.Equal(t, []state.Entry{
		{Src: "1", Dst: "1", Cost: 0},
		{Src: "1", Dst: "2", Cost: 3},
		{Src: "1", Dst: "3", Cost: 4},
	}, table)

	// the inbox was drained, so a second update is a no-op
	_, changed = UpdateNode(n1)
	assert.False(t, changed)
}

func TestUpdateIgnoresUnknownAdvertiser(t *testing.T) {
	g := mustParse(t, pathTopology)
	InitTables(g)

	n1 := g.Get("1")
	before := n1.Snapshot()

	// node 9 is not in node 1's table at all
	n1.PushInbox([]state.Entry{{Src: "9", Dst: "3", Cost: 1}})
	// node 3 is known but unreachable directly, so it is not a neighbour
	n1.PushInbox([]state.Entry{{Src: "3", Dst: "2", Cost: 0.1}})

	table, changed := UpdateNode(n1)
	assert.False(t, changed)
	assert.Equal(t, before, table)
}

func TestUpdateNeverTouchesSelfEntry(t *testing.T) {
	g := mustParse(t, workedTopology)
	InitTables(g)

	n1 := g.Get("1")
	n1.PushInbox([]state.Entry{{Src: "2", Dst: "1", Cost: 0}})
	table, changed := UpdateNode(n1)
	assert.False(t, changed)
	assert.EqualValues(t, 0, state.TableCosts(table)["1"])
}

func TestUpdateAdoptsUnknownDestination(t *testing.T) {
	g := mustParse(t, pathTopology)
	InitTables(g)

	// node 2 advertises a destination node 1 has never heard of
	n1 := g.Get("1")
	n1.PushInbox([]state.Entry{{Src: "2", Dst: "x", Cost: 2}})
	table, changed := UpdateNode(n1)
	assert.True(t, changed)
	assert.EqualValues(t, 3, state.TableCosts(table)["x"])
}
