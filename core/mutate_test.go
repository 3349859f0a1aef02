package core

import (
	"testing"

	"github.com/encodeous/distvec/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAll(g *state.Graph) map[state.NodeId][]state.Entry {
	tables := make(map[state.NodeId][]state.Entry)
	for _, id := range g.Order {
		tables[id] = g.Get(id).Snapshot()
	}
	return tables
}

func TestAdjustLink(t *testing.T) {
	g := mustParse(t, workedTopology)
	InitTables(g)

	require.NoError(t, AdjustLink(g, "1", "2", 7))

	assert.EqualValues(t, 7, costs(t, g, "1")["2"])
	assert.EqualValues(t, 7, costs(t, g, "2")["1"])
	// the mirrored edge pair follows the tables
	assert.EqualValues(t, 7, g.DirectCost("1", "2"))
	assert.EqualValues(t, 7, g.DirectCost("2", "1"))
	// untouched entries stay put
	assert.EqualValues(t, 10, costs(t, g, "1")["3"])
}

func TestAdjustLinkUnknownNode(t *testing.T) {
	g := mustParse(t, workedTopology)
	InitTables(g)
	before := snapshotAll(g)

	err := AdjustLink(g, "1", "4", 5)
	assert.ErrorIs(t, err, ErrLinkNotFound)
	assert.Empty(t, cmp.Diff(before, snapshotAll(g)))
}

func TestAdjustLinkNoDirectEdge(t *testing.T) {
	g := mustParse(t, pathTopology)
	InitTables(g)
	before := snapshotAll(g)

	// 1 and 3 both exist but share no direct link
	err := AdjustLink(g, "1", "3", 5)
	assert.ErrorIs(t, err, ErrLinkNotFound)
	assert.Empty(t, cmp.Diff(before, snapshotAll(g)))
}

func TestAdjustLinkRejectsBadCost(t *testing.T) {
	g := mustParse(t, workedTopology)
	InitTables(g)

	assert.Error(t, AdjustLink(g, "1", "2", -1))
	assert.Error(t, AdjustLink(g, "1", "2", state.Inf))
}

func TestAdjustLinkThenReconverge(t *testing.T) {
	g := mustParse(t, workedTopology)
	InitTables(g)

	ctl := &Controller{Env: state.MockEnv(), Sender: &memSender{}}
	require.True(t, ctl.Run(g).Converged)

	require.NoError(t, AdjustLink(g, "1", "2", 100))
	assert.EqualValues(t, 100, costs(t, g, "1")["2"])
	assert.EqualValues(t, 100, costs(t, g, "2")["1"])
	// nothing propagates until the controller runs again
	assert.EqualValues(t, 4, costs(t, g, "1")["3"])

	res := ctl.Run(g)
	assert.True(t, res.Converged)
	// relaxation only ever lowers costs, so the pre-mutation belief
	// cost(1,3)=4 survives and 1 reaches 2 through 3 at 4+1=5. Counting
	// down from stale state like this is the documented limitation of
	// running without split horizon or poison reverse.
	assert.EqualValues(t, 5, costs(t, g, "1")["2"])
	assert.EqualValues(t, 4, costs(t, g, "1")["3"])
}
