package core

import (
	"strings"
	"testing"

	"github.com/encodeous/distvec/state"
	"github.com/stretchr/testify/require"
)

// memSender delivers advertisements straight into the receiver's inbox,
// bypassing the network fabric.
type memSender struct {
	sent []string // "from->to" in send order
}

func (m *memSender) Send(from, to *state.Node, table []state.Entry) error {
	m.sent = append(m.sent, string(from.Id)+"->"+string(to.Id))
	to.PushInbox(state.CloneTable(table))
	return nil
}

// recordingDisplay captures which nodes reported table changes.
type recordingDisplay struct {
	initial []state.NodeId
	changed []state.NodeId
}

func (r *recordingDisplay) ShowInitial(id state.NodeId, table []state.Entry) {
	r.initial = append(r.initial, id)
}

func (r *recordingDisplay) TableChanged(id state.NodeId, table []state.Entry) {
	r.changed = append(r.changed, id)
}

func mustParse(t *testing.T, topology string) *state.Graph {
	t.Helper()
	g, err := state.ParseTopology(strings.NewReader(topology), state.DefaultSimCfg())
	require.NoError(t, err)
	return g
}

const workedTopology = `1 2 3
2 3 1
1 3 10
End of Input
`

// 1 - 2 - 3 path, no direct 1-3 link
const pathTopology = `1 2 1
2 3 1
End of Input
`

func costs(t *testing.T, g *state.Graph, id state.NodeId) map[state.NodeId]state.Cost {
	t.Helper()
	return state.TableCosts(g.Get(id).Snapshot())
}
