package state

import (
	"context"
	"net"
	"slices"
	"strconv"
	"sync"
)

// Edge is one direction of a bidirectional link. Edges are always created in
// mirrored pairs with equal weight, and stay mirrored across mutations.
type Edge struct {
	Src    NodeId
	Dst    NodeId
	Weight Cost
}

// Node is a single simulated router. The graph owns the node; its listener
// goroutine appends to the inbox while the convergence loop reads and rewrites
// the table, so both are guarded by one mutex.
type Node struct {
	Id    NodeId
	Host  string
	Port  int // 0 until the listener binds an ephemeral port
	Edges []Edge

	mu    sync.Mutex
	table []Entry
	inbox [][]Entry

	cancel context.CancelFunc
	done   chan struct{}
}

// Addr returns the node's transport endpoint.
func (n *Node) Addr() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// Snapshot returns a consistent copy of the node's current table.
func (n *Node) Snapshot() []Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return CloneTable(n.table)
}

func (n *Node) SetTable(table []Entry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.table = table
}

// PushInbox appends one received advertisement as an atomic unit.
func (n *Node) PushInbox(batch []Entry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inbox = append(n.inbox, batch)
}

// DrainInbox atomically takes and clears every advertisement received since
// the last drain.
func (n *Node) DrainInbox() [][]Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	batches := n.inbox
	n.inbox = nil
	return batches
}

// ListenContext derives the listener's context from parent and arms the
// node's cancellation and join handles. Called once by the fabric before the
// listener goroutine starts.
func (n *Node) ListenContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	n.cancel = cancel
	n.done = make(chan struct{})
	return ctx
}

// SignalShutdown asks the node's listener to stop. The listener observes it
// within one AcceptPoll interval.
func (n *Node) SignalShutdown() {
	if n.cancel != nil {
		n.cancel()
	}
}

// ListenerExited is called by the listener goroutine as it returns.
func (n *Node) ListenerExited() {
	close(n.done)
}

// Join blocks until the node's listener has exited.
func (n *Node) Join() {
	if n.done != nil {
		<-n.done
	}
}

// Graph is the fixed set of nodes and their bidirectional edges. The node set
// never changes after construction; edge weights may be adjusted later.
type Graph struct {
	Nodes map[NodeId]*Node
	// Order preserves insertion order so every pass over the graph is
	// deterministic.
	Order []NodeId
}

func NewGraph() *Graph {
	return &Graph{Nodes: make(map[NodeId]*Node)}
}

func (g *Graph) Len() int {
	return len(g.Order)
}

func (g *Graph) Get(id NodeId) *Node {
	return g.Nodes[id]
}

// Ensure returns the node with the given id, creating it on first sight.
func (g *Graph) Ensure(id NodeId, host string) *Node {
	if n, ok := g.Nodes[id]; ok {
		return n
	}
	n := &Node{Id: id, Host: host}
	g.Nodes[id] = n
	g.Order = append(g.Order, id)
	return n
}

// AddEdge links a and b with the mirrored pair of equal-weight edges.
func (g *Graph) AddEdge(a, b NodeId, host string, weight Cost) {
	na := g.Ensure(a, host)
	nb := g.Ensure(b, host)
	na.Edges = append(na.Edges, Edge{Src: a, Dst: b, Weight: weight})
	nb.Edges = append(nb.Edges, Edge{Src: b, Dst: a, Weight: weight})
}

// DirectCost returns 0 for a node to itself, the direct edge weight between
// neighbours, and Inf when no direct edge exists.
func (g *Graph) DirectCost(a, b NodeId) Cost {
	if a == b {
		return 0
	}
	n, ok := g.Nodes[a]
	if !ok {
		return Inf
	}
	idx := slices.IndexFunc(n.Edges, func(e Edge) bool {
		return e.Dst == b
	})
	if idx == -1 {
		return Inf
	}
	return n.Edges[idx].Weight
}
