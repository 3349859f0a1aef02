package core

import (
	"context"
	"time"

	"github.com/encodeous/distvec/perf"
	"github.com/encodeous/distvec/state"
)

type Mode int

const (
	// Unattended runs rounds back to back until stability or the round cap.
	Unattended Mode = iota
	// Stepped queries the continuation predicate between unstable rounds.
	Stepped
)

// Display receives table notifications. It is strictly an observer; nothing
// the controller does depends on it.
type Display interface {
	ShowInitial(id state.NodeId, table []state.Entry)
	TableChanged(id state.NodeId, table []state.Entry)
}

type NopDisplay struct{}

func (NopDisplay) ShowInitial(state.NodeId, []state.Entry) {}
func (NopDisplay) TableChanged(state.NodeId, []state.Entry) {}

// Result reports one convergence run. Hitting the round cap while unstable
// is an outcome, not an error: the tables left behind are the best-effort
// final state.
type Result struct {
	Rounds      int
	Converged   bool
	Halted      bool // stepped mode, predicate declined
	Interrupted bool // the environment's context was cancelled
	Elapsed     time.Duration
}

// Controller drives rounds over the whole graph until no node's table
// changes, the round cap of len(graph)*RoundsPerNode is hit, or (in stepped
// mode) the continuation predicate declines. It never decides to terminate
// the hosting process; stopping is always returned to the caller.
type Controller struct {
	Env     *state.Env
	Sender  Sender
	Display Display
	// Continue is the stepped-mode continuation predicate, queried after
	// every round in which some table changed.
	Continue func() bool
	Mode     Mode
}

func (c *Controller) Run(g *state.Graph) Result {
	display := c.Display
	if display == nil {
		display = NopDisplay{}
	}
	maxRounds := g.Len() * state.RoundsPerNode
	start := time.Now()
	res := Result{}
	if g.Len() == 0 {
		// an empty graph is trivially stable
		res.Converged = true
	}

	for res.Rounds < maxRounds {
		if c.Env.Context.Err() != nil {
			res.Interrupted = true
			break
		}
		res.Rounds++
		roundStart := time.Now()
		stable := true
		Broadcast(c.Env, g, c.Sender)
		for _, id := range g.Order {
			table, changed := UpdateNode(g.Get(id))
			if changed {
				stable = false
				c.Env.Log.Info("table changed", "node", id, "round", res.Rounds, "table", state.StringTable(table))
				display.TableChanged(id, table)
			}
		}
		perf.RoundDuration.Add(float64(time.Since(roundStart).Microseconds()))
		if stable {
			res.Converged = true
			break
		}
		if c.Mode == Stepped && c.Continue != nil && !c.Continue() {
			c.Env.Log.Info("halted between rounds", "round", res.Rounds)
			res.Halted = true
			break
		}
	}

	res.Elapsed = time.Since(start)
	switch {
	case res.Converged:
		c.Env.Log.Info("network is stable", "rounds", res.Rounds, "elapsed", res.Elapsed)
	case res.Interrupted:
		c.Env.Log.Info("stopped before stability", "rounds", res.Rounds, "cause", context.Cause(c.Env.Context))
	case !res.Halted:
		c.Env.Log.Warn("did not converge within round cap", "rounds", res.Rounds)
	}
	return res
}
