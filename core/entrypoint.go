package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/encodeous/distvec/impl"
	"github.com/encodeous/distvec/state"
	"github.com/encodeous/tint"
	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
)

// NewEnv builds the simulator environment: a tint handler on stderr, fanned
// out to a text log file when cfg.LogPath is set.
func NewEnv(cfg state.SimCfg) (*state.Env, error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level: level,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	if cfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(cfg.LogPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	return &state.Env{
		Context: ctx,
		Cancel:  cancel,
		Log:     slog.New(slogmulti.Fanout(handlers...)),
		Cfg:     cfg,
	}, nil
}

// Sim ties a graph to its running fabric so that endpoints stay stable
// across repeated convergence runs and link adjustments.
type Sim struct {
	Env *state.Env
	G   *state.Graph
	Ctl *Controller

	fabric *impl.Fabric
}

func NewSim(env *state.Env, g *state.Graph, ctl *Controller) *Sim {
	return &Sim{Env: env, G: g, Ctl: ctl}
}

// Start brings up every node's listener, waits for all of them to be ready,
// seeds the initial tables and publishes the initial snapshot per node.
func (s *Sim) Start() error {
	if s.G.Len() == 0 {
		return fmt.Errorf("graph has no nodes")
	}
	s.Env.Log.Info("starting simulation", "run", uuid.New(), "nodes", s.G.Len(), "transport", s.Env.Cfg.Transport)
	s.fabric = impl.NewFabric(s.Env)
	if err := s.fabric.Start(s.G); err != nil {
		s.fabric.Close()
		return err
	}
	if s.Ctl.Sender == nil {
		s.Ctl.Sender = s.fabric
	}
	InitTables(s.G)
	if s.Ctl.Display != nil {
		for _, id := range s.G.Order {
			s.Ctl.Display.ShowInitial(id, s.G.Get(id).Snapshot())
		}
	}
	return nil
}

// Converge runs the controller until stability, the round cap, or a stepped
// halt.
func (s *Sim) Converge() Result {
	return s.Ctl.Run(s.G)
}

// AdjustLink edits one link's cost symmetrically. The caller re-runs
// Converge to propagate it.
func (s *Sim) AdjustLink(a, b state.NodeId, cost state.Cost) error {
	err := AdjustLink(s.G, a, b, cost)
	if err != nil {
		return err
	}
	s.Env.Log.Info("link cost adjusted", "a", a, "b", b, "cost", cost)
	return nil
}

// Close shuts down every listener and joins them.
func (s *Sim) Close() {
	if s.fabric != nil {
		s.fabric.Close()
	}
}
