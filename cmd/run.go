package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/encodeous/distvec/core"
	"github.com/encodeous/distvec/state"
	"github.com/spf13/cobra"
)

var (
	stepped     bool
	logPath     string
	adjustments []string
)

var runCmd = &cobra.Command{
	Use:   "run <topology>",
	Short: "Run the distance-vector simulation on a topology file",
	Long: `Reads a topology file of "SRC DEST WEIGHT" lines (terminated by
"End of Input"), starts one listener per node and runs convergence rounds.

Each --adjust A,B,COST is applied after the network has converged, followed
by another convergence run to propagate the change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := state.DefaultSimCfg()
		if configPath != "" {
			var err error
			cfg, err = state.LoadSimCfg(configPath)
			if err != nil {
				return err
			}
		}
		if verbose {
			cfg.Verbose = true
		}
		if logPath != "" {
			cfg.LogPath = logPath
		}
		if err := state.SimConfigValidator(&cfg); err != nil {
			return err
		}

		env, err := core.NewEnv(cfg)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		g, err := state.ParseTopology(f, cfg)
		f.Close()
		if err != nil {
			return err
		}

		// termination is our decision, not the controller's
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			select {
			case <-c:
				env.Cancel(errors.New("received shutdown signal"))
			case <-env.Context.Done():
			}
		}()

		display := newConsoleDisplay(cmd.OutOrStdout(), cmd.InOrStdin())
		ctl := &core.Controller{
			Env:      env,
			Display:  display,
			Continue: display.Continue,
		}
		if stepped {
			ctl.Mode = core.Stepped
		}

		sim := core.NewSim(env, g, ctl)
		if err := sim.Start(); err != nil {
			return err
		}
		defer sim.Close()

		report(cmd, sim.Converge())

		for _, adj := range adjustments {
			a, b, cost, err := parseAdjustment(adj)
			if err != nil {
				return err
			}
			if err := sim.AdjustLink(a, b, cost); err != nil {
				return err
			}
			report(cmd, sim.Converge())
		}
		return nil
	},
}

func report(cmd *cobra.Command, res core.Result) {
	switch {
	case res.Converged:
		cmd.Printf("network is stable after %d rounds (%s)\n", res.Rounds, res.Elapsed)
	case res.Interrupted:
		cmd.Printf("interrupted after %d rounds\n", res.Rounds)
	case res.Halted:
		cmd.Printf("halted by user after %d rounds\n", res.Rounds)
	default:
		cmd.Printf("did not converge within %d rounds, tables are best-effort\n", res.Rounds)
	}
}

func parseAdjustment(s string) (state.NodeId, state.NodeId, state.Cost, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return "", "", 0, fmt.Errorf("invalid adjustment %q, expected A,B,COST", s)
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid adjustment cost in %q: %w", s, err)
	}
	return state.NodeId(strings.TrimSpace(parts[0])), state.NodeId(strings.TrimSpace(parts[1])), state.Cost(cost), nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&stepped, "step", "s", false, "ask before every round")
	runCmd.Flags().StringVarP(&logPath, "log", "l", "", "also write logs to this file")
	runCmd.Flags().StringArrayVarP(&adjustments, "adjust", "a", nil, "link cost adjustment A,B,COST applied after convergence")
}
