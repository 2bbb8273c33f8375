package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"airassign/internal/assign"
	"airassign/internal/config"
	"airassign/internal/model"
)

func newSolveCmd(load func() (config.Config, error)) *cobra.Command {
	var (
		dir       string
		runID     string
		backend   string
		timeLimit time.Duration
		gap       float64
		threads   int
		format    string
		verify    bool
		output    bool
		example   bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the tables in a directory once and print the assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("solver") {
				cfg.Solver.Backend = backend
			}
			if f.Changed("time-limit") {
				cfg.Solver.TimeLimit = timeLimit
			}
			if f.Changed("mip-gap") {
				cfg.Solver.MIPGap = gap
			}
			if f.Changed("threads") {
				cfg.Solver.Threads = threads
			}
			if f.Changed("verify") {
				cfg.Solver.Verify = verify
			}
			if f.Changed("solver-output") {
				cfg.Solver.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if format != "text" && format != "json" {
				return fmt.Errorf("--format must be text or json, got %q", format)
			}
			if !example && dir == "" {
				dir = cfg.DataDir
			}

			solver, err := cfg.NewSolver()
			if err != nil {
				return err
			}
			var rep *model.Report
			if example {
				rep, err = (&assign.Runner{Solver: solver, Verify: cfg.Solver.Verify}).Run(cmd.Context(), assign.ReferenceDataset(), runID)
			} else {
				rep, err = assign.SolveReport(cmd.Context(), dir, runID,
					assign.WithSolver(solver), assign.WithFiles(cfg.Files), assign.WithVerify(cfg.Solver.Verify))
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			_, err = fmt.Fprint(out, rep.Text)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&dir, "data", "", "directory holding the four CSV tables (default: config data_dir)")
	f.BoolVar(&example, "example", false, "solve the built-in reference dataset")
	f.StringVar(&runID, "run-id", "", "run identifier (default: random UUID)")
	f.StringVar(&backend, "solver", "highs", "solver backend: highs or simplex")
	f.DurationVar(&timeLimit, "time-limit", 0, "solver time limit, e.g. 30s")
	f.Float64Var(&gap, "mip-gap", 0, "relative MIP gap")
	f.IntVar(&threads, "threads", 0, "solver threads (0 = solver default)")
	f.StringVar(&format, "format", "text", "output format: text or json")
	f.BoolVar(&verify, "verify", false, "cross-check the objective against the LP relaxation")
	f.BoolVar(&output, "solver-output", false, "show the solver's console log")
	cmd.MarkFlagsMutuallyExclusive("data", "example")
	return cmd
}
