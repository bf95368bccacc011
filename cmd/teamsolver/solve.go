package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/teamsolver/internal/metrics"
	"github.com/katalvlaran/teamsolver/internal/service"
	"github.com/katalvlaran/teamsolver/solver"
)

type solveFlags struct {
	maxTeam   int
	timeLimit time.Duration
	forced    []string
	banned    []string
	emblems   map[string]string
	distinct  bool
	asJSON    bool
}

func newSolveCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve [variant]",
		Short: "Search for the best teams and print them",
		Long: `Runs one search with the given variant (default "balanced").

Example:
  teamsolver solve strict --forced Ryze,Ahri --banned Aatrox --emblem Targon=1 --time-limit 5s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant := "balanced"
			if len(args) == 1 {
				variant = args[0]
			}

			return a.runSolve(cmd, variant, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.maxTeam, "max-team", 0, "maximum team size (default from config)")
	fl.DurationVar(&f.timeLimit, "time-limit", 0, "search time budget (default from config)")
	fl.StringSliceVar(&f.forced, "forced", nil, "characters every team must contain")
	fl.StringSliceVar(&f.banned, "banned", nil, "characters no team may contain")
	fl.StringToStringVar(&f.emblems, "emblem", nil, "emblem counts, e.g. Targon=1")
	fl.BoolVar(&f.distinct, "distinct", false, "keep one entry per member set")
	fl.BoolVar(&f.asJSON, "json", false, "print the result as JSON")

	return cmd
}

func (a *app) runSolve(cmd *cobra.Command, variant string, f *solveFlags) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	reg, err := a.cfg.Registry()
	if err != nil {
		return err
	}
	svc := service.New(st, reg, a.cfg, nil, a.logger)

	emblems, err := parseEmblems(f.emblems)
	if err != nil {
		return err
	}
	req := service.Request{
		Forced:   f.forced,
		Banned:   f.banned,
		Emblems:  emblems,
		Distinct: f.distinct,
	}
	if cmd.Flags().Changed("max-team") {
		req.MaxTeamSize = &f.maxTeam
	}
	if cmd.Flags().Changed("time-limit") {
		req.TimeBudget = &f.timeLimit
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := svc.Solve(ctx, variant, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(res)
	}

	return printResult(out, res)
}

func parseEmblems(raw map[string]string) (map[string]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(raw))
	for name, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("emblem %s: %w", name, err)
		}
		out[name] = n
	}

	return out, nil
}

func printResult(w io.Writer, res solver.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tCOST\tSIZE\tTEAM")
	for i, e := range res.Entries {
		fmt.Fprintf(tw, "%d\t%g\t%d\t%d\t%s\n", i+1, e.Score, e.TotalCost, e.TeamSize, strings.Join(e.Names(), ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Stats
	_, err := fmt.Fprintf(w, "\n%d teams, %d nodes, %s, %s\n",
		len(res.Entries), s.Nodes, s.Elapsed.Round(time.Millisecond), metrics.Outcome(s))

	return err
}
