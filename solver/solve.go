package solver

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/katalvlaran/teamsolver/policy"
	"github.com/katalvlaran/teamsolver/roster"
)

// Solve searches ds for the best teams under pol.
//
// Steps:
//  1. Validate req and options (only malformed input is an error).
//  2. Drop banned characters, rank the rest by Value.
//  3. Split off forced characters; if any is missing after the ban, or there
//     are more than MaxTeamSize of them, the request is unsatisfiable and an
//     empty result is returned.
//  4. Seed emblems, fold forced characters in, run the branch-and-bound search
//     until it completes or the time budget expires.
//
// An empty Entries slice is a valid outcome, as is a partial result after
// the budget expired (Stats.TimedOut). The dataset is only read, so
// concurrent calls may share it.
//
// Errors: ErrNilInput, ErrInvalidTeamSize, ErrInvalidTimeBudget,
// ErrInvalidEmblem, ErrInvalidOption.
func Solve(ds *roster.Dataset, pol *policy.Policy, req Request, opts ...Option) (Result, error) {
	if ds == nil || pol == nil {
		return Result{}, ErrNilInput
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := validateRequest(req, o); err != nil {
		return Result{}, err
	}

	start := o.Clock()
	log := o.Logger.With(zap.String("policy", pol.Name))

	ranked := Rank(ds.Without(req.Banned), ds.Catalogue(), pol)
	forced, rest, missing := splitForced(ranked, req.Forced)
	if len(missing) > 0 || len(forced) > req.MaxTeamSize {
		log.Debug("request unsatisfiable",
			zap.Strings("missing_forced", missing),
			zap.Int("forced", len(forced)),
			zap.Int("max_team", req.MaxTeamSize))

		return Result{
			Entries: []Entry{},
			Stats:   Stats{Unsatisfiable: true, Elapsed: o.Clock().Sub(start)},
		}, nil
	}

	e := newEngine(ds.Catalogue(), pol, req.MaxTeamSize, o)
	e.deadline = start.Add(req.TimeBudget)
	e.candidates = make([]candidate, 0, len(rest))
	for _, c := range rest {
		e.candidates = append(e.candidates, e.prepare(c))
	}
	e.stats.Candidates = len(e.candidates)

	if dropped := e.seedEmblems(req.Emblems); len(dropped) > 0 {
		log.Debug("emblems without a scoring trait dropped", zap.Strings("emblems", dropped))
	}
	for _, c := range forced {
		cd := e.prepare(c)
		e.include(&cd)
	}

	e.dfs(0)

	e.stats.Elapsed = o.Clock().Sub(start)
	log.Debug("search finished",
		zap.Int("candidates", e.stats.Candidates),
		zap.Int64("nodes", e.stats.Nodes),
		zap.Int64("pruned_traits", e.stats.PrunedByTraits),
		zap.Int64("pruned_roles", e.stats.PrunedByRoles),
		zap.Int64("recorded", e.stats.Recorded),
		zap.Bool("timed_out", e.stats.TimedOut),
		zap.Duration("elapsed", e.stats.Elapsed))

	return Result{Entries: e.ledger.Entries(), Stats: e.stats}, nil
}

// splitForced separates forced characters from the candidates, keeping
// ranked order on both sides. It also returns forced names absent from chars.
func splitForced(chars []roster.Character, names []string) (forced, rest []roster.Character, missing []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = false
	}
	rest = make([]roster.Character, 0, len(chars))
	for _, c := range chars {
		if _, ok := want[c.Name]; ok {
			want[c.Name] = true
			forced = append(forced, c)

			continue
		}
		rest = append(rest, c)
	}
	for n, found := range want {
		if !found {
			missing = append(missing, n)
		}
	}
	slices.Sort(missing)

	return forced, rest, missing
}

// validateRequest rejects malformed input; it does not judge satisfiability.
func validateRequest(req Request, o Options) error {
	if req.MaxTeamSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTeamSize, req.MaxTeamSize)
	}
	if req.TimeBudget < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeBudget, req.TimeBudget)
	}
	for name, n := range req.Emblems {
		if n < 0 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidEmblem, name, n)
		}
	}
	if o.TopK < 1 {
		return fmt.Errorf("%w: top k %d", ErrInvalidOption, o.TopK)
	}
	c := o.Constraints
	if c.MinTank < 0 || c.MinCarry < 0 || c.HighCostTier < 0 {
		return fmt.Errorf("%w: constraints %+v", ErrInvalidOption, c)
	}

	return nil
}
