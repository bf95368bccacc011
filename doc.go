// Package teamsolver recommends team compositions for trait-synergy games:
// pick up to N characters so that as many valuable traits as possible reach
// their activation threshold, while the team still fields enough high-cost
// tanks and carries.
//
// What is inside:
//
//   - Roster data: characters, traits and thresholds loaded from JSON or YAML
//   - Policies: per-variant trait rules (standard, ignored, fixed need) and weights
//   - Search: anytime branch-and-bound with trait and role bounds, top-K results
//   - Service: HTTP API, CLI, hot-reloaded data, Prometheus metrics
//
// Packages:
//
//	roster/            Character, Trait, Catalogue, Dataset and loaders
//	policy/            Policy, rule and weight tables, built-in variants, Registry
//	solver/            Rank, Ledger and Solve (the branch-and-bound engine)
//	assets/            embedded default dataset
//	internal/config    defaults, YAML file, TEAMSOLVER_* environment overrides
//	internal/store     atomic dataset snapshot with fsnotify reload
//	internal/service   request defaults, budget caps, logging and metrics
//	internal/api       gin router
//	cmd/teamsolver     cobra CLI: solve, serve, traits, champions, variants
//
// Quick example:
//
//	ds, _ := assets.Default()
//	res, _ := solver.Solve(ds, policy.Balanced(), solver.Request{
//		MaxTeamSize: 8,
//		TimeBudget:  5 * time.Second,
//		Forced:      []string{"Ryze", "Ahri"},
//	})
//	for _, e := range res.Entries {
//		fmt.Println(e.Score, e.TotalCost, e.Names())
//	}
package teamsolver
