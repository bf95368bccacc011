package solver

import (
	"context"
	"time"

	"github.com/katalvlaran/teamsolver/policy"
	"github.com/katalvlaran/teamsolver/roster"
)

// candidate is a roster character with its scoring traits resolved to
// dense ids and its high-cost role flags precomputed.
type candidate struct {
	ch     roster.Character
	traits []int
	tank   bool
	carry  bool
}

// engine owns the whole search state of one Solve call. A fresh engine is
// built per call and passed by pointer into every recursive frame; every
// mutation made on the way down is undone on the way back up.
type engine struct {
	// Configuration / policy
	maxTeam int
	cons    Constraints

	// Trait tables indexed by dense trait id (scoring traits only).
	ids     map[string]int
	needs   []int
	weights []float64

	// Candidates in ranked order, forced characters excluded.
	candidates []candidate

	// Time budget
	ctx      context.Context
	clock    func() time.Time
	deadline time.Time
	aborted  bool

	// Current search state
	team    []roster.Character
	counts  []int
	score   float64
	tanks   int
	carries int

	ledger *Ledger
	stats  Stats
}

// newEngine resolves the policy against the catalogue once so the hot loop
// works on slices instead of maps.
func newEngine(cat roster.Catalogue, pol *policy.Policy, maxTeam int, o Options) *engine {
	e := &engine{
		maxTeam: maxTeam,
		cons:    o.Constraints,
		ids:     make(map[string]int, len(cat)),
		ctx:     o.Ctx,
		clock:   o.Clock,
		team:    make([]roster.Character, 0, maxTeam),
		ledger:  NewLedger(o.TopK, o.Distinct),
	}
	for _, name := range cat.Names() {
		t := cat[name]
		need := pol.Need(t)
		if pol.Ignored(name) || need == policy.Unreachable {
			continue
		}
		e.ids[name] = len(e.needs)
		e.needs = append(e.needs, need)
		e.weights = append(e.weights, pol.Weight(t.Kind))
	}
	e.counts = make([]int, len(e.needs))

	return e
}

// prepare wraps a roster character for the search.
func (e *engine) prepare(c roster.Character) candidate {
	cd := candidate{ch: c}
	for _, t := range c.Traits {
		if id, ok := e.ids[t]; ok {
			cd.traits = append(cd.traits, id)
		}
	}
	if c.Cost >= e.cons.HighCostTier {
		cd.tank = c.HasRole(roster.RoleTank)
		cd.carry = c.HasRole(roster.RoleCarry)
	}

	return cd
}

// seedEmblems adds emblem counts before any member. Seeding never scores:
// a trait earns its weight only when a member's include crosses its need,
// so one the emblems already bring to need stays unscored.
// It returns the emblem names that were dropped (unknown or non-scoring).
func (e *engine) seedEmblems(emblems map[string]int) []string {
	var dropped []string
	for name, n := range emblems {
		id, ok := e.ids[name]
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		e.counts[id] += n
	}

	return dropped
}

// include appends c to the team and returns the score before the move.
func (e *engine) include(c *candidate) float64 {
	prev := e.score
	e.team = append(e.team, c.ch)
	var id, before int
	for _, id = range c.traits {
		before = e.counts[id]
		e.counts[id] = before + 1
		if before < e.needs[id] && e.needs[id] <= before+1 {
			e.score += e.weights[id]
		}
	}
	if c.tank {
		e.tanks++
	}
	if c.carry {
		e.carries++
	}

	return prev
}

// rollback undoes include(c). Restoring the saved score instead of
// subtracting keeps fractional weights free of drift.
func (e *engine) rollback(c *candidate, prev float64) {
	for _, id := range c.traits {
		e.counts[id]--
	}
	if c.tank {
		e.tanks--
	}
	if c.carry {
		e.carries--
	}
	e.team = e.team[:len(e.team)-1]
	e.score = prev
}

// expired polls the context and the wall clock. Once either fires the
// search is aborted for good and every pending frame unwinds.
func (e *engine) expired() bool {
	if e.aborted {
		return true
	}
	if e.ctx.Err() != nil {
		e.stats.Cancelled = true
		e.aborted = true

		return true
	}
	if !e.clock().Before(e.deadline) {
		e.stats.TimedOut = true
		e.aborted = true

		return true
	}

	return false
}

// dfs explores candidates[i:] with two phases per node.
//
//  1. Admission: the deadline (skipped at the root so a zero budget still
//     evaluates the forced-only team), then the trait bound, then the role bound.
//  2. Record-then-branch: a valid team is snapshotted; unless this is a leaf,
//     candidates[i] is included first and excluded second.
//
// Every recursive call strictly increases i, so the recursion is finite.
func (e *engine) dfs(i int) {
	if i > 0 && e.expired() {
		return
	}
	e.stats.Nodes++

	remaining := e.maxTeam - len(e.team)
	if e.traitBoundFails(remaining) {
		e.stats.PrunedByTraits++

		return
	}
	if e.roleBoundFails(remaining) {
		e.stats.PrunedByRoles++

		return
	}

	if e.valid() && e.ledger.Record(e.team, e.score) {
		e.stats.Recorded++
	}

	if i >= len(e.candidates) || remaining <= 0 {
		return
	}

	c := &e.candidates[i]
	prev := e.include(c)
	e.dfs(i + 1)
	e.rollback(c, prev)

	e.dfs(i + 1)
}
