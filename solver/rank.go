package solver

import (
	"slices"

	"github.com/katalvlaran/teamsolver/policy"
	"github.com/katalvlaran/teamsolver/roster"
)

// Value is the static desirability of c: the sum over its scoring traits of
// weight/need. Characters that cheaply activate heavy traits rank first.
// Ignored traits and traits missing from cat contribute nothing.
func Value(c roster.Character, cat roster.Catalogue, p *policy.Policy) float64 {
	var v float64
	for _, name := range c.Traits {
		t, ok := cat.Lookup(name)
		if !ok || p.Ignored(name) {
			continue
		}
		v += p.Weight(t.Kind) / float64(p.Need(t))
	}

	return v
}

// Rank returns a copy of chars sorted by Value descending. The sort is
// stable, so equal values keep their input order and runs are reproducible.
// Ranking only steers exploration order; it never changes which teams are valid.
func Rank(chars []roster.Character, cat roster.Catalogue, p *policy.Policy) []roster.Character {
	type ranked struct {
		c roster.Character
		v float64
	}
	buf := make([]ranked, len(chars))
	for i, c := range chars {
		buf[i] = ranked{c: c, v: Value(c, cat, p)}
	}
	slices.SortStableFunc(buf, func(a, b ranked) int {
		switch {
		case a.v > b.v:
			return -1
		case a.v < b.v:
			return 1
		default:
			return 0
		}
	})

	out := make([]roster.Character, len(buf))
	for i := range buf {
		out[i] = buf[i].c
	}

	return out
}
