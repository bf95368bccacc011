package solver

import (
	"slices"
	"strings"

	"github.com/katalvlaran/teamsolver/roster"
)

// Ledger is the bounded top-K collection of recorded teams.
//
// Invariants:
//   - entries are ordered by (Score desc, TotalCost desc); equal keys keep
//     discovery order;
//   - len(entries) ≤ k;
//   - every entry is a deep copy, independent of later search-state mutation.
type Ledger struct {
	k        int
	distinct bool
	entries  []Entry
}

// NewLedger returns an empty ledger of capacity k (k < 1 is treated as 1).
func NewLedger(k int, distinct bool) *Ledger {
	if k < 1 {
		k = 1
	}

	return &Ledger{k: k, distinct: distinct, entries: make([]Entry, 0, k+1)}
}

// Record snapshots team with score. It reports whether the entry was kept.
//
// Equivalent to append + stable sort + truncate to k, but the insertion
// point is found first so a snapshot that would be truncated is never copied.
func (l *Ledger) Record(team []roster.Character, score float64) bool {
	cost := 0
	for i := range team {
		cost += team[i].Cost
	}

	pos := len(l.entries)
	for i := range l.entries {
		if worse(l.entries[i], score, cost) {
			pos = i
			break
		}
	}
	if pos >= l.k {
		return false
	}
	if l.distinct && l.holds(team) {
		return false
	}

	snap := make([]roster.Character, len(team))
	for i := range team {
		snap[i] = team[i].Clone()
	}
	l.entries = slices.Insert(l.entries, pos, Entry{
		Score:     score,
		TotalCost: cost,
		TeamSize:  len(snap),
		Team:      snap,
	})
	if len(l.entries) > l.k {
		l.entries = l.entries[:l.k]
	}

	return true
}

// worse reports whether e ranks strictly below (score, cost).
func worse(e Entry, score float64, cost int) bool {
	if e.Score != score {
		return e.Score < score
	}

	return e.TotalCost < cost
}

func (l *Ledger) holds(team []roster.Character) bool {
	key := teamKey(team)
	for i := range l.entries {
		if teamKey(l.entries[i].Team) == key {
			return true
		}
	}

	return false
}

func teamKey(team []roster.Character) string {
	names := make([]string, len(team))
	for i := range team {
		names[i] = team[i].Name
	}
	slices.Sort(names)

	return strings.Join(names, "\x00")
}

// WorstScore is the lowest retained score, or 0 when the ledger is empty.
func (l *Ledger) WorstScore() float64 {
	if len(l.entries) == 0 {
		return 0
	}

	return l.entries[len(l.entries)-1].Score
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Entries returns a copy of the retained entries in rank order.
func (l *Ledger) Entries() []Entry { return slices.Clone(l.entries) }
