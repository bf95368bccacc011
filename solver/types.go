package solver

import (
	"errors"
	"time"

	"github.com/katalvlaran/teamsolver/roster"
)

var (
	// ErrNilInput is returned when Solve receives a nil dataset or policy.
	ErrNilInput = errors.New("solver: nil dataset or policy")

	// ErrInvalidTeamSize is returned for a negative maximum team size.
	ErrInvalidTeamSize = errors.New("solver: invalid max team size")

	// ErrInvalidTimeBudget is returned for a negative time budget.
	ErrInvalidTimeBudget = errors.New("solver: invalid time budget")

	// ErrInvalidEmblem is returned for a negative emblem count.
	ErrInvalidEmblem = errors.New("solver: invalid emblem count")

	// ErrInvalidOption is returned when options are out of range (TopK < 1,
	// negative role minimums, ...).
	ErrInvalidOption = errors.New("solver: invalid option")
)

// Defaults shared by every scoring variant.
const (
	DefaultTopK         = 5
	DefaultMaxTeamSize  = 8
	DefaultMinTank      = 2
	DefaultMinCarry     = 2
	DefaultHighCostTier = 4
)

// Constraints are the role-coverage requirements of a valid team.
// Only members with Cost ≥ HighCostTier count toward MinTank and MinCarry.
type Constraints struct {
	MinTank      int
	MinCarry     int
	HighCostTier int
}

// DefaultConstraints returns two tanks and two carries at cost 4 or more.
func DefaultConstraints() Constraints {
	return Constraints{
		MinTank:      DefaultMinTank,
		MinCarry:     DefaultMinCarry,
		HighCostTier: DefaultHighCostTier,
	}
}

// Request is one solve invocation.
type Request struct {
	// MaxTeamSize caps the number of members, forced ones included.
	// More forced names than MaxTeamSize is unsatisfiable: the result is
	// empty with Stats.Unsatisfiable set, not an error.
	MaxTeamSize int

	// TimeBudget bounds the wall-clock search time. Zero still evaluates the
	// root (forced-only) team.
	TimeBudget time.Duration

	// Forced names must appear in every returned team.
	Forced []string

	// Banned names are removed from the roster before anything else,
	// so a name both forced and banned counts as banned.
	Banned []string

	// Emblems pre-seed trait counts without a member. Seeding never scores
	// a trait; only a member crossing its need does.
	Emblems map[string]int
}

// Entry is one ranked team.
type Entry struct {
	Score     float64            `json:"score"`
	TotalCost int                `json:"total_cost"`
	TeamSize  int                `json:"team_size"`
	Team      []roster.Character `json:"team"`
}

// Names returns the member names in selection order.
func (e Entry) Names() []string {
	names := make([]string, len(e.Team))
	for i, c := range e.Team {
		names[i] = c.Name
	}

	return names
}

// Stats describes how a search went.
type Stats struct {
	Candidates     int           `json:"candidates"`
	Nodes          int64         `json:"nodes"`
	PrunedByTraits int64         `json:"pruned_by_traits"`
	PrunedByRoles  int64         `json:"pruned_by_roles"`
	Recorded       int64         `json:"recorded"`
	TimedOut       bool          `json:"timed_out"`
	Cancelled      bool          `json:"cancelled"`
	Unsatisfiable  bool          `json:"unsatisfiable"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Result is the outcome of Solve: at most TopK entries ordered by
// (Score desc, TotalCost desc). An empty list is a valid outcome.
type Result struct {
	Entries []Entry `json:"entries"`
	Stats   Stats   `json:"stats"`
}
