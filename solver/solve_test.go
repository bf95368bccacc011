package solver_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/teamsolver/policy"
	"github.com/katalvlaran/teamsolver/roster"
	"github.com/katalvlaran/teamsolver/solver"
)

// SolveSuite runs the end-to-end properties against both built-in policies.
type SolveSuite struct {
	suite.Suite
	ds  *roster.Dataset
	pol *policy.Policy
}

func (s *SolveSuite) SetupTest() {
	s.ds = fixtureDataset(s.T())
}

func TestSolveBalanced(t *testing.T) {
	suite.Run(t, &SolveSuite{pol: policy.Balanced()})
}

func TestSolveStrict(t *testing.T) {
	suite.Run(t, &SolveSuite{pol: policy.Strict()})
}

func (s *SolveSuite) scenario() solver.Request {
	return solver.Request{
		MaxTeamSize: 8,
		TimeBudget:  budgetScenario,
		Forced:      []string{"Ryze", "Ahri"},
		Banned:      []string{"Aatrox"},
		Emblems:     map[string]int{},
	}
}

// TestScenario: forced members everywhere, banned nowhere, at most K entries.
func (s *SolveSuite) TestScenario() {
	res, err := solver.Solve(s.ds, s.pol, s.scenario())
	s.Require().NoError(err)
	s.Require().NotEmpty(res.Entries)
	s.Require().LessOrEqual(len(res.Entries), solver.DefaultTopK)

	for _, e := range res.Entries {
		names := e.Names()
		s.Contains(names, "Ryze")
		s.Contains(names, "Ahri")
		s.NotContains(names, "Aatrox")
		s.LessOrEqual(e.TeamSize, 8)
		s.Equal(len(e.Team), e.TeamSize)
	}
}

// TestInvariants checks validity, ordering and score/count consistency of
// every returned entry, with and without emblems.
func (s *SolveSuite) TestInvariants() {
	cons := solver.DefaultConstraints()
	for _, emblems := range []map[string]int{
		nil,
		{"Sorcerer": 1, "Demacia": 2},
		{"Targon": 1, "Darkin": 1, "Unknown": 3},
	} {
		req := s.scenario()
		req.TimeBudget = budgetLong
		req.Emblems = emblems

		res, err := solver.Solve(s.ds, s.pol, req)
		s.Require().NoError(err)
		s.Require().NotEmpty(res.Entries)
		requireRanked(s.T(), res.Entries)

		for _, e := range res.Entries {
			tanks, carries := roleCounts(e.Team, cons.HighCostTier)
			s.GreaterOrEqual(tanks, cons.MinTank)
			s.GreaterOrEqual(carries, cons.MinCarry)
			s.Equal(teamCost(e.Team), e.TotalCost)
			s.Equal(scoreOf(e.Team, emblems, s.ds.Catalogue(), s.pol), e.Score, "team %v", e.Names())
		}
	}
}

// TestMatchesExhaustiveSearch: with an ample budget the top entry is the
// exhaustive optimum, ties broken by the higher total cost.
func (s *SolveSuite) TestMatchesExhaustiveSearch() {
	reqs := []solver.Request{
		s.scenario(),
		{MaxTeamSize: 6, Forced: []string{"Lux"}},
		{MaxTeamSize: 5, Banned: []string{"Garen", "Leona"}, Emblems: map[string]int{"Invoker": 1}},
		{MaxTeamSize: 4},
	}
	for _, req := range reqs {
		req.TimeBudget = budgetLong
		res, err := solver.Solve(s.ds, s.pol, req)
		s.Require().NoError(err)
		s.False(res.Stats.TimedOut)

		score, cost, found := bruteBest(s.ds, s.pol, req, solver.DefaultConstraints())
		if !found {
			s.Empty(res.Entries)
			continue
		}
		s.Require().NotEmpty(res.Entries)
		s.Equal(score, res.Entries[0].Score, "request %+v", req)
		s.Equal(cost, res.Entries[0].TotalCost, "request %+v", req)
	}
}

// TestIdempotent: identical calls give identical (score, cost) multisets.
func (s *SolveSuite) TestIdempotent() {
	req := s.scenario()
	req.TimeBudget = budgetLong
	key := func(es []solver.Entry) [][2]float64 {
		out := make([][2]float64, len(es))
		for i, e := range es {
			out[i] = [2]float64{e.Score, float64(e.TotalCost)}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i][0] != out[j][0] {
				return out[i][0] < out[j][0]
			}
			return out[i][1] < out[j][1]
		})

		return out
	}

	first, err := solver.Solve(s.ds, s.pol, req)
	s.Require().NoError(err)
	second, err := solver.Solve(s.ds, s.pol, req)
	s.Require().NoError(err)
	if diff := cmp.Diff(key(first.Entries), key(second.Entries)); diff != "" {
		s.Failf("results differ", "(-first +second):\n%s", diff)
	}
}

// TestForcedBanned: banning every forced character leaves nothing to solve.
func (s *SolveSuite) TestForcedBanned() {
	req := s.scenario()
	req.Banned = []string{"Ryze", "Ahri"}
	res, err := solver.Solve(s.ds, s.pol, req)
	s.Require().NoError(err)
	s.NotNil(res.Entries)
	s.Empty(res.Entries)
	s.True(res.Stats.Unsatisfiable)
}

func (s *SolveSuite) TestUnsatisfiable() {
	cases := map[string]solver.Request{
		"unknown forced":       {MaxTeamSize: 8, Forced: []string{"Teemo"}},
		"too many forced":      {MaxTeamSize: 1, Forced: []string{"Ryze", "Ahri"}},
		"zero slots no forced": {MaxTeamSize: 0},
	}
	for name, req := range cases {
		req.TimeBudget = budgetLong
		res, err := solver.Solve(s.ds, s.pol, req)
		s.Require().NoError(err, name)
		s.Empty(res.Entries, name)
	}
}

// TestZeroBudget: only the root is evaluated; a valid forced-only team is
// the single entry.
func (s *SolveSuite) TestZeroBudget() {
	req := solver.Request{
		MaxTeamSize: 8,
		TimeBudget:  0,
		Forced:      []string{"Ryze", "Ahri", "Garen", "Sion"},
	}
	res, err := solver.Solve(s.ds, s.pol, req)
	s.Require().NoError(err)
	s.Require().Len(res.Entries, 1)
	s.ElementsMatch(req.Forced, res.Entries[0].Names())
	s.True(res.Stats.TimedOut)
	s.Equal(int64(1), res.Stats.Nodes)

	// Forced-only team lacks tanks: nothing may be recorded.
	req.Forced = []string{"Ryze", "Ahri"}
	res, err = solver.Solve(s.ds, s.pol, req)
	s.Require().NoError(err)
	s.Empty(res.Entries)
}

func (s *SolveSuite) TestDistinctTeams() {
	req := s.scenario()
	req.TimeBudget = budgetLong
	res, err := solver.Solve(s.ds, s.pol, req, solver.WithDistinctTeams())
	s.Require().NoError(err)
	seen := map[string]bool{}
	for _, e := range res.Entries {
		names := e.Names()
		sort.Strings(names)
		key := strings.Join(names, ",")
		s.False(seen[key], "duplicate team %v", names)
		seen[key] = true
	}
	requireRanked(s.T(), res.Entries)
}

func TestSolve_Validation(t *testing.T) {
	ds := fixtureDataset(t)
	pol := policy.Balanced()
	cases := []struct {
		name string
		ds   *roster.Dataset
		pol  *policy.Policy
		req  solver.Request
		opts []solver.Option
		want error
	}{
		{"nil dataset", nil, pol, solver.Request{}, nil, solver.ErrNilInput},
		{"nil policy", ds, nil, solver.Request{}, nil, solver.ErrNilInput},
		{"negative size", ds, pol, solver.Request{MaxTeamSize: -1}, nil, solver.ErrInvalidTeamSize},
		{"negative budget", ds, pol, solver.Request{TimeBudget: -time.Second}, nil, solver.ErrInvalidTimeBudget},
		{"negative emblem", ds, pol, solver.Request{Emblems: map[string]int{"Ionia": -1}}, nil, solver.ErrInvalidEmblem},
		{"zero top k", ds, pol, solver.Request{}, []solver.Option{solver.WithTopK(0)}, solver.ErrInvalidOption},
		{"negative tier", ds, pol, solver.Request{}, []solver.Option{
			solver.WithConstraints(solver.Constraints{HighCostTier: -1}),
		}, solver.ErrInvalidOption},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := solver.Solve(tc.ds, tc.pol, tc.req, tc.opts...)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestSolve_EmblemsSeedCountsOnly: emblems move trait counts but never
// score by themselves. A member must carry the trait across its need.
func TestSolve_EmblemsSeedCountsOnly(t *testing.T) {
	ds := fixtureDataset(t)
	noRoles := solver.WithConstraints(solver.Constraints{})

	res, err := solver.Solve(ds, policy.Balanced(), solver.Request{
		MaxTeamSize: 0,
		Emblems:     map[string]int{"Targon": 1, "Ionia": 2},
	}, noRoles)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Empty(t, res.Entries[0].Team)
	assert.Zero(t, res.Entries[0].Score, "Targon met by the emblem alone does not score")

	// Ionia 2+1 crosses need 3; Targon was already at need 1 before Diana.
	res, err = solver.Solve(ds, policy.Balanced(), solver.Request{
		MaxTeamSize: 2,
		Forced:      []string{"Diana", "Yasuo"},
		Emblems:     map[string]int{"Targon": 1, "Ionia": 2},
	}, noRoles)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 3.0+1.0, res.Entries[0].Score, "Ionia and Slayer cross, Targon does not")
}

func TestSolve_Cancelled(t *testing.T) {
	ds := fixtureDataset(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := solver.Solve(ds, policy.Balanced(), solver.Request{
		MaxTeamSize: 8,
		TimeBudget:  budgetLong,
		Forced:      []string{"Ryze", "Ahri"},
	}, solver.WithContext(ctx))
	require.NoError(t, err)
	assert.True(t, res.Stats.Cancelled)
	assert.Empty(t, res.Entries, "root alone is not valid")
}

// TestSolve_TimeBudgetExpires uses a clock that jumps past the deadline
// after a fixed number of reads: the search stops, keeps a ranked partial
// result and leaves no error.
func TestSolve_TimeBudgetExpires(t *testing.T) {
	ds := fixtureDataset(t)
	base := time.Unix(0, 0)
	reads := 0
	clock := func() time.Time {
		reads++
		if reads > 50 {
			return base.Add(time.Hour)
		}
		return base
	}

	res, err := solver.Solve(ds, policy.Balanced(), solver.Request{
		MaxTeamSize: 8,
		TimeBudget:  time.Second,
		Forced:      []string{"Ryze", "Ahri"},
	}, solver.WithClock(clock))
	require.NoError(t, err)
	assert.True(t, res.Stats.TimedOut)
	assert.LessOrEqual(t, len(res.Entries), solver.DefaultTopK)
	assert.LessOrEqual(t, res.Stats.Nodes, int64(50))
	requireRanked(t, res.Entries)
}

func TestSolve_TopK(t *testing.T) {
	ds := fixtureDataset(t)
	res, err := solver.Solve(ds, policy.Strict(), solver.Request{
		MaxTeamSize: 8,
		TimeBudget:  budgetLong,
		Forced:      []string{"Ryze"},
	}, solver.WithTopK(2))
	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
}
