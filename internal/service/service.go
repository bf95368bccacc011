// Package service wires the dataset store, the policy registry and the
// solver into the operations served by the CLI and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/teamsolver/internal/config"
	"github.com/katalvlaran/teamsolver/policy"
	"github.com/katalvlaran/teamsolver/roster"
	"github.com/katalvlaran/teamsolver/solver"
)

// ErrInvalidRequest marks malformed solve input. It wraps the solver's
// validation sentinels so callers can branch on one error.
var ErrInvalidRequest = errors.New("service: invalid request")

// DatasetSource hands out the current dataset snapshot.
type DatasetSource interface {
	Dataset() *roster.Dataset
}

// SolveObserver records finished and rejected solve calls.
type SolveObserver interface {
	ObserveSolve(variant string, stats solver.Stats)
	ObserveSolveError(variant string)
}

// Request is a solve request before defaults are applied. Nil pointers take
// the configured defaults; zero values are honored as given.
type Request struct {
	MaxTeamSize *int
	TimeBudget  *time.Duration
	Forced      []string
	Banned      []string
	Emblems     map[string]int
	Distinct    bool
}

// Variant describes one registered scoring variant.
type Variant struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// Service runs solve requests against the current dataset.
type Service struct {
	data DatasetSource
	reg  *policy.Registry
	cfg  config.SolverConfig
	defs config.DefaultsConfig
	obs  SolveObserver
	log  *zap.Logger
}

// New returns a Service. obs may be nil; log nil means no logging.
func New(data DatasetSource, reg *policy.Registry, cfg *config.Config, obs SolveObserver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		data: data,
		reg:  reg,
		cfg:  cfg.Solver,
		defs: cfg.Defaults,
		obs:  obs,
		log:  log,
	}
}

// Solve resolves variant, fills defaults, caps the time budget and runs the
// search. The dataset snapshot is taken once, so a concurrent reload does
// not affect a running search.
func (s *Service) Solve(ctx context.Context, variant string, req Request) (solver.Result, error) {
	pol, err := s.reg.Lookup(variant)
	if err != nil {
		return solver.Result{}, err
	}

	log := s.log.With(zap.String("variant", pol.Name))
	if id := RequestID(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	sreq := s.Resolve(pol.Name, req)
	opts := []solver.Option{
		solver.WithTopK(s.cfg.TopK),
		solver.WithConstraints(s.cfg.Constraints()),
		solver.WithContext(ctx),
		solver.WithLogger(log),
	}
	if s.cfg.Distinct || req.Distinct {
		opts = append(opts, solver.WithDistinctTeams())
	}

	res, err := solver.Solve(s.data.Dataset(), pol, sreq, opts...)
	if err != nil {
		if s.obs != nil {
			s.obs.ObserveSolveError(pol.Name)
		}
		log.Info("solve rejected", zap.Error(err))

		return solver.Result{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if s.obs != nil {
		s.obs.ObserveSolve(pol.Name, res.Stats)
	}

	log.Info("solve finished",
		zap.Int("max_team", sreq.MaxTeamSize),
		zap.Duration("budget", sreq.TimeBudget),
		zap.Int("entries", len(res.Entries)),
		zap.Int64("nodes", res.Stats.Nodes),
		zap.Bool("timed_out", res.Stats.TimedOut),
		zap.Bool("unsatisfiable", res.Stats.Unsatisfiable),
		zap.Duration("elapsed", res.Stats.Elapsed))

	return res, nil
}

// Resolve applies the defaults of variant and the budget cap to req.
// Negative values pass through for the solver to reject.
func (s *Service) Resolve(variant string, req Request) solver.Request {
	out := solver.Request{
		MaxTeamSize: s.cfg.MaxTeamSize,
		TimeBudget:  s.cfg.TimeBudget(variant),
		Forced:      req.Forced,
		Banned:      req.Banned,
		Emblems:     req.Emblems,
	}
	if req.MaxTeamSize != nil {
		out.MaxTeamSize = *req.MaxTeamSize
	}
	if req.TimeBudget != nil {
		out.TimeBudget = *req.TimeBudget
	}
	if out.TimeBudget > s.cfg.MaxTimeBudget {
		s.log.Debug("time budget capped",
			zap.Duration("requested", out.TimeBudget),
			zap.Duration("max", s.cfg.MaxTimeBudget))
		out.TimeBudget = s.cfg.MaxTimeBudget
	}

	return out
}

// Variants lists the registered variants with their aliases.
func (s *Service) Variants() []Variant {
	names := s.reg.Names()
	out := make([]Variant, len(names))
	for i, n := range names {
		out[i] = Variant{Name: n, Aliases: s.reg.Aliases(n)}
	}

	return out
}

// Traits returns the trait catalogue of the current dataset.
func (s *Service) Traits() roster.Catalogue { return s.data.Dataset().Catalogue() }

// Champions returns the roster of the current dataset in file order.
func (s *Service) Champions() []roster.Character { return s.data.Dataset().Characters() }

// Defaults returns the forced and banned lists suggested to clients.
func (s *Service) Defaults() config.DefaultsConfig { return s.defs }

// Limits returns the request defaults and caps.
func (s *Service) Limits() config.SolverConfig { return s.cfg }

type requestIDKey struct{}

// WithRequestID attaches a request id that Solve adds to its log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}
