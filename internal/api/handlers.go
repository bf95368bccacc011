package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/katalvlaran/teamsolver/internal/service"
	"github.com/katalvlaran/teamsolver/policy"
	"github.com/katalvlaran/teamsolver/solver"
)

// Response headers carrying search statistics next to the JSON list.
const (
	HeaderNodes    = "X-Solve-Nodes"
	HeaderTimedOut = "X-Solve-Timed-Out"
	HeaderElapsed  = "X-Solve-Elapsed"
)

// Handlers holds the HTTP handlers.
type Handlers struct {
	svc *service.Service
	log *zap.Logger
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SolveRequest is the body of POST /solve/:variant. Absent max_team and
// time_limit take the configured defaults; time_limit is in seconds.
type SolveRequest struct {
	MaxTeam   *int           `json:"max_team" binding:"omitempty,gte=0"`
	TimeLimit *float64       `json:"time_limit" binding:"omitempty,gte=0"`
	Forced    []string       `json:"forced" binding:"omitempty,dive,required"`
	Banned    []string       `json:"banned" binding:"omitempty,dive,required"`
	Emblems   map[string]int `json:"emblems" binding:"omitempty,dive,keys,required,endkeys,gte=0"`
	Distinct  bool           `json:"distinct"`
}

// DefaultsResponse is the body of GET /config/defaults.
type DefaultsResponse struct {
	Forced       []string           `json:"forced"`
	Banned       []string           `json:"banned"`
	MaxTeam      int                `json:"max_team"`
	TimeLimits   map[string]float64 `json:"time_limits"`
	MaxTimeLimit float64            `json:"max_time_limit"`
}

// HandleRoot handles GET /.
func (h *Handlers) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API is running"})
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"characters": len(h.svc.Champions()),
		"traits":     len(h.svc.Traits()),
	})
}

// HandleDefaults handles GET /config/defaults.
func (h *Handlers) HandleDefaults(c *gin.Context) {
	defs := h.svc.Defaults()
	lim := h.svc.Limits()
	limits := make(map[string]float64)
	for _, v := range h.svc.Variants() {
		limits[v.Name] = lim.TimeBudget(v.Name).Seconds()
	}
	c.JSON(http.StatusOK, DefaultsResponse{
		Forced:       nonNil(defs.Forced),
		Banned:       nonNil(defs.Banned),
		MaxTeam:      lim.MaxTeamSize,
		TimeLimits:   limits,
		MaxTimeLimit: lim.MaxTimeBudget.Seconds(),
	})
}

// HandleTraits handles GET /data/traits.
func (h *Handlers) HandleTraits(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Traits())
}

// HandleChampions handles GET /data/champions.
func (h *Handlers) HandleChampions(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Champions())
}

// HandleVariants handles GET /variants.
func (h *Handlers) HandleVariants(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Variants())
}

// HandleSolve handles POST /solve/:variant.
//
// Response:
//
//	200 OK: []solver.Entry, best first; stats in X-Solve-* headers
//	400 Bad Request: malformed body or request values
//	404 Not Found: unknown variant
func (h *Handlers) HandleSolve(c *gin.Context) {
	variant := c.Param("variant")
	log := h.log.With(zap.String("request_id", c.GetString(ctxRequestID)), zap.String("variant", variant))

	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	sreq := service.Request{
		MaxTeamSize: req.MaxTeam,
		Forced:      req.Forced,
		Banned:      req.Banned,
		Emblems:     req.Emblems,
		Distinct:    req.Distinct,
	}
	if req.TimeLimit != nil {
		secs := min(*req.TimeLimit, h.svc.Limits().MaxTimeBudget.Seconds())
		d := time.Duration(secs * float64(time.Second))
		sreq.TimeBudget = &d
	}

	res, err := h.svc.Solve(c.Request.Context(), variant, sreq)
	switch {
	case errors.Is(err, policy.ErrUnknownPolicy):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "UNKNOWN_VARIANT"})
		return
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	case err != nil:
		log.Error("solve failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL"})
		return
	}

	writeStats(c, res.Stats)
	c.JSON(http.StatusOK, nonNil(res.Entries))
}

func writeStats(c *gin.Context, s solver.Stats) {
	c.Header(HeaderNodes, strconv.FormatInt(s.Nodes, 10))
	c.Header(HeaderTimedOut, strconv.FormatBool(s.TimedOut))
	c.Header(HeaderElapsed, s.Elapsed.String())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
