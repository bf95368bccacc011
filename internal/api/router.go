// Package api serves the solver over HTTP with gin.
//
// Routes:
//
//	GET  /                 liveness banner
//	GET  /health           dataset summary
//	GET  /config/defaults  form defaults and request limits
//	GET  /data/traits      trait catalogue keyed by name
//	GET  /data/champions   roster in file order
//	GET  /variants         scoring variants and aliases
//	POST /solve/:variant   ranked teams
//	GET  /metrics          Prometheus exposition (when a gatherer is set)
//	GET  /app/*            static frontend (when a directory is set)
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/katalvlaran/teamsolver/internal/service"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// exposedHeaders lets browser clients read the request ID and solve stats.
var exposedHeaders = strings.Join([]string{HeaderRequestID, HeaderNodes, HeaderTimedOut, HeaderElapsed}, ", ")

const ctxRequestID = "request_id"

// Options configures the router.
type Options struct {
	// StaticDir is served under /app when set.
	StaticDir string

	// CORS allows any origin, as the browser frontend expects.
	CORS bool

	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer

	// Logger receives one access line per request. Nil disables it.
	Logger *zap.Logger
}

// NewRouter builds the gin engine for svc.
func NewRouter(svc *service.Service, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handlers{svc: svc, log: log}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(log))
	if opts.CORS {
		router.Use(cors())
	}

	router.GET("/", h.HandleRoot)
	router.GET("/health", h.HandleHealth)
	router.GET("/config/defaults", h.HandleDefaults)
	router.GET("/data/traits", h.HandleTraits)
	router.GET("/data/champions", h.HandleChampions)
	router.GET("/variants", h.HandleVariants)
	router.POST("/solve/:variant", h.HandleSolve)

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.StaticDir != "" {
		router.Static("/app", opts.StaticDir)
	}

	return router
}

// requestID reuses the caller's X-Request-ID or mints one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Set(ctxRequestID, id)
		c.Request = c.Request.WithContext(service.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxRequestID)))
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
		c.Header("Access-Control-Expose-Headers", exposedHeaders)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
