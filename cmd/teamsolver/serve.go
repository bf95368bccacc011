package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/teamsolver/internal/api"
	"github.com/katalvlaran/teamsolver/internal/metrics"
	"github.com/katalvlaran/teamsolver/internal/service"
	"github.com/katalvlaran/teamsolver/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		staticDir string
		watch     bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Starts the HTTP API. With --watch and a data directory, edits to the
champions or traits files are picked up without a restart; a broken edit
keeps the previous data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			if fl.Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if fl.Changed("static-dir") {
				a.cfg.Server.StaticDir = staticDir
			}
			if fl.Changed("watch") {
				a.cfg.Data.Watch = watch
			}

			return a.runServe(cmd.Context())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&addr, "addr", "", "listen address (default from config)")
	fl.StringVar(&staticDir, "static-dir", "", "frontend directory served under /app")
	fl.BoolVar(&watch, "watch", false, "reload the data directory on change")

	return cmd
}

func (a *app) runServe(parent context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	st, err := a.openStore(store.WithObserver(m))
	if err != nil {
		return err
	}
	policies, err := a.cfg.Registry()
	if err != nil {
		return err
	}
	svc := service.New(st, policies, a.cfg, m, a.logger)

	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: a.cfg.Server.Addr,
		Handler: api.NewRouter(svc, api.Options{
			StaticDir: a.cfg.Server.StaticDir,
			CORS:      a.cfg.Server.CORS,
			Gatherer:  reg,
			Logger:    a.logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", srv.Addr), zap.Strings("variants", policies.Names()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")

		return srv.Shutdown(sctx)
	})
	if a.cfg.Data.Watch && st.Dir() != "" {
		g.Go(func() error { return st.Watch(gctx) })
	}

	return g.Wait()
}
