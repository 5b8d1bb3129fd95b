package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelrt/internal/httpapi"
	"modelrt/internal/sim"
)

func newServeCmd(o *options) *cobra.Command {
	var (
		tick     time.Duration
		scenario string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the debug HTTP server and the tick loop",
		Example: "  modelrt serve --asset-root ~/.modelrt\n" +
			"  modelrt serve --scenario walk.yaml --tick 50ms",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, o, tick, scenario)
		},
	}
	cmd.Flags().String("addr", "", "HTTP listen address (default "+defaultAddr+")")
	cmd.Flags().DurationVar(&tick, "tick", 50*time.Millisecond, "Tick interval for idle sweeps and scenario replay")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario file replayed in a loop while serving")
	return cmd
}

func runServe(ctx context.Context, o *options, tick time.Duration, scenarioPath string) error {
	m, _, err := buildManager(o, nil)
	if err != nil {
		return err
	}
	defer m.Close()
	if rep := m.SanityCheck(); !rep.VersionOK {
		o.log.Error().Str("error", rep.Error).Msg("engine version check failed")
	} else if len(rep.MissingDirs) > 0 {
		o.log.Warn().Strs("dirs", rep.MissingDirs).Msg("shared clip folders missing")
	}

	var sc *sim.Scenario
	if scenarioPath != "" {
		s, err := sim.Load(scenarioPath)
		if err != nil {
			return err
		}
		sc = &s
	}

	httpapi.SetLogger(o.log)
	httpapi.SetCORSOptions(len(o.cfg.CORSAllowedOrigins) > 0, o.cfg.CORSAllowedOrigins, nil, nil)
	srv := &http.Server{
		Addr:              o.cfg.Addr,
		Handler:           httpapi.NewMux(m),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		o.log.Info().Str("addr", o.cfg.Addr).Msg("modelrt listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	runner := &sim.Runner{M: m, Log: o.log}
	if o.log.GetLevel() <= zerolog.DebugLevel {
		runner.Out = os.Stdout
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err, ok := <-errCh:
			if ok && err != nil {
				return err
			}
			break loop
		case <-ticker.C:
			if sc == nil {
				m.Tick()
				continue
			}
			if _, err := runner.Run(ctx, *sc); err != nil && !errors.Is(err, context.Canceled) {
				o.log.Error().Err(err).Msg("scenario replay failed")
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		o.log.Warn().Err(err).Msg("graceful shutdown error")
	}
	o.log.Info().Msg("modelrt stopped")
	return nil
}
