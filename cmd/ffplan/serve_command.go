// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/ffplan/internal/api"
	"github.com/ManuGH/ffplan/internal/app"
	"github.com/ManuGH/ffplan/internal/config"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/health"
	"github.com/ManuGH/ffplan/internal/log"
	"github.com/ManuGH/ffplan/internal/telemetry"
	"github.com/ManuGH/ffplan/internal/version"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), ctx.cfg, ctx.loader)
		},
	}
	return cmd
}

func serve(ctx context.Context, cfg config.AppConfig, loader *config.Loader) error {
	logger := log.WithComponent("serve")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "ffplan",
		ServiceVersion: version.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	builder, pf, err := app.NewBuilder(ctx, cfg, probeFunc)
	if err != nil {
		return err
	}
	var preflight atomic.Pointer[capabilities.Preflight]
	preflight.Store(pf)

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewBinaryChecker("ffmpeg", cfg.FFmpegPath))
	hm.RegisterChecker(health.NewPreflightChecker(preflight.Load))

	serviceName := ""
	if cfg.Telemetry.Enabled {
		serviceName = "ffplan"
	}
	srv := api.New(api.Config{
		ListenAddr:         cfg.API.ListenAddr,
		RateLimitPerMinute: cfg.API.RateLimitPerMinute,
		ServiceName:        serviceName,
		Health:             hm,
	}, builder)

	g, gctx := errgroup.WithContext(ctx)

	holder := config.NewHolder(cfg, loader)
	updates := make(chan config.AppConfig, 1)
	holder.RegisterListener(updates)
	if err := holder.StartWatcher(gctx); err != nil {
		logger.Warn().Err(err).Msg("config watcher unavailable; hot reload disabled")
	}
	defer holder.Wait()

	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case next := <-updates:
				log.Reconfigure(log.Config{Level: next.LogLevel, Version: version.Version})
				b, pf, err := app.NewBuilder(gctx, next, probeFunc)
				if err != nil {
					logger.Error().Err(err).Msg("rebuild planner after reload failed; keeping previous")
					continue
				}
				preflight.Store(pf)
				srv.SetPlanner(b)
			}
		}
	})

	return g.Wait()
}
