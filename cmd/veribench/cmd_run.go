// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/veribench/veribench/internal/eval"
	"github.com/veribench/veribench/internal/eval/benchmark"
	"github.com/veribench/veribench/internal/eval/telemetry"
	"github.com/veribench/veribench/internal/scenarios"
	"github.com/veribench/veribench/internal/suite"
)

// runScenarios executes the selected scenarios once each and cross-checks
// their method outputs. With --strict (or strict: true in the suite file)
// a mismatch fails the process; by default mismatches are printed and the
// exit code stays zero.
func runScenarios(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	strict := runStrict
	var runOpts []benchmark.RunOption

	if runTimeout != "" {
		d, err := time.ParseDuration(runTimeout)
		if err != nil {
			return fmt.Errorf("parsing --timeout: %w", err)
		}
		runOpts = append(runOpts, benchmark.WithTimeout(d))
	}

	var (
		registry *eval.Registry
		err      error
	)
	switch {
	case runConfigPath != "":
		if len(args) > 0 {
			return errors.New("--config and scenario arguments are mutually exclusive")
		}
		var cfg *suite.Config
		cfg, err = suite.Load(runConfigPath)
		if err != nil {
			return err
		}
		if cfg.Strict {
			strict = true
		}
		if cfg.Timeout > 0 {
			runOpts = append(runOpts, benchmark.WithTimeout(cfg.Timeout))
		}
		registry, err = cfg.BuildRegistry()
	default:
		registry, err = registryFromArgs(args)
	}
	if err != nil {
		return err
	}

	if traceStdout {
		shutdown, err := installStdoutTracing(ctx)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	runner := benchmark.NewRunner(registry)
	runner.SetLogger(appLogger)

	var metricsServer *http.Server
	var g errgroup.Group
	if metricsListen != "" {
		promReg := prometheus.NewRegistry()
		cfg := telemetry.DefaultPrometheusConfig()
		cfg.Registry = promReg
		sink, err := telemetry.NewPrometheusSink(cfg)
		if err != nil {
			return err
		}
		runner.SetSink(sink)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: metricsListen, Handler: mux}
		g.Go(func() error {
			appLogger.Info("serving metrics", "addr", metricsListen)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	reports, err := runner.RunAll(ctx, runOpts...)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if serr := metricsServer.Shutdown(shutdownCtx); serr != nil {
			appLogger.Warn("metrics server shutdown failed", "error", serr)
		}
		cancel()
		if gerr := g.Wait(); gerr != nil {
			appLogger.Warn("metrics server failed", "error", gerr)
		}
	}

	if err != nil {
		return err
	}

	reporter := benchmark.NewReporter(os.Stdout)
	failed := 0
	for _, report := range reports {
		reporter.Report(report)
		if !report.Passed() {
			failed++
		}
	}
	reporter.Summary(reports)

	if strict && failed > 0 {
		return fmt.Errorf("verification failed: %d scenario(s) mismatched", failed)
	}
	return nil
}

// registryFromArgs builds a registry holding the named catalog scenarios
// at their default scales, or the whole catalog when no names are given.
func registryFromArgs(args []string) (*eval.Registry, error) {
	registry := eval.NewRegistry()

	if len(args) == 0 {
		if err := scenarios.Register(registry); err != nil {
			return nil, err
		}
		return registry, nil
	}

	for _, name := range args {
		n, ok := scenarios.DefaultScale(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (see 'veribench list')", name)
		}
		s, err := scenarios.Build(name, n)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// installStdoutTracing wires a stderr span exporter into the global
// tracer provider and returns its shutdown function.
func installStdoutTracing(ctx context.Context) (func(), error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			appLogger.Warn("trace provider shutdown failed", "error", err)
		}
	}, nil
}
