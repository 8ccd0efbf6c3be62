// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/veribench/veribench/pkg/logging"
	"github.com/veribench/veribench/pkg/ux"
)

// --- Global Command Variables ---
var (
	logLevel string
	logJSON  bool
	quiet    bool
	noColor  bool

	runConfigPath string
	runStrict     bool
	runTimeout    string
	metricsListen string
	traceStdout   bool

	verifyIterations int
	verifySeed       int64
	verifyTags       []string
	verifyStopFirst  bool

	appLogger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "veribench",
		Short: "Self-verifying runtime micro-benchmarks",
		Long: `veribench runs a catalog of self-verifying benchmark scenarios:
each computes the same result with independent algorithms and
cross-checks the outputs for exact equality.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			appLogger = logging.New(logging.Config{
				Level: level,
				JSON:  logJSON,
				Quiet: quiet,
			})
			slog.SetDefault(appLogger)
			if noColor {
				ux.SetColorEnabled(false)
			}
			return nil
		},
	}

	runCmd = &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run benchmark scenarios and cross-check their methods",
		RunE:  runScenarios, // Defined in cmd_run.go
	}

	verifyCmd = &cobra.Command{
		Use:   "verify [scenario...]",
		Short: "Verify scenario invariants over generated inputs",
		RunE:  verifyScenarios, // Defined in cmd_verify.go
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the scenario catalog",
		RunE:  listScenarios, // Defined in cmd_list.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output (reports still print)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "YAML suite file selecting scenarios and scales")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Exit non-zero when any verification fails")
	runCmd.Flags().StringVar(&runTimeout, "timeout", "", "Per-scenario timeout (e.g. 30s, 2m)")
	runCmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address for the duration of the run")
	runCmd.Flags().BoolVar(&traceStdout, "trace", false, "Emit otel spans to stderr")

	verifyCmd.Flags().IntVar(&verifyIterations, "iterations", 100, "Generated inputs per property")
	verifyCmd.Flags().Int64Var(&verifySeed, "seed", 1, "Seed of the property input generator")
	verifyCmd.Flags().StringSliceVar(&verifyTags, "tags", nil, "Only verify properties carrying one of these tags")
	verifyCmd.Flags().BoolVar(&verifyStopFirst, "stop-on-failure", false, "Stop a scenario at its first failing property")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(listCmd)
}
