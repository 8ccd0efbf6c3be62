// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veribench/veribench/internal/eval"
	"github.com/veribench/veribench/internal/eval/correctness"
	"github.com/veribench/veribench/pkg/ux"
)

// verifyScenarios runs property-based verification of scenario invariants
// over generated inputs. Unlike 'run', a failing property always sets a
// non-zero exit code: the properties are the ground truth of the catalog.
func verifyScenarios(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	registry, err := registryFromArgs(args)
	if err != nil {
		return err
	}

	verifier := correctness.NewVerifier(registry)
	verifier.SetLogger(appLogger)

	opts := []correctness.VerifyOption{
		correctness.WithIterations(verifyIterations),
		correctness.WithSeed(verifySeed),
		correctness.WithStopOnFailure(verifyStopFirst),
	}
	if len(verifyTags) > 0 {
		opts = append(opts, correctness.WithTags(verifyTags...))
	}

	results, err := verifier.VerifyAll(ctx, opts...)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		printVerifyResult(result)
		if !result.Passed {
			failed++
		}
	}

	fmt.Println(ux.Title("=== summary ==="))
	fmt.Printf("scenarios: %d\n", len(results))
	if failed == 0 {
		fmt.Println(ux.Pass(fmt.Sprintf("%d passed", len(results))))
		return nil
	}
	fmt.Println(ux.Fail(fmt.Sprintf("%d passed, %d failed", len(results)-failed, failed)))
	return fmt.Errorf("%d scenario(s) failed verification", failed)
}

// printVerifyResult renders one scenario's property results to stdout.
func printVerifyResult(result *eval.VerifyResult) {
	fmt.Fprintln(os.Stdout, ux.Title(fmt.Sprintf("=== %s ===", result.Scenario)))
	for _, pr := range result.Properties {
		if pr.Passed {
			fmt.Println(ux.Pass(fmt.Sprintf("%s (%d iterations, %v)", pr.Name, pr.Iterations, pr.Duration)))
			continue
		}
		fmt.Println(ux.Fail(fmt.Sprintf("%s: %v", pr.Name, pr.Err)))
		if pr.FailingInput != nil {
			line := fmt.Sprintf("  failing input: %v", pr.FailingInput)
			if pr.ShrinkSteps > 0 {
				line += fmt.Sprintf(" (shrunk %d steps)", pr.ShrinkSteps)
			}
			fmt.Println(ux.Muted(line))
		}
	}
	fmt.Println()
}
