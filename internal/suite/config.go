// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package suite loads YAML suite files: which scenarios to run, at which
// scale, and whether a mismatch should fail the process.
package suite

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/veribench/veribench/internal/eval"
	"github.com/veribench/veribench/internal/scenarios"
)

var (
	// ErrInvalidSuite is returned when a suite file fails validation.
	ErrInvalidSuite = errors.New("invalid suite configuration")
)

// ScenarioConfig selects one catalog scenario, optionally overriding its
// scale parameter.
type ScenarioConfig struct {
	// Name is the catalog scenario name. Required.
	Name string `yaml:"name" validate:"required"`

	// N overrides the scenario's default scale when set.
	N *int64 `yaml:"n,omitempty" validate:"omitempty,gte=0"`
}

// Config is a parsed suite file.
//
// Example:
//
//	strict: true
//	timeout: 2m
//	scenarios:
//	  - name: fibonacci
//	    n: 30
//	  - name: quicksort
type Config struct {
	// Scenarios lists the scenarios to run, in file order. When empty,
	// the whole catalog runs at default scales.
	Scenarios []ScenarioConfig `yaml:"scenarios" validate:"omitempty,dive"`

	// Strict makes any verification mismatch set a non-zero exit code.
	// Default false: the reference behavior prints failures and exits 0.
	Strict bool `yaml:"strict"`

	// Timeout bounds each scenario run. Zero means the runner default.
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads and validates a suite file.
//
// Inputs:
//   - path: Path to the YAML suite file.
//
// Outputs:
//   - *Config: The parsed configuration.
//   - error: Non-nil on read, parse or validation failure.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing suite file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural constraints and that every named scenario
// exists in the catalog.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSuite, err)
	}

	seen := make(map[string]struct{}, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		if _, ok := scenarios.DefaultScale(sc.Name); !ok {
			return fmt.Errorf("%w: unknown scenario %q", ErrInvalidSuite, sc.Name)
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("%w: scenario %q listed twice", ErrInvalidSuite, sc.Name)
		}
		seen[sc.Name] = struct{}{}
	}

	return nil
}

// BuildRegistry constructs a registry holding the suite's scenarios, at
// overridden scales where given. An empty scenario list yields the whole
// catalog at default scales.
func (c *Config) BuildRegistry() (*eval.Registry, error) {
	reg := eval.NewRegistry()

	if len(c.Scenarios) == 0 {
		if err := scenarios.Register(reg); err != nil {
			return nil, err
		}
		return reg, nil
	}

	for _, sc := range c.Scenarios {
		n, _ := scenarios.DefaultScale(sc.Name)
		if sc.N != nil {
			n = *sc.N
		}
		s, err := scenarios.Build(sc.Name, n)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", sc.Name, err)
		}
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
