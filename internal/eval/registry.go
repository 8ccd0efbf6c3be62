// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the catalog of benchmark scenarios.
//
// Description:
//
//	The Registry is the central lookup for scenarios. It validates
//	definitions on registration and provides the ordered name list the
//	runner iterates over.
//
// Thread Safety: Safe for concurrent use via read-write mutex.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
	hooks     []RegistrationHook
}

// RegistrationHook is called when a scenario is registered or unregistered.
type RegistrationHook func(name string, scenario Scenario, registered bool)

// NewRegistry creates a new empty registry.
//
// Outputs:
//   - *Registry: The new registry. Never nil.
//
// Example:
//
//	registry := eval.NewRegistry()
//	registry.MustRegister(scenarios.NewFibonacci(25))
func NewRegistry() *Registry {
	return &Registry{
		scenarios: make(map[string]Scenario),
		hooks:     make([]RegistrationHook, 0),
	}
}

// Register adds a scenario to the registry.
//
// Description:
//
//	Validates the scenario definition and registers it under its Name().
//	The name must be unique within the registry.
//
// Inputs:
//   - scenario: The scenario to register. Must not be nil.
//
// Outputs:
//   - error: nil on success; ErrNilScenario, ErrInvalidScenario or
//     ErrAlreadyRegistered (wrapped) otherwise.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Register(scenario Scenario) error {
	if scenario == nil {
		return ErrNilScenario
	}
	if err := ValidateScenario(scenario); err != nil {
		return err
	}

	name := scenario.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scenarios[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	r.scenarios[name] = scenario

	for _, hook := range r.hooks {
		hook(name, scenario, true)
	}

	return nil
}

// MustRegister registers a scenario and panics on error.
//
// Description:
//
//	Convenience method for catalog construction during startup.
//	Should not be used at runtime.
func (r *Registry) MustRegister(scenario Scenario) {
	if err := r.Register(scenario); err != nil {
		panic(fmt.Sprintf("eval: failed to register scenario: %v", err))
	}
}

// Unregister removes a scenario from the registry.
//
// Outputs:
//   - error: nil on success, ErrNotFound (wrapped) if absent.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scenario, exists := r.scenarios[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	delete(r.scenarios, name)

	for _, hook := range r.hooks {
		hook(name, scenario, false)
	}

	return nil
}

// Get returns the scenario registered under name.
//
// Outputs:
//   - Scenario: The scenario, or nil if absent.
//   - bool: true if found.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Get(name string) (Scenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scenario, ok := r.scenarios[name]
	return scenario, ok
}

// List returns all registered scenario names in sorted order.
//
// Description:
//
//	The sorted order is the sequential execution order of RunAll, so a
//	run over the same catalog is always ordered the same way.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered scenarios.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scenarios)
}

// AddHook registers a hook invoked on every (un)registration.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) AddHook(hook RegistrationHook) {
	if hook == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}
