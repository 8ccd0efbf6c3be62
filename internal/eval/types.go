// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"time"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotFound is returned when a scenario is not found in the registry.
	ErrNotFound = errors.New("scenario not found")

	// ErrAlreadyRegistered is returned when attempting to register a duplicate.
	ErrAlreadyRegistered = errors.New("scenario already registered")

	// ErrNilScenario is returned when attempting to register nil.
	ErrNilScenario = errors.New("scenario must not be nil")

	// ErrInvalidScenario is returned when a scenario definition is malformed.
	ErrInvalidScenario = errors.New("invalid scenario definition")

	// ErrInvalidProperty is returned when a property is malformed.
	ErrInvalidProperty = errors.New("invalid property definition")

	// ErrInvalidInput is returned when a scenario input is outside the
	// valid domain of its methods (for example a negative scale).
	ErrInvalidInput = errors.New("invalid scenario input")

	// ErrVerificationFailed indicates that two methods disagreed or a
	// postcondition did not hold. It is reported, never fatal to a run.
	ErrVerificationFailed = errors.New("verification failed")
)

// -----------------------------------------------------------------------------
// Input
// -----------------------------------------------------------------------------

// Input is the fixed input of a scenario for the duration of one run.
//
// Description:
//
//	N is the integer scale parameter every scenario declares. Seq is the
//	deterministic sequence owned by sequence scenarios (sorting). Methods
//	never receive the scenario's own Seq: the runner hands each method a
//	clone, so mutating-in-place methods cannot observe each other.
type Input struct {
	// N is the scale parameter (n, size or limit depending on scenario).
	N int64

	// Seq is the scenario-owned input sequence. Nil for scalar scenarios.
	Seq []int64
}

// Clone returns a deep copy of the input.
//
// Outputs:
//   - Input: A copy whose Seq shares no storage with the receiver.
func (in Input) Clone() Input {
	out := Input{N: in.N}
	if in.Seq != nil {
		out.Seq = make([]int64, len(in.Seq))
		copy(out.Seq, in.Seq)
	}
	return out
}

// -----------------------------------------------------------------------------
// Method
// -----------------------------------------------------------------------------

// Method is one algorithmic implementation of a scenario's computation.
//
// Description:
//
//	A method is a pure function from input to an int64, bool or []int64
//	result. Mutating methods (in-place sorts) receive a private clone of
//	the scenario input and return the post-state of the sequence.
type Method struct {
	// Name identifies the method in reports (e.g. "recursive", "iterative").
	Name string

	// Compute produces the method's result for the given input.
	// An error fails the enclosing scenario run closed; no default
	// result is ever substituted.
	Compute func(ctx context.Context, in Input) (any, error)
}

// Validate checks that the method is well-formed.
func (m *Method) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: method name is required", ErrInvalidScenario)
	}
	if m.Compute == nil {
		return fmt.Errorf("%w: method %s has no compute function", ErrInvalidScenario, m.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Postcondition
// -----------------------------------------------------------------------------

// Postcondition is a named structural check over a single method's output.
//
// Description:
//
//	Scenarios with exactly one method cannot cross-check outputs pairwise;
//	they assert a postcondition instead (e.g. "is_sorted" over the output
//	sequence of a sort).
type Postcondition struct {
	// Name identifies the postcondition (lowercase, underscore-separated).
	Name string

	// Description explains what the postcondition asserts.
	Description string

	// Check returns nil if the postcondition holds for the given
	// input/output pair, an error describing the violation otherwise.
	Check func(in Input, output any) error
}

// Validate checks that the postcondition is well-formed.
func (p *Postcondition) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: postcondition name is required", ErrInvalidScenario)
	}
	if p.Check == nil {
		return fmt.Errorf("%w: postcondition %s has no check function", ErrInvalidScenario, p.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Property
// -----------------------------------------------------------------------------

// Property defines a correctness invariant for the verification framework.
// Properties are independent of the scenario's fixed benchmark input: the
// verifier generates fresh inputs per iteration.
//
// Example:
//
//	Property{
//	    Name:        "recursive_matches_iterative",
//	    Description: "Both fibonacci methods agree for all small n.",
//	    Generator:   func(r *rand.Rand) any { return r.Int63n(21) },
//	    Check:       func(input any) error { ... },
//	}
type Property struct {
	// Name is a unique identifier for this property.
	Name string

	// Description explains what this property verifies.
	Description string

	// Check verifies the property holds for the generated input.
	// Returns nil if the property holds, error with details otherwise.
	Check func(input any) error

	// Generator produces inputs for property testing. The supplied rand
	// source is seeded by the verifier so runs are reproducible.
	Generator func(r *rand.Rand) any

	// Shrink attempts to reduce a failing input to a minimal case.
	// If nil, no shrinking is performed.
	Shrink func(input any) []any

	// Tags categorize this property for selective verification.
	Tags []string

	// Timeout is the maximum time for checking this property.
	// Zero means use the verifier default.
	Timeout time.Duration
}

// Validate checks that the property is well-formed.
func (p *Property) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProperty)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: description is required for %s", ErrInvalidProperty, p.Name)
	}
	if p.Check == nil {
		return fmt.Errorf("%w: check function is required for %s", ErrInvalidProperty, p.Name)
	}
	return nil
}

// HasTag returns true if this property carries the specified tag.
func (p *Property) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Scenario
// -----------------------------------------------------------------------------

// Scenario is the interface all benchmark scenarios implement.
//
// Thread Safety: Implementations must be safe for concurrent reads; the
// runner never mutates a scenario.
type Scenario interface {
	// Name returns a unique identifier, stable across versions and
	// suitable for metric labels (lowercase, underscore-separated).
	Name() string

	// Description explains what the scenario computes.
	Description() string

	// Input returns the fixed input for one benchmark run.
	Input() Input

	// Methods returns the ordered method list. At least one.
	Methods() []Method

	// Postcondition returns the structural check for single-method
	// scenarios, or nil when outputs are cross-checked pairwise.
	Postcondition() *Postcondition

	// Properties returns the correctness invariants used by the
	// verification framework. An empty slice means nothing to verify.
	Properties() []Property
}

// ValidateScenario checks that a scenario definition is coherent.
//
// Description:
//
//	A scenario needs a name, a non-negative scale, at least one method,
//	and — when it has exactly one method — a postcondition, since a single
//	output cannot be cross-checked against anything.
//
// Outputs:
//   - error: nil if valid, ErrInvalidScenario (wrapped) otherwise.
func ValidateScenario(s Scenario) error {
	if s == nil {
		return ErrNilScenario
	}
	if s.Name() == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if s.Input().N < 0 {
		return fmt.Errorf("%w: %s: negative scale %d", ErrInvalidInput, s.Name(), s.Input().N)
	}
	methods := s.Methods()
	if len(methods) == 0 {
		return fmt.Errorf("%w: %s has no methods", ErrInvalidScenario, s.Name())
	}
	seen := make(map[string]struct{}, len(methods))
	for i := range methods {
		if err := methods[i].Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
		if _, dup := seen[methods[i].Name]; dup {
			return fmt.Errorf("%w: %s: duplicate method %s", ErrInvalidScenario, s.Name(), methods[i].Name)
		}
		seen[methods[i].Name] = struct{}{}
	}
	if len(methods) == 1 {
		pc := s.Postcondition()
		if pc == nil {
			return fmt.Errorf("%w: %s has a single method and no postcondition", ErrInvalidScenario, s.Name())
		}
		if err := pc.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Basic Scenario
// -----------------------------------------------------------------------------

// BasicScenario is the standard Scenario implementation used by the catalog.
type BasicScenario struct {
	name          string
	description   string
	input         Input
	methods       []Method
	postcondition *Postcondition
	properties    []Property
}

// NewScenario creates a scenario with the given name and scale parameter.
//
// Outputs:
//   - *BasicScenario: The new scenario. Never nil.
//
// Example:
//
//	s := eval.NewScenario("fibonacci", 25).
//	    SetDescription("Naive recursive vs iterative fibonacci.").
//	    AddMethod("recursive", fibRecursiveMethod).
//	    AddMethod("iterative", fibIterativeMethod)
func NewScenario(name string, n int64) *BasicScenario {
	return &BasicScenario{
		name:  name,
		input: Input{N: n},
	}
}

// Name returns the scenario name.
func (s *BasicScenario) Name() string { return s.name }

// Description returns the scenario description.
func (s *BasicScenario) Description() string { return s.description }

// Input returns the fixed input.
func (s *BasicScenario) Input() Input { return s.input }

// Methods returns the ordered method list.
func (s *BasicScenario) Methods() []Method { return s.methods }

// Postcondition returns the postcondition, or nil.
func (s *BasicScenario) Postcondition() *Postcondition { return s.postcondition }

// Properties returns the correctness properties.
func (s *BasicScenario) Properties() []Property { return s.properties }

// SetDescription sets the scenario description.
func (s *BasicScenario) SetDescription(d string) *BasicScenario {
	s.description = d
	return s
}

// SetSequence attaches the scenario-owned input sequence.
func (s *BasicScenario) SetSequence(seq []int64) *BasicScenario {
	s.input.Seq = seq
	return s
}

// AddMethod appends a method to the scenario.
func (s *BasicScenario) AddMethod(name string, compute func(ctx context.Context, in Input) (any, error)) *BasicScenario {
	s.methods = append(s.methods, Method{Name: name, Compute: compute})
	return s
}

// SetPostcondition sets the structural check for single-method scenarios.
func (s *BasicScenario) SetPostcondition(p Postcondition) *BasicScenario {
	s.postcondition = &p
	return s
}

// AddProperty appends a correctness property.
func (s *BasicScenario) AddProperty(p Property) *BasicScenario {
	s.properties = append(s.properties, p)
	return s
}

// -----------------------------------------------------------------------------
// Reports
// -----------------------------------------------------------------------------

// MethodResult is the captured outcome of one method execution.
type MethodResult struct {
	// Method is the method name.
	Method string

	// Output is the value the method computed (or, for mutating
	// methods, the post-state of its private sequence copy).
	Output any

	// Duration is the wall-clock time of the single execution.
	Duration time.Duration
}

// Mismatch records one disagreeing method pair.
type Mismatch struct {
	// MethodA and MethodB name the disagreeing methods.
	MethodA string
	MethodB string

	// ValueA and ValueB are their respective outputs.
	ValueA any
	ValueB any
}

// VerificationResult is the outcome of cross-checking a scenario's outputs.
type VerificationResult struct {
	// Match is true if all methods agreed (or the postcondition held).
	Match bool

	// Mismatches lists every disagreeing method pair. Empty on match.
	Mismatches []Mismatch

	// Postcondition is the name of the checked postcondition, when the
	// scenario was verified structurally instead of pairwise.
	Postcondition string

	// Err carries the postcondition violation, if any.
	Err error
}

// Report is the full outcome of one scenario run.
type Report struct {
	// Scenario is the scenario name.
	Scenario string

	// RunID uniquely identifies this run.
	RunID string

	// Input is the input the methods were executed against.
	Input Input

	// Methods holds one result per method, in declared order.
	Methods []MethodResult

	// Verification is the cross-check outcome.
	Verification VerificationResult

	// Duration is the wall-clock time of the whole scenario run.
	Duration time.Duration

	// Timestamp is when the run started.
	Timestamp time.Time
}

// Passed reports whether the scenario verified cleanly.
func (r *Report) Passed() bool { return r.Verification.Match }

// -----------------------------------------------------------------------------
// Verification Results (properties)
// -----------------------------------------------------------------------------

// VerifyResult contains the results of verifying a scenario's properties.
type VerifyResult struct {
	// Scenario is the name of the scenario that was verified.
	Scenario string

	// Properties contains results for each property.
	Properties []PropertyResult

	// Duration is the total time spent verifying.
	Duration time.Duration

	// Passed is true if all properties passed.
	Passed bool

	// Iterations is the total number of property iterations run.
	Iterations int
}

// FailedProperties returns the properties that failed.
func (r *VerifyResult) FailedProperties() []PropertyResult {
	var failed []PropertyResult
	for _, pr := range r.Properties {
		if !pr.Passed {
			failed = append(failed, pr)
		}
	}
	return failed
}

// PropertyResult contains the result of verifying a single property.
type PropertyResult struct {
	// Name is the property name.
	Name string

	// Passed is true if the property held for all generated inputs.
	Passed bool

	// Iterations is the number of inputs checked.
	Iterations int

	// Duration is the time spent on this property.
	Duration time.Duration

	// FailingInput is the (shrunk) input that caused failure, if any.
	FailingInput any

	// Err is the error returned by the Check function, if any.
	Err error

	// ShrinkSteps is the number of shrinking iterations performed.
	ShrinkSteps int
}

// -----------------------------------------------------------------------------
// Output Equality
// -----------------------------------------------------------------------------

// OutputsEqual reports whether two method outputs are exactly equal.
//
// Description:
//
//	All scenario arithmetic is integer arithmetic, so equality is exact:
//	int64 and bool compare directly, sequences compare element-wise.
//	No floating tolerance exists or is needed.
func OutputsEqual(a, b any) bool {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case []int64:
		bv, ok := b.([]int64)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
