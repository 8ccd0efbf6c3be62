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
	"testing"
)

func TestInputClone(t *testing.T) {
	t.Run("scalar input", func(t *testing.T) {
		in := Input{N: 42}
		clone := in.Clone()
		if clone.N != 42 {
			t.Errorf("clone.N = %d, want 42", clone.N)
		}
		if clone.Seq != nil {
			t.Errorf("clone.Seq = %v, want nil", clone.Seq)
		}
	})

	t.Run("sequence is deep copied", func(t *testing.T) {
		in := Input{N: 3, Seq: []int64{3, 1, 2}}
		clone := in.Clone()
		clone.Seq[0] = 99
		if in.Seq[0] != 3 {
			t.Errorf("mutating the clone changed the original: %v", in.Seq)
		}
	})

	t.Run("empty sequence stays non-nil", func(t *testing.T) {
		in := Input{N: 0, Seq: []int64{}}
		clone := in.Clone()
		if clone.Seq == nil {
			t.Error("clone of an empty sequence should stay non-nil")
		}
	})
}

func TestOutputsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal int64", int64(75025), int64(75025), true},
		{"unequal int64", int64(75025), int64(75026), false},
		{"equal bool", true, true, true},
		{"unequal bool", true, false, false},
		{"equal sequences", []int64{1, 2, 3}, []int64{1, 2, 3}, true},
		{"unequal sequences", []int64{1, 2, 3}, []int64{1, 2, 4}, false},
		{"different lengths", []int64{1, 2}, []int64{1, 2, 3}, false},
		{"empty sequences", []int64{}, []int64{}, true},
		{"int64 vs bool", int64(1), true, false},
		{"int64 vs sequence", int64(1), []int64{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputsEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("OutputsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func identityMethod(_ context.Context, in Input) (any, error) {
	return in.N, nil
}

func TestValidateScenario(t *testing.T) {
	t.Run("nil scenario", func(t *testing.T) {
		if err := ValidateScenario(nil); !errors.Is(err, ErrNilScenario) {
			t.Errorf("got %v, want ErrNilScenario", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		s := NewScenario("", 1).AddMethod("a", identityMethod)
		if err := ValidateScenario(s); !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("got %v, want ErrInvalidScenario", err)
		}
	})

	t.Run("negative scale", func(t *testing.T) {
		s := NewScenario("neg", -1).AddMethod("a", identityMethod)
		if err := ValidateScenario(s); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("got %v, want ErrInvalidInput", err)
		}
	})

	t.Run("no methods", func(t *testing.T) {
		s := NewScenario("empty", 1)
		if err := ValidateScenario(s); !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("got %v, want ErrInvalidScenario", err)
		}
	})

	t.Run("duplicate method names", func(t *testing.T) {
		s := NewScenario("dup", 1).
			AddMethod("a", identityMethod).
			AddMethod("a", identityMethod)
		if err := ValidateScenario(s); !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("got %v, want ErrInvalidScenario", err)
		}
	})

	t.Run("single method needs postcondition", func(t *testing.T) {
		s := NewScenario("single", 1).AddMethod("a", identityMethod)
		if err := ValidateScenario(s); !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("got %v, want ErrInvalidScenario", err)
		}
	})

	t.Run("single method with postcondition", func(t *testing.T) {
		s := NewScenario("single", 1).
			AddMethod("a", identityMethod).
			SetPostcondition(Postcondition{
				Name:  "check",
				Check: func(Input, any) error { return nil },
			})
		if err := ValidateScenario(s); err != nil {
			t.Errorf("got %v, want nil", err)
		}
	})

	t.Run("two methods without postcondition", func(t *testing.T) {
		s := NewScenario("pair", 1).
			AddMethod("a", identityMethod).
			AddMethod("b", identityMethod)
		if err := ValidateScenario(s); err != nil {
			t.Errorf("got %v, want nil", err)
		}
	})

	t.Run("zero scale is valid", func(t *testing.T) {
		s := NewScenario("zero", 0).
			AddMethod("a", identityMethod).
			AddMethod("b", identityMethod)
		if err := ValidateScenario(s); err != nil {
			t.Errorf("got %v, want nil", err)
		}
	})
}

func TestPropertyValidate(t *testing.T) {
	t.Run("valid property", func(t *testing.T) {
		p := Property{
			Name:        "p",
			Description: "d",
			Check:       func(any) error { return nil },
		}
		if err := p.Validate(); err != nil {
			t.Errorf("got %v, want nil", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		p := Property{Description: "d", Check: func(any) error { return nil }}
		if err := p.Validate(); !errors.Is(err, ErrInvalidProperty) {
			t.Errorf("got %v, want ErrInvalidProperty", err)
		}
	})

	t.Run("missing description", func(t *testing.T) {
		p := Property{Name: "p", Check: func(any) error { return nil }}
		if err := p.Validate(); !errors.Is(err, ErrInvalidProperty) {
			t.Errorf("got %v, want ErrInvalidProperty", err)
		}
	})

	t.Run("missing check", func(t *testing.T) {
		p := Property{Name: "p", Description: "d"}
		if err := p.Validate(); !errors.Is(err, ErrInvalidProperty) {
			t.Errorf("got %v, want ErrInvalidProperty", err)
		}
	})
}

func TestPropertyHasTag(t *testing.T) {
	p := Property{Tags: []string{"agreement", "determinism"}}
	if !p.HasTag("agreement") {
		t.Error("HasTag(agreement) = false, want true")
	}
	if p.HasTag("missing") {
		t.Error("HasTag(missing) = true, want false")
	}
}

func TestBasicScenarioBuilder(t *testing.T) {
	s := NewScenario("demo", 7).
		SetDescription("a demo").
		SetSequence([]int64{5, 4}).
		AddMethod("a", identityMethod).
		AddMethod("b", identityMethod).
		AddProperty(Property{Name: "p", Description: "d", Check: func(any) error { return nil }})

	if s.Name() != "demo" {
		t.Errorf("Name() = %q, want demo", s.Name())
	}
	if s.Description() != "a demo" {
		t.Errorf("Description() = %q", s.Description())
	}
	if s.Input().N != 7 {
		t.Errorf("Input().N = %d, want 7", s.Input().N)
	}
	if len(s.Input().Seq) != 2 {
		t.Errorf("Input().Seq has %d elements, want 2", len(s.Input().Seq))
	}
	if len(s.Methods()) != 2 {
		t.Errorf("got %d methods, want 2", len(s.Methods()))
	}
	if s.Methods()[0].Name != "a" || s.Methods()[1].Name != "b" {
		t.Errorf("method order not preserved: %v, %v", s.Methods()[0].Name, s.Methods()[1].Name)
	}
	if s.Postcondition() != nil {
		t.Error("Postcondition() should be nil when unset")
	}
	if len(s.Properties()) != 1 {
		t.Errorf("got %d properties, want 1", len(s.Properties()))
	}
}

func TestReportPassed(t *testing.T) {
	r := &Report{Verification: VerificationResult{Match: true}}
	if !r.Passed() {
		t.Error("Passed() = false for matching verification")
	}
	r.Verification.Match = false
	if r.Passed() {
		t.Error("Passed() = true for mismatching verification")
	}
}

func TestVerifyResultFailedProperties(t *testing.T) {
	r := &VerifyResult{
		Properties: []PropertyResult{
			{Name: "a", Passed: true},
			{Name: "b", Passed: false},
			{Name: "c", Passed: false},
		},
	}
	failed := r.FailedProperties()
	if len(failed) != 2 {
		t.Fatalf("got %d failed properties, want 2", len(failed))
	}
	if failed[0].Name != "b" || failed[1].Name != "c" {
		t.Errorf("failed = [%s %s], want [b c]", failed[0].Name, failed[1].Name)
	}
}
