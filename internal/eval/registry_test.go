// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"errors"
	"testing"
)

func testScenario(name string) Scenario {
	return NewScenario(name, 1).
		AddMethod("a", identityMethod).
		AddMethod("b", identityMethod)
}

func TestRegistryRegister(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(testScenario("fib")); err != nil {
			t.Fatalf("Register: %v", err)
		}
		s, ok := r.Get("fib")
		if !ok {
			t.Fatal("Get(fib) not found")
		}
		if s.Name() != "fib" {
			t.Errorf("Name() = %q, want fib", s.Name())
		}
	})

	t.Run("nil scenario", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(nil); !errors.Is(err, ErrNilScenario) {
			t.Errorf("got %v, want ErrNilScenario", err)
		}
	})

	t.Run("invalid scenario rejected", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(NewScenario("bad", 1)); !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("got %v, want ErrInvalidScenario", err)
		}
		if r.Len() != 0 {
			t.Errorf("Len() = %d after failed registration, want 0", r.Len())
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(testScenario("dup")); err != nil {
			t.Fatalf("Register: %v", err)
		}
		if err := r.Register(testScenario("dup")); !errors.Is(err, ErrAlreadyRegistered) {
			t.Errorf("got %v, want ErrAlreadyRegistered", err)
		}
	})
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(testScenario("fib"))

	if err := r.Unregister("fib"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if _, ok := r.Get("fib"); ok {
		t.Error("Get(fib) still found after Unregister")
	}
	if err := r.Unregister("fib"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(testScenario("quicksort"))
	r.MustRegister(testScenario("fibonacci"))
	r.MustRegister(testScenario("loop_sum"))

	got := r.List()
	want := []string{"fibonacci", "loop_sum", "quicksort"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistryMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegister did not panic on invalid scenario")
		}
	}()
	NewRegistry().MustRegister(NewScenario("bad", 1))
}

func TestRegistryHooks(t *testing.T) {
	r := NewRegistry()

	var events []string
	r.AddHook(func(name string, _ Scenario, registered bool) {
		if registered {
			events = append(events, "+"+name)
			return
		}
		events = append(events, "-"+name)
	})

	r.MustRegister(testScenario("fib"))
	if err := r.Unregister("fib"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	if len(events) != 2 || events[0] != "+fib" || events[1] != "-fib" {
		t.Errorf("events = %v, want [+fib -fib]", events)
	}
}
