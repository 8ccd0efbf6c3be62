// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the veribench CLI.
package ux

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Veribench palette - muted greens and signal reds
var (
	ColorSuccess = lipgloss.Color("#3FB950") // green for verified scenarios
	ColorError   = lipgloss.Color("#F85149") // red for mismatches
	ColorAccent  = lipgloss.Color("#58A6FF") // blue for headers
	ColorMuted   = lipgloss.Color("#8B949E") // grey for secondary text
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Bold:    lipgloss.NewStyle().Bold(true),
}

var (
	colorOnce    sync.Once
	colorEnabled bool
	colorForced  *bool
)

// SetColorEnabled overrides terminal detection. Used by tests and by the
// --no-color flag.
func SetColorEnabled(enabled bool) {
	colorForced = &enabled
}

// ColorEnabled reports whether styled output should be emitted.
//
// Description:
//
//	Styling is disabled when stdout is not a terminal or when the
//	NO_COLOR environment variable is set, unless explicitly overridden
//	with SetColorEnabled.
func ColorEnabled() bool {
	if colorForced != nil {
		return *colorForced
	}
	colorOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			colorEnabled = false
			return
		}
		colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	})
	return colorEnabled
}

// Title renders a header line.
func Title(s string) string {
	if !ColorEnabled() {
		return s
	}
	return Styles.Title.Render(s)
}

// Pass renders a success marker line.
func Pass(s string) string {
	s = "✓ " + s
	if !ColorEnabled() {
		return s
	}
	return Styles.Success.Render(s)
}

// Fail renders a failure marker line.
func Fail(s string) string {
	s = "✗ " + s
	if !ColorEnabled() {
		return s
	}
	return Styles.Error.Render(s)
}

// Muted renders secondary text.
func Muted(s string) string {
	if !ColorEnabled() {
		return s
	}
	return Styles.Muted.Render(s)
}
