// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package benchmark

import (
	"fmt"
	"io"
	"strings"

	"github.com/veribench/veribench/internal/eval"
	"github.com/veribench/veribench/pkg/ux"
)

// maxSeqElems bounds how many sequence elements a report line shows.
const maxSeqElems = 8

// Reporter renders run reports as line-oriented text.
//
// Description:
//
//	For each scenario the reporter prints a header with the scenario name
//	and input parameters, one line per method with its computed value and
//	duration, and one verification line: a success marker on match, a
//	failure marker with both values on mismatch. The output is advisory;
//	the reporter never terminates the run.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report renders a single run report.
func (p *Reporter) Report(report *eval.Report) {
	fmt.Fprintln(p.w, ux.Title(fmt.Sprintf("=== %s ===", report.Scenario)))
	fmt.Fprintf(p.w, "n = %d\n", report.Input.N)
	if report.Input.Seq != nil {
		fmt.Fprintf(p.w, "input = %s\n", formatOutput(report.Input.Seq))
	}

	for _, mr := range report.Methods {
		fmt.Fprintf(p.w, "%s(%d) = %s %s\n",
			mr.Method, report.Input.N, formatOutput(mr.Output),
			ux.Muted(fmt.Sprintf("(%v)", mr.Duration)))
	}

	p.reportVerification(report)
	fmt.Fprintln(p.w)
}

// reportVerification renders the pass/fail line.
func (p *Reporter) reportVerification(report *eval.Report) {
	v := report.Verification
	if v.Match {
		if v.Postcondition != "" {
			fmt.Fprintln(p.w, ux.Pass(fmt.Sprintf("%s: postcondition %s holds", report.Scenario, v.Postcondition)))
			return
		}
		fmt.Fprintln(p.w, ux.Pass(fmt.Sprintf("%s: all methods agree", report.Scenario)))
		return
	}

	if v.Postcondition != "" {
		fmt.Fprintln(p.w, ux.Fail(fmt.Sprintf("%s: postcondition %s violated: %v", report.Scenario, v.Postcondition, v.Err)))
		return
	}
	for _, m := range v.Mismatches {
		fmt.Fprintln(p.w, ux.Fail(fmt.Sprintf("%s: %s = %s but %s = %s",
			report.Scenario, m.MethodA, formatOutput(m.ValueA), m.MethodB, formatOutput(m.ValueB))))
	}
}

// Summary renders the final pass/fail tally for a set of reports.
func (p *Reporter) Summary(reports []*eval.Report) {
	passed := 0
	for _, r := range reports {
		if r.Passed() {
			passed++
		}
	}
	failed := len(reports) - passed

	fmt.Fprintln(p.w, ux.Title("=== summary ==="))
	fmt.Fprintf(p.w, "scenarios: %d\n", len(reports))
	if failed == 0 {
		fmt.Fprintln(p.w, ux.Pass(fmt.Sprintf("%d passed", passed)))
		return
	}
	fmt.Fprintln(p.w, ux.Fail(fmt.Sprintf("%d passed, %d failed", passed, failed)))
}

// formatOutput renders a method output for a report line. Long sequences
// are elided to keep the output line-oriented.
func formatOutput(v any) string {
	switch val := v.(type) {
	case []int64:
		var b strings.Builder
		b.WriteString("[")
		for i, e := range val {
			if i >= maxSeqElems {
				fmt.Fprintf(&b, " ...] (%d elements)", len(val))
				return b.String()
			}
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%d", e)
		}
		b.WriteString("]")
		return b.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
