// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veribench/veribench/internal/scenarios"
	"github.com/veribench/veribench/pkg/ux"
)

// listScenarios prints the catalog: name, default scale, method count and
// description of every scenario.
func listScenarios(cmd *cobra.Command, args []string) error {
	fmt.Println(ux.Title("scenario catalog"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDEFAULT N\tMETHODS\tDESCRIPTION")
	for _, name := range scenarios.Names() {
		n, _ := scenarios.DefaultScale(name)
		s, err := scenarios.Build(name, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, n, len(s.Methods()), s.Description())
	}
	return w.Flush()
}
