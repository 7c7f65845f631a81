// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-air/euclid/axiom"
	"github.com/go-air/euclid/lang"
	"github.com/go-air/euclid/smtlib"
)

func newAxiomsCmd(a *app) *cobra.Command {
	var smt2 bool
	var groups []string
	cmd := &cobra.Command{
		Use:   "axioms",
		Short: "Print the axioms of E",
		RunE: func(cmd *cobra.Command, args []string) error {
			as := axiom.Set()
			if len(groups) != 0 {
				gs := make([]axiom.Group, len(groups))
				for i, g := range groups {
					if !knownGroup(axiom.Group(g)) {
						return fmt.Errorf("axioms: unknown group %q", g)
					}
					gs[i] = axiom.Group(g)
				}
				as = axiom.Select(as, gs...)
			}
			if smt2 {
				return smtlib.WriteScript(cmd.OutOrStdout(), lang.E, a.cfg.Solver.Logic, as, nil, false)
			}
			var last axiom.Group
			for _, ax := range as {
				if ax.Group != last {
					a.out.printf("%s\n", a.out.Title(string(ax.Group)))
					last = ax.Group
				}
				a.out.printf("  %s %s\n", a.out.Faint(ax.Name+":"), ax.Formula)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&smt2, "smt2", false, "print as an SMT-LIB script")
	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "only the axioms of these groups")
	return cmd
}

func knownGroup(g axiom.Group) bool {
	for _, k := range axiom.Groups {
		if k == g {
			return true
		}
	}
	return false
}
