// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/go-air/euclid/journal"
)

func newJournalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "journal [session...]",
		Short: "List journaled sessions, or the entries of sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			if j == nil {
				return errors.New("journal: no journal configured")
			}
			defer j.Close()
			ctx := cmd.Context()
			if len(args) == 0 {
				ids, err := j.Sessions(ctx)
				if err != nil {
					return err
				}
				for _, id := range ids {
					a.out.printf("%s\n", id)
				}
				return nil
			}
			for _, id := range args {
				es, err := j.Entries(ctx, id)
				if err != nil {
					return err
				}
				a.out.printf("%s\n", a.out.Title(id))
				for _, e := range es {
					a.out.printf("  %s %s\n", a.out.Faint(e.Time.Format("15:04:05.000")), a.styleEntry(e))
				}
			}
			return nil
		},
	}
}

func (a *app) styleEntry(e journal.Entry) string {
	switch e.Outcome {
	case "rejected":
		return a.out.Bad(e.String())
	case "undecided":
		return a.out.Warn(e.String())
	}
	return e.String()
}
