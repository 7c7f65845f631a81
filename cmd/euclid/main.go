// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command euclid runs proof scripts in the language E of Euclidean
// geometry and inspects the axioms and the journal.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-air/euclid/config"
)

// app is the state shared by the commands.
type app struct {
	cfg *config.Config
	log *slog.Logger
	out *styles

	stderr io.Writer

	// flags
	cfgPath string
	level   string
	backend string
	solver  string
	timeout time.Duration
	journal string
	noJourn bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}
	root := &cobra.Command{
		Use:           "euclid",
		Short:         "A proof checker for the language E of Euclidean geometry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "configuration file")
	f.StringVar(&a.level, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&a.backend, "backend", "", "decision procedure (auto, smtlib, ground)")
	f.StringVar(&a.solver, "solver", "", "SMT-LIB solver command")
	f.DurationVar(&a.timeout, "timeout", 0, "timeout of each solver query")
	f.StringVar(&a.journal, "journal", "", "journal directory")
	f.BoolVar(&a.noJourn, "no-journal", false, "do not journal")

	root.AddCommand(
		newDemoCmd(a),
		newAxiomsCmd(a),
		newJournalCmd(a),
		newConfigCmd(a),
		newVersionCmd())
	return root
}

// setup loads the configuration and applies the flags to it.
func (a *app) setup(cmd *cobra.Command) error {
	boot := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.NewLoader(boot).Load(a.cfgPath)
	if err != nil {
		return err
	}
	cfg = config.Merge(cfg, &config.Config{
		Solver: config.Solver{
			Backend: a.backend,
			Command: a.solver,
			Timeout: a.timeout,
		},
		Journal: config.Journal{Path: a.journal},
		Log:     config.Log{Level: a.level},
	})
	if a.noJourn {
		cfg.Journal.Path = ""
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Logger(a.stderr)
	a.out = newStyles(cmd.OutOrStdout())
	return nil
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "euclid: %v\n", err)
		os.Exit(1)
	}
}
