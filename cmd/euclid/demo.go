// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-air/euclid/config"
	"github.com/go-air/euclid/demo"
	"github.com/go-air/euclid/journal"
)

// errFailed is returned when a script step had an unexpected outcome.
var errFailed = errors.New("unexpected outcomes")

type demoResult struct {
	script  demo.Script
	backend string
	session string
	steps   []demo.Step
	elapsed time.Duration
	err     error
}

func newDemoCmd(a *app) *cobra.Command {
	var all, list bool
	var parallel int
	cmd := &cobra.Command{
		Use:   "demo [script...]",
		Short: "Run built in proof scripts",
		Long: `Run built in proof scripts, in entailment mode, and report the
outcome of each step.  With --all every script runs; scripts which the
grounding backend cannot decide are skipped unless an SMT solver is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				a.listScripts()
				return nil
			}
			scripts, err := a.selectScripts(args, all)
			if err != nil {
				return err
			}
			return a.runDemos(cmd.Context(), scripts, parallel)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "run every script")
	cmd.Flags().BoolVar(&list, "list", false, "list the scripts")
	cmd.Flags().IntVarP(&parallel, "parallel", "j", 1, "scripts run at once (0 for one per cpu)")
	return cmd
}

func (a *app) listScripts() {
	for _, sc := range demo.Scripts() {
		note := ""
		if sc.NeedsSMT {
			note = a.out.Faint(" (smt)")
		}
		a.out.printf("%-14s %s%s\n", sc.Name, sc.Summary, note)
	}
}

func (a *app) selectScripts(names []string, all bool) ([]demo.Script, error) {
	if all {
		if len(names) != 0 {
			return nil, errors.New("demo: --all with script names")
		}
		if backendName(a.cfg, a.log) == config.BackendSMTLIB {
			return demo.Scripts(), nil
		}
		var res []demo.Script
		for _, sc := range demo.Scripts() {
			if sc.NeedsSMT {
				a.log.Warn("skipping script", slog.String("script", sc.Name), slog.String("reason", "needs smt"))
				continue
			}
			res = append(res, sc)
		}
		return res, nil
	}
	if len(names) == 0 {
		return nil, errors.New("demo: no scripts given (see --list)")
	}
	res := make([]demo.Script, 0, len(names))
	for _, n := range names {
		sc, ok := demo.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("demo: unknown script %q", n)
		}
		res = append(res, sc)
	}
	return res, nil
}

func (a *app) runDemos(ctx context.Context, scripts []demo.Script, parallel int) error {
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}
	cfg := *a.cfg
	cfg.Proof.Mode = "entailment"

	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	results := make([]demoResult, len(scripts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, sc := range scripts {
		g.Go(func() error {
			results[i] = runDemo(gctx, &cfg, a.log, j, sc)
			return results[i].err
		})
	}
	gerr := g.Wait()

	failed := 0
	for i := range results {
		r := &results[i]
		if r.session == "" && r.err == nil {
			// not started
			continue
		}
		if !a.report(r) {
			failed++
		}
	}
	if gerr != nil {
		return gerr
	}
	if failed > 0 {
		return fmt.Errorf("%w in %d of %d scripts", errFailed, failed, len(scripts))
	}
	return nil
}

func runDemo(ctx context.Context, cfg *config.Config, log *slog.Logger, j journal.Journal, sc demo.Script) demoResult {
	r := demoResult{script: sc}
	log = log.With(slog.String("script", sc.Name))
	s, name, err := newSession(ctx, cfg, log, j)
	r.backend = name
	if err != nil {
		r.err = fmt.Errorf("%s: %w", sc.Name, err)
		return r
	}
	defer s.Close()
	r.session = s.ID()
	start := time.Now()
	r.steps, r.err = sc.Run(ctx, s)
	r.elapsed = time.Since(start)
	return r
}

// report prints r and returns whether every step had its expected
// outcome.
func (a *app) report(r *demoResult) bool {
	o := a.out
	o.printf("%s %s\n", o.Title(r.script.Name),
		o.Faint(fmt.Sprintf("[%s, session %s, %s]", r.backend, r.session, r.elapsed.Round(time.Millisecond))))
	ok := r.err == nil
	for _, st := range r.steps {
		mark := o.OK("ok  ")
		switch {
		case !st.OK() && st.Got == demo.Undecided:
			mark = o.Warn("??  ")
			ok = false
		case !st.OK():
			mark = o.Bad("FAIL")
			ok = false
		}
		o.printf("  %s %s\n", mark, st)
		if st.Detail != "" && !st.OK() {
			o.printf("       %s\n", o.Faint(strings.TrimSpace(st.Detail)))
		}
	}
	if r.err != nil {
		o.printf("  %s %v\n", o.Bad("error"), r.err)
	}
	return ok
}
