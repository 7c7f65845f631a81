// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-air/euclid"
	"github.com/go-air/euclid/config"
	"github.com/go-air/euclid/ground"
	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/journal"
	"github.com/go-air/euclid/lang"
	"github.com/go-air/euclid/smtlib"
)

func smtConfig(cfg *config.Config, log *slog.Logger) smtlib.Config {
	return smtlib.Config{
		Command: cfg.Solver.Command,
		Args:    cfg.Solver.Args,
		Logic:   cfg.Solver.Logic,
		Grace:   cfg.Solver.Grace,
		Logger:  log,
	}
}

// backendName resolves the auto backend.
func backendName(cfg *config.Config, log *slog.Logger) string {
	if cfg.Solver.Backend != config.BackendAuto {
		return cfg.Solver.Backend
	}
	if smtlib.Available(smtConfig(cfg, log)) {
		return config.BackendSMTLIB
	}
	log.Info("smt solver not installed, grounding", slog.String("command", cfg.Solver.Command))
	return config.BackendGround
}

// newBackend starts the decision procedure selected by cfg.
func newBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (inter.S, string, error) {
	switch name := backendName(cfg, log); name {
	case config.BackendSMTLIB:
		s, err := smtlib.Start(ctx, smtConfig(cfg, log), lang.E)
		if err != nil {
			return nil, name, err
		}
		return s, name, nil
	case config.BackendGround:
		return ground.New(
			ground.WithLogger(log),
			ground.MaxInstances(cfg.Ground.MaxInstances)), name, nil
	default:
		return nil, name, fmt.Errorf("unknown backend %q", name)
	}
}

// newSession opens a proof session on a new backend, journaling to j if
// it is not nil.
func newSession(ctx context.Context, cfg *config.Config, log *slog.Logger, j journal.Journal) (*euclid.Session, string, error) {
	mode, err := euclid.ParseMode(cfg.Proof.Mode)
	if err != nil {
		return nil, "", err
	}
	backend, name, err := newBackend(ctx, cfg, log)
	if err != nil {
		return nil, name, err
	}
	opts := []euclid.Option{
		euclid.WithLogger(log),
		euclid.WithTimeout(cfg.Solver.Timeout),
		euclid.WithMode(mode),
	}
	if cfg.Proof.AllowInconsistent {
		opts = append(opts, euclid.AllowInconsistent())
	}
	if j != nil {
		opts = append(opts, euclid.WithJournal(j))
	}
	s, err := euclid.New(ctx, backend, opts...)
	if err != nil {
		return nil, name, err
	}
	return s, name, nil
}

// openJournal opens the configured journal, or returns nil if there is
// none.
func (a *app) openJournal() (journal.Journal, error) {
	if a.cfg.Journal.Path == "" {
		return nil, nil
	}
	j, err := journal.Open(a.cfg.Journal.Path, a.log)
	if err != nil {
		return nil, err
	}
	return j, nil
}
