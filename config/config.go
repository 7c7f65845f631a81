// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config holds the configuration of the euclid command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Backends.
const (
	BackendAuto   = "auto"
	BackendSMTLIB = "smtlib"
	BackendGround = "ground"
)

// Config is the configuration of euclid.
type Config struct {
	Solver  Solver  `yaml:"solver"`
	Ground  Ground  `yaml:"ground"`
	Proof   Proof   `yaml:"proof"`
	Journal Journal `yaml:"journal"`
	Log     Log     `yaml:"log"`
}

// Solver selects and configures the decision procedure.
type Solver struct {
	Backend string        `yaml:"backend" validate:"oneof=auto smtlib ground"`
	Command string        `yaml:"command" validate:"required_if=Backend smtlib"`
	Args    []string      `yaml:"args,omitempty"`
	Logic   string        `yaml:"logic" validate:"omitempty,smtsymbol"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	Grace   time.Duration `yaml:"grace" validate:"gte=0"`
}

// Ground configures the grounding backend.
type Ground struct {
	MaxInstances int `yaml:"max_instances" validate:"gte=0"`
}

// Proof configures proof sessions.
type Proof struct {
	Mode              string `yaml:"mode" validate:"oneof=entailment consistency"`
	AllowInconsistent bool   `yaml:"allow_inconsistent"`
}

// Journal configures the audit journal.  An empty path disables it.
type Journal struct {
	Path string `yaml:"path"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DefaultConfig returns the built in configuration.
func DefaultConfig() *Config {
	return &Config{
		Solver: Solver{
			Backend: BackendAuto,
			Command: "z3",
			Logic:   "UFLRA",
			Timeout: 10 * time.Second,
			Grace:   time.Second,
		},
		Ground: Ground{MaxInstances: 200000},
		Proof:  Proof{Mode: "entailment"},
		Log:    Log{Level: "info", Format: "text"},
	}
}

var (
	validate  = validator.New()
	smtSymbol = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func init() {
	_ = validate.RegisterValidation("smtsymbol", func(fl validator.FieldLevel) bool {
		return smtSymbol.MatchString(fl.Field().String())
	})
}

// Validate checks c.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Solver.Backend != BackendGround && c.Solver.Timeout > 0 && c.Solver.Grace > 10*c.Solver.Timeout {
		return fmt.Errorf("invalid config: solver.grace %s exceeds ten times solver.timeout %s",
			c.Solver.Grace, c.Solver.Timeout)
	}
	return nil
}

// LoadFromFile reads a configuration file.  Fields missing from the file
// are zero.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Write writes c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Merge returns base with the non-zero fields of overlay.
func Merge(base, overlay *Config) *Config {
	res := *base
	res.Solver.Args = append([]string(nil), base.Solver.Args...)
	if overlay == nil {
		return &res
	}
	str := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	dur := func(dst *time.Duration, src time.Duration) {
		if src != 0 {
			*dst = src
		}
	}
	o := overlay
	str(&res.Solver.Backend, o.Solver.Backend)
	str(&res.Solver.Command, o.Solver.Command)
	if o.Solver.Args != nil {
		res.Solver.Args = append([]string(nil), o.Solver.Args...)
	}
	str(&res.Solver.Logic, o.Solver.Logic)
	dur(&res.Solver.Timeout, o.Solver.Timeout)
	dur(&res.Solver.Grace, o.Solver.Grace)
	if o.Ground.MaxInstances != 0 {
		res.Ground.MaxInstances = o.Ground.MaxInstances
	}
	str(&res.Proof.Mode, o.Proof.Mode)
	if o.Proof.AllowInconsistent {
		res.Proof.AllowInconsistent = true
	}
	str(&res.Journal.Path, o.Journal.Path)
	str(&res.Log.Level, o.Log.Level)
	str(&res.Log.Format, o.Log.Format)
	return &res
}

// Level is the slog level of c.Log.Level.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Logger creates the logger described by c.Log, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
