// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, slog.LevelInfo, c.Level())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"backend", func(c *Config) { c.Solver.Backend = "cvc" }, "Backend"},
		{"command", func(c *Config) { c.Solver.Backend, c.Solver.Command = BackendSMTLIB, "" }, "Command"},
		{"logic", func(c *Config) { c.Solver.Logic = "(UFLRA)" }, "Logic"},
		{"timeout", func(c *Config) { c.Solver.Timeout = -time.Second }, "Timeout"},
		{"instances", func(c *Config) { c.Ground.MaxInstances = -1 }, "MaxInstances"},
		{"mode", func(c *Config) { c.Proof.Mode = "proof" }, "Mode"},
		{"level", func(c *Config) { c.Log.Level = "trace" }, "Level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "Format"},
		{"grace", func(c *Config) { c.Solver.Timeout, c.Solver.Grace = time.Millisecond, time.Second }, "grace"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}

	c := DefaultConfig()
	c.Solver.Backend, c.Solver.Command = BackendGround, ""
	assert.NoError(t, c.Validate())
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
solver:
  backend: smtlib
  command: cvc5
  args: [--lang, smt2, --incremental]
  timeout: 2s
proof:
  mode: consistency
`), 0o644))
	c, err := LoadFromFile(p)
	require.NoError(t, err)
	assert.Equal(t, "cvc5", c.Solver.Command)
	assert.Equal(t, 2*time.Second, c.Solver.Timeout)
	assert.Empty(t, c.Log.Level)

	m := Merge(DefaultConfig(), c)
	require.NoError(t, m.Validate())
	assert.Equal(t, BackendSMTLIB, m.Solver.Backend)
	assert.Equal(t, []string{"--lang", "smt2", "--incremental"}, m.Solver.Args)
	assert.Equal(t, time.Second, m.Solver.Grace)
	assert.Equal(t, "consistency", m.Proof.Mode)
	assert.Equal(t, "info", m.Log.Level)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p, []byte("solver: [1, 2]\n"), 0o644))
	_, err = LoadFromFile(p)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := DefaultConfig()
	c.Journal.Path = "/var/lib/euclid"
	require.NoError(t, c.Write(&buf))
	assert.Contains(t, buf.String(), "timeout: 10s")

	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	d, err := LoadFromFile(p)
	require.NoError(t, err)
	assert.Equal(t, c, d)
}

func TestLoaderLayers(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "euclid", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(user), 0o755))
	require.NoError(t, os.WriteFile(user, []byte("log:\n  level: debug\nsolver:\n  timeout: 5s\n"), 0o644))
	explicit := filepath.Join(dir, "x.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("solver:\n  timeout: 1s\n"), 0o644))

	l := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.getenv = func(k string) string {
		if k == "XDG_CONFIG_HOME" {
			return dir
		}
		return ""
	}
	p, err := l.UserPath()
	require.NoError(t, err)
	assert.Equal(t, user, p)

	c, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, c.Level())
	assert.Equal(t, 5*time.Second, c.Solver.Timeout)

	c, err = l.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.Solver.Timeout)
	assert.Equal(t, "debug", c.Log.Level)

	_, err = l.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderNoUserFile(t *testing.T) {
	l := NewLoader(nil)
	l.getenv = func(string) string { return "" }
	l.homeDir = func() (string, error) { return t.TempDir(), nil }
	c, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	l.homeDir = func() (string, error) { return "", errors.New("no home") }
	_, err = l.Load("")
	assert.NoError(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	c := DefaultConfig()
	c.Log.Format = "json"
	c.Logger(&buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	c.Log.Format, c.Log.Level = "text", "warn"
	c.Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())
}
