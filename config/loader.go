// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Loader layers the built in defaults, the user configuration file and an
// explicitly given file, in that order.
type Loader struct {
	log     *slog.Logger
	getenv  func(string) string
	homeDir func() (string, error)
}

// NewLoader creates a loader logging to log.
func NewLoader(log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{log: log, getenv: os.Getenv, homeDir: os.UserHomeDir}
}

// UserPath returns the path of the user configuration file,
// $XDG_CONFIG_HOME/euclid/config.yaml or ~/.config/euclid/config.yaml.
func (l *Loader) UserPath() (string, error) {
	if dir := l.getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "euclid", "config.yaml"), nil
	}
	home, err := l.homeDir()
	if err != nil {
		return "", fmt.Errorf("locate user config: %w", err)
	}
	return filepath.Join(home, ".config", "euclid", "config.yaml"), nil
}

// Load returns the validated configuration.  A missing user file is
// skipped; a missing explicit file is an error.
func (l *Loader) Load(explicit string) (*Config, error) {
	c := DefaultConfig()
	if p, err := l.UserPath(); err != nil {
		l.log.Debug("no user config", slog.String("error", err.Error()))
	} else {
		u, err := LoadFromFile(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			l.log.Debug("no user config", slog.String("path", p))
		case err != nil:
			return nil, err
		default:
			l.log.Debug("user config loaded", slog.String("path", p))
			c = Merge(c, u)
		}
	}
	if explicit != "" {
		e, err := LoadFromFile(explicit)
		if err != nil {
			return nil, err
		}
		l.log.Debug("config loaded", slog.String("path", explicit))
		c = Merge(c, e)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
