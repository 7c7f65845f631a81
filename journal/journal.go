// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package journal keeps an append-only audit trail of proof session
// operations.
//
// Each entry records one operation of a session (init, construct, hence,
// assume), the sentence involved and its outcome.  Entries of a session are
// ordered by their sequence number.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Ops recorded in a journal.
const (
	OpInit      = "init"
	OpConstruct = "construct"
	OpHence     = "hence"
	OpAssume    = "assume"
)

var (
	ErrClosed     = errors.New("journal closed")
	ErrBadSession = errors.New("bad session id")
)

// CheckSession checks that id can name a session: it is not empty and
// has no '/', which separates the parts of keys.
func CheckSession(id string) error {
	if id == "" || strings.Contains(id, "/") {
		return fmt.Errorf("%w: %q", ErrBadSession, id)
	}
	return nil
}

// Entry is one journaled operation.
type Entry struct {
	Session string    `json:"session"`
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"time"`
	Op      string    `json:"op"`
	Label   string    `json:"label,omitempty"`
	Formula string    `json:"formula,omitempty"`
	Outcome string    `json:"outcome"`
	Reason  string    `json:"reason,omitempty"`
}

func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", e.Seq, e.Op)
	if e.Label != "" {
		b.WriteString(" " + e.Label)
	}
	if e.Formula != "" {
		b.WriteString(" " + e.Formula)
	}
	b.WriteString(": " + e.Outcome)
	if e.Reason != "" {
		b.WriteString(" (" + e.Reason + ")")
	}
	return b.String()
}

// Journal stores entries.  Implementations are safe for concurrent use.
type Journal interface {
	Append(ctx context.Context, e Entry) error
	// Entries returns the entries of session in sequence order.
	Entries(ctx context.Context, session string) ([]Entry, error)
	// Sessions returns the ids of the journaled sessions, sorted.
	Sessions(ctx context.Context) ([]string, error)
	Close() error
}

const prefix = "session/"

func key(session string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", prefix, session, seq))
}

// Badger is a Journal stored in a badger database.
type Badger struct {
	db *badger.DB
}

// Open opens the journal in directory path, creating it if needed.  An
// empty path opens a journal held in memory.
func Open(path string, log *slog.Logger) (*Badger, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("create journal directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if log != nil {
		opts = opts.WithLogger(&badgerLogger{log: log})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Badger{db: db}, nil
}

// Append implements Journal.  A zero Time is set to the current time.
func (j *Badger) Append(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckSession(e.Session); err != nil {
		return err
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	v, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(e.Session, e.Seq), v)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

// Entries implements Journal.
func (j *Badger) Entries(ctx context.Context, session string) ([]Entry, error) {
	if err := CheckSession(session); err != nil {
		return nil, err
	}
	p := []byte(prefix + session + "/")
	var res []Entry
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &e)
			})
			if err != nil {
				return fmt.Errorf("entry %s: %w", it.Item().Key(), err)
			}
			res = append(res, e)
		}
		return nil
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, ErrClosed
	}
	return res, err
}

// Sessions implements Journal.
func (j *Badger) Sessions(ctx context.Context) ([]string, error) {
	p := []byte(prefix)
	var res []string
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			rest := strings.TrimPrefix(string(it.Item().Key()), prefix)
			id, _, ok := strings.Cut(rest, "/")
			if !ok {
				continue
			}
			if n := len(res); n == 0 || res[n-1] != id {
				res = append(res, id)
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, ErrClosed
	}
	return res, err
}

// Close implements Journal.
func (j *Badger) Close() error {
	return j.db.Close()
}

// badgerLogger sends badger's own logging to slog.
type badgerLogger struct {
	log *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
