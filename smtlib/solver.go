// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package smtlib

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/lang"
)

// Config describes how to run a solver.
type Config struct {
	Command string   // default "z3"
	Args    []string // default "-in -smt2" for z3
	Env     []string // added to the environment of the process
	Logic   string   // default "UFLRA"

	// TimeoutOption is the option set to the remaining milliseconds
	// before each check-sat, ":timeout" by default.  "-" disables it.
	TimeoutOption string

	// Grace is how long past the deadline the solver may take to answer
	// before it is killed and restarted.  Default 1s.
	Grace time.Duration

	Logger *slog.Logger
	Trace  bool // log every command at debug level
}

const (
	DefaultCommand = "z3"
	DefaultLogic   = "UFLRA"
	DefaultGrace   = time.Second

	// StartTimeout bounds the wait for a new process to answer.
	StartTimeout = 10 * time.Second
)

func (c *Config) defaults() {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.Args == nil && strings.HasSuffix(c.Command, DefaultCommand) {
		c.Args = []string{"-in", "-smt2"}
	}
	if c.Logic == "" {
		c.Logic = DefaultLogic
	}
	if c.TimeoutOption == "" {
		c.TimeoutOption = ":timeout"
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

type response struct {
	text string
	err  error
}

// proc is one run of the solver process.
type proc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	resp   chan response
	stderr *limitedBuffer
	done   chan struct{}
}

// Solver is an inter.S backed by an SMT solver process.
type Solver struct {
	cfg  Config
	path string
	sig  *lang.Signature
	log  *slog.Logger
	p    *proc

	// levels holds the commands of each open scope, levels[0] the base.
	levels  [][]string
	decls   map[string]decl
	timeout int64 // ms, last value set; 0 if never
	reason  string
	closed  bool
}

type decl struct {
	sort  lang.Sort
	level int
}

// Start launches the solver of cfg and declares sig.
func Start(ctx context.Context, cfg Config, sig *lang.Signature) (*Solver, error) {
	cfg.defaults()
	path, err := exec.LookPath(cfg.Command)
	if err != nil {
		cfg.Logger.Warn("smt solver not installed", slog.String("command", cfg.Command))
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, cfg.Command)
	}
	s := &Solver{
		cfg:    cfg,
		path:   path,
		sig:    sig,
		log:    cfg.Logger,
		levels: make([][]string, 1),
		decls:  make(map[string]decl)}
	s.levels[0] = append(s.levels[0], "(set-logic "+cfg.Logic+")")
	s.levels[0] = append(s.levels[0], Declarations(sig)...)
	if err := s.spawn(ctx); err != nil {
		return nil, err
	}
	s.log.Info("smt solver ready", slog.String("command", path), slog.String("logic", cfg.Logic))
	return s, nil
}

// Available reports whether the solver command of cfg can be found.
func Available(cfg Config) bool {
	cfg.defaults()
	_, err := exec.LookPath(cfg.Command)
	return err == nil
}

func (s *Solver) spawn(ctx context.Context) (err error) {
	cmd := exec.Command(s.path, s.cfg.Args...)
	cmd.Env = append(os.Environ(), s.cfg.Env...)
	p := &proc{
		cmd:    cmd,
		resp:   make(chan response, 1),
		stderr: &limitedBuffer{max: 4096},
		done:   make(chan struct{})}
	cmd.Stderr = p.stderr
	if p.stdin, err = cmd.StdinPipe(); err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start solver: %w", err)
	}
	go func() {
		defer close(p.done)
		r := bufio.NewReader(stdout)
		for {
			text, err := readSexp(r)
			p.resp <- response{text: text, err: err}
			if err != nil {
				return
			}
		}
	}()
	s.p = p
	defer func() {
		if err != nil {
			s.kill()
		}
	}()

	if err := s.write("(set-option :print-success true)"); err != nil {
		return err
	}
	if err := s.write(`(echo "euclid")`); err != nil {
		return err
	}
	ready := time.Now().Add(StartTimeout)
	for {
		text, err := s.read(ctx, "echo", ready)
		if err != nil {
			return err
		}
		if unquote(text) == "euclid" {
			break
		}
	}
	for i, lv := range s.levels {
		if i > 0 {
			if err := s.command(ctx, "(push 1)"); err != nil {
				return err
			}
		}
		for _, c := range lv {
			if err := s.command(ctx, c); err != nil {
				return err
			}
		}
	}
	s.timeout = 0
	return nil
}

func (s *Solver) write(cmd string) error {
	if s.cfg.Trace {
		s.log.Debug("smt send", slog.String("cmd", cmd))
	}
	if _, err := io.WriteString(s.p.stdin, cmd+"\n"); err != nil {
		return fmt.Errorf("%w: write: %v%s", ErrCrashed, err, s.p.stderr.suffix())
	}
	return nil
}

// read waits for the next response.  With a non zero guard, the wait
// outlasts the deadline of ctx until the guard, but not its cancellation.
// After a context error the response is still owed, so the caller must
// restart the process.
func (s *Solver) read(ctx context.Context, cmd string, guard time.Time) (string, error) {
	var alarm <-chan time.Time
	if !guard.IsZero() {
		t := time.NewTimer(time.Until(guard))
		defer t.Stop()
		alarm = t.C
	}
	done := ctx.Done()
	for {
		select {
		case r := <-s.p.resp:
			if r.err != nil {
				return "", fmt.Errorf("%w: reading response to %s: %v%s", ErrCrashed, cmd, r.err, s.p.stderr.suffix())
			}
			if s.cfg.Trace {
				s.log.Debug("smt recv", slog.String("resp", r.text))
			}
			if msg, ok := errorText(r.text); ok {
				return "", &Error{Command: cmd, Message: msg}
			}
			return r.text, nil
		case <-alarm:
			return "", context.DeadlineExceeded
		case <-done:
			if alarm != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				done = nil
				continue
			}
			return "", ctx.Err()
		}
	}
}

// abandoned reports whether err left a response unread.
func abandoned(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// command sends cmd and expects success.
func (s *Solver) command(ctx context.Context, cmd string) error {
	if err := s.write(cmd); err != nil {
		return err
	}
	text, err := s.read(ctx, cmd, time.Time{})
	if err != nil {
		return err
	}
	if text != "success" {
		return &UnexpectedError{Command: cmd, Response: text}
	}
	return nil
}

func (s *Solver) record(cmd string) {
	top := len(s.levels) - 1
	s.levels[top] = append(s.levels[top], cmd)
}

// Assert implements inter.Asserter.
func (s *Solver) Assert(fs ...lang.Formula) error {
	if s.closed {
		return ErrClosed
	}
	ctx := context.Background()
	top := len(s.levels) - 1
	for _, k := range lang.Consts(fs...) {
		d, ok := s.decls[k.Name]
		if ok {
			if d.sort != k.S {
				return fmt.Errorf("constant %s declared as %s, used as %s", k.Name, d.sort, k.S)
			}
			continue
		}
		cmd := DeclareConst(k)
		if err := s.command(ctx, cmd); err != nil {
			return err
		}
		s.record(cmd)
		s.decls[k.Name] = decl{sort: k.S, level: top}
	}
	for _, f := range fs {
		cmd := "(assert " + Formula(f) + ")"
		if err := s.command(ctx, cmd); err != nil {
			return err
		}
		s.record(cmd)
	}
	return nil
}

// Push implements inter.Scoped.
func (s *Solver) Push() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.command(context.Background(), "(push 1)"); err != nil {
		return err
	}
	s.levels = append(s.levels, nil)
	return nil
}

// Pop implements inter.Scoped.
func (s *Solver) Pop() error {
	if s.closed {
		return ErrClosed
	}
	if len(s.levels) == 1 {
		return ErrPop
	}
	top := len(s.levels) - 1
	s.levels = s.levels[:top]
	for name, d := range s.decls {
		if d.level >= top {
			delete(s.decls, name)
		}
	}
	return s.command(context.Background(), "(pop 1)")
}

// Check implements inter.Solvable.
func (s *Solver) Check(ctx context.Context) (inter.Result, error) {
	if s.closed {
		return inter.Unknown, ErrClosed
	}
	s.reason = ""
	var guard time.Time
	if dl, ok := ctx.Deadline(); ok {
		ms := time.Until(dl).Milliseconds()
		if ms <= 0 {
			s.reason = "timeout"
			return inter.Unknown, nil
		}
		if err := s.setTimeout(ms); err != nil {
			return inter.Unknown, err
		}
		guard = dl.Add(s.cfg.Grace)
	} else if s.timeout != 0 {
		if err := s.setTimeout(1<<32 - 1); err != nil {
			return inter.Unknown, err
		}
	}
	if err := s.write("(check-sat)"); err != nil {
		return inter.Unknown, err
	}
	text, err := s.read(ctx, "check-sat", guard)
	if abandoned(err) {
		s.reason = "timeout"
		if errors.Is(err, context.Canceled) {
			s.reason = "canceled"
			s.log.Info("smt check canceled, restarting")
		} else {
			s.log.Warn("smt solver ignored its timeout, restarting",
				slog.Duration("grace", s.cfg.Grace))
		}
		if err := s.restart(); err != nil {
			return inter.Unknown, err
		}
		return inter.Unknown, nil
	}
	if err != nil {
		return inter.Unknown, err
	}
	switch text {
	case "sat":
		return inter.Sat, nil
	case "unsat":
		return inter.Unsat, nil
	case "unknown":
		s.reason = s.reasonUnknown(ctx)
		return inter.Unknown, nil
	}
	return inter.Unknown, &UnexpectedError{Command: "check-sat", Response: text}
}

func (s *Solver) setTimeout(ms int64) error {
	if s.cfg.TimeoutOption == "-" || ms == s.timeout {
		return nil
	}
	cmd := "(set-option " + s.cfg.TimeoutOption + " " + strconv.FormatInt(ms, 10) + ")"
	if err := s.command(context.Background(), cmd); err != nil {
		return err
	}
	s.timeout = ms
	return nil
}

func (s *Solver) reasonUnknown(ctx context.Context) string {
	if err := s.write("(get-info :reason-unknown)"); err != nil {
		return "unknown"
	}
	text, err := s.read(ctx, "get-info", time.Now().Add(s.cfg.Grace))
	if abandoned(err) {
		// a late answer would be taken for the next response
		if rerr := s.restart(); rerr != nil {
			s.log.Error("smt solver restart failed", slog.String("error", rerr.Error()))
		}
		return "unknown"
	}
	if err != nil {
		s.log.Debug("no reason for unknown", slog.String("error", err.Error()))
		return "unknown"
	}
	if v := infoValue(text); v != "" {
		return v
	}
	return "unknown"
}

// ReasonUnknown implements inter.Reasoner.
func (s *Solver) ReasonUnknown() string {
	return s.reason
}

// Depth returns the number of open scopes.
func (s *Solver) Depth() int {
	return len(s.levels) - 1
}

func (s *Solver) kill() {
	p := s.p
	if p == nil {
		return
	}
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	timeout := time.After(time.Second)
	for {
		select {
		case <-p.resp:
			continue
		case <-p.done:
		case <-timeout:
		}
		break
	}
	s.p = nil
}

// restart replaces the process by a new one in the current state.
func (s *Solver) restart() error {
	s.kill()
	if err := s.spawn(context.Background()); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return nil
}

// Close ends the solver process.
func (s *Solver) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	p := s.p
	if p == nil {
		return nil
	}
	_ = s.write("(exit)")
	_ = p.stdin.Close()
	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()
	select {
	case <-time.After(5 * time.Second):
		_ = p.cmd.Process.Kill()
		<-done
	case <-done:
	}
	s.p = nil
	return nil
}

// limitedBuffer keeps the first max bytes written to it.
type limitedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) suffix() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf.Len() == 0 {
		return ""
	}
	return "; stderr: " + strings.TrimSpace(b.buf.String())
}
