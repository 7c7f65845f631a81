// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/lang"
)

// RandS creates an inter.S which just returns result to Check() within a
// random period of time chosen from [0..d).  The result may be specified
// ahead of time, however if the result is Unknown, then a random value from
// {Unsat, Sat} is chosen.
//
// If the context given to Check expires first, Check returns Unknown.
//
// Assert, Push and Pop keep track of scopes but otherwise ignore the
// sentences.
//
// This is useful for testing applications using inter.S
func RandS(d time.Duration, res inter.Result) inter.S {
	return RandSr(d, res, rand.NewSource(33))
}

func RandSr(d time.Duration, res inter.Result, src rand.Source) inter.S {
	return &randS{
		dur:    d,
		res:    res,
		rand:   rand.New(src),
		levels: make([][]lang.Formula, 1)}
}

type randS struct {
	mu     sync.Mutex
	dur    time.Duration
	res    inter.Result
	rand   *rand.Rand
	levels [][]lang.Formula
	reason string
}

func (r *randS) Assert(fs ...lang.Formula) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	top := len(r.levels) - 1
	r.levels[top] = append(r.levels[top], fs...)
	return nil
}

func (r *randS) Push() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = append(r.levels, nil)
	return nil
}

func (r *randS) Pop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.levels) == 1 {
		return errors.New("pop without push")
	}
	r.levels = r.levels[:len(r.levels)-1]
	return nil
}

func (r *randS) Check(ctx context.Context) (inter.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reason = ""
	var w time.Duration
	if ns := r.dur.Nanoseconds(); ns > 0 {
		w = time.Duration(r.rand.Int63n(ns))
	}
	alarm := time.NewTimer(w)
	defer alarm.Stop()
	select {
	case <-alarm.C:
		if r.res == inter.Unknown {
			if r.rand.Intn(2) == 0 {
				return inter.Unsat, nil
			}
			return inter.Sat, nil
		}
		return r.res, nil
	case <-ctx.Done():
		r.reason = "random timeout"
		return inter.Unknown, nil
	}
}

func (r *randS) ReasonUnknown() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

func (r *randS) Close() error {
	return nil
}

func (r *randS) String() string {
	return fmt.Sprintf("*randS[%s]", r.dur)
}
