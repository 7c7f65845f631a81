// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package euclid

import (
	"strings"

	"github.com/go-air/euclid/lang"
)

// Status is a snapshot of a session.  Labels are in construction order.
type Status struct {
	Points      []string
	Lines       []string
	Circles     []string
	Assumptions []lang.Formula
	Conclusions []lang.Formula
}

// Status returns a snapshot of s.  It does not consult the decision
// procedure.
func (s *Session) Status() Status {
	var st Status
	for _, e := range s.order {
		switch e.Kind() {
		case KindPoint:
			st.Points = append(st.Points, e.Label())
		case KindLine:
			st.Lines = append(st.Lines, e.Label())
		case KindCircle:
			st.Circles = append(st.Circles, e.Label())
		}
	}
	st.Assumptions = append([]lang.Formula(nil), s.assumptions...)
	st.Conclusions = append([]lang.Formula(nil), s.conclusions...)
	return st
}

func (st Status) String() string {
	var b strings.Builder
	labels := func(name string, ls []string) {
		b.WriteString(name + ":")
		if len(ls) > 0 {
			b.WriteString(" " + strings.Join(ls, ", "))
		}
		b.WriteByte('\n')
	}
	formulas := func(name string, fs []lang.Formula) {
		b.WriteString(name + ":\n")
		for _, f := range fs {
			b.WriteString("  " + f.String() + "\n")
		}
	}
	labels("points", st.Points)
	labels("lines", st.Lines)
	labels("circles", st.Circles)
	formulas("assumptions", st.Assumptions)
	formulas("conclusions", st.Conclusions)
	return b.String()
}
