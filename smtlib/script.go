// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package smtlib

import (
	"bufio"
	"io"

	"github.com/go-air/euclid/axiom"
	"github.com/go-air/euclid/lang"
)

// WriteScript writes a standalone SMT-LIB 2 script asserting as and facts
// over sig.  If check is true the script ends with (check-sat).
func WriteScript(w io.Writer, sig *lang.Signature, logic string, as []axiom.Axiom, facts []lang.Formula, check bool) error {
	if logic == "" {
		logic = DefaultLogic
	}
	bw := bufio.NewWriter(w)
	line := func(s string) {
		bw.WriteString(s)
		bw.WriteByte('\n')
	}
	line("; the language E")
	line("(set-logic " + logic + ")")
	for _, d := range Declarations(sig) {
		line(d)
	}
	var group axiom.Group
	for _, a := range as {
		if a.Group != group {
			group = a.Group
			line("")
			line("; " + string(group))
		}
		line("(assert (! " + Formula(a.Formula) + " :named " + Ident(a.Name) + "))")
	}
	if len(facts) > 0 {
		line("")
		line("; facts")
		for _, k := range lang.Consts(facts...) {
			line(DeclareConst(k))
		}
		for _, f := range facts {
			line("(assert " + Formula(f) + ")")
		}
	}
	if check {
		line("")
		line("(check-sat)")
	}
	return bw.Flush()
}
