// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package smtlib

import (
	"bufio"
	"strings"
)

// readSexp reads one s-expression or atom from r.
func readSexp(r *bufio.Reader) (string, error) {
	var b strings.Builder
	depth := 0
	inStr, inQuote := false, false
	for {
		c, err := r.ReadByte()
		if err != nil {
			if b.Len() > 0 && depth == 0 {
				return b.String(), nil
			}
			return "", err
		}
		switch {
		case inStr:
			b.WriteByte(c)
			if c == '"' {
				if n, _ := r.Peek(1); len(n) == 1 && n[0] == '"' {
					r.ReadByte()
					b.WriteByte('"')
					continue
				}
				inStr = false
				if depth == 0 {
					return b.String(), nil
				}
			}
			continue
		case inQuote:
			b.WriteByte(c)
			if c == '|' {
				inQuote = false
			}
			continue
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			if depth == 0 {
				if b.Len() > 0 {
					return b.String(), nil
				}
				continue
			}
			b.WriteByte(' ')
		case ';':
			if _, err := r.ReadString('\n'); err != nil && b.Len() == 0 {
				return "", err
			}
		case '"':
			inStr = true
			b.WriteByte(c)
		case '|':
			inQuote = true
			b.WriteByte(c)
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			b.WriteByte(c)
			if depth <= 0 {
				return b.String(), nil
			}
		default:
			b.WriteByte(c)
		}
	}
}

// unquote strips the quotes of an SMT-LIB string literal.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// infoValue extracts the value of a get-info response such as
// (:reason-unknown "incomplete").
func infoValue(resp string) string {
	s := strings.TrimSpace(resp)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ":") {
		if i := strings.IndexAny(s, " \t"); i >= 0 {
			s = strings.TrimSpace(s[i:])
		} else {
			s = ""
		}
	}
	return unquote(s)
}

// errorText returns the message of an (error "...") response.
func errorText(resp string) (string, bool) {
	s := strings.TrimSpace(resp)
	if !strings.HasPrefix(s, "(error") {
		return "", false
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "(error"), ")")
	return unquote(strings.TrimSpace(s)), true
}
