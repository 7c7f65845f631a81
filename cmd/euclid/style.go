// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles renders output, in color on terminals.
type styles struct {
	w     io.Writer
	color bool

	title lipgloss.Style
	ok    lipgloss.Style
	bad   lipgloss.Style
	warn  lipgloss.Style
	faint lipgloss.Style
}

func terminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newStyles(w io.Writer) *styles {
	return &styles{
		w:     w,
		color: terminal(w),
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		bad:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		faint: lipgloss.NewStyle().Faint(true),
	}
}

func (s *styles) render(st lipgloss.Style, str string) string {
	if !s.color {
		return str
	}
	return st.Render(str)
}

func (s *styles) printf(format string, args ...any) {
	fmt.Fprintf(s.w, format, args...)
}

func (s *styles) Title(str string) string { return s.render(s.title, str) }
func (s *styles) OK(str string) string    { return s.render(s.ok, str) }
func (s *styles) Bad(str string) string   { return s.render(s.bad, str) }
func (s *styles) Warn(str string) string  { return s.render(s.warn, str) }
func (s *styles) Faint(str string) string { return s.render(s.faint, str) }
