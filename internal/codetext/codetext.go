// Package codetext accumulates indentation-aware lines of generated C++.
package codetext

import (
	"fmt"
	"strings"
)

// CodeText is an ordered sequence of lines with a current indentation level.
// The zero value is ready to use.
type CodeText struct {
	lines  []string
	indent int
}

// AddLine appends line at the current indentation. An empty line is written
// without indentation.
func (t *CodeText) AddLine(line string) {
	if line == "" {
		t.lines = append(t.lines, "")
		return
	}
	t.lines = append(t.lines, strings.Repeat("\t", t.indent)+line)
}

func (t *CodeText) AddLinef(format string, args ...any) {
	t.AddLine(fmt.Sprintf(format, args...))
}

func (t *CodeText) IncreaseIndent() {
	t.indent++
}

func (t *CodeText) DecreaseIndent() {
	if t.indent == 0 {
		panic("codetext: unbalanced DecreaseIndent")
	}
	t.indent--
}

// Block writes an opening line followed by "{" and indents. An empty header
// opens a bare block.
func (t *CodeText) Block(header string) {
	if header != "" {
		t.AddLine(header)
	}
	t.AddLine("{")
	t.IncreaseIndent()
}

// EndBlock dedents and writes the closing brace plus suffix.
func (t *CodeText) EndBlock(suffix string) {
	t.DecreaseIndent()
	t.AddLine("}" + suffix)
}

func (t *CodeText) Indent() int { return t.indent }

func (t *CodeText) Len() int { return len(t.lines) }

// Lines returns a copy of the accumulated lines.
func (t *CodeText) Lines() []string {
	return append([]string(nil), t.lines...)
}

// Result joins all lines, each terminated by a newline.
func (t *CodeText) Result() string {
	if len(t.lines) == 0 {
		return ""
	}
	return strings.Join(t.lines, "\n") + "\n"
}

func (t *CodeText) Reset() {
	t.lines = t.lines[:0]
	t.indent = 0
}
