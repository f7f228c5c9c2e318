// Package source models locations in C source files: single character
// positions, spans between two positions, and characters tagged with the
// position they were read from.
package source

import "fmt"

// Position identifies one character of a source file. Line and Column are
// 1-based; FullLine holds the text of the physical line the character
// belongs to, so diagnostics can be rendered without rereading the file.
type Position struct {
	File     string
	Line     int
	Column   int
	FullLine string
}

func NewPosition(file string, line, column int, fullLine string) Position {
	return Position{File: file, Line: line, Column: column, FullLine: fullLine}
}

// Advance moves the position one column to the right.
func (p *Position) Advance() { p.Column++ }

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Before reports whether p comes strictly before o in line/column order.
func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Column < o.Column)
}

// Range is the inclusive span between two positions.
type Range struct {
	Begin Position
	End   Position
}

func NewRange(begin, end Position) Range {
	return Range{Begin: begin, End: end}
}

// Point returns the zero-width range located at p.
func Point(p Position) Range { return Range{Begin: p, End: p} }

// Add composes two ranges into one spanning from the beginning of r to the
// end of o.
func (r Range) Add(o Range) Range {
	return Range{Begin: r.Begin, End: o.End}
}

// Width is the number of columns the range covers when it stays on a single
// line, or 1 otherwise.
func (r Range) Width() int {
	if r.Begin.Line != r.End.Line || r.End.Column < r.Begin.Column {
		return 1
	}
	return r.End.Column - r.Begin.Column + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%s: [ (%d,%d) (%d,%d) ]", r.Begin.File, r.Begin.Line, r.Begin.Column, r.End.Line, r.End.Column)
}

// Tagged is a single source byte bound to its position.
type Tagged struct {
	C   byte
	Pos Position
}

func (t Tagged) Range() Range { return Point(t.Pos) }

// Line is one logical source line as a sequence of tagged characters.
type Line []Tagged

// Text returns the bytes of l[start:end] as a string.
func (l Line) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(l) {
		end = len(l)
	}
	if start >= end {
		return ""
	}
	b := make([]byte, 0, end-start)
	for _, t := range l[start:end] {
		b = append(b, t.C)
	}
	return string(b)
}

// Span returns the range from the character at start to the one at end,
// both inclusive.
func (l Line) Span(start, end int) Range {
	return NewRange(l[start].Pos, l[end].Pos)
}
