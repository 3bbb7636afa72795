package position

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// LineMap is a two-way map between character offsets and (line, column)
// pairs, derived from a single scan of the source at build time. The source
// text is not retained.
//
// A LineMap is immutable after Build and safe for concurrent use. Callers
// that issue many LineNumber queries in source order can use a Cursor,
// which remembers the last lookup.
type LineMap interface {
	// StartPosition returns the offset of the first character of line.
	StartPosition(line int) int

	// Position returns the offset of the character at (line, column).
	Position(line, column int) int

	// LineNumber returns the line containing pos. A line terminator is on
	// the line it terminates.
	LineNumber(pos int) int

	// ColumnNumber returns the column of pos on its line.
	ColumnNumber(pos int) int

	LineCount() int
	ExpandsTabs() bool
	Cursor() *Cursor

	columnOnLine(pos, line int) int
}

type Option func(*buildOptions)

type buildOptions struct {
	checks bool
}

// WithChecks enables invariant verification of the line table after it is
// built. A violation panics.
func WithChecks(enabled bool) Option {
	return func(o *buildOptions) {
		o.checks = enabled
	}
}

// Build scans the first max bytes of src. Lines end at '\n', '\r' or "\r\n".
// A final line without a terminator is still recorded. When expandTabs is
// set, columns account for tab stops every TabInc columns.
func Build(src []byte, max int, expandTabs bool, opts ...Option) LineMap {
	if max < 0 || max > len(src) {
		panic(&RangeError{What: "length", Value: max, Min: 0, Max: len(src)})
	}
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	var tabs *bitset.BitSet
	if expandTabs {
		tabs = bitset.New(uint(max))
	}
	starts := scanLines(src, max, tabs)
	if o.checks {
		verifyStarts(starts, max)
	}

	base := &lineMap{starts: starts}
	if tabs == nil {
		return base
	}
	return &tabLineMap{lineMap: base, tabs: tabs}
}

// FromString builds a LineMap over all of s.
func FromString(s string, expandTabs bool, opts ...Option) LineMap {
	src := []byte(s)
	return Build(src, len(src), expandTabs, opts...)
}

func scanLines(src []byte, max int, tabs *bitset.BitSet) []int {
	var starts []int
	i := 0
	for i < max {
		starts = append(starts, i)
		for ; i < max; i++ {
			ch := src[i]
			if ch == '\r' || ch == '\n' {
				if ch == '\r' && i+1 < max && src[i+1] == '\n' {
					i += 2
				} else {
					i++
				}
				break
			}
			if ch == '\t' && tabs != nil {
				tabs.Set(uint(i))
			}
		}
	}
	if len(starts) == 0 {
		// an empty buffer still has one (empty) line
		starts = append(starts, FirstPos)
	}
	return starts
}

func verifyStarts(starts []int, max int) {
	if starts[0] != FirstPos {
		panic(fmt.Sprintf("position: first line starts at %d", starts[0]))
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] || starts[i] > max {
			panic(fmt.Sprintf("position: line %d starts at %d after %d", i+1, starts[i], starts[i-1]))
		}
	}
}

type lineMap struct {
	starts []int
}

func (m *lineMap) LineCount() int {
	return len(m.starts)
}

func (m *lineMap) ExpandsTabs() bool {
	return false
}

func (m *lineMap) Cursor() *Cursor {
	return newCursor(m)
}

func (m *lineMap) StartPosition(line int) int {
	return m.starts[m.index(line)]
}

func (m *lineMap) Position(line, column int) int {
	checkColumn(column)
	return m.starts[m.index(line)] + column - FirstColumn
}

func (m *lineMap) LineNumber(pos int) int {
	checkOffset(pos)
	return m.search(pos)
}

func (m *lineMap) ColumnNumber(pos int) int {
	return m.columnOnLine(pos, m.LineNumber(pos))
}

func (m *lineMap) columnOnLine(pos, line int) int {
	return pos - m.starts[line-FirstLine] + FirstColumn
}

func (m *lineMap) index(line int) int {
	if line < FirstLine || line > len(m.starts) {
		panic(&RangeError{What: "line", Value: line, Min: FirstLine, Max: len(m.starts)})
	}
	return line - FirstLine
}

// search returns the line whose start is the greatest start offset <= pos.
func (m *lineMap) search(pos int) int {
	low, high := 0, len(m.starts)-1
	for low <= high {
		mid := int(uint(low+high) >> 1)
		switch start := m.starts[mid]; {
		case start < pos:
			low = mid + 1
		case start > pos:
			high = mid - 1
		default:
			return mid + FirstLine
		}
	}
	return low
}

// tabLineMap expands tabs when computing columns. It costs one bit per
// source character.
type tabLineMap struct {
	*lineMap
	tabs *bitset.BitSet
}

func (m *tabLineMap) ExpandsTabs() bool {
	return true
}

func (m *tabLineMap) Cursor() *Cursor {
	return newCursor(m)
}

func (m *tabLineMap) Position(line, column int) int {
	checkColumn(column)
	pos := m.starts[m.index(line)]
	target := column - FirstColumn
	for col := 0; col < target; pos++ {
		col = m.advance(col, pos)
	}
	return pos
}

func (m *tabLineMap) ColumnNumber(pos int) int {
	return m.columnOnLine(pos, m.LineNumber(pos))
}

func (m *tabLineMap) columnOnLine(pos, line int) int {
	column := 0
	for bp := m.starts[line-FirstLine]; bp < pos; bp++ {
		column = m.advance(column, bp)
	}
	return column + FirstColumn
}

func (m *tabLineMap) advance(column, pos int) int {
	if pos >= 0 && m.tabs.Test(uint(pos)) {
		return column/TabInc*TabInc + TabInc
	}
	return column + 1
}

func checkOffset(pos int) {
	if pos < FirstPos {
		panic(&RangeError{What: "offset", Value: pos, Min: FirstPos, Max: int(^uint(0) >> 1)})
	}
}

func checkColumn(column int) {
	if column < FirstColumn {
		panic(&RangeError{What: "column", Value: column, Min: FirstColumn, Max: int(^uint(0) >> 1)})
	}
}
