package position

// Cursor answers LineMap queries with a one-entry cache of the last
// LineNumber lookup. Diagnostics are mostly reported in source order, so
// repeated and nearby queries hit the cache.
//
// A Cursor is not safe for concurrent use; give each goroutine its own.
type Cursor struct {
	m        LineMap
	lastPos  int
	lastLine int
	hits     int
}

func newCursor(m LineMap) *Cursor {
	return &Cursor{m: m, lastPos: FirstPos, lastLine: FirstLine}
}

func (c *Cursor) Map() LineMap {
	return c.m
}

func (c *Cursor) LineNumber(pos int) int {
	if pos == c.lastPos {
		c.hits++
		return c.lastLine
	}
	line := c.m.LineNumber(pos)
	c.lastPos, c.lastLine = pos, line
	return line
}

func (c *Cursor) ColumnNumber(pos int) int {
	return c.m.columnOnLine(pos, c.LineNumber(pos))
}

// LineColumn returns both coordinates of pos with a single line lookup.
func (c *Cursor) LineColumn(pos int) (line, column int) {
	line = c.LineNumber(pos)
	return line, c.m.columnOnLine(pos, line)
}

// Encode returns the packed Position of offset pos, or NoPos if pos is
// negative or its coordinates do not fit.
func (c *Cursor) Encode(pos int) Position {
	if pos < FirstPos {
		return NoPos
	}
	p, err := Encode(c.LineColumn(pos))
	if err != nil {
		return NoPos
	}
	return p
}

// Hits reports how many LineNumber queries were served from the cache.
func (c *Cursor) Hits() int {
	return c.hits
}
