// Package diag carries diagnostics from the front end to whoever reports
// them. The front end fills in the position fields; message formatting
// belongs to the listener.
package diag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/source"
)

// NoPos is the offset, line and column of a report without a location.
const NoPos = int(position.NoPos)

type Kind int

const (
	Error Kind = iota
	Warning
	MandatoryWarning
	Note
	Other
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case MandatoryWarning:
		return "mandatory warning"
	case Note:
		return "note"
	default:
		return "other"
	}
}

// Diagnostic is one report. Offsets are NoPos when the report has no
// location; Line and Column are then NoPos too.
type Diagnostic struct {
	Kind     Kind
	Source   *source.File
	Pos      int
	StartPos int
	EndPos   int
	Line     int
	Column   int
	Code     string
	Message  string
}

// New builds a diagnostic for the span [start, end) with the preferred
// position pos. Line and column come from the source's line map.
func New(kind Kind, src *source.File, start, pos, end int, expandTabs bool, code, message string) Diagnostic {
	d := Diagnostic{
		Kind:     kind,
		Source:   src,
		Pos:      pos,
		StartPos: start,
		EndPos:   end,
		Line:     NoPos,
		Column:   NoPos,
		Code:     code,
		Message:  message,
	}
	if src != nil && pos >= 0 && pos <= len(src.Content) {
		lm := src.LineMap(expandTabs)
		d.Line = lm.LineNumber(pos)
		d.Column = lm.ColumnNumber(pos)
	}
	return d
}

// Errorf builds an error diagnostic at a single offset.
func Errorf(src *source.File, pos int, code, format string, args ...any) Diagnostic {
	return New(Error, src, pos, pos, pos, false, code, fmt.Sprintf(format, args...))
}

// Position encodes the line and column, or returns NoPos.
func (d Diagnostic) Position() position.Position {
	if d.Line < position.FirstLine || d.Column < position.FirstColumn {
		return position.NoPos
	}
	p, err := position.Encode(d.Line, d.Column)
	if err != nil {
		return position.NoPos
	}
	return p
}

func (d Diagnostic) String() string {
	name := "-"
	if d.Source != nil {
		name = d.Source.Name
	}
	if d.Line == NoPos {
		return fmt.Sprintf("%s: %s: %s", name, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", name, d.Line, d.Column, d.Kind, d.Message)
}

type Listener interface {
	Report(d Diagnostic)
}

type ListenerFunc func(d Diagnostic)

func (f ListenerFunc) Report(d Diagnostic) { f(d) }

// Multi fans a report out to several listeners.
func Multi(listeners ...Listener) Listener {
	return ListenerFunc(func(d Diagnostic) {
		for _, l := range listeners {
			if l != nil {
				l.Report(d)
			}
		}
	})
}

// Collector keeps every report. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns the reports sorted by file, then offset.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	c.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if an, bn := sourceName(a), sourceName(b); an != bn {
			return an < bn
		}
		return a.Pos < b.Pos
	})
	return out
}

// Count returns the number of reports of kind k.
func (c *Collector) Count(k Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Kind == k {
			n++
		}
	}
	return n
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = nil
}

func sourceName(d Diagnostic) string {
	if d.Source == nil {
		return ""
	}
	return d.Source.Name
}
