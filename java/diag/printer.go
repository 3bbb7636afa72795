package diag

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
)

var (
	errorFmt   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningFmt = color.New(color.FgYellow, color.Bold).SprintFunc()
	noteFmt    = color.New(color.FgCyan).SprintFunc()
	locFmt     = color.New(color.Bold).SprintFunc()
	caretFmt   = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// Printer writes reports in the "file:line:column: kind: message" form,
// followed by the source line and a caret under the column.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool
	context bool
}

// NewPrinter returns a printer writing to w. Color is used only when
// colorize is set and the terminal supports it.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	return &Printer{w: w, noColor: !colorize || color.NoColor, context: true}
}

// WithoutContext drops the source line and caret.
func (p *Printer) WithoutContext() *Printer {
	p.context = false
	return p
}

func (p *Printer) Report(d Diagnostic) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var sb strings.Builder
	loc := sourceName(d)
	if loc == "" {
		loc = "-"
	}
	if d.Line != NoPos {
		loc = fmt.Sprintf("%s:%d:%d", loc, d.Line, d.Column)
	}
	sb.WriteString(p.paint(locFmt, loc+":"))
	sb.WriteString(" ")
	sb.WriteString(p.paint(kindFmt(d.Kind), d.Kind.String()+":"))
	sb.WriteString(" ")
	sb.WriteString(d.Message)
	if d.Code != "" {
		fmt.Fprintf(&sb, " [%s]", d.Code)
	}
	sb.WriteString("\n")

	if p.context && d.Source != nil && d.Line != NoPos {
		lm := d.Source.LineMap(false)
		line := d.Source.Line(lm, d.Line)
		col := lm.ColumnNumber(d.Pos)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(indentLike(line, col-1))
		sb.WriteString(p.paint(caretFmt, "^"))
		sb.WriteString("\n")
	}
	io.WriteString(p.w, sb.String())
}

func (p *Printer) paint(f func(a ...any) string, s string) string {
	if p.noColor {
		return s
	}
	return f(s)
}

func kindFmt(k Kind) func(a ...any) string {
	switch k {
	case Error:
		return errorFmt
	case Warning, MandatoryWarning:
		return warningFmt
	default:
		return noteFmt
	}
}

// indentLike returns n characters of whitespace matching the tabs of line.
func indentLike(line string, n int) string {
	var sb strings.Builder
	for i := 0; i < n && i < len(line); i++ {
		if line[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// LogListener forwards reports to a commonlog logger, mapping kinds to
// log levels.
type LogListener struct {
	Log commonlog.Logger
}

func NewLogListener(name string) *LogListener {
	return &LogListener{Log: commonlog.GetLogger(name)}
}

func (l *LogListener) Report(d Diagnostic) {
	keys := []any{"file", sourceName(d), "line", d.Line, "column", d.Column}
	if d.Code != "" {
		keys = append(keys, "code", d.Code)
	}
	switch d.Kind {
	case Error:
		l.Log.Error(d.Message, keys...)
	case Warning, MandatoryWarning:
		l.Log.Warning(d.Message, keys...)
	case Note:
		l.Log.Info(d.Message, keys...)
	default:
		l.Log.Debug(d.Message, keys...)
	}
}
