package diag

import (
	"bytes"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/source"
)

func TestNewDerivesLineAndColumn(t *testing.T) {
	src := source.New("T.java", []byte("class T {\n\tint x = ;\n}\n"))

	tests := []struct {
		name       string
		expandTabs bool
		wantColumn int
	}{
		{"plain", false, 10},
		{"tabs", true, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(Error, src, 19, 19, 20, tt.expandTabs, "expected", "illegal start of expression")
			assert.Equal(t, 2, d.Line)
			assert.Equal(t, tt.wantColumn, d.Column)
			line, col, ok := d.Position().Decode()
			assert.True(t, ok)
			assert.Equal(t, 2, line)
			assert.Equal(t, tt.wantColumn, col)
		})
	}
}

func TestNoPosition(t *testing.T) {
	d := New(Note, nil, NoPos, NoPos, NoPos, false, "", "no location")
	assert.Equal(t, NoPos, d.Line)
	assert.Equal(t, position.NoPos, d.Position())
	assert.Equal(t, "-: note: no location", d.String())
}

func TestCollectorSortsAndCounts(t *testing.T) {
	a := source.New("A.java", []byte("class A {}"))
	b := source.New("B.java", []byte("class B {}"))

	var c Collector
	var wg sync.WaitGroup
	for _, d := range []Diagnostic{
		Errorf(b, 6, "", "b"),
		Errorf(a, 8, "", "a2"),
		New(Warning, a, 0, 0, 5, false, "", "a1"),
	} {
		wg.Add(1)
		go func(d Diagnostic) {
			defer wg.Done()
			c.Report(d)
		}(d)
	}
	wg.Wait()

	var got []string
	for _, d := range c.Diagnostics() {
		got = append(got, d.Message)
	}
	assert.Equal(t, []string{"a1", "a2", "b"}, got)
	assert.Equal(t, 2, c.Count(Error))
	assert.Equal(t, 1, c.Count(Warning))

	c.Reset()
	assert.Equal(t, 0, len(c.Diagnostics()))
}

func TestPrinter(t *testing.T) {
	src := source.New("T.java", []byte("class T {\n\tint x = ;\n}\n"))
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Report(New(Error, src, 19, 19, 20, false, "expected", "illegal start of expression"))

	want := "T.java:2:10: error: illegal start of expression [expected]\n" +
		"\tint x = ;\n" +
		"\t        ^\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	p.WithoutContext().Report(Errorf(src, 0, "", "first"))
	assert.Equal(t, "T.java:1:1: error: first\n", buf.String())
}

func TestMultiAndLogListener(t *testing.T) {
	var c Collector
	count := 0
	l := Multi(&c, nil, ListenerFunc(func(Diagnostic) { count++ }), &LogListener{Log: commonlog.MockLogger{}})
	l.Report(Errorf(nil, NoPos, "", "x"))
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, len(c.Diagnostics()))
}
