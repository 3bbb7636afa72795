// Package format renders java/tree compilation units for people and
// tools: nested JSON or YAML documents, a tab-separated declaration
// listing, and a Java declaration skeleton.
package format

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/tree"
)

var ErrUnknownFormat = errors.New("unknown format")

type Encoder interface {
	encoding.TextMarshaler
	Encode(unit *tree.CompilationUnit) error
}

type constructor func(w io.Writer, lm position.LineMap) Encoder

var encoders = map[string]constructor{
	"json":  func(w io.Writer, lm position.LineMap) Encoder { return NewJSONEncoder(w, lm) },
	"yaml":  func(w io.Writer, lm position.LineMap) Encoder { return NewYAMLEncoder(w, lm) },
	"lines": func(w io.Writer, lm position.LineMap) Encoder { return NewLineEncoder(w, lm) },
	"java":  func(w io.Writer, lm position.LineMap) Encoder { return NewJavaEncoder(w) },
	"text":  func(w io.Writer, lm position.LineMap) Encoder { return NewOutlineEncoder(w) },
}

// Names returns the accepted format names, sorted.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEncoder returns the encoder called name. lm supplies line and column
// numbers; it may be nil, in which case only offsets are written.
func NewEncoder(name string, w io.Writer, lm position.LineMap) (Encoder, error) {
	c, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("%q (want one of %v): %w", name, Names(), ErrUnknownFormat)
	}
	return c(w, lm), nil
}

// OutlineEncoder writes tree.Outline with positions.
type OutlineEncoder struct {
	w    io.Writer
	unit *tree.CompilationUnit
}

func NewOutlineEncoder(w io.Writer) *OutlineEncoder {
	return &OutlineEncoder{w: w}
}

func (e *OutlineEncoder) Encode(unit *tree.CompilationUnit) error {
	e.unit = unit
	return write(e.w, e)
}

func (e *OutlineEncoder) MarshalText() ([]byte, error) {
	return []byte(tree.Outline(e.unit, true)), nil
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
