package format

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/tree"
)

type JSONEncoder struct {
	w    io.Writer
	lm   position.LineMap
	unit *tree.CompilationUnit
}

func NewJSONEncoder(w io.Writer, lm position.LineMap) *JSONEncoder {
	return &JSONEncoder{w: w, lm: lm}
}

func (e *JSONEncoder) Encode(unit *tree.CompilationUnit) error {
	e.unit = unit
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(Document(e.unit, e.lm), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type YAMLEncoder struct {
	w    io.Writer
	lm   position.LineMap
	unit *tree.CompilationUnit
}

func NewYAMLEncoder(w io.Writer, lm position.LineMap) *YAMLEncoder {
	return &YAMLEncoder{w: w, lm: lm}
}

func (e *YAMLEncoder) Encode(unit *tree.CompilationUnit) error {
	e.unit = unit
	return write(e.w, e)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	return yaml.Marshal(Document(e.unit, e.lm))
}

// Node is the document form of one tree node.
type Node struct {
	Kind     string  `json:"kind" yaml:"kind"`
	Span     *Span   `json:"span,omitempty" yaml:"span,omitempty"`
	Token    string  `json:"token,omitempty" yaml:"token,omitempty"`
	Symbol   string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

type Span struct {
	Start Location `json:"start" yaml:"start"`
	End   Location `json:"end" yaml:"end"`
}

// Location is an offset with its line and column. Line and Column are
// zero when no line map was given.
type Location struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line,omitempty" yaml:"line,omitempty"`
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
}

// Document converts the tree under root, children in scan order.
func Document(root tree.Node, lm position.LineMap) *Node {
	var cursor *position.Cursor
	if lm != nil {
		cursor = lm.Cursor()
	}
	locate := func(offset int) Location {
		loc := Location{Offset: offset}
		if cursor != nil {
			loc.Line, loc.Column = cursor.LineColumn(offset)
		}
		return loc
	}

	var top *Node
	var stack []*Node
	s := tree.NewScanner().OnAny(func(s *tree.Scanner, n tree.Node) {
		dn := &Node{Kind: n.Kind().String(), Token: tree.Detail(n)}
		if n.Pos() >= 0 && n.End() > 0 {
			dn.Span = &Span{Start: locate(n.Pos()), End: locate(n.End())}
		}
		if sym := tree.SymbolOf(n); sym != nil {
			dn.Symbol = sym.String()
		}
		if len(stack) == 0 {
			top = dn
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, dn)
		}
		stack = append(stack, dn)
		s.Default(n)
		stack = stack[:len(stack)-1]
	})
	s.Scan(root)
	return top
}
