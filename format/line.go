package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/tree"
)

// LineEncoder lists the member declarations of a unit, one per line:
// kind, name, type, modifiers and location, separated by tabs. Names are
// qualified by the enclosing classes. Method and initializer bodies are not
// entered, so local and anonymous classes are not listed.
type LineEncoder struct {
	w    io.Writer
	lm   position.LineMap
	unit *tree.CompilationUnit
}

func NewLineEncoder(w io.Writer, lm position.LineMap) *LineEncoder {
	return &LineEncoder{w: w, lm: lm}
}

func (e *LineEncoder) Encode(unit *tree.CompilationUnit) error {
	e.unit = unit
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	var classes []string
	var cursor *position.Cursor
	if e.lm != nil {
		cursor = e.lm.Cursor()
	}
	line := func(kind, name, typ string, mods *tree.Modifiers, n tree.Node) {
		loc := fmt.Sprint(n.Pos())
		if cursor != nil {
			l, c := cursor.LineColumn(n.Pos())
			loc = fmt.Sprintf("%d:%d", l, c)
		}
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\n", kind, name, typ, modifiersStr(mods), loc)
	}
	qualify := func(name string) string {
		return strings.Join(append(append([]string(nil), classes...), name), ".")
	}

	s := tree.NewScanner()
	s.On(tree.KindCompilationUnit, func(s *tree.Scanner, n tree.Node) {
		unit := n.(*tree.CompilationUnit)
		if pkg := unit.PackageName(); pkg != "" {
			fmt.Fprintf(&sb, "package\t%s\n", pkg)
		}
		for _, class := range unit.TypeDecls() {
			s.Scan(class)
		}
	})
	s.On(tree.KindClassDef, func(s *tree.Scanner, n tree.Node) {
		class := n.(*tree.ClassDef)
		line(class.ClassKind.String(), qualify(class.Name), TypeString(class.Extending), class.Mods, class)
		classes = append(classes, class.Name)
		tree.ScanAll(s, class.Defs)
		classes = classes[:len(classes)-1]
	})
	s.On(tree.KindMethodDef, func(s *tree.Scanner, n tree.Node) {
		m := n.(*tree.MethodDef)
		kind := "method"
		if m.IsConstructor() {
			kind = "constructor"
		}
		line(kind, qualify(m.Name)+"("+paramTypes(m.Params)+")", TypeString(m.ResType), m.Mods, m)
	})
	s.On(tree.KindVarDef, func(s *tree.Scanner, n tree.Node) {
		v := n.(*tree.VarDef)
		kind := "field"
		if v.Mods != nil && v.Mods.Flags.Has(tree.FlagEnum) {
			kind = "enum-constant"
		}
		line(kind, qualify(v.Name), TypeString(v.VarType), v.Mods, v)
	})
	s.On(tree.KindBlock, func(s *tree.Scanner, n tree.Node) {})
	s.Scan(e.unit)
	return []byte(sb.String()), nil
}

func paramTypes(params []*tree.VarDef) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = TypeString(p.VarType)
	}
	return strings.Join(types, ",")
}

func modifiersStr(mods *tree.Modifiers) string {
	if mods == nil || mods.Flags.String() == "" {
		return "-"
	}
	return strings.ReplaceAll(mods.Flags.String(), " ", ",")
}
