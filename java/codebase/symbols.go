package codebase

import (
	"github.com/dhamidi/javafront/format"
	"github.com/dhamidi/javafront/java/symbol"
	"github.com/dhamidi/javafront/java/tree"
)

// DocumentSymbol is one declaration in a file outline. Offsets are byte
// offsets; NamePos points at the declaration itself.
type DocumentSymbol struct {
	Name     string
	Detail   string
	Kind     symbol.Kind
	Pos      int
	End      int
	NamePos  int
	Children []DocumentSymbol
}

// Symbols returns the declarations of path as a tree: types, their
// fields, methods and member types. Bodies are not entered.
func (c *Codebase) Symbols(path string) []DocumentSymbol {
	f := c.GetFile(path)
	if f == nil || f.Unit == nil {
		return nil
	}
	var out []DocumentSymbol
	for _, class := range f.Unit.TypeDecls() {
		out = append(out, classSymbol(class))
	}
	return out
}

func classSymbol(class *tree.ClassDef) DocumentSymbol {
	ds := DocumentSymbol{
		Name:    class.Name,
		Detail:  format.TypeString(class.Extending),
		Kind:    classKind(class),
		Pos:     class.Pos(),
		End:     class.End(),
		NamePos: class.Pos(),
	}
	for _, def := range class.Defs {
		switch d := def.(type) {
		case *tree.ClassDef:
			ds.Children = append(ds.Children, classSymbol(d))
		case *tree.MethodDef:
			kind := symbol.KindMethod
			name := d.Name
			if d.IsConstructor() {
				kind, name = symbol.KindConstructor, class.Name
			}
			ds.Children = append(ds.Children, DocumentSymbol{
				Name:    name,
				Detail:  signature(d),
				Kind:    kind,
				Pos:     d.Pos(),
				End:     d.End(),
				NamePos: d.Pos(),
			})
		case *tree.VarDef:
			kind := symbol.KindField
			if d.Mods != nil && d.Mods.Flags.Has(tree.FlagEnum) {
				kind = symbol.KindEnumConstant
			}
			ds.Children = append(ds.Children, DocumentSymbol{
				Name:    d.Name,
				Detail:  format.TypeString(d.VarType),
				Kind:    kind,
				Pos:     d.Pos(),
				End:     d.End(),
				NamePos: d.Pos(),
			})
		}
	}
	return ds
}

func classKind(class *tree.ClassDef) symbol.Kind {
	if class.Sym != nil {
		return class.Sym.Kind
	}
	switch class.ClassKind {
	case tree.ClassKindInterface:
		return symbol.KindInterface
	case tree.ClassKindEnum:
		return symbol.KindEnum
	case tree.ClassKindRecord:
		return symbol.KindRecord
	case tree.ClassKindAnnotation:
		return symbol.KindAnnotationType
	}
	return symbol.KindClass
}

// signature renders a method as "(int, String) R", the way editors show
// it next to the name.
func signature(m *tree.MethodDef) string {
	s := "("
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		s += format.TypeString(p.VarType)
	}
	s += ")"
	if m.ResType != nil {
		s += " " + format.TypeString(m.ResType)
	}
	return s
}
