package format

import (
	"io"
	"strings"

	"github.com/dhamidi/javafront/java/tree"
)

// JavaEncoder writes the declaration skeleton of a unit as Java source:
// package, imports, types and their members, with method bodies and
// initializers left out.
type JavaEncoder struct {
	w    io.Writer
	unit *tree.CompilationUnit
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(unit *tree.CompilationUnit) error {
	e.unit = unit
	return write(e.w, e)
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	u := e.unit

	if pkg := u.PackageName(); pkg != "" {
		sb.WriteString("package ")
		sb.WriteString(pkg)
		sb.WriteString(";\n\n")
	}
	imports := u.Imports()
	for _, imp := range imports {
		sb.WriteString("import ")
		if imp.Static {
			sb.WriteString("static ")
		}
		sb.WriteString(tree.QualifiedName(imp.Qualid))
		sb.WriteString(";\n")
	}
	if len(imports) > 0 {
		sb.WriteString("\n")
	}
	for i, class := range u.TypeDecls() {
		if i > 0 {
			sb.WriteString("\n")
		}
		e.writeClass(&sb, class, "")
	}
	return []byte(sb.String()), nil
}

func (e *JavaEncoder) writeClass(sb *strings.Builder, class *tree.ClassDef, indent string) {
	e.writeModifiers(sb, class.Mods, indent)
	sb.WriteString(class.ClassKind.String())
	sb.WriteString(" ")
	sb.WriteString(class.Name)
	writeTypeParams(sb, class.TypeParams)

	var components, members []tree.Node
	for _, def := range class.Defs {
		v, ok := def.(*tree.VarDef)
		if class.ClassKind == tree.ClassKindRecord && ok && (v.Mods == nil || !v.Mods.Flags.Has(tree.FlagStatic)) {
			components = append(components, v)
			continue
		}
		members = append(members, def)
	}
	if class.ClassKind == tree.ClassKindRecord {
		sb.WriteString("(")
		for i, c := range components {
			if i > 0 {
				sb.WriteString(", ")
			}
			v := c.(*tree.VarDef)
			sb.WriteString(TypeString(v.VarType) + " " + v.Name)
		}
		sb.WriteString(")")
	}
	if class.Extending != nil {
		sb.WriteString(" extends ")
		sb.WriteString(TypeString(class.Extending))
	}
	if len(class.Implementing) > 0 {
		if class.ClassKind == tree.ClassKindInterface {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		writeTypes(sb, class.Implementing)
	}
	sb.WriteString(" {\n")

	inner := indent + "    "
	var constants []string
	for _, def := range members {
		if v, ok := def.(*tree.VarDef); ok && v.Mods != nil && v.Mods.Flags.Has(tree.FlagEnum) {
			constants = append(constants, v.Name)
		}
	}
	if len(constants) > 0 {
		sb.WriteString(inner)
		sb.WriteString(strings.Join(constants, ", "))
		sb.WriteString(";\n")
	}

	for _, def := range members {
		switch d := def.(type) {
		case *tree.VarDef:
			if d.Mods != nil && d.Mods.Flags.Has(tree.FlagEnum) {
				continue
			}
			e.writeModifiers(sb, d.Mods, inner)
			sb.WriteString(TypeString(d.VarType) + " " + d.Name + ";\n")
		case *tree.MethodDef:
			e.writeMethod(sb, d, class.Name, inner)
		case *tree.ClassDef:
			e.writeClass(sb, d, inner)
		}
	}
	sb.WriteString(indent)
	sb.WriteString("}\n")
}

func (e *JavaEncoder) writeMethod(sb *strings.Builder, m *tree.MethodDef, className, indent string) {
	e.writeModifiers(sb, m.Mods, indent)
	if len(m.TypeParams) > 0 {
		writeTypeParams(sb, m.TypeParams)
		sb.WriteString(" ")
	}
	if m.IsConstructor() {
		sb.WriteString(className)
	} else {
		sb.WriteString(TypeString(m.ResType))
		sb.WriteString(" ")
		sb.WriteString(m.Name)
	}
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(TypeString(p.VarType) + " " + p.Name)
	}
	sb.WriteString(")")
	if len(m.Thrown) > 0 {
		sb.WriteString(" throws ")
		writeTypes(sb, m.Thrown)
	}
	sb.WriteString(";\n")
}

// writeModifiers writes annotations on lines of their own, then the indent
// and keywords that start the declaration line.
func (e *JavaEncoder) writeModifiers(sb *strings.Builder, mods *tree.Modifiers, indent string) {
	if mods != nil {
		for _, a := range mods.Annotations {
			sb.WriteString(indent)
			sb.WriteString("@")
			sb.WriteString(tree.QualifiedName(a.AnnotationType))
			if len(a.Args) > 0 {
				sb.WriteString("(...)")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString(indent)
	if mods != nil {
		if flags := mods.Flags.String(); flags != "" {
			sb.WriteString(flags)
			sb.WriteString(" ")
		}
	}
}

func writeTypeParams(sb *strings.Builder, params []*tree.TypeParameter) {
	if len(params) == 0 {
		return
	}
	sb.WriteString("<")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if len(p.Bounds) > 0 {
			sb.WriteString(" extends ")
			for j, b := range p.Bounds {
				if j > 0 {
					sb.WriteString(" & ")
				}
				sb.WriteString(TypeString(b))
			}
		}
	}
	sb.WriteString(">")
}

func writeTypes(sb *strings.Builder, types []tree.Expr) {
	for i, t := range types {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(TypeString(t))
	}
}
