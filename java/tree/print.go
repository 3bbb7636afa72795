package tree

import (
	"fmt"
	"strings"
)

// Outline renders the tree as one line per node, children indented by two
// spaces. With positions set, each line carries the node's [pos-end) span.
func Outline(root Node, positions bool) string {
	var sb strings.Builder
	depth := 0
	s := NewScanner().OnAny(func(s *Scanner, n Node) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Kind().String())
		if positions {
			fmt.Fprintf(&sb, " [%d-%d]", n.Pos(), n.End())
		}
		if d := Detail(n); d != "" {
			sb.WriteString(" ")
			sb.WriteString(d)
		}
		sb.WriteString("\n")
		depth++
		s.Default(n)
		depth--
	})
	s.Scan(root)
	return sb.String()
}

// Detail returns the short textual payload of a node: a name, operator or
// literal value. Nodes without one return "".
func Detail(n Node) string {
	switch t := n.(type) {
	case *CompilationUnit:
		return t.File
	case *Import:
		name := QualifiedName(t.Qualid)
		if t.Static {
			return "static " + name
		}
		return name
	case *ClassDef:
		return t.ClassKind.String() + " " + t.Name
	case *MethodDef, *VarDef, *TypeParameter, *Ident, *FieldAccess, *MemberReference, *Labelled:
		return NameOf(n)
	case *Break:
		return t.Label
	case *Continue:
		return t.Label
	case *AssignOp:
		return t.Op
	case *Unary:
		if t.Postfix {
			return "postfix " + t.Op
		}
		return t.Op
	case *Binary:
		return t.Op
	case *Literal:
		return t.Value
	case *PrimitiveType:
		return t.Name
	case *TypeBoundKind:
		return t.BoundKind.String()
	case *Modifiers:
		return t.Flags.String()
	case *Block:
		if t.Static {
			return "static"
		}
	case *Case:
		if t.IsDefault() {
			return "default"
		}
	case *Erroneous:
		return t.Message
	}
	return ""
}
