package format

import (
	"strings"

	"github.com/dhamidi/javafront/java/tree"
)

// TypeString renders a type expression as Java source. Annotations are
// dropped; anything that is not a type renders as "?".
func TypeString(t tree.Expr) string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeType(sb *strings.Builder, t tree.Expr) {
	switch t := t.(type) {
	case nil:
	case *tree.Ident:
		sb.WriteString(t.Name)
	case *tree.FieldAccess:
		writeType(sb, t.Selected)
		sb.WriteByte('.')
		sb.WriteString(t.Name)
	case *tree.PrimitiveType:
		sb.WriteString(t.Name)
	case *tree.ArrayType:
		writeType(sb, t.ElemType)
		sb.WriteString("[]")
	case *tree.TypeApply:
		writeType(sb, t.Clazz)
		sb.WriteByte('<')
		for i, arg := range t.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeType(sb, arg)
		}
		sb.WriteByte('>')
	case *tree.Wildcard:
		kind := tree.BoundUnbound
		if t.Bound != nil {
			kind = t.Bound.BoundKind
		}
		sb.WriteString(kind.String())
		if t.Inner != nil {
			sb.WriteByte(' ')
			writeType(sb, t.Inner)
		}
	default:
		sb.WriteByte('?')
	}
}
