package frontend

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dhamidi/javafront/java/tree"
)

func (l *lowerer) expr(n *tree_sitter.Node) tree.Expr {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier":
		return span(&tree.Ident{Name: l.text(n)}, n)
	case "this", "super":
		return span(&tree.Ident{Name: n.Kind()}, n)
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		kind := tree.LitInt
		if strings.HasSuffix(strings.ToLower(l.text(n)), "l") {
			kind = tree.LitLong
		}
		return l.literal(n, kind)
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		kind := tree.LitDouble
		if strings.HasSuffix(strings.ToLower(l.text(n)), "f") {
			kind = tree.LitFloat
		}
		return l.literal(n, kind)
	case "character_literal":
		return l.literal(n, tree.LitChar)
	case "string_literal":
		if strings.HasPrefix(l.text(n), `"""`) {
			return l.literal(n, tree.LitTextBlock)
		}
		return l.literal(n, tree.LitString)
	case "true", "false":
		return l.literal(n, tree.LitBool)
	case "null_literal":
		return l.literal(n, tree.LitNull)
	case "parenthesized_expression":
		return span(&tree.Parens{Expr: l.firstExpr(n)}, n)
	case "assignment_expression":
		op := l.text(n.ChildByFieldName("operator"))
		lhs := l.expr(n.ChildByFieldName("left"))
		rhs := l.expr(n.ChildByFieldName("right"))
		if op == "=" {
			return span(&tree.Assign{LHS: lhs, RHS: rhs}, n)
		}
		return span(&tree.AssignOp{Op: op, LHS: lhs, RHS: rhs}, n)
	case "binary_expression":
		return span(&tree.Binary{
			Op:  l.text(n.ChildByFieldName("operator")),
			LHS: l.expr(n.ChildByFieldName("left")),
			RHS: l.expr(n.ChildByFieldName("right")),
		}, n)
	case "unary_expression":
		return span(&tree.Unary{
			Op:  l.text(n.ChildByFieldName("operator")),
			Arg: l.expr(n.ChildByFieldName("operand")),
		}, n)
	case "update_expression":
		return l.update(n)
	case "ternary_expression":
		return span(&tree.Conditional{
			Cond:      l.expr(n.ChildByFieldName("condition")),
			TruePart:  l.expr(n.ChildByFieldName("consequence")),
			FalsePart: l.expr(n.ChildByFieldName("alternative")),
		}, n)
	case "cast_expression":
		var clazz tree.Expr
		if types := l.fieldChildren(n, "type"); len(types) > 0 {
			clazz = l.typ(types[0])
		}
		return span(&tree.TypeCast{Clazz: clazz, Expr: l.expr(n.ChildByFieldName("value"))}, n)
	case "instanceof_expression":
		io := span(&tree.InstanceOf{Expr: l.expr(n.ChildByFieldName("left"))}, n)
		if right := n.ChildByFieldName("right"); right != nil {
			io.Clazz = l.typ(right)
		} else if pat := n.ChildByFieldName("pattern"); pat != nil {
			if inner := l.named(pat); len(inner) > 0 {
				io.Clazz = l.typ(inner[0])
			}
		}
		return io
	case "lambda_expression":
		return l.lambda(n)
	case "switch_expression":
		return span(&tree.SwitchExpression{
			Selector: l.expr(n.ChildByFieldName("condition")),
			Cases:    l.cases(n.ChildByFieldName("body"), true),
		}, n)
	case "method_invocation":
		return l.invocation(n)
	case "object_creation_expression":
		return l.newClass(n)
	case "array_creation_expression":
		return l.newArray(n)
	case "array_initializer":
		arr := span(&tree.NewArray{}, n)
		for _, c := range l.named(n) {
			arr.Elems = append(arr.Elems, l.expr(c))
		}
		return arr
	case "array_access":
		return span(&tree.ArrayAccess{
			Indexed: l.expr(n.ChildByFieldName("array")),
			Index:   l.expr(n.ChildByFieldName("index")),
		}, n)
	case "field_access":
		obj := n.ChildByFieldName("object")
		selected := l.expr(obj)
		if sup := l.qualifiedSuper(n, obj); sup != nil {
			selected = tree.At(&tree.FieldAccess{Selected: selected, Name: "super"}, int(obj.StartByte()), int(sup.EndByte()))
		}
		return span(&tree.FieldAccess{Selected: selected, Name: l.text(n.ChildByFieldName("field"))}, n)
	case "class_literal":
		return span(&tree.FieldAccess{Selected: l.firstType(n), Name: "class"}, n)
	case "method_reference":
		return l.memberReference(n)
	case "template_expression":
		return l.unsupported(n, "string template")
	case "type_identifier", "scoped_type_identifier", "generic_type", "array_type",
		"integral_type", "floating_point_type", "boolean_type", "void_type", "annotated_type":
		return l.typ(n)
	case "scoped_identifier":
		return l.name(n)
	case "ERROR":
		return l.erroneous(n)
	}
	return l.unsupported(n, n.Kind())
}

func (l *lowerer) literal(n *tree_sitter.Node, kind tree.LiteralKind) *tree.Literal {
	return span(&tree.Literal{LitKind: kind, Value: l.text(n)}, n)
}

func (l *lowerer) firstType(n *tree_sitter.Node) tree.Expr {
	if parts := l.named(n); len(parts) > 0 {
		return l.typ(parts[0])
	}
	return nil
}

// update lowers ++ and --. The operator comes first for the prefix forms.
func (l *lowerer) update(n *tree_sitter.Node) *tree.Unary {
	u := span(&tree.Unary{Arg: l.firstExpr(n)}, n)
	for i, c := range l.children(n) {
		if c.IsNamed() {
			continue
		}
		u.Op = c.Kind()
		u.Postfix = i > 0
	}
	return u
}

func (l *lowerer) args(n *tree_sitter.Node) []tree.Expr {
	var out []tree.Expr
	for _, c := range l.named(n) {
		out = append(out, l.expr(c))
	}
	return out
}

// qualifiedSuper returns the "super" child of an Outer.super.x access, or
// nil if n has none besides its object.
func (l *lowerer) qualifiedSuper(n, obj *tree_sitter.Node) *tree_sitter.Node {
	if obj == nil {
		return nil
	}
	for _, c := range l.unfielded(n) {
		if c.Kind() == "super" {
			return c
		}
	}
	return nil
}

func (l *lowerer) invocation(n *tree_sitter.Node) *tree.MethodInvocation {
	nameNode := n.ChildByFieldName("name")
	var meth tree.Expr = span(&tree.Ident{Name: l.text(nameNode)}, nameNode)
	if obj := n.ChildByFieldName("object"); obj != nil {
		selected := l.expr(obj)
		if sup := l.qualifiedSuper(n, obj); sup != nil {
			selected = tree.At(&tree.FieldAccess{Selected: selected, Name: "super"}, int(obj.StartByte()), int(sup.EndByte()))
		}
		meth = tree.At(&tree.FieldAccess{Selected: selected, Name: l.text(nameNode)}, int(obj.StartByte()), int(nameNode.EndByte()))
	}
	inv := span(&tree.MethodInvocation{
		Meth: meth,
		Args: l.args(n.ChildByFieldName("arguments")),
	}, n)
	if ta := n.ChildByFieldName("type_arguments"); ta != nil {
		inv.TypeArgs = l.typeArgs(ta)
	}
	return inv
}

func (l *lowerer) newClass(n *tree_sitter.Node) *tree.NewClass {
	nc := span(&tree.NewClass{
		Clazz: l.typ(n.ChildByFieldName("type")),
		Args:  l.args(n.ChildByFieldName("arguments")),
	}, n)
	if ta := n.ChildByFieldName("type_arguments"); ta != nil {
		nc.TypeArgs = l.typeArgs(ta)
	}
	for _, c := range l.unfielded(n) {
		switch c.Kind() {
		case "class_body":
			anon := span(&tree.ClassDef{ClassKind: tree.ClassKindClass}, c)
			anon.Defs = l.classBody(c, anon)
			nc.Def = anon
		case "annotation", "marker_annotation":
		default:
			nc.Encl = l.expr(c)
		}
	}
	return nc
}

// newArray lowers an array creation. Empty bracket pairs after the sized
// dimensions make the element type an array type; with an initializer the
// first pair denotes the created array itself.
func (l *lowerer) newArray(n *tree_sitter.Node) *tree.NewArray {
	arr := span(&tree.NewArray{}, n)
	elem := l.typ(n.ChildByFieldName("type"))
	empty := 0
	var last *tree_sitter.Node
	for _, d := range l.fieldChildren(n, "dimensions") {
		switch d.Kind() {
		case "dimensions_expr":
			arr.Dims = append(arr.Dims, l.firstExpr(d))
		case "dimensions":
			empty += strings.Count(l.text(d), "[")
			last = d
		}
	}
	value := n.ChildByFieldName("value")
	if value != nil && len(arr.Dims) == 0 && empty > 0 {
		empty--
	}
	for i := 0; i < empty && elem != nil; i++ {
		elem = tree.At(&tree.ArrayType{ElemType: elem}, elem.Pos(), int(last.EndByte()))
	}
	arr.ElemType = elem
	if value != nil {
		for _, c := range l.named(value) {
			arr.Elems = append(arr.Elems, l.expr(c))
		}
	}
	return arr
}

func (l *lowerer) lambda(n *tree_sitter.Node) *tree.Lambda {
	lam := span(&tree.Lambda{}, n)
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return lam
	}
	switch params.Kind() {
	case "identifier":
		lam.Params = []*tree.VarDef{span(&tree.VarDef{Name: l.text(params)}, params)}
	case "inferred_parameters":
		for _, p := range l.named(params) {
			lam.Params = append(lam.Params, span(&tree.VarDef{Name: l.text(p)}, p))
		}
	case "formal_parameters":
		lam.Params = l.params(params)
	}
	body := n.ChildByFieldName("body")
	if body != nil && body.Kind() == "block" {
		lam.Body = l.block(body)
	} else {
		lam.Body = l.expr(body)
	}
	return lam
}

// memberReference lowers "qualifier::name", "qualifier::<T>name" and
// "Type::new". The name is the last child.
func (l *lowerer) memberReference(n *tree_sitter.Node) *tree.MemberReference {
	ref := span(&tree.MemberReference{}, n)
	parts := l.children(n)
	if len(parts) == 0 {
		return ref
	}
	ref.Expr = l.typ(parts[0])
	last := parts[len(parts)-1]
	if last.Kind() == "new" {
		ref.Name = tree.ConstructorName
	} else {
		ref.Name = l.text(last)
	}
	if ta := l.childOfKind(n, "type_arguments"); ta != nil {
		ref.TypeArgs = l.typeArgs(ta)
	}
	return ref
}
