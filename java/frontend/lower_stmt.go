package frontend

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dhamidi/javafront/java/tree"
)

// block lowers a block or constructor body.
func (l *lowerer) block(n *tree_sitter.Node) *tree.Block {
	if n == nil {
		return nil
	}
	return span(&tree.Block{Stats: l.stmtList(n)}, n)
}

// stmtList lowers the statements among the children of n. Empty
// statements are bare ";" tokens, so unnamed children are inspected too.
func (l *lowerer) stmtList(n *tree_sitter.Node) []tree.Stmt {
	var out []tree.Stmt
	for _, c := range l.children(n) {
		if c.IsNamed() || c.Kind() == ";" {
			out = append(out, l.stmt(c)...)
		}
	}
	return out
}

// single lowers a statement in a position that holds exactly one, such as
// the branch of an if.
func (l *lowerer) single(n *tree_sitter.Node) tree.Stmt {
	if n == nil {
		return nil
	}
	stats := l.stmt(n)
	if len(stats) == 1 {
		return stats[0]
	}
	return span(&tree.Block{Stats: stats}, n)
}

func (l *lowerer) stmt(n *tree_sitter.Node) []tree.Stmt {
	one := func(s tree.Stmt) []tree.Stmt { return []tree.Stmt{s} }

	switch n.Kind() {
	case ";":
		return one(span(&tree.Skip{}, n))
	case "local_variable_declaration":
		var out []tree.Stmt
		for _, v := range l.varDecls(n) {
			out = append(out, v)
		}
		return out
	case "expression_statement":
		return one(span(&tree.Exec{Expr: l.firstExpr(n)}, n))
	case "block":
		return one(l.block(n))
	case "if_statement":
		return one(span(&tree.If{
			Cond: l.expr(n.ChildByFieldName("condition")),
			Then: l.single(n.ChildByFieldName("consequence")),
			Else: l.single(n.ChildByFieldName("alternative")),
		}, n))
	case "while_statement":
		return one(span(&tree.WhileLoop{
			Cond: l.expr(n.ChildByFieldName("condition")),
			Body: l.single(n.ChildByFieldName("body")),
		}, n))
	case "do_statement":
		return one(span(&tree.DoLoop{
			Body: l.single(n.ChildByFieldName("body")),
			Cond: l.expr(n.ChildByFieldName("condition")),
		}, n))
	case "for_statement":
		return one(l.forLoop(n))
	case "enhanced_for_statement":
		return one(l.foreachLoop(n))
	case "labeled_statement":
		lab := span(&tree.Labelled{}, n)
		for _, c := range l.named(n) {
			if c.Kind() == "identifier" && lab.Label == "" {
				lab.Label = l.text(c)
				continue
			}
			lab.Body = l.single(c)
		}
		return one(lab)
	case "switch_expression":
		return one(span(&tree.Switch{
			Selector: l.expr(n.ChildByFieldName("condition")),
			Cases:    l.cases(n.ChildByFieldName("body"), false),
		}, n))
	case "synchronized_statement":
		return one(span(&tree.Synchronized{
			Lock: l.expr(l.childOfKind(n, "parenthesized_expression")),
			Body: l.block(n.ChildByFieldName("body")),
		}, n))
	case "try_statement", "try_with_resources_statement":
		return one(l.try(n))
	case "return_statement":
		return one(span(&tree.Return{Expr: l.firstExpr(n)}, n))
	case "throw_statement":
		return one(span(&tree.Throw{Expr: l.firstExpr(n)}, n))
	case "yield_statement":
		return one(span(&tree.Yield{Value: l.firstExpr(n)}, n))
	case "break_statement":
		return one(span(&tree.Break{Label: l.text(l.childOfKind(n, "identifier"))}, n))
	case "continue_statement":
		return one(span(&tree.Continue{Label: l.text(l.childOfKind(n, "identifier"))}, n))
	case "assert_statement":
		a := span(&tree.Assert{}, n)
		exprs := l.named(n)
		if len(exprs) > 0 {
			a.Cond = l.expr(exprs[0])
		}
		if len(exprs) > 1 {
			a.Detail = l.expr(exprs[1])
		}
		return one(a)
	case "explicit_constructor_invocation":
		return one(span(&tree.Exec{Expr: l.constructorCall(n)}, n))
	case "ERROR":
		return one(l.erroneous(n))
	}
	if class := l.typeDecl(n); class != nil {
		return one(class)
	}
	return one(l.unsupported(n, n.Kind()))
}

func (l *lowerer) firstExpr(n *tree_sitter.Node) tree.Expr {
	if exprs := l.named(n); len(exprs) > 0 {
		return l.expr(exprs[0])
	}
	return nil
}

func (l *lowerer) forLoop(n *tree_sitter.Node) *tree.ForLoop {
	loop := span(&tree.ForLoop{}, n)
	for _, c := range l.fieldChildren(n, "init") {
		if c.Kind() == "local_variable_declaration" {
			for _, v := range l.varDecls(c) {
				loop.Init = append(loop.Init, v)
			}
			continue
		}
		loop.Init = append(loop.Init, span(&tree.Exec{Expr: l.expr(c)}, c))
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		loop.Cond = l.expr(cond)
	}
	for _, c := range l.fieldChildren(n, "update") {
		loop.Step = append(loop.Step, span(&tree.Exec{Expr: l.expr(c)}, c))
	}
	loop.Body = l.single(n.ChildByFieldName("body"))
	return loop
}

func (l *lowerer) foreachLoop(n *tree_sitter.Node) *tree.ForeachLoop {
	typ := n.ChildByFieldName("type")
	name := n.ChildByFieldName("name")
	v := span(&tree.VarDef{
		Mods:    l.modifiers(n),
		Name:    l.text(name),
		VarType: l.dims(l.typ(typ), n.ChildByFieldName("dimensions")),
	}, n)
	if typ != nil && name != nil {
		v.SetSpan(int(typ.StartByte()), int(name.EndByte()))
	}
	return span(&tree.ForeachLoop{
		Var:  v,
		Expr: l.expr(n.ChildByFieldName("value")),
		Body: l.single(n.ChildByFieldName("body")),
	}, n)
}

// cases lowers a switch block. Each label opens a case; statements after
// it belong to the case of the last label. Rule bodies that are plain
// expressions become yields in switch expressions.
func (l *lowerer) cases(n *tree_sitter.Node, isExpr bool) []*tree.Case {
	var out []*tree.Case
	for _, c := range l.named(n) {
		switch c.Kind() {
		case "switch_block_statement_group":
			var cur *tree.Case
			for _, part := range l.children(c) {
				switch {
				case part.Kind() == "switch_label":
					cur = l.caseLabel(part)
					out = append(out, cur)
				case cur != nil && (part.IsNamed() || part.Kind() == ";"):
					cur.Stats = append(cur.Stats, l.stmt(part)...)
					cur.SetSpan(cur.Pos(), int(part.EndByte()))
				}
			}
		case "switch_rule":
			var cur *tree.Case
			for _, part := range l.named(c) {
				if part.Kind() == "switch_label" {
					cur = l.caseLabel(part)
					cur.Rule = true
					continue
				}
				if cur == nil {
					continue
				}
				if isExpr && part.Kind() == "expression_statement" {
					cur.Stats = append(cur.Stats, span(&tree.Yield{Value: l.firstExpr(part)}, part))
				} else {
					cur.Stats = append(cur.Stats, l.stmt(part)...)
				}
			}
			if cur != nil {
				out = append(out, span(cur, c))
			}
		case "ERROR":
			log.Debugf("%s: skipping malformed switch entry at %d", l.file.Name, c.StartByte())
		}
	}
	return out
}

func (l *lowerer) caseLabel(n *tree_sitter.Node) *tree.Case {
	cs := span(&tree.Case{}, n)
	for _, c := range l.named(n) {
		switch c.Kind() {
		case "guard":
			// guards are not modeled
		case "pattern":
			cs.Labels = append(cs.Labels, l.pattern(c))
		default:
			cs.Labels = append(cs.Labels, l.expr(c))
		}
	}
	return cs
}

// pattern lowers a type or record pattern to the type it tests for.
func (l *lowerer) pattern(n *tree_sitter.Node) tree.Expr {
	parts := l.named(n)
	if len(parts) == 0 {
		return l.erroneous(n)
	}
	p := parts[0]
	switch p.Kind() {
	case "type_pattern", "record_pattern":
		inner := l.named(p)
		if len(inner) == 0 {
			return l.erroneous(p)
		}
		return l.typ(inner[0])
	}
	return l.typ(p)
}

func (l *lowerer) try(n *tree_sitter.Node) *tree.Try {
	t := span(&tree.Try{Body: l.block(n.ChildByFieldName("body"))}, n)
	if res := n.ChildByFieldName("resources"); res != nil {
		for _, r := range l.named(res) {
			t.Resources = append(t.Resources, l.resource(r))
		}
	}
	for _, c := range l.named(n) {
		switch c.Kind() {
		case "catch_clause":
			t.Catchers = append(t.Catchers, l.catch(c))
		case "finally_clause":
			t.Finalizer = l.block(l.childOfKind(c, "block"))
		}
	}
	return t
}

func (l *lowerer) resource(n *tree_sitter.Node) tree.Node {
	if typ := n.ChildByFieldName("type"); typ != nil {
		v := span(&tree.VarDef{
			Mods:    l.modifiers(n),
			Name:    l.text(n.ChildByFieldName("name")),
			VarType: l.dims(l.typ(typ), n.ChildByFieldName("dimensions")),
		}, n)
		if init := n.ChildByFieldName("value"); init != nil {
			v.Init = l.expr(init)
		}
		return v
	}
	for _, c := range l.named(n) {
		if c.Kind() != "modifiers" {
			return l.expr(c)
		}
	}
	return l.erroneous(n)
}

// catch lowers a catch clause. A union type "A | B" keeps its first
// alternative.
func (l *lowerer) catch(n *tree_sitter.Node) *tree.Catch {
	c := span(&tree.Catch{Body: l.block(n.ChildByFieldName("body"))}, n)
	param := l.childOfKind(n, "catch_formal_parameter")
	if param == nil {
		return c
	}
	v := span(&tree.VarDef{
		Mods: l.modifiers(param),
		Name: l.text(param.ChildByFieldName("name")),
	}, param)
	if types := l.childOfKind(param, "catch_type"); types != nil {
		if alts := l.named(types); len(alts) > 0 {
			v.VarType = l.typ(alts[0])
		}
	}
	c.Param = v
	return c
}

// constructorCall lowers this(...) and super(...) in a constructor body.
func (l *lowerer) constructorCall(n *tree_sitter.Node) *tree.MethodInvocation {
	ctor := n.ChildByFieldName("constructor")
	var meth tree.Expr = span(&tree.Ident{Name: ctor.Kind()}, ctor)
	if obj := n.ChildByFieldName("object"); obj != nil {
		meth = tree.At(&tree.FieldAccess{Selected: l.expr(obj), Name: ctor.Kind()}, int(obj.StartByte()), int(ctor.EndByte()))
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
