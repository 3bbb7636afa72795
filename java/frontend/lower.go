package frontend

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dhamidi/javafront/java/diag"
	"github.com/dhamidi/javafront/java/source"
	"github.com/dhamidi/javafront/java/tree"
)

type lowerer struct {
	src      []byte
	file     *source.File
	listener diag.Listener
	opts     options
	errors   int
}

func span[N tree.Node](n N, c *tree_sitter.Node) N {
	return tree.At(n, int(c.StartByte()), int(c.EndByte()))
}

func (l *lowerer) text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(l.src)
}

func isComment(n *tree_sitter.Node) bool {
	k := n.Kind()
	return k == "line_comment" || k == "block_comment"
}

// named returns the named children of n, comments excluded.
func (l *lowerer) named(n *tree_sitter.Node) []*tree_sitter.Node {
	if n == nil {
		return nil
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c != nil && !isComment(c) {
			out = append(out, c)
		}
	}
	return out
}

// children returns every child of n, comments excluded.
func (l *lowerer) children(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && !isComment(c) {
			out = append(out, c)
		}
	}
	return out
}

// fieldChildren returns the children of n stored under field name.
func (l *lowerer) fieldChildren(n *tree_sitter.Node, name string) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.FieldNameForChild(uint32(i)) == name {
			out = append(out, n.Child(i))
		}
	}
	return out
}

// unfielded returns the named children of n that are not stored under a
// field.
func (l *lowerer) unfielded(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || !c.IsNamed() || isComment(c) {
			continue
		}
		if n.FieldNameForChild(uint32(i)) == "" {
			out = append(out, c)
		}
	}
	return out
}

func (l *lowerer) childOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for _, c := range l.named(n) {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func (l *lowerer) hasToken(n *tree_sitter.Node, token string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil && !c.IsNamed() && c.Kind() == token {
			return true
		}
	}
	return false
}

// erroneous stands in for a syntax error tree-sitter already flagged.
func (l *lowerer) erroneous(n *tree_sitter.Node) *tree.Erroneous {
	return span(&tree.Erroneous{Message: "syntax error"}, n)
}

// unsupported reports syntax the node model has no kind for.
func (l *lowerer) unsupported(n *tree_sitter.Node, what string) *tree.Erroneous {
	msg := what + " not supported"
	l.report(n, "compiler.err.unsupported", msg)
	return span(&tree.Erroneous{Message: msg}, n)
}

func (l *lowerer) unit(n *tree_sitter.Node) *tree.CompilationUnit {
	cu := &tree.CompilationUnit{}
	for _, c := range l.named(n) {
		switch c.Kind() {
		case "package_declaration":
			for _, pc := range l.named(c) {
				switch pc.Kind() {
				case "annotation", "marker_annotation":
					cu.PackageAnnotations = append(cu.PackageAnnotations, l.annotation(pc))
				default:
					cu.Pid = l.name(pc)
				}
			}
		case "import_declaration":
			cu.Defs = append(cu.Defs, l.importDecl(c))
		case "module_declaration":
			log.Debugf("%s: module declaration skipped", l.file.Name)
		case "ERROR":
			cu.Defs = append(cu.Defs, l.erroneous(c))
		default:
			if class := l.typeDecl(c); class != nil {
				cu.Defs = append(cu.Defs, class)
				continue
			}
			l.report(c, "compiler.err.expected4", "class, interface, enum, or record expected")
			cu.Defs = append(cu.Defs, span(&tree.Erroneous{Message: "class, interface, enum, or record expected"}, c))
		}
	}
	return tree.At(cu, 0, len(l.src))
}

func (l *lowerer) importDecl(n *tree_sitter.Node) *tree.Import {
	imp := span(&tree.Import{}, n)
	for _, c := range l.children(n) {
		switch c.Kind() {
		case "static":
			imp.Static = true
		case "identifier", "scoped_identifier":
			imp.Qualid = l.name(c)
		case "asterisk":
			star := &tree.FieldAccess{Selected: imp.Qualid, Name: "*"}
			start := int(c.StartByte())
			if imp.Qualid != nil {
				start = imp.Qualid.Pos()
			}
			imp.Qualid = tree.At(star, start, int(c.EndByte()))
		}
	}
	return imp
}

// name lowers a possibly qualified name.
func (l *lowerer) name(n *tree_sitter.Node) tree.Expr {
	switch n.Kind() {
	case "identifier", "type_identifier":
		return span(&tree.Ident{Name: l.text(n)}, n)
	case "scoped_identifier":
		return span(&tree.FieldAccess{
			Selected: l.name(n.ChildByFieldName("scope")),
			Name:     l.text(n.ChildByFieldName("name")),
		}, n)
	}
	return l.expr(n)
}

// modifiers collects the modifiers of a declaration, or nil if it has
// none. Annotations that tree-sitter attaches to the declaration itself
// are folded in.
func (l *lowerer) modifiers(decl *tree_sitter.Node) *tree.Modifiers {
	var mods *tree.Modifiers
	for _, c := range l.named(decl) {
		switch c.Kind() {
		case "modifiers":
			if mods == nil {
				mods = span(&tree.Modifiers{}, c)
			}
			for _, m := range l.children(c) {
				switch m.Kind() {
				case "annotation", "marker_annotation":
					mods.Annotations = append(mods.Annotations, l.annotation(m))
				default:
					if f, ok := tree.FlagByName(m.Kind()); ok {
						mods.Flags |= f
					}
				}
			}
		case "annotation", "marker_annotation":
			if decl.Kind() != "method_declaration" {
				continue
			}
			if mods == nil {
				mods = span(&tree.Modifiers{}, c)
			}
			mods.Annotations = append(mods.Annotations, l.annotation(c))
		}
	}
	return mods
}

// withFlags returns mods with flags added, creating it at n if needed.
func withFlags(mods *tree.Modifiers, flags tree.Flags, n *tree_sitter.Node) *tree.Modifiers {
	if mods == nil {
		start := int(n.StartByte())
		mods = tree.At(&tree.Modifiers{}, start, start)
	}
	mods.Flags |= flags
	return mods
}

func (l *lowerer) typeDecl(n *tree_sitter.Node) *tree.ClassDef {
	switch n.Kind() {
	case "class_declaration":
		return l.classDecl(n, tree.ClassKindClass)
	case "interface_declaration":
		return l.classDecl(n, tree.ClassKindInterface)
	case "enum_declaration":
		return l.classDecl(n, tree.ClassKindEnum)
	case "record_declaration":
		return l.classDecl(n, tree.ClassKindRecord)
	case "annotation_type_declaration":
		return l.classDecl(n, tree.ClassKindAnnotation)
	}
	return nil
}

func (l *lowerer) classDecl(n *tree_sitter.Node, kind tree.ClassKind) *tree.ClassDef {
	cd := span(&tree.ClassDef{
		ClassKind: kind,
		Mods:      l.modifiers(n),
		Name:      l.text(n.ChildByFieldName("name")),
	}, n)
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		cd.TypeParams = l.typeParams(tp)
	}
	if sc := n.ChildByFieldName("superclass"); sc != nil {
		if t := l.named(sc); len(t) > 0 {
			cd.Extending = l.typ(t[0])
		}
	}
	if si := n.ChildByFieldName("interfaces"); si != nil {
		cd.Implementing = l.typeList(si)
	}
	if ext := l.childOfKind(n, "extends_interfaces"); ext != nil {
		cd.Implementing = append(cd.Implementing, l.typeList(ext)...)
	}
	if kind == tree.ClassKindRecord {
		for _, p := range l.params(n.ChildByFieldName("parameters")) {
			p.Mods = withFlags(p.Mods, tree.FlagPrivate|tree.FlagFinal, n)
			cd.Defs = append(cd.Defs, p)
		}
	}
	cd.Defs = append(cd.Defs, l.classBody(n.ChildByFieldName("body"), cd)...)
	return cd
}

// typeList lowers the types of a super_interfaces, extends_interfaces or
// permits clause.
func (l *lowerer) typeList(n *tree_sitter.Node) []tree.Expr {
	list := l.childOfKind(n, "type_list")
	if list == nil {
		return nil
	}
	var out []tree.Expr
	for _, t := range l.named(list) {
		out = append(out, l.typ(t))
	}
	return out
}

func (l *lowerer) classBody(body *tree_sitter.Node, owner *tree.ClassDef) []tree.Node {
	var defs []tree.Node
	for _, c := range l.named(body) {
		switch c.Kind() {
		case "field_declaration", "constant_declaration":
			for _, v := range l.varDecls(c) {
				defs = append(defs, v)
			}
		case "method_declaration":
			defs = append(defs, l.methodDecl(c))
		case "constructor_declaration", "compact_constructor_declaration":
			defs = append(defs, l.constructorDecl(c))
		case "annotation_type_element_declaration":
			defs = append(defs, l.elementDecl(c))
		case "block":
			defs = append(defs, l.block(c))
		case "static_initializer":
			b := l.block(l.childOfKind(c, "block"))
			b.Static = true
			defs = append(defs, tree.At(b, int(c.StartByte()), int(c.EndByte())))
		case "enum_constant":
			defs = append(defs, l.enumConstant(c, owner))
		case "enum_body_declarations":
			defs = append(defs, l.classBody(c, owner)...)
		case "ERROR":
			defs = append(defs, l.erroneous(c))
		default:
			if class := l.typeDecl(c); class != nil {
				defs = append(defs, class)
				continue
			}
			defs = append(defs, l.unsupported(c, c.Kind()))
		}
	}
	return defs
}

// enumConstant lowers "NAME(args) { body }" to the field declaration
// "public static final Owner NAME = new Owner(args) { body }".
func (l *lowerer) enumConstant(n *tree_sitter.Node, owner *tree.ClassDef) *tree.VarDef {
	nameNode := n.ChildByFieldName("name")
	mods := withFlags(l.modifiers(n), tree.FlagPublic|tree.FlagStatic|tree.FlagFinal|tree.FlagEnum, n)
	init := span(&tree.NewClass{
		Clazz: span(&tree.Ident{Name: owner.Name}, nameNode),
		Args:  l.args(n.ChildByFieldName("arguments")),
	}, n)
	if body := n.ChildByFieldName("body"); body != nil {
		anon := span(&tree.ClassDef{ClassKind: tree.ClassKindClass}, body)
		anon.Defs = l.classBody(body, anon)
		init.Def = anon
	}
	return span(&tree.VarDef{
		Mods:    mods,
		Name:    l.text(nameNode),
		VarType: span(&tree.Ident{Name: owner.Name}, nameNode),
		Init:    init,
	}, n)
}

func (l *lowerer) methodDecl(n *tree_sitter.Node) *tree.MethodDef {
	md := span(&tree.MethodDef{
		Mods:    l.modifiers(n),
		Name:    l.text(n.ChildByFieldName("name")),
		ResType: l.dims(l.typ(n.ChildByFieldName("type")), n.ChildByFieldName("dimensions")),
		Params:  l.params(n.ChildByFieldName("parameters")),
		Thrown:  l.throws(n),
	}, n)
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		md.TypeParams = l.typeParams(tp)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		md.Body = l.block(body)
	}
	return md
}

func (l *lowerer) constructorDecl(n *tree_sitter.Node) *tree.MethodDef {
	md := span(&tree.MethodDef{
		Mods:   l.modifiers(n),
		Name:   tree.ConstructorName,
		Thrown: l.throws(n),
	}, n)
	if p := n.ChildByFieldName("parameters"); p != nil {
		md.Params = l.params(p)
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		md.TypeParams = l.typeParams(tp)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		md.Body = l.block(body)
	}
	return md
}

func (l *lowerer) elementDecl(n *tree_sitter.Node) *tree.MethodDef {
	md := span(&tree.MethodDef{
		Mods:    l.modifiers(n),
		Name:    l.text(n.ChildByFieldName("name")),
		ResType: l.dims(l.typ(n.ChildByFieldName("type")), n.ChildByFieldName("dimensions")),
	}, n)
	if v := n.ChildByFieldName("value"); v != nil {
		md.DefaultValue = l.elementValue(v)
	}
	return md
}

func (l *lowerer) throws(n *tree_sitter.Node) []tree.Expr {
	th := l.childOfKind(n, "throws")
	if th == nil {
		return nil
	}
	var out []tree.Expr
	for _, t := range l.named(th) {
		out = append(out, l.typ(t))
	}
	return out
}

func (l *lowerer) params(n *tree_sitter.Node) []*tree.VarDef {
	if n == nil {
		return nil
	}
	var out []*tree.VarDef
	for _, p := range l.named(n) {
		switch p.Kind() {
		case "formal_parameter":
			out = append(out, span(&tree.VarDef{
				Mods:    l.modifiers(p),
				Name:    l.text(p.ChildByFieldName("name")),
				VarType: l.dims(l.typ(p.ChildByFieldName("type")), p.ChildByFieldName("dimensions")),
			}, p))
		case "spread_parameter":
			out = append(out, l.spreadParam(p))
		case "receiver_parameter":
			// the receiver declares no variable
		default:
			log.Debugf("%s: unexpected parameter kind %s", l.file.Name, p.Kind())
		}
	}
	return out
}

// spreadParam lowers "T... name" to a parameter of type T[].
func (l *lowerer) spreadParam(n *tree_sitter.Node) *tree.VarDef {
	v := span(&tree.VarDef{Mods: l.modifiers(n)}, n)
	for _, c := range l.named(n) {
		switch c.Kind() {
		case "modifiers", "annotation", "marker_annotation":
		case "variable_declarator":
			v.Name = l.text(c.ChildByFieldName("name"))
		default:
			v.VarType = span(&tree.ArrayType{ElemType: l.typ(c)}, c)
		}
	}
	return v
}

// varDecls lowers a field or local variable declaration to one VarDef per
// declarator. Modifiers and type are lowered again for each declarator so
// no node is shared.
func (l *lowerer) varDecls(n *tree_sitter.Node) []*tree.VarDef {
	var out []*tree.VarDef
	for i, d := range l.fieldChildren(n, "declarator") {
		v := &tree.VarDef{
			Mods:    l.modifiers(n),
			Name:    l.text(d.ChildByFieldName("name")),
			VarType: l.dims(l.typ(n.ChildByFieldName("type")), d.ChildByFieldName("dimensions")),
		}
		if init := d.ChildByFieldName("value"); init != nil {
			v.Init = l.expr(init)
		}
		start := int(d.StartByte())
		if i == 0 {
			start = int(n.StartByte())
		}
		out = append(out, tree.At(v, start, int(d.EndByte())))
	}
	return out
}

func (l *lowerer) typeParams(n *tree_sitter.Node) []*tree.TypeParameter {
	var out []*tree.TypeParameter
	for _, p := range l.named(n) {
		if p.Kind() != "type_parameter" {
			continue
		}
		tp := span(&tree.TypeParameter{}, p)
		for _, c := range l.named(p) {
			switch c.Kind() {
			case "type_identifier", "identifier":
				tp.Name = l.text(c)
			case "type_bound":
				for _, b := range l.named(c) {
					tp.Bounds = append(tp.Bounds, l.typ(b))
				}
			}
		}
		out = append(out, tp)
	}
	return out
}

// dims wraps t in one ArrayType per bracket pair of a dimensions node.
func (l *lowerer) dims(t tree.Expr, d *tree_sitter.Node) tree.Expr {
	if d == nil || t == nil {
		return t
	}
	for range strings.Count(l.text(d), "[") {
		t = tree.At(&tree.ArrayType{ElemType: t}, t.Pos(), int(d.EndByte()))
	}
	return t
}

// typ lowers a type. Anything that is not syntactically a type is lowered
// as an expression, which covers names used as types.
func (l *lowerer) typ(n *tree_sitter.Node) tree.Expr {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "type_identifier", "identifier":
		return span(&tree.Ident{Name: l.text(n)}, n)
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		return span(&tree.PrimitiveType{Name: l.text(n)}, n)
	case "scoped_type_identifier":
		var parts []*tree_sitter.Node
		for _, p := range l.named(n) {
			if k := p.Kind(); k != "annotation" && k != "marker_annotation" {
				parts = append(parts, p)
			}
		}
		if len(parts) < 2 {
			return l.erroneous(n)
		}
		return span(&tree.FieldAccess{
			Selected: l.typ(parts[0]),
			Name:     l.text(parts[len(parts)-1]),
		}, n)
	case "generic_type":
		ta := &tree.TypeApply{}
		for _, c := range l.named(n) {
			if c.Kind() == "type_arguments" {
				ta.Arguments = l.typeArgs(c)
			} else {
				ta.Clazz = l.typ(c)
			}
		}
		return span(ta, n)
	case "array_type":
		return l.dims(l.typ(n.ChildByFieldName("element")), n.ChildByFieldName("dimensions"))
	case "annotated_type":
		parts := l.named(n)
		return l.typ(parts[len(parts)-1])
	case "wildcard":
		return l.wildcard(n)
	}
	return l.expr(n)
}

func (l *lowerer) wildcard(n *tree_sitter.Node) *tree.Wildcard {
	w := span(&tree.Wildcard{}, n)
	kind := tree.BoundUnbound
	for _, c := range l.children(n) {
		switch c.Kind() {
		case "?", "annotation", "marker_annotation":
		case "extends":
			kind = tree.BoundExtends
		case "super":
			kind = tree.BoundSuper
		default:
			if c.IsNamed() {
				w.Inner = l.typ(c)
			}
		}
	}
	w.Bound = tree.At(&tree.TypeBoundKind{BoundKind: kind}, w.Pos(), w.Pos()+1)
	return w
}

func (l *lowerer) typeArgs(n *tree_sitter.Node) []tree.Expr {
	var out []tree.Expr
	for _, c := range l.named(n) {
		out = append(out, l.typ(c))
	}
	return out
}

func (l *lowerer) annotation(n *tree_sitter.Node) *tree.Annotation {
	a := span(&tree.Annotation{AnnotationType: l.name(n.ChildByFieldName("name"))}, n)
	args := n.ChildByFieldName("arguments")
	for _, c := range l.named(args) {
		if c.Kind() == "element_value_pair" {
			key := c.ChildByFieldName("key")
			a.Args = append(a.Args, span(&tree.Assign{
				LHS: span(&tree.Ident{Name: l.text(key)}, key),
				RHS: l.elementValue(c.ChildByFieldName("value")),
			}, c))
			continue
		}
		a.Args = append(a.Args, l.elementValue(c))
	}
	return a
}

func (l *lowerer) elementValue(n *tree_sitter.Node) tree.Expr {
	switch n.Kind() {
	case "annotation", "marker_annotation":
		return l.annotation(n)
	case "element_value_array_initializer":
		arr := span(&tree.NewArray{}, n)
		for _, c := range l.named(n) {
			arr.Elems = append(arr.Elems, l.elementValue(c))
		}
		return arr
	}
	return l.expr(n)
}
