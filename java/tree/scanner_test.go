package tree

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/pmezard/go-difflib/difflib"
)

func ident(name string) *Ident { return &Ident{Name: name} }

func lit(v string) *Literal { return &Literal{LitKind: LitInt, Value: v} }

// everyKind builds a unit that contains at least one node of each kind and
// shares no node instance between two parents.
func everyKind() *CompilationUnit {
	method := &MethodDef{
		Mods:    &Modifiers{Flags: FlagPublic},
		ResType: &PrimitiveType{Name: "void"},
		Name:    "run",
		Params:  []*VarDef{{Name: "p", VarType: ident("String")}},
		Thrown:  []Expr{ident("Exception")},
		Body: &Block{Stats: []Stmt{
			&Skip{},
			&DoLoop{Body: &Block{}, Cond: &Literal{LitKind: LitBool, Value: "false"}},
			&WhileLoop{Cond: &Parens{Expr: ident("w")}, Body: &Break{}},
			&ForLoop{
				Init: []Stmt{&VarDef{Name: "i", VarType: &PrimitiveType{Name: "int"}, Init: lit("0")}},
				Cond: &Binary{Op: "<", LHS: ident("i"), RHS: lit("10")},
				Step: []*Exec{{Expr: &Unary{Op: "++", Postfix: true, Arg: ident("i")}}},
				Body: &Continue{},
			},
			&ForeachLoop{Var: &VarDef{Name: "e", VarType: ident("Object")}, Expr: ident("items"), Body: &Skip{}},
			&Labelled{Label: "outer", Body: &Block{}},
			&Switch{Selector: ident("k"), Cases: []*Case{{Labels: []Expr{lit("1")}, Stats: []Stmt{&Break{}}}}},
			&Synchronized{Lock: ident("lock"), Body: &Block{}},
			&Try{
				Body: &Block{},
				Catchers: []*Catch{{
					Param: &VarDef{Name: "ex", VarType: ident("Exception")},
					Body: &Block{Stats: []Stmt{&Throw{Expr: &NewClass{
						Clazz: ident("Error"),
						Args:  []Expr{ident("ex")},
						Def:   &ClassDef{Name: ""},
					}}}},
				}},
				Finalizer: &Block{},
			},
			&If{
				Cond: &InstanceOf{Expr: ident("o"), Clazz: ident("String")},
				Then: &Return{Expr: &Conditional{Cond: ident("c"), TruePart: lit("1"), FalsePart: lit("2")}},
				Else: &Assert{Cond: ident("ok"), Detail: &Literal{LitKind: LitString, Value: `"msg"`}},
			},
			&Exec{Expr: &Assign{
				LHS: ident("x"),
				RHS: &MethodInvocation{
					Meth: &FieldAccess{Selected: ident("obj"), Name: "m"},
					Args: []Expr{&TypeCast{Clazz: ident("T"), Expr: &ArrayAccess{Indexed: ident("arr"), Index: lit("0")}}},
				},
			}},
			&Exec{Expr: &AssignOp{Op: "+=", LHS: ident("x"), RHS: &LetExpr{
				Defs: []*VarDef{{Name: "tmp", Init: lit("1")}},
				Expr: ident("tmp"),
			}}},
			&Exec{Expr: &Lambda{
				Params: []*VarDef{{Name: "a"}},
				Body:   &MemberReference{Expr: ident("System"), Name: "exit"},
			}},
			&VarDef{Name: "y", Init: &SwitchExpression{
				Selector: ident("k"),
				Cases:    []*Case{{Stats: []Stmt{&Yield{Value: lit("3")}}}},
			}},
			&Erroneous{Message: "broken"},
		}},
	}

	class := &ClassDef{
		Mods: &Modifiers{Annotations: []*Annotation{{
			AnnotationType: ident("Deprecated"),
			Args:           []Expr{&Assign{LHS: ident("since"), RHS: &Literal{LitKind: LitString, Value: `"1"`}}},
		}}},
		Name:       "C",
		TypeParams: []*TypeParameter{{Name: "T", Bounds: []Expr{ident("Number")}}},
		Extending: &TypeApply{
			Clazz:     ident("Base"),
			Arguments: []Expr{&Wildcard{Bound: &TypeBoundKind{BoundKind: BoundExtends}, Inner: ident("T")}},
		},
		Implementing: []Expr{ident("Runnable")},
		Defs: []Node{
			&VarDef{
				Name:    "data",
				VarType: &ArrayType{ElemType: &PrimitiveType{Name: "int"}},
				Init:    &NewArray{ElemType: &PrimitiveType{Name: "int"}, Dims: []Expr{lit("4")}},
			},
			method,
		},
	}

	return &CompilationUnit{
		Pid: &FieldAccess{Selected: ident("com"), Name: "example"},
		Defs: []Node{
			&Import{Qualid: &FieldAccess{Selected: ident("java"), Name: "*"}},
			class,
		},
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindCompilationUnit, "CompilationUnit"},
		{KindClassDef, "ClassDef"},
		{KindIf, "If"},
		{KindMethodInvocation, "MethodInvocation"},
		{KindLetExpr, "LetExpr"},
		{Kind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}

	for _, k := range Kinds() {
		back, ok := KindByName(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, back)
	}
}

func TestScanVisitsEveryKind(t *testing.T) {
	root := everyKind()
	seen := make(map[Kind]bool)
	s := NewScanner(WithChecks(true)).OnAny(func(s *Scanner, n Node) {
		seen[n.Kind()] = true
		s.Default(n)
	})

	assert.NoError(t, Walk(root, s))
	for _, k := range Kinds() {
		assert.True(t, seen[k], "kind %s not visited", k)
	}
}

func TestScanVisitsEachNodeOnce(t *testing.T) {
	root := everyKind()
	visits := make(map[Node]int)
	Inspect(root, func(n Node) bool {
		visits[n]++
		return true
	})
	for n, count := range visits {
		assert.Equal(t, 1, count, "%s visited %d times", n.Kind(), count)
	}
	assert.Equal(t, len(visits), len(CollectKinds(root)))
}

func TestScanSkipsAbsentChildren(t *testing.T) {
	var block *Block
	var expr Expr

	s := NewScanner(WithChecks(true))
	s.Scan(nil)
	s.Scan(block)
	s.Scan(expr)
	s.ScanList(nil)
	ScanAll[Stmt](s, nil)

	ifWithoutElse := &If{Cond: ident("a"), Then: &Exec{Expr: ident("b")}}
	assert.Equal(t, []Kind{KindIf, KindIdent, KindExec, KindIdent}, CollectKinds(ifWithoutElse))

	method := &MethodDef{Name: "abstractMethod", ResType: &PrimitiveType{Name: "int"}}
	assert.Equal(t, []Kind{KindMethodDef, KindPrimitiveType}, CollectKinds(method))
}

func TestOverrideSingleKind(t *testing.T) {
	var names []string
	s := NewScanner().On(KindIdent, func(s *Scanner, n Node) {
		names = append(names, n.(*Ident).Name)
	})
	root := &Exec{Expr: &Binary{
		Op:  "+",
		LHS: &MethodInvocation{Meth: ident("f"), Args: []Expr{ident("x"), lit("1")}},
		RHS: &Parens{Expr: ident("y")},
	}}

	assert.NoError(t, Walk(root, s))
	assert.Equal(t, []string{"f", "x", "y"}, names)
}

func TestHandlerCanPruneOrContinue(t *testing.T) {
	root := everyKind()

	methods := 0
	idents := 0
	s := NewScanner().
		On(KindMethodDef, func(s *Scanner, n Node) {
			methods++
		}).
		On(KindIdent, func(s *Scanner, n Node) {
			idents++
		})
	assert.NoError(t, Walk(root, s))
	assert.Equal(t, 1, methods)
	pruned := idents

	idents = 0
	s.On(KindMethodDef, func(s *Scanner, n Node) {
		s.Default(n)
	})
	assert.NoError(t, Walk(root, s))
	assert.True(t, idents > pruned)
}

type bogus struct{ base }

func (*bogus) Kind() Kind { return Kind(999) }

func TestUnknownNodeIsFatal(t *testing.T) {
	root := &ClassDef{Name: "C", Defs: []Node{&bogus{}}}

	err := Walk(root, NewScanner())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))

	var ie *InvariantError
	assert.True(t, errors.As(err, &ie))
	assert.Contains(t, ie.Error(), "unhandled node kind Unknown")

	assert.Panics(t, func() { NewScanner().Scan(root) })

	var visited int
	quiet := NewScanner().OnAny(func(s *Scanner, n Node) { visited++ })
	err = Walk(&bogus{}, quiet)
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.Equal(t, 0, visited)
}

func TestChecksDetectSharedNode(t *testing.T) {
	shared := ident("x")
	root := &Binary{Op: "+", LHS: shared, RHS: shared}

	assert.NoError(t, Walk(root, NewScanner()))
	err := Walk(root, NewScanner(WithChecks(true)))
	assert.True(t, errors.Is(err, ErrInvariant))

	// a Walk starts a new pass
	s := NewScanner(WithChecks(true))
	tree := &Binary{Op: "+", LHS: ident("a"), RHS: ident("b")}
	assert.NoError(t, Walk(tree, s))
	assert.NoError(t, Walk(tree, s))
}

func TestOnInvalidKindPanics(t *testing.T) {
	assert.Panics(t, func() { NewScanner().On(Kind(-1), nil) })
}

// endToEnd is the tree of "class C { void m() { if (a) b; } }".
func endToEnd() *CompilationUnit {
	cond := At(&Parens{Expr: At(ident("a"), 25, 26)}, 24, 27)
	then := At(&Exec{Expr: At(ident("b"), 28, 29)}, 28, 30)
	body := At(&Block{Stats: []Stmt{At(&If{Cond: cond, Then: then}, 21, 30)}}, 19, 32)
	method := At(&MethodDef{Name: "m", ResType: At(&PrimitiveType{Name: "void"}, 10, 14), Body: body}, 10, 32)
	class := At(&ClassDef{Name: "C", Defs: []Node{method}}, 0, 34)
	return At(&CompilationUnit{Defs: []Node{class}}, 0, 34)
}

func TestEndToEndOrder(t *testing.T) {
	var order []string
	s := NewScanner().OnAny(func(s *Scanner, n Node) {
		entry := n.Kind().String()
		if id, ok := n.(*Ident); ok {
			entry += " " + id.Name
		}
		order = append(order, entry)
		s.Default(n)
	})
	assert.NoError(t, Walk(endToEnd(), s))
	assert.Equal(t, []string{
		"CompilationUnit",
		"ClassDef",
		"MethodDef",
		"PrimitiveType",
		"Block",
		"If",
		"Parens",
		"Ident a",
		"Exec",
		"Ident b",
	}, order)
}

func TestPathTo(t *testing.T) {
	root := endToEnd()
	var kinds []Kind
	for _, n := range PathTo(root, 25) {
		kinds = append(kinds, n.Kind())
	}
	assert.Equal(t, []Kind{
		KindCompilationUnit, KindClassDef, KindMethodDef, KindBlock, KindIf, KindParens, KindIdent,
	}, kinds)

	assert.Equal(t, Node(root.Defs[0].(*ClassDef).Defs[0]), Innermost(root, 28, KindMethodDef, KindClassDef))
	assert.Zero(t, Innermost(root, 28, KindLambda))
}

func TestOutline(t *testing.T) {
	want := `CompilationUnit [0-34]
  ClassDef [0-34] class C
    MethodDef [10-32] m
      PrimitiveType [10-14] void
      Block [19-32]
        If [21-30]
          Parens [24-27]
            Ident [25-26] a
          Exec [28-30]
            Ident [28-29] b
`
	got := Outline(endToEnd(), true)
	if got != want {
		t.Errorf("outline mismatch:\n%s", unifiedDiff(want, got))
	}
}

func TestCountAndQualifiedName(t *testing.T) {
	root := everyKind()
	counts := Count(root)
	assert.Equal(t, 1, counts[KindCompilationUnit])
	assert.Equal(t, 2, counts[KindClassDef])
	assert.Equal(t, "com.example", root.PackageName())
	assert.True(t, root.Imports()[0].IsStar())
	assert.Equal(t, "C", root.TypeDecls()[0].Name)
	assert.Equal(t, "public static final", (FlagFinal | FlagStatic | FlagPublic).String())
}

func unifiedDiff(want, got string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}
