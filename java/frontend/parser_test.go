package frontend

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/dhamidi/javafront/java/diag"
	"github.com/dhamidi/javafront/java/source"
	"github.com/dhamidi/javafront/java/tree"
)

func parse(t *testing.T, text string) *tree.CompilationUnit {
	t.Helper()
	unit, diags, err := ParseString("Test.java", text)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(diags), "unexpected diagnostics: %v", diags)
	return unit
}

func firstClass(t *testing.T, unit *tree.CompilationUnit) *tree.ClassDef {
	t.Helper()
	classes := unit.TypeDecls()
	assert.NotEqual(t, 0, len(classes))
	return classes[0]
}

func firstMethod(t *testing.T, class *tree.ClassDef) *tree.MethodDef {
	t.Helper()
	for _, d := range class.Defs {
		if m, ok := d.(*tree.MethodDef); ok {
			return m
		}
	}
	t.Fatalf("class %s has no methods", class.Name)
	return nil
}

func TestParseEndToEndOrder(t *testing.T) {
	unit := parse(t, "class C { void m() { if (a) b; } }")

	var order []string
	s := tree.NewScanner().OnAny(func(s *tree.Scanner, n tree.Node) {
		entry := n.Kind().String()
		if id, ok := n.(*tree.Ident); ok {
			entry += " " + id.Name
		}
		order = append(order, entry)
		s.Default(n)
	})
	assert.NoError(t, tree.Walk(unit, s))
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

func TestParseOutline(t *testing.T) {
	unit, _, err := ParseString("C.java", "class C { void m() { if (a) b; } }")
	assert.NoError(t, err)
	want := `CompilationUnit [0-34] C.java
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
	got := tree.Outline(unit, true)
	if got != want {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		t.Errorf("outline mismatch:\n%s", diff)
	}
}

func TestParsePackageAndImports(t *testing.T) {
	unit := parse(t, `package com.example.app;

import java.util.List;
import java.util.*;
import static java.lang.Math.max;

public class App {}
`)
	assert.Equal(t, "com.example.app", unit.PackageName())
	imports := unit.Imports()
	assert.Equal(t, 3, len(imports))

	var names []string
	for _, imp := range imports {
		names = append(names, tree.Detail(imp))
	}
	assert.Equal(t, []string{"java.util.List", "java.util.*", "static java.lang.Math.max"}, names)
	assert.False(t, imports[0].IsStar())
	assert.True(t, imports[1].IsStar())

	app := firstClass(t, unit)
	assert.Equal(t, "App", app.Name)
	assert.Equal(t, "public", app.Mods.Flags.String())
}

func TestParseDeclarations(t *testing.T) {
	unit := parse(t, `class Box<T extends Comparable<T>> extends Base implements Runnable, java.io.Serializable {
	private static final int LIMIT = 10, OTHER;
	int[] values;
	Box(T first) { super(); }
	<R> R map(java.util.function.Function<? super T, R> f, String... rest) throws Exception { return null; }
	static { init(); }
}
`)
	box := firstClass(t, unit)
	assert.Equal(t, "Box", box.Name)
	assert.Equal(t, 1, len(box.TypeParams))
	assert.Equal(t, "T", box.TypeParams[0].Name)
	assert.Equal(t, "Base", tree.QualifiedName(box.Extending))
	assert.Equal(t, 2, len(box.Implementing))
	assert.Equal(t, "java.io.Serializable", tree.QualifiedName(box.Implementing[1]))

	var kinds []string
	for _, d := range box.Defs {
		kinds = append(kinds, d.Kind().String()+" "+tree.NameOf(d))
	}
	assert.Equal(t, []string{
		"VarDef LIMIT",
		"VarDef OTHER",
		"VarDef values",
		"MethodDef <init>",
		"MethodDef map",
		"Block ",
	}, kinds)

	limit := box.Defs[0].(*tree.VarDef)
	other := box.Defs[1].(*tree.VarDef)
	assert.Equal(t, "private static final", limit.Mods.Flags.String())
	assert.True(t, limit.Mods != other.Mods, "declarators must not share modifiers")
	assert.Equal(t, "10", limit.Init.(*tree.Literal).Value)
	assert.Zero(t, other.Init)

	values := box.Defs[2].(*tree.VarDef)
	_, isArray := values.VarType.(*tree.ArrayType)
	assert.True(t, isArray)

	ctor := box.Defs[3].(*tree.MethodDef)
	assert.True(t, ctor.IsConstructor())
	assert.Zero(t, ctor.ResType)
	call := ctor.Body.Stats[0].(*tree.Exec).Expr.(*tree.MethodInvocation)
	assert.Equal(t, "super", tree.NameOf(call.Meth))

	m := box.Defs[4].(*tree.MethodDef)
	assert.Equal(t, 1, len(m.TypeParams))
	assert.Equal(t, 2, len(m.Params))
	assert.Equal(t, "rest", m.Params[1].Name)
	_, isSpread := m.Params[1].VarType.(*tree.ArrayType)
	assert.True(t, isSpread)
	assert.Equal(t, 1, len(m.Thrown))
	fn := m.Params[0].VarType.(*tree.TypeApply)
	assert.Equal(t, "java.util.function.Function", tree.QualifiedName(fn.Clazz))
	wc := fn.Arguments[0].(*tree.Wildcard)
	assert.Equal(t, tree.BoundSuper, wc.Bound.BoundKind)

	static := box.Defs[5].(*tree.Block)
	assert.True(t, static.Static)
}

func TestParseEnum(t *testing.T) {
	unit := parse(t, `enum Color {
	RED,
	GREEN(2) { void f() {} };
	int weight;
}
`)
	color := firstClass(t, unit)
	assert.Equal(t, tree.ClassKindEnum, color.ClassKind)
	assert.Equal(t, 3, len(color.Defs))

	red := color.Defs[0].(*tree.VarDef)
	assert.Equal(t, "RED", red.Name)
	assert.True(t, red.Mods.Flags&tree.FlagEnum != 0)
	assert.Equal(t, "public static final", red.Mods.Flags.String())
	assert.Equal(t, "Color", tree.QualifiedName(red.VarType))
	assert.Zero(t, red.Init.(*tree.NewClass).Def)

	green := color.Defs[1].(*tree.VarDef)
	init := green.Init.(*tree.NewClass)
	assert.Equal(t, 1, len(init.Args))
	assert.NotZero(t, init.Def)
	assert.Equal(t, "f", firstMethod(t, init.Def).Name)

	weight := color.Defs[2].(*tree.VarDef)
	assert.Zero(t, weight.Mods)
}

func TestParseRecord(t *testing.T) {
	unit := parse(t, "record Point(int x, int y) { Point { check(); } }")
	point := firstClass(t, unit)
	assert.Equal(t, tree.ClassKindRecord, point.ClassKind)

	var names []string
	for _, d := range point.Defs {
		names = append(names, tree.NameOf(d))
		if v, ok := d.(*tree.VarDef); ok {
			assert.Equal(t, "private final", v.Mods.Flags.String())
		}
	}
	assert.Equal(t, []string{"x", "y", "<init>"}, names)
}

func TestParseSwitch(t *testing.T) {
	unit := parse(t, `class S {
	int f(int k) {
		switch (k) {
		case 1:
		case 2:
			k++;
			break;
		default:
			k = 0;
		}
		return switch (k) {
			case 1, 2 -> 10;
			default -> { yield 0; }
		};
	}
}
`)
	f := firstMethod(t, firstClass(t, unit))
	sw := f.Body.Stats[0].(*tree.Switch)
	assert.Equal(t, 3, len(sw.Cases))
	assert.Equal(t, 0, len(sw.Cases[0].Stats))
	assert.Equal(t, 2, len(sw.Cases[1].Stats))
	assert.True(t, sw.Cases[2].IsDefault())
	assert.False(t, sw.Cases[0].Rule)

	ret := f.Body.Stats[1].(*tree.Return)
	se := ret.Expr.(*tree.SwitchExpression)
	assert.Equal(t, 2, len(se.Cases))
	assert.True(t, se.Cases[0].Rule)
	assert.Equal(t, 2, len(se.Cases[0].Labels))
	yield := se.Cases[0].Stats[0].(*tree.Yield)
	assert.Equal(t, "10", yield.Value.(*tree.Literal).Value)
	assert.True(t, se.Cases[1].IsDefault())
	_, isBlock := se.Cases[1].Stats[0].(*tree.Block)
	assert.True(t, isBlock)
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		expr string
		kind tree.Kind
	}{
		{"a = b", tree.KindAssign},
		{"a += 1", tree.KindAssignOp},
		{"a + b * c", tree.KindBinary},
		{"-a", tree.KindUnary},
		{"a++", tree.KindUnary},
		{"a ? b : c", tree.KindConditional},
		{"(String) o", tree.KindTypeCast},
		{"o instanceof String", tree.KindInstanceOf},
		{"x -> x + 1", tree.KindLambda},
		{"(int x, int y) -> { return x; }", tree.KindLambda},
		{"String::valueOf", tree.KindMemberReference},
		{"ArrayList::new", tree.KindMemberReference},
		{"list.get(0)", tree.KindMethodInvocation},
		{"new Object()", tree.KindNewClass},
		{"new int[3][]", tree.KindNewArray},
		{"arr[0]", tree.KindArrayAccess},
		{"this.x", tree.KindFieldAccess},
		{"String.class", tree.KindFieldAccess},
		{"42L", tree.KindLiteral},
		{"null", tree.KindLiteral},
	}
	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			unit := parse(t, "class E { Object v = "+test.expr+"; }")
			v := firstClass(t, unit).Defs[0].(*tree.VarDef)
			assert.Equal(t, test.kind, v.Init.Kind())
		})
	}
}

func TestParseLiteralKinds(t *testing.T) {
	tests := []struct {
		text string
		kind tree.LiteralKind
	}{
		{"1", tree.LitInt},
		{"0x1FL", tree.LitLong},
		{"1.5", tree.LitDouble},
		{"1.5f", tree.LitFloat},
		{"'c'", tree.LitChar},
		{`"s"`, tree.LitString},
		{"true", tree.LitBool},
		{"null", tree.LitNull},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			unit := parse(t, "class L { Object v = "+test.text+"; }")
			lit := firstClass(t, unit).Defs[0].(*tree.VarDef).Init.(*tree.Literal)
			assert.Equal(t, test.kind, lit.LitKind)
			assert.Equal(t, test.text, lit.Value)
		})
	}
}

func TestParseArrayCreation(t *testing.T) {
	unit := parse(t, `class A {
	int[][] a = new int[3][];
	int[] b = new int[] {1, 2};
}
`)
	defs := firstClass(t, unit).Defs
	a := defs[0].(*tree.VarDef).Init.(*tree.NewArray)
	assert.Equal(t, 1, len(a.Dims))
	_, elemIsArray := a.ElemType.(*tree.ArrayType)
	assert.True(t, elemIsArray)

	b := defs[1].(*tree.VarDef).Init.(*tree.NewArray)
	assert.Equal(t, 0, len(b.Dims))
	assert.Equal(t, 2, len(b.Elems))
	assert.Equal(t, tree.KindPrimitiveType, b.ElemType.Kind())
}

func TestParseSyntaxErrorsAreReported(t *testing.T) {
	unit, diags, err := ParseString("Broken.java", "class A {}\n}\nclass B {}\n")
	assert.NoError(t, err)
	assert.NotEqual(t, 0, len(diags))
	for _, d := range diags {
		assert.Equal(t, diag.Error, d.Kind)
		assert.Equal(t, "Broken.java", d.Source.Name)
		assert.True(t, d.Line >= 1)
	}
	assert.Equal(t, "A", firstClass(t, unit).Name)
}

func TestParseWithChecks(t *testing.T) {
	src := source.New("Checked.java", []byte(`class Checked {
	Runnable r = () -> {};
	Object o = new Object() { public String toString() { return "x"; } };
	void loop(java.util.List<String> xs) {
		for (int i = 0, j = 1; i < j; i++, j--) {}
		for (String x : xs) { continue; }
		outer: while (true) { break outer; }
		do { } while (false);
		try (java.io.Reader in = open()) { } catch (IllegalStateException | IllegalArgumentException e) { } finally { }
		synchronized (this) { assert xs != null : "xs"; }
		throw new RuntimeException();
	}
}
`))
	var c diag.Collector
	unit, err := Parse(context.Background(), src, &c, WithChecks(true))
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Count(diag.Error))
	assert.Equal(t, "Checked.java", unit.File)

	counts := tree.Count(unit)
	assert.Equal(t, 2, counts[tree.KindClassDef])
	assert.Equal(t, 1, counts[tree.KindForLoop])
	assert.Equal(t, 1, counts[tree.KindForeachLoop])
	assert.Equal(t, 1, counts[tree.KindLabelled])
	assert.Equal(t, 1, counts[tree.KindDoLoop])
	assert.Equal(t, 1, counts[tree.KindTry])
	assert.Equal(t, 1, counts[tree.KindCatch])
	assert.Equal(t, 1, counts[tree.KindSynchronized])
	assert.Equal(t, 1, counts[tree.KindAssert])
	assert.Equal(t, 1, counts[tree.KindThrow])
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, source.New("X.java", []byte("class X {}")), nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseEmptySource(t *testing.T) {
	unit := parse(t, "")
	assert.Equal(t, 0, len(unit.Defs))
	assert.Equal(t, 0, unit.End())
}
