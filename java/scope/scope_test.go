package scope

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/dhamidi/javafront/java/symbol"
	"github.com/dhamidi/javafront/java/tree"
)

type fixture struct {
	unit   *tree.CompilationUnit
	root   *Env
	class  *Env
	method *Env
	block  *Env
}

func newFixture() *fixture {
	pkg := &symbol.Symbol{Kind: symbol.KindPackage, Name: "app", Pos: -1}
	unit := &tree.CompilationUnit{File: "C.java", Package: pkg}
	f := &fixture{unit: unit, root: NewTopLevel(unit)}

	unit.NamedImports.Enter(symbol.New(symbol.KindClass, "List", nil, -1))
	unit.StarImports.Enter(symbol.New(symbol.KindClass, "Map", nil, -1))
	unit.StarImports.Enter(symbol.New(symbol.KindClass, "List", nil, -1))

	classSym := symbol.New(symbol.KindClass, "C", pkg, 0)
	class := &tree.ClassDef{Name: "C", Sym: classSym}
	f.class = f.root.Dup(class, nil)
	f.class.Info.Enter(symbol.New(symbol.KindField, "count", classSym, 10))
	f.class.Info.Enter(symbol.New(symbol.KindMethod, "m", classSym, 20))

	methodSym := symbol.New(symbol.KindMethod, "m", classSym, 20)
	method := &tree.MethodDef{Name: "m", Sym: methodSym}
	f.method = f.class.Dup(method, nil)
	f.method.Info.Enter(symbol.New(symbol.KindParameter, "count", methodSym, 27))

	f.block = f.method.Dup(&tree.Block{}, nil)
	return f
}

func TestChainTerminates(t *testing.T) {
	f := newFixture()

	for _, env := range []*Env{f.root, f.class, f.method, f.block} {
		t.Run(env.String(), func(t *testing.T) {
			steps := 0
			cur, ok := Of(env), true
			for ok {
				cur, ok = cur.EnclosingScope()
				steps++
				assert.True(t, steps <= env.Depth()+2, "no terminator after %d steps", steps)
			}
			assert.Equal(t, env.Depth()+2, steps)
			assert.Equal(t, env.Depth()+2, len(Chain(Of(env))))
		})
	}
}

func TestStarImportBoundary(t *testing.T) {
	f := newFixture()

	root := Of(f.root)
	assert.False(t, root.IsStarImport())

	boundary, ok := root.EnclosingScope()
	assert.True(t, ok)
	assert.True(t, boundary.IsStarImport())
	assert.True(t, boundary.Env() == f.root)
	assert.Equal(t, []string{"Map", "List"}, names(boundary.LocalElements()))

	_, ok = boundary.EnclosingScope()
	assert.False(t, ok)
}

func TestEquality(t *testing.T) {
	f := newFixture()

	assert.True(t, Of(f.class).Equal(Of(f.class)))
	assert.False(t, Of(f.class).Equal(Of(f.method)))

	outer, _ := Of(f.method).EnclosingScope()
	assert.True(t, outer == Of(f.class))

	boundary, _ := Of(f.root).EnclosingScope()
	assert.False(t, boundary.Equal(Of(f.root)))
	again, _ := Of(f.root).EnclosingScope()
	assert.True(t, boundary.Equal(again))
}

func TestEnclosing(t *testing.T) {
	f := newFixture()
	boundary, _ := Of(f.root).EnclosingScope()

	tests := []struct {
		name   string
		scope  Scope
		class  string
		method string
	}{
		{"boundary", boundary, "", ""},
		{"root", Of(f.root), "", ""},
		{"class", Of(f.class), "C", ""},
		{"method", Of(f.method), "C", "m"},
		{"block", Of(f.block), "C", "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, nameOf(tt.scope.EnclosingClass()))
			assert.Equal(t, tt.method, nameOf(tt.scope.EnclosingMethod()))
		})
	}
}

func TestLocalElements(t *testing.T) {
	f := newFixture()

	env := f.block.Dup(&tree.Block{}, nil)
	assert.Equal(t, 0, len(Of(env).LocalElements()))

	env.Info.Enter(symbol.New(symbol.KindLocal, "x", nil, 40))
	env.Info.Enter(symbol.New(symbol.KindLocal, "y", nil, 45))
	assert.Equal(t, []string{"x", "y"}, names(Of(env).LocalElements()))
	assert.Equal(t, 0, len(Of(f.block).LocalElements()))

	got := Of(env).LocalElements()
	got[0] = nil
	_ = append(got[:1], symbol.New(symbol.KindLocal, "z", nil, 50))
	assert.Equal(t, []string{"x", "y"}, names(Of(env).LocalElements()))
	assert.Equal(t, 2, env.Info.Len())
}

func TestResolve(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name     string
		filter   Filter
		wantKind symbol.Kind
		star     bool
	}{
		{"count", Variables, symbol.KindParameter, false},
		{"m", ByKind(symbol.KindMethod), symbol.KindMethod, false},
		{"List", Types, symbol.KindClass, false},
		{"Map", Types, symbol.KindClass, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, from, ok := Resolve(Of(f.block), tt.name, tt.filter)
			assert.True(t, ok)
			assert.Equal(t, tt.wantKind, sym.Kind)
			assert.Equal(t, tt.star, from.IsStarImport())
		})
	}

	// the named import shadows the on-demand one
	sym, from, _ := Resolve(Of(f.block), "List", nil)
	assert.True(t, from == Of(f.root))
	assert.True(t, f.unit.NamedImports.Includes(sym))

	_, err := MustResolve(Of(f.block), "missing", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing in ")

	method, err := MustResolve(Of(f.block), "m", ByKind(symbol.KindMethod))
	assert.NoError(t, err)
	assert.Equal(t, "m", method.Name)

	field, _, _ := Resolve(Of(f.class), "count", Variables)
	assert.Equal(t, symbol.KindField, field.Kind)
}

func TestVisible(t *testing.T) {
	f := newFixture()
	got := Visible(Of(f.block), nil)
	assert.Equal(t, []string{"List", "Map", "count", "m"}, names(got))
	assert.Equal(t, symbol.KindParameter, got[2].Kind)
}

func TestRootState(t *testing.T) {
	f := newFixture()
	assert.Equal(t, StateRoot, f.root.State())
	assert.Zero(t, f.root.Outer())
	assert.Equal(t, 0, f.root.Depth())
	assert.Equal(t, StateNested, f.block.State())
	assert.True(t, f.block.Root() == f.root)
	assert.Equal(t, 3, f.block.Depth())
	assert.True(t, f.root.EnclClass.Sym.Synthetic)
}

func names(syms []*symbol.Symbol) []string {
	var out []string
	for _, s := range syms {
		out = append(out, s.Name)
	}
	return out
}

func nameOf(sym *symbol.Symbol) string {
	if sym == nil {
		return ""
	}
	return sym.Name
}
