package symbol

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindClass, "class"},
		{KindMethod, "method"},
		{KindLocal, "local variable"},
		{Kind(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestQualifiedName(t *testing.T) {
	pkg := New(KindPackage, "com.example", nil, -1)
	outer := New(KindClass, "Outer", pkg, 0)
	inner := New(KindClass, "Inner", outer, 10)
	field := New(KindField, "count", inner, 20)
	local := New(KindLocal, "i", nil, 30)
	top := &Symbol{Kind: KindClass, Name: "$toplevel", Synthetic: true}
	hidden := New(KindClass, "C", top, 0)

	assert.Equal(t, "com.example.Outer.Inner", inner.QualifiedName())
	assert.Equal(t, "com.example.Outer.Inner.count", field.QualifiedName())
	assert.Equal(t, "i", local.QualifiedName())
	assert.Equal(t, "C", hidden.QualifiedName())
	assert.Equal(t, "class com.example.Outer", outer.String())
}

func TestTableEmpty(t *testing.T) {
	tab := NewTable()
	assert.Equal(t, 0, tab.Len())
	assert.Equal(t, 0, len(tab.Elements()))

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	assert.Equal(t, 0, len(nilTable.Lookup("x")))
}

func TestTableOverloads(t *testing.T) {
	tab := NewTable()
	x := New(KindLocal, "x", nil, 1)
	y := New(KindLocal, "y", nil, 2)
	m1 := New(KindMethod, "m", nil, 3)
	m2 := New(KindMethod, "m", nil, 4)

	tab.Enter(x)
	tab.Enter(y)
	tab.Enter(m1)
	tab.Enter(m2)
	tab.Enter(nil)

	assert.Equal(t, []*Symbol{x, y, m1, m2}, tab.Elements())
	assert.Equal(t, []*Symbol{m1, m2}, tab.Lookup("m"))
	assert.True(t, tab.Includes(m2))
	assert.False(t, tab.Includes(New(KindLocal, "x", nil, 1)))
}

func TestTableEnterIfAbsent(t *testing.T) {
	tab := NewTable()
	assert.True(t, tab.EnterIfAbsent(New(KindClass, "List", nil, -1)))
	assert.False(t, tab.EnterIfAbsent(New(KindClass, "List", nil, -1)))
	assert.True(t, tab.EnterIfAbsent(New(KindField, "List", nil, -1)))
	assert.Equal(t, 2, tab.Len())

	assert.False(t, tab.EnterIfAbsent(nil))
	assert.Equal(t, 2, tab.Len())
}
