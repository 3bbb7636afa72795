package symbol

// Table maps simple names to the symbols declared under them in one scope.
// A name may map to several symbols (overloaded methods, a field and a
// method sharing a name). Elements are kept in entry order so listings are
// deterministic.
type Table struct {
	byName map[string][]*Symbol
	elems  []*Symbol
}

func NewTable() *Table {
	return &Table{byName: make(map[string][]*Symbol)}
}

func (t *Table) Enter(sym *Symbol) {
	if sym == nil {
		return
	}
	t.byName[sym.Name] = append(t.byName[sym.Name], sym)
	t.elems = append(t.elems, sym)
}

// EnterIfAbsent enters sym unless a symbol of the same kind and name is
// already present. It reports whether sym was entered.
func (t *Table) EnterIfAbsent(sym *Symbol) bool {
	if sym == nil {
		return false
	}
	for _, other := range t.byName[sym.Name] {
		if other.Kind == sym.Kind {
			return false
		}
	}
	t.Enter(sym)
	return true
}

func (t *Table) Lookup(name string) []*Symbol {
	if t == nil {
		return nil
	}
	return t.byName[name]
}

func (t *Table) Includes(sym *Symbol) bool {
	for _, other := range t.Lookup(sym.Name) {
		if other == sym {
			return true
		}
	}
	return false
}

// Elements returns the symbols of the table in entry order. The result
// must not be modified.
func (t *Table) Elements() []*Symbol {
	if t == nil {
		return nil
	}
	return t.elems
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.elems)
}
