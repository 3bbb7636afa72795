package tree

// Inspect calls f for each node of the tree rooted at root, in scan order.
// Children of a node are visited only if f returns true for it.
func Inspect(root Node, f func(Node) bool) {
	s := NewScanner().OnAny(func(s *Scanner, n Node) {
		if f(n) {
			s.Default(n)
		}
	})
	s.Scan(root)
}

// CollectKinds returns the kind of every node under root in scan order,
// root included.
func CollectKinds(root Node) []Kind {
	var kinds []Kind
	Inspect(root, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	return kinds
}

// Count returns the number of nodes of each kind under root.
func Count(root Node) map[Kind]int {
	counts := make(map[Kind]int)
	Inspect(root, func(n Node) bool {
		counts[n.Kind()]++
		return true
	})
	return counts
}

// PathTo returns the nodes whose span contains pos, outermost first. Nodes
// without a span (End 0) are looked through but not reported.
func PathTo(root Node, pos int) []Node {
	var path []Node
	Inspect(root, func(n Node) bool {
		if n.End() == 0 && n.Pos() == 0 {
			return true
		}
		if !Contains(n, pos) {
			return false
		}
		path = append(path, n)
		return true
	})
	return path
}

// Innermost returns the deepest node of one of kinds whose span contains pos.
func Innermost(root Node, pos int, kinds ...Kind) Node {
	path := PathTo(root, pos)
	for i := len(path) - 1; i >= 0; i-- {
		for _, k := range kinds {
			if path[i].Kind() == k {
				return path[i]
			}
		}
	}
	return nil
}
