package tree

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn stops the walk; Walk reports whether it ran to the end.
func Walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	if in, ok := n.(*Internal); ok {
		for _, child := range in.Children {
			if !Walk(child, fn) {
				return false
			}
		}
	}
	return true
}

// WalkForest walks every top-level node in order.
func WalkForest(forest []Node, fn func(Node) bool) {
	for _, n := range forest {
		if !Walk(n, fn) {
			return
		}
	}
}

// FindTop returns the index and node of the top-level category with label, or -1 and nil.
func FindTop(forest []Node, label string) (int, Node) {
	for i, n := range forest {
		if n.Info().Label == label {
			return i, n
		}
	}
	return -1, nil
}

// FindByLabel returns the first node under root, in depth-first order, at the
// given depth whose label equals label.
func FindByLabel(root Node, label string, depth int) Node {
	var found Node
	Walk(root, func(n Node) bool {
		info := n.Info()
		if info.Depth == depth && info.Label == label {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindLeaf returns the first leaf under root, in depth-first order, whose
// label equals label. Depth is not considered.
func FindLeaf(root Node, label string) *Leaf {
	var found *Leaf
	Walk(root, func(n Node) bool {
		if leaf, ok := n.(*Leaf); ok && leaf.Label == label {
			found = leaf
			return false
		}
		return true
	})
	return found
}

// Leaves returns every leaf under n in depth-first order.
func Leaves(n Node) []*Leaf {
	var out []*Leaf
	Walk(n, func(n Node) bool {
		if leaf, ok := n.(*Leaf); ok {
			out = append(out, leaf)
		}
		return true
	})
	return out
}

// Keys returns the identity keys of every node in the forest.
func Keys(forest []Node) []string {
	var keys []string
	WalkForest(forest, func(n Node) bool {
		keys = append(keys, n.Info().Key)
		return true
	})
	return keys
}
