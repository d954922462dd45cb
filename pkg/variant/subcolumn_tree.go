package variant

// SubcolumnTree is a prefix tree (trie) over dotted paths, giving
// ObjectColumn's subcolumn map stable, path-hierarchy-aware lookup, per
// spec.md §4.3. Insertion order of leaf paths is preserved separately for
// Keys(), since Go map iteration order is not stable.
//
// Find is called once per leaf path on every TryInsert, so it also keeps a
// hash-indexed cache of full-path lookups: a repeat Find for a path already
// resolved skips the trie walk entirely. The cache is pure optimization, not
// an index of record — a hash collision just falls back to the trie, it
// never returns the wrong subcolumn.
type SubcolumnTree struct {
	root    *treeNode
	order   []Path // insertion order of paths that carry a *Subcolumn
	byOrder map[string]int
	cache   map[uint64]*treeNode
}

type treeNode struct {
	children map[string]*treeNode
	column   *Subcolumn // non-nil iff this node is a leaf with data
	path     Path       // set iff column != nil; verifies cache hits against hash collisions
}

func newTreeNode() *treeNode {
	return &treeNode{children: make(map[string]*treeNode)}
}

// NewSubcolumnTree returns an empty SubcolumnTree.
func NewSubcolumnTree() *SubcolumnTree {
	return &SubcolumnTree{
		root:    newTreeNode(),
		byOrder: make(map[string]int),
		cache:   make(map[uint64]*treeNode),
	}
}

// Find returns the Subcolumn at path, or nil if no subcolumn has been
// added there.
func (t *SubcolumnTree) Find(path Path) *Subcolumn {
	h := path.hash()
	if node, ok := t.cache[h]; ok && node.path.Equal(path) {
		return node.column
	}

	node := t.root
	for _, seg := range path {
		next, ok := node.children[seg]
		if !ok {
			return nil
		}
		node = next
	}
	if node.column != nil {
		t.cache[h] = node
	}
	return node.column
}

// Add inserts column at path, creating intermediate trie nodes as needed.
// It fails with InvalidArgument if a subcolumn already exists at path.
func (t *SubcolumnTree) Add(path Path, column *Subcolumn) error {
	node := t.root
	for _, seg := range path {
		next, ok := node.children[seg]
		if !ok {
			next = newTreeNode()
			node.children[seg] = next
		}
		node = next
	}
	if node.column != nil {
		return invalidArgf("SubcolumnTree.Add", "subcolumn already exists at path %q", path.String())
	}
	node.column = column
	node.path = path.Clone()
	t.cache[path.hash()] = node

	key := path.String()
	t.byOrder[key] = len(t.order)
	t.order = append(t.order, path.Clone())
	return nil
}

// Erase removes the subcolumn at path, if any, leaving any now-empty
// intermediate nodes in place (they carry no data and cost nothing to
// keep).
func (t *SubcolumnTree) Erase(path Path) {
	node := t.root
	for _, seg := range path {
		next, ok := node.children[seg]
		if !ok {
			return
		}
		node = next
	}
	if node.column == nil {
		return
	}
	node.column = nil
	node.path = nil
	delete(t.cache, path.hash())

	key := path.String()
	idx, ok := t.byOrder[key]
	if !ok {
		return
	}
	delete(t.byOrder, key)
	t.order = append(t.order[:idx], t.order[idx+1:]...)
	for k, i := range t.byOrder {
		if i > idx {
			t.byOrder[k] = i - 1
		}
	}
}

// Keys returns every path currently holding a subcolumn, in the order they
// were first added.
func (t *SubcolumnTree) Keys() []Path {
	out := make([]Path, len(t.order))
	for i, p := range t.order {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of subcolumns currently in the tree.
func (t *SubcolumnTree) Len() int { return len(t.order) }
