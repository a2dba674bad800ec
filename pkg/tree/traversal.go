package tree

import (
	"iter"

	"github.com/go-drift/weft/pkg/entity"
)

// Traversal is a one-shot cursor over a snapshot of a subtree.
//
// The visiting order is fixed when the traversal is created. Edits made while
// iterating never change that order: entities destroyed after the snapshot
// are skipped when their turn comes, and entities added after it are not
// visited. Once exhausted, a Traversal yields nothing more.
type Traversal struct {
	tree  *Tree
	order []entity.Entity
	pos   int
}

// PreOrder returns a traversal of root's subtree, parents before children,
// siblings in insertion order.
func (t *Tree) PreOrder(root entity.Entity) *Traversal {
	tr := &Traversal{tree: t}
	if !t.Contains(root) {
		return tr
	}
	// Walk first-child/next-sibling links without recursion.
	e := root
	for {
		tr.order = append(tr.order, e)
		if c := t.nodes[e.Index()].firstChild; !c.IsNull() {
			e = c
			continue
		}
		for e != root && t.nodes[e.Index()].nextSibling.IsNull() {
			e = t.nodes[e.Index()].parent
		}
		if e == root {
			return tr
		}
		e = t.nodes[e.Index()].nextSibling
	}
}

// PostOrder returns a traversal of root's subtree, children before parents,
// siblings in insertion order.
func (t *Tree) PostOrder(root entity.Entity) *Traversal {
	tr := &Traversal{tree: t}
	if !t.Contains(root) {
		return tr
	}
	e := root
	for !t.nodes[e.Index()].firstChild.IsNull() {
		e = t.nodes[e.Index()].firstChild
	}
	for {
		tr.order = append(tr.order, e)
		if e == root {
			return tr
		}
		if next := t.nodes[e.Index()].nextSibling; !next.IsNull() {
			e = next
			for !t.nodes[e.Index()].firstChild.IsNull() {
				e = t.nodes[e.Index()].firstChild
			}
			continue
		}
		e = t.nodes[e.Index()].parent
	}
}

// Next returns the next entity that is still attached, or false when the
// traversal is exhausted.
func (tr *Traversal) Next() (entity.Entity, bool) {
	for tr.pos < len(tr.order) {
		e := tr.order[tr.pos]
		tr.pos++
		if tr.tree.Contains(e) {
			return e, true
		}
	}
	return entity.Null, false
}

// Len returns the size of the snapshot, including entities that may since
// have been removed.
func (tr *Traversal) Len() int {
	return len(tr.order)
}

// All adapts the traversal to a range-over-func sequence. It shares the
// cursor, so ranging twice yields nothing the second time.
func (tr *Traversal) All() iter.Seq[entity.Entity] {
	return func(yield func(entity.Entity) bool) {
		for {
			e, ok := tr.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}

// Collect drains the traversal into a slice.
func (tr *Traversal) Collect() []entity.Entity {
	var out []entity.Entity
	for e := range tr.All() {
		out = append(out, e)
	}
	return out
}
