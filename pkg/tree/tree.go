// Package tree stores parent/child/sibling relationships between entities.
//
// Links are kept in a slice indexed by entity slot, never as pointers, so the
// tree has no cyclic ownership and a stale entity simply fails to resolve.
// Siblings keep insertion order, which is the order every traversal uses.
package tree

import (
	"iter"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
)

type node struct {
	self        entity.Entity
	parent      entity.Entity
	firstChild  entity.Entity
	lastChild   entity.Entity
	prevSibling entity.Entity
	nextSibling entity.Entity
}

// Tree is a single-rooted forest over entities allocated by a Manager.
// Attached entities must be destroyed through Remove, never directly through
// the Manager, or their siblings keep dangling links.
//
// Tree is not safe for concurrent use.
type Tree struct {
	entities *entity.Manager
	nodes    []node
	root     entity.Entity
	attached []func(entity.Entity)
}

// New creates an empty tree whose entities come from m.
func New(m *entity.Manager) *Tree {
	return &Tree{entities: m}
}

// Entities returns the manager that owns the tree's entities.
func (t *Tree) Entities() *entity.Manager {
	return t.entities
}

// OnAttach registers fn to run after an entity joins the tree through
// SetRoot, AddChild or InsertBefore. Owners of caches that depend on
// ancestry use it to invalidate them.
func (t *Tree) OnAttach(fn func(e entity.Entity)) {
	t.attached = append(t.attached, fn)
}

func (t *Tree) notifyAttach(e entity.Entity) {
	for _, fn := range t.attached {
		fn(e)
	}
}

// Root returns the root entity, or entity.Null before SetRoot.
func (t *Tree) Root() entity.Entity {
	return t.root
}

// SetRoot registers e as the root. It fails if e is dead or already in the tree.
func (t *Tree) SetRoot(e entity.Entity) error {
	if !t.entities.IsAlive(e) {
		return &errors.StructuralError{Op: "set root", Entity: e, Err: errors.ErrDeadEntity}
	}
	if t.Contains(e) {
		return &errors.StructuralError{Op: "set root", Entity: e, Err: errors.ErrAlreadyAttached}
	}
	if !t.root.IsNull() {
		t.Remove(t.root)
	}
	t.slot(e).self = e
	t.root = e
	t.notifyAttach(e)
	return nil
}

// Contains reports whether e is live and attached to the tree.
func (t *Tree) Contains(e entity.Entity) bool {
	if !t.entities.IsAlive(e) {
		return false
	}
	index := int(e.Index())
	return index < len(t.nodes) && t.nodes[index].self == e
}

func (t *Tree) slot(e entity.Entity) *node {
	index := int(e.Index())
	if index >= len(t.nodes) {
		grown := make([]node, index+1, max(index+1, 2*len(t.nodes)))
		copy(grown, t.nodes)
		t.nodes = grown
	}
	return &t.nodes[index]
}

func (t *Tree) get(e entity.Entity) *node {
	if !t.Contains(e) {
		return nil
	}
	return &t.nodes[e.Index()]
}

// AddChild appends child as the last child of parent.
func (t *Tree) AddChild(parent, child entity.Entity) error {
	if err := t.checkAttach("add child", parent, child); err != nil {
		return err
	}
	c := t.slot(child)
	p := &t.nodes[parent.Index()]
	*c = node{self: child, parent: parent, prevSibling: p.lastChild}
	if p.lastChild.IsNull() {
		p.firstChild = child
	} else {
		t.nodes[p.lastChild.Index()].nextSibling = child
	}
	p.lastChild = child
	t.notifyAttach(child)
	return nil
}

// InsertBefore attaches child as the previous sibling of sibling.
func (t *Tree) InsertBefore(sibling, child entity.Entity) error {
	s := t.get(sibling)
	if s == nil || s.parent.IsNull() {
		return &errors.StructuralError{Op: "insert before", Entity: sibling, Err: errors.ErrNotFound}
	}
	parent := s.parent
	if err := t.checkAttach("insert before", parent, child); err != nil {
		return err
	}
	c := t.slot(child)
	s = &t.nodes[sibling.Index()]
	*c = node{self: child, parent: parent, prevSibling: s.prevSibling, nextSibling: sibling}
	if s.prevSibling.IsNull() {
		t.nodes[parent.Index()].firstChild = child
	} else {
		t.nodes[s.prevSibling.Index()].nextSibling = child
	}
	s.prevSibling = child
	t.notifyAttach(child)
	return nil
}

func (t *Tree) checkAttach(op string, parent, child entity.Entity) error {
	if !t.entities.IsAlive(child) {
		return &errors.StructuralError{Op: op, Entity: child, Err: errors.ErrDeadEntity}
	}
	if !t.Contains(parent) {
		if !t.entities.IsAlive(parent) {
			return &errors.StructuralError{Op: op, Entity: parent, Err: errors.ErrDeadEntity}
		}
		return &errors.StructuralError{Op: op, Entity: parent, Err: errors.ErrNotFound}
	}
	if child == parent || t.IsDescendantOf(parent, child) {
		return &errors.StructuralError{Op: op, Entity: child, Err: errors.ErrCycle}
	}
	if t.Contains(child) {
		return &errors.StructuralError{Op: op, Entity: child, Err: errors.ErrAlreadyAttached}
	}
	return nil
}

// Remove detaches e and destroys it together with its whole subtree. The
// destroyed entities are returned in post-order (children before parents) so
// owners of side tables can purge their records. Removing an entity that is
// not in the tree returns nil.
func (t *Tree) Remove(e entity.Entity) []entity.Entity {
	n := t.get(e)
	if n == nil {
		return nil
	}
	removed := t.PostOrder(e).Collect()

	if !n.parent.IsNull() {
		p := &t.nodes[n.parent.Index()]
		if n.prevSibling.IsNull() {
			p.firstChild = n.nextSibling
		} else {
			t.nodes[n.prevSibling.Index()].nextSibling = n.nextSibling
		}
		if n.nextSibling.IsNull() {
			p.lastChild = n.prevSibling
		} else {
			t.nodes[n.nextSibling.Index()].prevSibling = n.prevSibling
		}
	}
	if e == t.root {
		t.root = entity.Null
	}
	for _, r := range removed {
		t.nodes[r.Index()] = node{}
		t.entities.Destroy(r)
	}
	return removed
}

// Parent returns the parent of e, or entity.Null for the root and for
// entities that are not in the tree.
func (t *Tree) Parent(e entity.Entity) entity.Entity {
	if n := t.get(e); n != nil {
		return n.parent
	}
	return entity.Null
}

// FirstChild returns the first child of e.
func (t *Tree) FirstChild(e entity.Entity) entity.Entity {
	if n := t.get(e); n != nil {
		return n.firstChild
	}
	return entity.Null
}

// LastChild returns the last child of e.
func (t *Tree) LastChild(e entity.Entity) entity.Entity {
	if n := t.get(e); n != nil {
		return n.lastChild
	}
	return entity.Null
}

// NextSibling returns the next sibling of e.
func (t *Tree) NextSibling(e entity.Entity) entity.Entity {
	if n := t.get(e); n != nil {
		return n.nextSibling
	}
	return entity.Null
}

// PrevSibling returns the previous sibling of e.
func (t *Tree) PrevSibling(e entity.Entity) entity.Entity {
	if n := t.get(e); n != nil {
		return n.prevSibling
	}
	return entity.Null
}

// Children returns a copy of e's children in order.
func (t *Tree) Children(e entity.Entity) []entity.Entity {
	var out []entity.Entity
	for c := t.FirstChild(e); !c.IsNull(); c = t.nodes[c.Index()].nextSibling {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of direct children of e.
func (t *Tree) ChildCount(e entity.Entity) int {
	count := 0
	for c := t.FirstChild(e); !c.IsNull(); c = t.nodes[c.Index()].nextSibling {
		count++
	}
	return count
}

// Depth returns the number of ancestors of e. The root has depth 0 and
// entities outside the tree report -1.
func (t *Tree) Depth(e entity.Entity) int {
	if !t.Contains(e) {
		return -1
	}
	depth := 0
	for p := t.nodes[e.Index()].parent; !p.IsNull(); p = t.nodes[p.Index()].parent {
		depth++
	}
	return depth
}

// IsDescendantOf reports whether e is a strict descendant of ancestor.
func (t *Tree) IsDescendantOf(e, ancestor entity.Entity) bool {
	for a := range t.Ancestors(e) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Ancestors lazily walks from e's parent up to the root. The walk follows
// live links, so it reflects edits made while iterating.
func (t *Tree) Ancestors(e entity.Entity) iter.Seq[entity.Entity] {
	return func(yield func(entity.Entity) bool) {
		for p := t.Parent(e); !p.IsNull(); p = t.Parent(p) {
			if !yield(p) {
				return
			}
		}
	}
}
