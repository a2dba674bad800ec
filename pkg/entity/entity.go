// Package entity provides generational identifiers for UI tree nodes.
//
// An [Entity] owns no data. Everything associated with a node lives in side
// tables keyed by the entity (tree links, style properties, layout boxes,
// bindings, handlers). The generation half of the id makes stale references
// harmless: once a slot is destroyed and reused, old ids no longer resolve.
package entity

import "fmt"

const (
	indexBits = 32
	indexMask = 1<<indexBits - 1
)

// Entity is an opaque generational identifier: the low 32 bits are the slot
// index and the high 32 bits the generation. Generations start at 1, so the
// zero value is [Null] and never resolves to a live node.
type Entity uint64

// Null is the entity that never exists.
const Null Entity = 0

func newEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<indexBits | uint64(index))
}

// Index returns the slot index.
func (e Entity) Index() uint32 {
	return uint32(e & indexMask)
}

// Generation returns the generation counter.
func (e Entity) Generation() uint32 {
	return uint32(e >> indexBits)
}

// IsNull reports whether e is the null entity.
func (e Entity) IsNull() bool {
	return e.Generation() == 0
}

func (e Entity) String() string {
	if e.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%dv%d", e.Index(), e.Generation())
}
