// Package accessibility mirrors the UI tree as a tree of accessible nodes
// and pushes incremental updates to an assistive-technology bridge.
package accessibility

import (
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// NodeID identifies a node. It is the numeric value of the entity it
// describes, so ids stay stable while the entity lives and are never reused
// for a different entity.
type NodeID uint64

// Node is the accessible summary of one entity.
type Node struct {
	ID            NodeID     `cbor:"1,keyasint"`
	Parent        NodeID     `cbor:"2,keyasint,omitempty"`
	Children      []NodeID   `cbor:"3,keyasint,omitempty"`
	Role          string     `cbor:"4,keyasint"`
	Name          string     `cbor:"5,keyasint,omitempty"`
	Live          string     `cbor:"6,keyasint,omitempty"`
	DefaultAction string     `cbor:"7,keyasint,omitempty"`
	LabelledBy    NodeID     `cbor:"8,keyasint,omitempty"`
	NumericValue  *float64   `cbor:"9,keyasint,omitempty"`
	TextValue     string     `cbor:"10,keyasint,omitempty"`
	Focusable     bool       `cbor:"11,keyasint,omitempty"`
	Focused       bool       `cbor:"12,keyasint,omitempty"`
	Checked       bool       `cbor:"13,keyasint,omitempty"`
	Disabled      bool       `cbor:"14,keyasint,omitempty"`
	Bounds        [4]float64 `cbor:"15,keyasint"`
}

func (n *Node) equal(o *Node) bool {
	if n.NumericValue == nil || o.NumericValue == nil {
		if n.NumericValue != o.NumericValue {
			return false
		}
	} else if *n.NumericValue != *o.NumericValue {
		return false
	}
	a, b := *n, *o
	a.NumericValue, b.NumericValue = nil, nil
	return a.ID == b.ID && a.Parent == b.Parent && slices.Equal(a.Children, b.Children) &&
		a.Role == b.Role && a.Name == b.Name && a.Live == b.Live &&
		a.DefaultAction == b.DefaultAction && a.LabelledBy == b.LabelledBy &&
		a.TextValue == b.TextValue && a.Focusable == b.Focusable && a.Focused == b.Focused &&
		a.Checked == b.Checked && a.Disabled == b.Disabled && a.Bounds == b.Bounds
}

// Update is the difference between two snapshots of the accessible tree.
// Nodes holds every node that was added or changed.
type Update struct {
	TreeID   uuid.UUID `cbor:"1,keyasint"`
	Sequence uint64    `cbor:"2,keyasint"`
	Root     NodeID    `cbor:"3,keyasint"`
	Focus    NodeID    `cbor:"4,keyasint,omitempty"`
	Nodes    []Node    `cbor:"5,keyasint,omitempty"`
	Removed  []NodeID  `cbor:"6,keyasint,omitempty"`
	Full     bool      `cbor:"7,keyasint,omitempty"`
}

// IsEmpty reports whether the update carries no changes.
func (u *Update) IsEmpty() bool {
	return len(u.Nodes) == 0 && len(u.Removed) == 0
}

// Node returns the added or changed node with the given id.
func (u *Update) Node(id NodeID) (Node, bool) {
	for _, n := range u.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	if encMode, err = encOpts.EncMode(); err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Encode serializes u as deterministic CBOR for out-of-process bridges.
func (u *Update) Encode() ([]byte, error) {
	data, err := encMode.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode accessibility update: %w", err)
	}
	return data, nil
}

// Decode parses an update produced by Encode.
func Decode(data []byte) (*Update, error) {
	var u Update
	if err := decMode.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode accessibility update: %w", err)
	}
	return &u, nil
}
