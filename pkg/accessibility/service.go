package accessibility

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

// Sink receives accessibility updates. A platform bridge implements it.
type Sink interface {
	Apply(u *Update) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(u *Update) error

// Apply calls f(u).
func (f SinkFunc) Apply(u *Update) error { return f(u) }

// Boxes provides the committed layout geometry.
type Boxes interface {
	Box(e entity.Entity) (layout.Rect, bool)
}

// Service keeps the last snapshot sent to the sink and computes diffs
// against it.
type Service struct {
	tree   *tree.Tree
	style  *style.Storage
	boxes  Boxes
	sink   Sink
	logger *slog.Logger

	id      uuid.UUID
	seq     uint64
	last    map[NodeID]Node
	enabled bool
	focus   func() entity.Entity
}

// Option configures a Service.
type Option func(*Service)

// WithSink sets the sink updates are pushed to.
func WithSink(s Sink) Option {
	return func(svc *Service) { svc.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// WithFocus sets the function that reports the focused entity.
func WithFocus(fn func() entity.Entity) Option {
	return func(svc *Service) { svc.focus = fn }
}

// NewService creates an enabled service with a fresh tree id.
func NewService(t *tree.Tree, s *style.Storage, boxes Boxes, opts ...Option) *Service {
	svc := &Service{
		tree:    t,
		style:   s,
		boxes:   boxes,
		logger:  slog.Default(),
		id:      uuid.New(),
		enabled: true,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// TreeID returns the identifier shared by every update of this tree.
func (s *Service) TreeID() uuid.UUID { return s.id }

// SetSink replaces the sink. The next sync sends a full update.
func (s *Service) SetSink(sink Sink) {
	s.sink = sink
	s.last = nil
}

// SetEnabled turns syncing on or off. Re-enabling forces a full update.
func (s *Service) SetEnabled(on bool) {
	if s.enabled == on {
		return
	}
	s.enabled = on
	s.last = nil
}

// Enabled reports whether syncing is on.
func (s *Service) Enabled() bool { return s.enabled }

// Snapshot builds the accessible tree for the current state. The root is
// always present; other entities are included when they carry a role, a
// name or are focusable. Hidden entities and their subtrees are left out.
func (s *Service) Snapshot() map[NodeID]Node {
	nodes := make(map[NodeID]Node)
	root := s.tree.Root()
	if root.IsNull() {
		return nodes
	}
	s.collect(root, 0, nodes)
	return nodes
}

func (s *Service) collect(e entity.Entity, parent NodeID, nodes map[NodeID]Node) []NodeID {
	if s.excluded(e) {
		return nil
	}
	if e != s.tree.Root() && !s.included(e) {
		var flat []NodeID
		for _, c := range s.tree.Children(e) {
			flat = append(flat, s.collect(c, parent, nodes)...)
		}
		return flat
	}
	n := s.node(e)
	n.Parent = parent
	for _, c := range s.tree.Children(e) {
		n.Children = append(n.Children, s.collect(c, n.ID, nodes)...)
	}
	nodes[n.ID] = n
	return []NodeID{n.ID}
}

func (s *Service) excluded(e entity.Entity) bool {
	return s.style.Hidden.Computed(e) || !s.style.Shown(e)
}

func (s *Service) included(e entity.Entity) bool {
	return s.style.Role.Computed(e) != style.RoleNone ||
		s.style.Name.Computed(e) != "" ||
		s.style.Focusable.Computed(e)
}

func (s *Service) node(e entity.Entity) Node {
	st := s.style
	role := st.Role.Computed(e)
	if role == style.RoleNone && e == s.tree.Root() {
		role = style.RoleWindow
	}
	pseudo := st.Pseudo(e)
	n := Node{
		ID:        NodeID(e),
		Role:      role.String(),
		Name:      st.Name.Computed(e),
		TextValue: st.TextValue.Computed(e),
		Focusable: st.Focusable.Computed(e),
		Focused:   pseudo&style.Focus != 0,
		Checked:   pseudo&style.Checked != 0,
		Disabled:  pseudo&style.Disabled != 0,
	}
	if l := st.Live.Computed(e); l != style.LiveOff {
		n.Live = l.String()
	}
	if v := st.DefaultActionVerb.Computed(e); v != style.ActionNone {
		n.DefaultAction = v.String()
	}
	if v, ok := st.NumericValue.Get(e); ok {
		n.NumericValue = &v
	}
	if id := st.LabelledBy.Computed(e); id != "" {
		if label, ok := st.Lookup(id); ok {
			n.LabelledBy = NodeID(label)
			if n.Name == "" {
				n.Name = s.label(label)
			}
		}
	}
	if n.Name == "" {
		n.Name = st.Text.Computed(e)
	}
	if s.boxes != nil {
		if r, ok := s.boxes.Box(e); ok {
			n.Bounds = [4]float64{r.Left, r.Top, r.Width(), r.Height()}
		}
	}
	return n
}

func (s *Service) label(e entity.Entity) string {
	if name := s.style.Name.Computed(e); name != "" {
		return name
	}
	return s.style.Text.Computed(e)
}

// Diff compares next against the last committed snapshot without
// committing it.
func (s *Service) Diff(next map[NodeID]Node) *Update {
	u := &Update{
		TreeID: s.id,
		Root:   NodeID(s.tree.Root()),
		Full:   s.last == nil,
	}
	if s.focus != nil {
		u.Focus = NodeID(s.focus())
	}
	for id, n := range next {
		if old, ok := s.last[id]; ok && old.equal(&n) {
			continue
		}
		u.Nodes = append(u.Nodes, n)
	}
	for id := range s.last {
		if _, ok := next[id]; !ok {
			u.Removed = append(u.Removed, id)
		}
	}
	slices.SortFunc(u.Nodes, func(a, b Node) int { return cmpID(a.ID, b.ID) })
	slices.SortFunc(u.Removed, cmpID)
	return u
}

func cmpID(a, b NodeID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sync snapshots the tree, pushes the difference to the sink and commits
// the snapshot. It returns nil when disabled or when nothing changed. A
// sink error leaves the previous snapshot in place so the next sync
// retries the same changes.
func (s *Service) Sync() (*Update, error) {
	if !s.enabled {
		return nil, nil
	}
	next := s.Snapshot()
	u := s.Diff(next)
	if u.IsEmpty() && !u.Full {
		return nil, nil
	}
	s.seq++
	u.Sequence = s.seq
	if s.sink != nil {
		if err := s.sink.Apply(u); err != nil {
			return u, fmt.Errorf("accessibility sync %d: %w", u.Sequence, err)
		}
	}
	s.last = next
	s.logger.Debug("accessibility sync",
		"seq", u.Sequence,
		"changed", len(u.Nodes),
		"removed", len(u.Removed),
	)
	return u, nil
}

// Reset forgets the committed snapshot so the next sync is a full update.
func (s *Service) Reset() { s.last = nil }
