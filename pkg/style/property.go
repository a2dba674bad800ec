package style

import (
	"reflect"

	"github.com/go-drift/weft/pkg/entity"
)

type propFlags uint8

const (
	flagInherited propFlags = 1 << iota
	flagLayout
)

// property is the type-erased view of a Property used by the cascade.
type property interface {
	Name() string
	Inherited() bool
	AffectsLayout() bool
	setRule(id RuleID, text string) error
	setInlineText(e entity.Entity, text string) error
	clearRules(ids map[RuleID]bool)
	purge(e entity.Entity)
	recompute(e, parent entity.Entity) bool
	Has(e entity.Entity) bool
}

// Property is a sparse table for one style attribute.
//
// A value is looked up in tiers: a running transition or animation, then the
// inline value set directly on the entity, then the highest-precedence
// matching stylesheet rule. Absence means inherited (for inherited
// attributes) or the compiled default.
type Property[T any] struct {
	name    string
	flags   propFlags
	def     T
	parse   func(string) (T, error)
	equal   func(a, b T) bool
	lerp    func(a, b T, t float64) T
	storage *Storage

	inline   map[entity.Entity]T
	rules    map[RuleID]T
	targets  map[entity.Entity]T
	animated map[entity.Entity]T
	computed map[entity.Entity]T
}

func newProperty[T any](s *Storage, name string, def T, parse func(string) (T, error), flags propFlags) *Property[T] {
	p := &Property[T]{
		name:     name,
		flags:    flags,
		def:      def,
		parse:    parse,
		equal:    func(a, b T) bool { return reflect.DeepEqual(a, b) },
		storage:  s,
		inline:   make(map[entity.Entity]T),
		rules:    make(map[RuleID]T),
		targets:  make(map[entity.Entity]T),
		animated: make(map[entity.Entity]T),
		computed: make(map[entity.Entity]T),
	}
	s.register(p)
	return p
}

func comparableProperty[T comparable](s *Storage, name string, def T, parse func(string) (T, error), flags propFlags) *Property[T] {
	p := newProperty(s, name, def, parse, flags)
	p.equal = func(a, b T) bool { return a == b }
	return p
}

func (p *Property[T]) animatable(lerp func(a, b T, t float64) T) *Property[T] {
	p.lerp = lerp
	return p
}

// Name returns the stylesheet name of the attribute.
func (p *Property[T]) Name() string { return p.name }

// Default returns the compiled default value.
func (p *Property[T]) Default() T { return p.def }

// Inherited reports whether absent values are taken from the parent.
func (p *Property[T]) Inherited() bool { return p.flags&flagInherited != 0 }

// AffectsLayout reports whether a change requires relayout.
func (p *Property[T]) AffectsLayout() bool { return p.flags&flagLayout != 0 }

// Animatable reports whether transitions can interpolate the attribute.
func (p *Property[T]) Animatable() bool { return p.lerp != nil }

// Set stores an inline value, which overrides every stylesheet rule.
// Setting a value on a dead entity is a no-op.
func (p *Property[T]) Set(e entity.Entity, v T) {
	if !p.storage.alive(e) {
		return
	}
	p.inline[e] = v
	p.storage.MarkRestyle(e)
}

// Remove drops the inline value so rules and inheritance apply again.
func (p *Property[T]) Remove(e entity.Entity) {
	if _, ok := p.inline[e]; !ok {
		return
	}
	delete(p.inline, e)
	p.storage.MarkRestyle(e)
}

// Inline returns the value set directly on e, ignoring stylesheet rules.
func (p *Property[T]) Inline(e entity.Entity) (T, bool) {
	v, ok := p.inline[e]
	return v, ok && p.storage.alive(e)
}

// Get returns the value declared for e itself: the inline value, else the
// best matching stylesheet rule. It never consults ancestors.
func (p *Property[T]) Get(e entity.Entity) (T, bool) {
	var zero T
	if !p.storage.alive(e) {
		return zero, false
	}
	if v, ok := p.inline[e]; ok {
		return v, true
	}
	if len(p.rules) == 0 {
		return zero, false
	}
	for _, id := range p.storage.matchedRules(e) {
		if v, ok := p.rules[id]; ok {
			return v, true
		}
	}
	return zero, false
}

// Has reports whether e declares a value for this attribute.
func (p *Property[T]) Has(e entity.Entity) bool {
	_, ok := p.Get(e)
	return ok
}

// GetInherited resolves the declared value of e, walking ancestors for
// inherited attributes and falling back to the compiled default.
func (p *Property[T]) GetInherited(e entity.Entity) T {
	if v, ok := p.Get(e); ok {
		return v
	}
	if p.Inherited() && p.storage.alive(e) {
		for a := range p.storage.tree.Ancestors(e) {
			if v, ok := p.Get(a); ok {
				return v
			}
		}
	}
	return p.def
}

// Computed returns the value produced by the last cascade, including running
// transitions. Entities that were never cascaded resolve on demand.
func (p *Property[T]) Computed(e entity.Entity) T {
	if v, ok := p.animated[e]; ok {
		return v
	}
	if v, ok := p.computed[e]; ok {
		return v
	}
	return p.GetInherited(e)
}

// Animating reports whether a transition is currently driving e's value.
func (p *Property[T]) Animating(e entity.Entity) bool {
	_, ok := p.animated[e]
	return ok
}

func (p *Property[T]) setRule(id RuleID, text string) error {
	v, err := p.parse(text)
	if err != nil {
		return err
	}
	p.rules[id] = v
	return nil
}

func (p *Property[T]) setInlineText(e entity.Entity, text string) error {
	v, err := p.parse(text)
	if err != nil {
		return err
	}
	p.Set(e, v)
	return nil
}

func (p *Property[T]) clearRules(ids map[RuleID]bool) {
	for id := range ids {
		delete(p.rules, id)
	}
}

func (p *Property[T]) purge(e entity.Entity) {
	delete(p.inline, e)
	delete(p.targets, e)
	delete(p.animated, e)
	delete(p.computed, e)
}

// resolve returns the declared, inherited or default value for e.
func (p *Property[T]) resolve(e, parent entity.Entity) T {
	if v, ok := p.Get(e); ok {
		return v
	}
	if p.Inherited() && !parent.IsNull() {
		return p.Computed(parent)
	}
	return p.def
}

// recompute refreshes the cascaded value of e and reports whether it changed.
// A changed target starts a transition when one is declared for e.
func (p *Property[T]) recompute(e, parent entity.Entity) bool {
	target := p.resolve(e, parent)
	prev, hadTarget := p.targets[e]
	p.targets[e] = target
	if hadTarget && !p.equal(prev, target) {
		p.retarget(e, prev, target)
	}

	value := target
	if v, ok := p.animated[e]; ok {
		value = v
	}
	old, had := p.computed[e]
	p.computed[e] = value
	return !had || !p.equal(old, value)
}

func (p *Property[T]) retarget(e entity.Entity, prev, target T) {
	if p.lerp == nil {
		return
	}
	tr, ok := p.storage.transitionFor(e, p.name)
	if !ok {
		p.storage.cancelTrack(e, p.name)
		delete(p.animated, e)
		return
	}
	from := prev
	if v, ok := p.computed[e]; ok {
		from = v
	}
	p.startTrack(e, from, target, tr)
}

func (p *Property[T]) startTrack(e entity.Entity, from, to T, tr Transition) {
	p.animated[e] = from
	p.storage.startTrack(e, p.name, tr, func(t float64) {
		p.animated[e] = p.lerp(from, to, t)
	}, func() {
		delete(p.animated, e)
	})
}

// Animate moves e's inline value to `to`, interpolating from the value
// currently displayed over the given transition, whether or not a
// stylesheet transition is declared for the attribute.
func (p *Property[T]) Animate(e entity.Entity, to T, tr Transition) {
	if !p.storage.alive(e) {
		return
	}
	from := p.Computed(e)
	p.inline[e] = to
	p.targets[e] = to
	if p.lerp == nil {
		p.storage.MarkRestyle(e)
		return
	}
	tr.Property = p.name
	p.startTrack(e, from, to, tr)
	p.storage.MarkRestyle(e)
}
