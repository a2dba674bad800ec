package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

// Finder locates entities in the tree.
type Finder interface {
	// Evaluate returns all matching entities (depth-first pre-order).
	Evaluate(cx *ui.Context) []entity.Entity
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	cx       *ui.Context
	entities []entity.Entity
	finder   Finder
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() entity.Entity {
	if len(r.entities) == 0 {
		panic(fmt.Sprintf("Finder found no entities: %s", r.describe()))
	}
	return r.entities[0]
}

// FirstOrNull returns the first match, or entity.Null if none.
func (r FinderResult) FirstOrNull() entity.Entity {
	if len(r.entities) == 0 {
		return entity.Null
	}
	return r.entities[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) entity.Entity {
	if index < 0 || index >= len(r.entities) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.entities), r.describe()))
	}
	return r.entities[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []entity.Entity {
	return r.entities
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.entities)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.entities) > 0
}

// Box returns the committed layout box of the first match.
func (r FinderResult) Box() (layout.Rect, bool) {
	if len(r.entities) == 0 || r.cx == nil {
		return layout.Rect{}, false
	}
	return r.cx.Layout().Box(r.entities[0])
}

// Text returns the computed text of the first match.
func (r FinderResult) Text() string {
	if len(r.entities) == 0 || r.cx == nil {
		return ""
	}
	return r.cx.Style().Text.Computed(r.entities[0])
}

// --- Concrete finders ---

// predicateFinder matches entities satisfying a predicate.
type predicateFinder struct {
	fn   func(cx *ui.Context, e entity.Entity) bool
	desc string
}

func (f *predicateFinder) Evaluate(cx *ui.Context) []entity.Entity {
	return collectMatches(cx, cx.Root(), f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches entities satisfying fn.
func ByPredicate(fn func(cx *ui.Context, e entity.Entity) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// ByID matches the entity with the given #id.
func ByID(id string) Finder {
	return &predicateFinder{
		fn:   func(cx *ui.Context, e entity.Entity) bool { return cx.Style().ID(e) == id },
		desc: fmt.Sprintf("ByID(%q)", id),
	}
}

// ByElement matches entities whose element name is name.
func ByElement(name string) Finder {
	return &predicateFinder{
		fn:   func(cx *ui.Context, e entity.Entity) bool { return cx.Style().Element(e) == name },
		desc: fmt.Sprintf("ByElement(%q)", name),
	}
}

// ByClass matches entities carrying the class.
func ByClass(class string) Finder {
	return &predicateFinder{
		fn:   func(cx *ui.Context, e entity.Entity) bool { return cx.Style().HasClass(e, class) },
		desc: fmt.Sprintf("ByClass(%q)", class),
	}
}

// ByText matches entities whose computed text equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(cx *ui.Context, e entity.Entity) bool { return cx.Style().Text.Computed(e) == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining matches entities whose computed text contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(cx *ui.Context, e entity.Entity) bool {
			t := cx.Style().Text.Computed(e)
			return t != "" && strings.Contains(t, substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByRole matches entities with the accessibility role.
func ByRole(role style.Role) Finder {
	return &predicateFinder{
		fn:   func(cx *ui.Context, e entity.Entity) bool { return cx.Style().Role.Computed(e) == role },
		desc: fmt.Sprintf("ByRole(%s)", role),
	}
}

// descendantFinder finds entities matching 'matching' that are descendants
// of entities matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(cx *ui.Context) []entity.Entity {
	ancestors := f.of.Evaluate(cx)
	if len(ancestors) == 0 {
		return nil
	}
	var results []entity.Entity
	seen := make(map[entity.Entity]bool)
	for _, m := range f.matching.Evaluate(cx) {
		for _, a := range ancestors {
			if !seen[m] && cx.Tree().IsDescendantOf(m, a) {
				seen[m] = true
				results = append(results, m)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches entities satisfying 'matching'
// that are descendants of entities matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds entities matching 'matching' that are ancestors
// of entities matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(cx *ui.Context) []entity.Entity {
	descendants := f.of.Evaluate(cx)
	if len(descendants) == 0 {
		return nil
	}
	var results []entity.Entity
	for _, candidate := range f.matching.Evaluate(cx) {
		for _, d := range descendants {
			if cx.Tree().IsDescendantOf(d, candidate) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches entities satisfying 'matching'
// that are ancestors of entities matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

// collectMatches performs a depth-first pre-order traversal, collecting
// entities that satisfy the predicate.
func collectMatches(cx *ui.Context, root entity.Entity, predicate func(*ui.Context, entity.Entity) bool) []entity.Entity {
	var results []entity.Entity
	for e := range cx.Tree().PreOrder(root).All() {
		if predicate(cx, e) {
			results = append(results, e)
		}
	}
	return results
}
