package style

import (
	"fmt"
	"slices"

	"github.com/go-drift/weft/pkg/entity"
)

// maxCascadePasses bounds the fixed-point loop in Cascade.
const maxCascadePasses = 8

// shorthands expand to the attributes they set, in order.
var shorthands = map[string][]string{
	"space":       {"left", "right", "top", "bottom"},
	"child-space": {"child-left", "child-right", "child-top", "child-bottom"},
	"size":        {"width", "height"},
	"min-size":    {"min-width", "min-height"},
	"max-size":    {"max-width", "max-height"},
	"background":  {"background-color"},
}

func expand(name string) []string {
	if long, ok := shorthands[name]; ok {
		return long
	}
	return []string{name}
}

func errUnknownProperty(name string) error {
	return fmt.Errorf("unknown property %q", name)
}

// Cascade recomputes style for every entity under root that was marked for
// restyle, plus the descendants of any entity whose inherited values changed.
// It repeats until nothing is dirty and returns the entities whose
// layout-affecting values changed, in pre-order.
func (s *Storage) Cascade(root entity.Entity) []entity.Entity {
	var relayout []entity.Entity
	seen := make(map[entity.Entity]bool)
	s.restyled = s.restyled[:0]

	for pass := 0; pass < maxCascadePasses && s.NeedsRestyle(); pass++ {
		dirty := s.restyle
		all := s.restyleAll
		s.restyle = make(map[entity.Entity]struct{})
		s.restyleAll = false

		inheritDirty := make(map[entity.Entity]bool)
		for e := range s.tree.PreOrder(root).All() {
			parent := s.tree.Parent(e)
			_, marked := dirty[e]
			if !all && !marked && !inheritDirty[parent] {
				continue
			}
			s.restyled = append(s.restyled, e)

			var layoutChanged, inheritChanged bool
			for _, p := range s.props {
				if !p.recompute(e, parent) {
					continue
				}
				if p.Inherited() {
					inheritChanged = true
				}
				if p.AffectsLayout() {
					layoutChanged = true
				}
			}
			if inheritChanged {
				inheritDirty[e] = true
			}
			if layoutChanged && !seen[e] {
				seen[e] = true
				relayout = append(relayout, e)
			}
		}
	}
	if s.NeedsRestyle() {
		s.logger.Warn("style cascade did not settle", "passes", maxCascadePasses)
	}
	return relayout
}

// Restyled returns the entities recomputed by the last Cascade.
func (s *Storage) Restyled() []entity.Entity {
	return slices.Clone(s.restyled)
}

// Resolved is a read-only view of the computed style of one entity.
type Resolved struct {
	Background   Color
	Foreground   Color
	Border       Color
	Gradient     *LinearGradient
	Opacity      float64
	BorderWidth  float64
	BorderRadius float64
	Display      Display
	Visibility   Visibility
	ZIndex       int
	FontFamily   string
	FontSize     float64
	FontWeight   FontWeight
	Text         string
}

// Resolve returns the computed style of e.
func (s *Storage) Resolve(e entity.Entity) Resolved {
	r := Resolved{
		Background:   s.BackgroundColor.Computed(e),
		Foreground:   s.Foreground.Computed(e),
		Border:       s.BorderColor.Computed(e),
		Opacity:      s.Opacity.Computed(e),
		BorderWidth:  s.BorderWidth.Computed(e),
		BorderRadius: s.BorderRadius.Computed(e),
		Display:      s.Display.Computed(e),
		Visibility:   s.Visibility.Computed(e),
		ZIndex:       s.ZIndex.Computed(e),
		FontFamily:   s.FontFamily.Computed(e),
		FontSize:     s.FontSize.Computed(e),
		FontWeight:   s.FontWeight.Computed(e),
		Text:         s.Text.Computed(e),
	}
	if g, ok := s.BackgroundImage.Get(e); ok {
		r.Gradient = &g
	}
	return r
}

// Shown reports whether e is displayed and visible.
func (s *Storage) Shown(e entity.Entity) bool {
	return s.Display.Computed(e) != DisplayNone && s.Visibility.Computed(e) == Visible
}
