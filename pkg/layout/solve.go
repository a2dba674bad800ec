package layout

import (
	"math"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
)

const (
	before = iota
	main
	after
)

// span is one child's extent along one axis: leading space, size and
// trailing space.
type span struct {
	entity  entity.Entity
	units   [3]style.Units
	min     style.Units
	max     style.Units
	content float64
	out     [3]float64
}

type stretchRef struct {
	s *span
	i int
}

// solve resolves spans that share length. Pixel and percentage values are
// fixed, auto sizes take their content size, and stretch values split what
// is left in proportion to their factors. Stretched sizes that violate
// their min/max are frozen at the bound and the remainder redistributed.
func (e *Engine) solve(axis string, length float64, spans []*span) {
	fixed := 0.0
	factor := 0.0
	var stretch []stretchRef
	for _, s := range spans {
		lo, hi := e.bounds(axis, s, length)
		for i, u := range s.units {
			var v float64
			switch u.Kind {
			case style.Pixels:
				v = u.Value
			case style.Percentage:
				v = length * u.Value / 100
			case style.Stretch:
				stretch = append(stretch, stretchRef{s: s, i: i})
				factor += u.Value
				continue
			default:
				if i == main {
					v = s.content
				}
			}
			if i == main {
				v = e.clampSize(axis, s.entity, v, lo, hi)
			} else if v < 0 {
				v = 0
			}
			s.out[i] = v
			fixed += v
		}
	}

	for len(stretch) > 0 {
		free := math.Max(length-fixed, 0)
		per := 0.0
		if factor > 0 {
			per = free / factor
		}
		frozen := false
		for k := 0; k < len(stretch); k++ {
			r := stretch[k]
			if r.i != main {
				continue
			}
			lo, hi := e.bounds(axis, r.s, length)
			v := per * r.s.units[main].Value
			if c := math.Min(math.Max(v, lo), hi); c != v {
				r.s.out[main] = c
				fixed += c
				factor -= r.s.units[main].Value
				stretch = append(stretch[:k], stretch[k+1:]...)
				k--
				frozen = true
			}
		}
		if frozen {
			continue
		}
		for _, r := range stretch {
			r.s.out[r.i] = per * r.s.units[r.i].Value
		}
		break
	}
}

// bounds resolves the min/max constraints of a span's size.
func (e *Engine) bounds(axis string, s *span, length float64) (lo, hi float64) {
	lo, hi = 0, math.Inf(1)
	if !s.min.IsAuto() && s.min.Kind != style.Stretch {
		lo = s.min.ValueOr(length, 0)
	}
	if !s.max.IsAuto() && s.max.Kind != style.Stretch {
		hi = s.max.ValueOr(length, hi)
	}
	if lo > hi {
		e.constraint(s.entity, axis, hi, lo)
		hi = lo
	}
	return lo, hi
}

func (e *Engine) clampSize(axis string, ent entity.Entity, v, lo, hi float64) float64 {
	if v < 0 {
		e.constraint(ent, axis, v, 0)
		v = 0
	}
	return math.Min(math.Max(v, lo), hi)
}

// place turns solved spans into positions along the axis, one after
// another, starting at origin.
func place(origin float64, spans []*span) []float64 {
	pos := make([]float64, len(spans))
	cursor := origin
	for i, s := range spans {
		cursor += s.out[before]
		pos[i] = cursor
		cursor += s.out[main] + s.out[after]
	}
	return pos
}
