package style

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/go-drift/weft/pkg/entity"
)

// PseudoClass is a set of interaction states an entity can be in.
type PseudoClass uint8

const (
	Hover PseudoClass = 1 << iota
	ActiveState
	Focus
	Checked
	Disabled
)

var pseudoNames = map[string]PseudoClass{
	"hover":    Hover,
	"active":   ActiveState,
	"focus":    Focus,
	"checked":  Checked,
	"disabled": Disabled,
}

func (p PseudoClass) String() string {
	var names []string
	for _, name := range []string{"hover", "active", "focus", "checked", "disabled"} {
		if p&pseudoNames[name] != 0 {
			names = append(names, ":"+name)
		}
	}
	return strings.Join(names, "")
}

// Combinator joins two compound selectors.
type Combinator uint8

const (
	// Descendant matches any ancestor ("A B").
	Descendant Combinator = iota
	// Child matches the direct parent ("A > B").
	Child
)

type compound struct {
	element string
	id      string
	classes []string
	pseudo  PseudoClass
}

func (c compound) matches(m *meta) bool {
	if m == nil {
		m = &meta{}
	}
	if c.element != "" && c.element != m.element {
		return false
	}
	if c.id != "" && c.id != m.id {
		return false
	}
	for _, cls := range c.classes {
		if !m.hasClass(cls) {
			return false
		}
	}
	return m.pseudo&c.pseudo == c.pseudo
}

// Selector is a parsed complex selector such as "list > .item:hover".
type Selector struct {
	text        string
	compounds   []compound
	combinators []Combinator
}

func (sel Selector) String() string { return sel.text }

// Specificity orders selectors by ids, then classes and pseudo-classes, then
// element types.
func (sel Selector) Specificity() int {
	var ids, classes, types int
	for _, c := range sel.compounds {
		if c.id != "" {
			ids++
		}
		classes += len(c.classes) + bits.OnesCount8(uint8(c.pseudo))
		if c.element != "" {
			types++
		}
	}
	return ids*10000 + classes*100 + types
}

// Matches reports whether e matches the selector in s.
func (sel Selector) Matches(s *Storage, e entity.Entity) bool {
	if len(sel.compounds) == 0 || !s.alive(e) {
		return false
	}
	return sel.matchAt(s, e, len(sel.compounds)-1)
}

func (sel Selector) matchAt(s *Storage, e entity.Entity, i int) bool {
	if !sel.compounds[i].matches(s.meta[e]) {
		return false
	}
	if i == 0 {
		return true
	}
	switch sel.combinators[i-1] {
	case Child:
		p := s.tree.Parent(e)
		return !p.IsNull() && sel.matchAt(s, p, i-1)
	default:
		for a := range s.tree.Ancestors(e) {
			if sel.matchAt(s, a, i-1) {
				return true
			}
		}
		return false
	}
}

// ParseSelector parses a single complex selector.
func ParseSelector(text string) (Selector, error) {
	src := strings.TrimSpace(text)
	sel := Selector{text: src}
	if src == "" {
		return sel, fmt.Errorf("empty selector")
	}
	i := 0
	for {
		c, n, err := parseCompound(src[i:])
		if err != nil {
			return sel, err
		}
		if n == 0 {
			return sel, fmt.Errorf("unexpected %q in selector", src[i:i+1])
		}
		sel.compounds = append(sel.compounds, c)
		i += n

		start := i
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i == len(src) {
			return sel, nil
		}
		comb := Descendant
		if src[i] == '>' {
			comb = Child
			i++
			for i < len(src) && isSpace(src[i]) {
				i++
			}
		} else if i == start {
			return sel, fmt.Errorf("unexpected %q in selector", src[i:i+1])
		}
		if i == len(src) {
			return sel, fmt.Errorf("selector ends with a combinator")
		}
		sel.combinators = append(sel.combinators, comb)
	}
}

// ParseSelectorList parses a comma-separated selector group.
func ParseSelectorList(text string) ([]Selector, error) {
	var out []Selector
	for _, part := range strings.Split(text, ",") {
		sel, err := ParseSelector(part)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func parseCompound(s string) (compound, int, error) {
	var c compound
	i := 0
	if i < len(s) && s[i] == '*' {
		i++
	} else if name := ident(s); name != "" {
		c.element = strings.ToLower(name)
		i += len(name)
	}
	for i < len(s) {
		switch s[i] {
		case '#', '.', ':':
			kind := s[i]
			name := ident(s[i+1:])
			if name == "" {
				return c, i, fmt.Errorf("expected a name after %q", string(kind))
			}
			i += 1 + len(name)
			switch kind {
			case '#':
				if c.id != "" && c.id != name {
					return c, i, fmt.Errorf("selector has two ids")
				}
				c.id = name
			case '.':
				c.classes = append(c.classes, name)
			case ':':
				p, ok := pseudoNames[strings.ToLower(name)]
				if !ok {
					return c, i, fmt.Errorf("unknown pseudo-class %q", name)
				}
				c.pseudo |= p
			}
		default:
			return c, i, nil
		}
	}
	return c, i, nil
}

func ident(s string) string {
	n := 0
	for n < len(s) && isIdentByte(s[n]) {
		n++
	}
	return s[:n]
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
