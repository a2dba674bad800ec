package style

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitKind selects how a Units value is resolved by layout.
type UnitKind uint8

const (
	// Auto sizes from content (or is ignored for spacing).
	Auto UnitKind = iota
	// Pixels is an absolute length.
	Pixels
	// Percentage is a fraction of the parent's inner length.
	Percentage
	// Stretch is a share of the free space left after fixed items.
	Stretch
)

// Units is a length in one of the UnitKind modes.
type Units struct {
	Kind  UnitKind
	Value float64
}

// Px returns a pixel length.
func Px(v float64) Units { return Units{Kind: Pixels, Value: v} }

// Pct returns a percentage length.
func Pct(v float64) Units { return Units{Kind: Percentage, Value: v} }

// Fill returns a stretch factor.
func Fill(v float64) Units { return Units{Kind: Stretch, Value: v} }

// AutoUnits is the zero value: sized from content.
var AutoUnits = Units{}

// IsAuto reports whether u is Auto.
func (u Units) IsAuto() bool { return u.Kind == Auto }

// ValueOr resolves u against parent, returning fallback for Auto and Stretch.
func (u Units) ValueOr(parent, fallback float64) float64 {
	switch u.Kind {
	case Pixels:
		return u.Value
	case Percentage:
		return parent * u.Value / 100
	default:
		return fallback
	}
}

func (u Units) String() string {
	switch u.Kind {
	case Pixels:
		return strconv.FormatFloat(u.Value, 'f', -1, 64) + "px"
	case Percentage:
		return strconv.FormatFloat(u.Value, 'f', -1, 64) + "%"
	case Stretch:
		return strconv.FormatFloat(u.Value, 'f', -1, 64) + "s"
	default:
		return "auto"
	}
}

// LerpUnits interpolates two lengths of the same kind. Mixed kinds snap to b.
func LerpUnits(a, b Units, t float64) Units {
	if a.Kind != b.Kind {
		if t < 1 {
			return a
		}
		return b
	}
	return Units{Kind: a.Kind, Value: a.Value + (b.Value-a.Value)*t}
}

// ParseUnits parses "auto", "12px", "12", "50%" and "1s" (stretch).
func ParseUnits(s string) (Units, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "auto" {
		return AutoUnits, nil
	}
	kind := Pixels
	num := s
	switch {
	case strings.HasSuffix(s, "px"):
		num = s[:len(s)-2]
	case strings.HasSuffix(s, "%"):
		kind, num = Percentage, s[:len(s)-1]
	case strings.HasSuffix(s, "s"):
		kind, num = Stretch, s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Units{}, fmt.Errorf("invalid length %q", s)
	}
	return Units{Kind: kind, Value: v}, nil
}

// LayoutType chooses how a parent arranges its parent-directed children.
type LayoutType uint8

const (
	// Column stacks children vertically.
	Column LayoutType = iota
	// Row places children horizontally.
	Row
	// Stack overlays children on top of each other (z-stack).
	Stack
)

func (l LayoutType) String() string {
	switch l {
	case Row:
		return "row"
	case Stack:
		return "stack"
	default:
		return "column"
	}
}

// PositionType chooses whether the parent or the entity places itself.
type PositionType uint8

const (
	// ParentDirected entities flow within the parent's layout.
	ParentDirected PositionType = iota
	// SelfDirected entities are placed at their own offsets from the parent's
	// inner origin and take no space in the flow.
	SelfDirected
)

// Display controls whether an entity takes part in layout at all.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

// Visibility controls whether an entity is painted and hit-testable.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)

// FontWeight is a numeric font weight.
type FontWeight int

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

func parseEnum[T any](table map[string]T) func(string) (T, error) {
	return func(s string) (T, error) {
		v, ok := table[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			var zero T
			return zero, fmt.Errorf("unknown keyword %q", s)
		}
		return v, nil
	}
}

var (
	parseLayoutType = parseEnum(map[string]LayoutType{
		"column": Column, "row": Row, "stack": Stack, "zstack": Stack,
	})
	parsePositionType = parseEnum(map[string]PositionType{
		"parent-directed": ParentDirected, "relative": ParentDirected,
		"self-directed": SelfDirected, "absolute": SelfDirected,
	})
	parseDisplay = parseEnum(map[string]Display{
		"flex": DisplayFlex, "block": DisplayFlex, "none": DisplayNone,
	})
	parseVisibility = parseEnum(map[string]Visibility{
		"visible": Visible, "hidden": Hidden,
	})
)

func parseFontWeight(s string) (FontWeight, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return FontWeightNormal, nil
	case "bold":
		return FontWeightBold, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > 1000 {
		return 0, fmt.Errorf("invalid font weight %q", s)
	}
	return FontWeight(v), nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px")), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return v, nil
}

func parseString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s, nil
}
