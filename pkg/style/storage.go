// Package style stores per-entity style attributes and runs the cascade.
//
// Every attribute lives in its own sparse [Property] table keyed by entity.
// Values come from three tiers, lowest first: stylesheet rules matched by
// selector, inline values set on the entity, and running transitions.
// Attributes marked inherited fall back to the parent's computed value, and
// everything else falls back to a compiled default.
package style

import (
	"log/slog"
	"slices"
	"time"

	"github.com/go-drift/weft/pkg/animation"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/tree"
)

// RuleID identifies one selector of a loaded stylesheet rule.
type RuleID int

type ruleEntry struct {
	sheet       string
	selector    Selector
	specificity int
	order       int
}

type sheetEntry struct {
	name  string
	rules []RuleID
}

type meta struct {
	id      string
	element string
	classes []string
	pseudo  PseudoClass
}

func (m *meta) hasClass(name string) bool {
	return slices.Contains(m.classes, name)
}

type trackKey struct {
	entity   entity.Entity
	property string
}

// Storage holds every style attribute table plus the selector state needed
// to match stylesheet rules.
type Storage struct {
	tree    *tree.Tree
	handler errors.ErrorHandler
	logger  *slog.Logger

	props  []property
	byName map[string]property

	meta    map[entity.Entity]*meta
	byID    map[string][]entity.Entity
	rules   []*ruleEntry
	sheets  []*sheetEntry
	order   int
	matched map[entity.Entity][]RuleID

	restyle    map[entity.Entity]struct{}
	restyleAll bool
	restyled   []entity.Entity

	timeline *animation.Timeline[trackKey]

	BackgroundColor *Property[Color]
	Foreground      *Property[Color]
	BorderColor     *Property[Color]
	BackgroundImage *Property[LinearGradient]

	Width     *Property[Units]
	Height    *Property[Units]
	MinWidth  *Property[Units]
	MinHeight *Property[Units]
	MaxWidth  *Property[Units]
	MaxHeight *Property[Units]

	Left   *Property[Units]
	Right  *Property[Units]
	Top    *Property[Units]
	Bottom *Property[Units]

	ChildLeft   *Property[Units]
	ChildRight  *Property[Units]
	ChildTop    *Property[Units]
	ChildBottom *Property[Units]
	RowBetween  *Property[Units]
	ColBetween  *Property[Units]

	LayoutType   *Property[LayoutType]
	PositionType *Property[PositionType]
	Display      *Property[Display]
	Visibility   *Property[Visibility]
	ZIndex       *Property[int]
	Opacity      *Property[float64]
	BorderWidth  *Property[float64]
	BorderRadius *Property[float64]

	FontFamily *Property[string]
	FontSize   *Property[float64]
	FontWeight *Property[FontWeight]
	Text       *Property[string]

	Role              *Property[Role]
	Name              *Property[string]
	Live              *Property[Live]
	DefaultActionVerb *Property[DefaultActionVerb]
	LabelledBy        *Property[string]
	NumericValue      *Property[float64]
	TextValue         *Property[string]
	Hidden            *Property[bool]
	Focusable         *Property[bool]

	Transitions *Property[[]Transition]
}

// Option configures a Storage.
type Option func(*Storage)

// WithErrorHandler routes parse errors to h instead of the global handler.
func WithErrorHandler(h errors.ErrorHandler) Option {
	return func(s *Storage) { s.handler = h }
}

// WithLogger sets the logger used for cascade diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) { s.logger = l }
}

// NewStorage creates the attribute tables for entities of t.
func NewStorage(t *tree.Tree, opts ...Option) *Storage {
	s := &Storage{
		tree:     t,
		byName:   make(map[string]property),
		meta:     make(map[entity.Entity]*meta),
		byID:     make(map[string][]entity.Entity),
		matched:  make(map[entity.Entity][]RuleID),
		restyle:  make(map[entity.Entity]struct{}),
		timeline: animation.NewTimeline[trackKey](),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	t.OnAttach(s.rematch)

	const (
		none      propFlags = 0
		inherited           = flagInherited
		layout              = flagLayout
	)

	s.BackgroundColor = comparableProperty(s, "background-color", ColorTransparent, ParseColor, none).animatable(LerpColor)
	s.Foreground = comparableProperty(s, "color", ColorBlack, ParseColor, inherited).animatable(LerpColor)
	s.BorderColor = comparableProperty(s, "border-color", ColorTransparent, ParseColor, none).animatable(LerpColor)
	s.BackgroundImage = newProperty(s, "background-image", LinearGradient{}, ParseLinearGradient, none)

	units := func(name string, def Units) *Property[Units] {
		return comparableProperty(s, name, def, ParseUnits, layout).animatable(LerpUnits)
	}
	s.Width = units("width", Fill(1))
	s.Height = units("height", Fill(1))
	s.MinWidth = units("min-width", AutoUnits)
	s.MinHeight = units("min-height", AutoUnits)
	s.MaxWidth = units("max-width", AutoUnits)
	s.MaxHeight = units("max-height", AutoUnits)
	s.Left = units("left", AutoUnits)
	s.Right = units("right", AutoUnits)
	s.Top = units("top", AutoUnits)
	s.Bottom = units("bottom", AutoUnits)
	s.ChildLeft = units("child-left", AutoUnits)
	s.ChildRight = units("child-right", AutoUnits)
	s.ChildTop = units("child-top", AutoUnits)
	s.ChildBottom = units("child-bottom", AutoUnits)
	s.RowBetween = units("row-between", AutoUnits)
	s.ColBetween = units("col-between", AutoUnits)

	s.LayoutType = comparableProperty(s, "layout-type", Column, parseLayoutType, layout)
	s.PositionType = comparableProperty(s, "position-type", ParentDirected, parsePositionType, layout)
	s.Display = comparableProperty(s, "display", DisplayFlex, parseDisplay, layout)
	s.Visibility = comparableProperty(s, "visibility", Visible, parseVisibility, inherited)
	s.ZIndex = comparableProperty(s, "z-index", 0, parseInt, layout)
	s.Opacity = comparableProperty(s, "opacity", 1.0, parseFloat, none).animatable(animation.LerpFloat64)
	s.BorderWidth = comparableProperty(s, "border-width", 0.0, parseFloat, layout).animatable(animation.LerpFloat64)
	s.BorderRadius = comparableProperty(s, "border-radius", 0.0, parseFloat, none).animatable(animation.LerpFloat64)

	s.FontFamily = comparableProperty(s, "font-family", "sans-serif", parseString, inherited|layout)
	s.FontSize = comparableProperty(s, "font-size", 13.0, parseFloat, inherited|layout).animatable(animation.LerpFloat64)
	s.FontWeight = comparableProperty(s, "font-weight", FontWeightNormal, parseFontWeight, inherited|layout)
	s.Text = comparableProperty(s, "text", "", parseString, layout)

	s.Role = comparableProperty(s, "role", RoleNone, parseRole, none)
	s.Name = comparableProperty(s, "name", "", parseString, none)
	s.Live = comparableProperty(s, "live", LiveOff, parseLive, none)
	s.DefaultActionVerb = comparableProperty(s, "default-action-verb", ActionNone, parseActionVerb, none)
	s.LabelledBy = comparableProperty(s, "labelled-by", "", parseString, none)
	s.NumericValue = comparableProperty(s, "numeric-value", 0.0, parseFloat, none)
	s.TextValue = comparableProperty(s, "text-value", "", parseString, none)
	s.Hidden = comparableProperty(s, "hidden", false, parseBool, none)
	s.Focusable = comparableProperty(s, "focusable", false, parseBool, none)

	s.Transitions = newProperty(s, "transition", []Transition(nil), ParseTransitions, none)
	return s
}

func (s *Storage) register(p property) {
	s.props = append(s.props, p)
	s.byName[p.Name()] = p
}

// Tree returns the tree whose entities are styled.
func (s *Storage) Tree() *tree.Tree { return s.tree }

// PropertyNames lists every attribute name in registration order.
func (s *Storage) PropertyNames() []string {
	names := make([]string, len(s.props))
	for i, p := range s.props {
		names[i] = p.Name()
	}
	return names
}

// SetProperty parses text and stores it as an inline value of the named
// attribute. Shorthands expand to their longhand attributes.
func (s *Storage) SetProperty(e entity.Entity, name, text string) error {
	for _, long := range expand(name) {
		p, ok := s.byName[long]
		if !ok {
			return errUnknownProperty(name)
		}
		if err := p.setInlineText(e, text); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) alive(e entity.Entity) bool {
	return s.tree.Entities().IsAlive(e)
}

func (s *Storage) metaFor(e entity.Entity) *meta {
	m := s.meta[e]
	if m == nil {
		m = &meta{}
		s.meta[e] = m
	}
	return m
}

// SetID sets the selector id of e.
func (s *Storage) SetID(e entity.Entity, id string) {
	if !s.alive(e) {
		return
	}
	m := s.metaFor(e)
	if m.id == id {
		return
	}
	s.unindexID(e, m.id)
	m.id = id
	if id != "" {
		s.byID[id] = append(s.byID[id], e)
	}
	s.rematch(e)
}

func (s *Storage) unindexID(e entity.Entity, id string) {
	if id == "" {
		return
	}
	holders := slices.DeleteFunc(s.byID[id], func(x entity.Entity) bool { return x == e })
	if len(holders) == 0 {
		delete(s.byID, id)
	} else {
		s.byID[id] = holders
	}
}

// ID returns the selector id of e.
func (s *Storage) ID(e entity.Entity) string {
	if m := s.meta[e]; m != nil {
		return m.id
	}
	return ""
}

// Lookup finds the live entity with the given id. When several entities
// share the id, the one that took it first wins.
func (s *Storage) Lookup(id string) (entity.Entity, bool) {
	for _, e := range s.byID[id] {
		if s.alive(e) {
			return e, true
		}
	}
	return entity.Null, false
}

// SetElement sets the element (type selector) name of e.
func (s *Storage) SetElement(e entity.Entity, name string) {
	if !s.alive(e) {
		return
	}
	s.metaFor(e).element = name
	s.rematch(e)
}

// Element returns the element name of e.
func (s *Storage) Element(e entity.Entity) string {
	if m := s.meta[e]; m != nil {
		return m.element
	}
	return ""
}

// AddClass adds a class to e.
func (s *Storage) AddClass(e entity.Entity, class string) {
	if !s.alive(e) {
		return
	}
	m := s.metaFor(e)
	if m.hasClass(class) {
		return
	}
	m.classes = append(m.classes, class)
	s.rematch(e)
}

// RemoveClass removes a class from e.
func (s *Storage) RemoveClass(e entity.Entity, class string) {
	m := s.meta[e]
	if m == nil {
		return
	}
	i := slices.Index(m.classes, class)
	if i < 0 {
		return
	}
	m.classes = slices.Delete(m.classes, i, i+1)
	s.rematch(e)
}

// ToggleClass adds or removes a class depending on on.
func (s *Storage) ToggleClass(e entity.Entity, class string, on bool) {
	if on {
		s.AddClass(e, class)
	} else {
		s.RemoveClass(e, class)
	}
}

// HasClass reports whether e carries class.
func (s *Storage) HasClass(e entity.Entity, class string) bool {
	m := s.meta[e]
	return m != nil && m.hasClass(class)
}

// Classes returns the classes of e in insertion order.
func (s *Storage) Classes(e entity.Entity) []string {
	if m := s.meta[e]; m != nil {
		return slices.Clone(m.classes)
	}
	return nil
}

// SetPseudo turns pseudo-class flags on or off for e.
func (s *Storage) SetPseudo(e entity.Entity, p PseudoClass, on bool) {
	if !s.alive(e) {
		return
	}
	m := s.metaFor(e)
	next := m.pseudo &^ p
	if on {
		next |= p
	}
	if next == m.pseudo {
		return
	}
	m.pseudo = next
	s.rematch(e)
}

// Pseudo returns the pseudo-class flags of e.
func (s *Storage) Pseudo(e entity.Entity) PseudoClass {
	if m := s.meta[e]; m != nil {
		return m.pseudo
	}
	return 0
}

// rematch invalidates rule matches of e and its descendants, since
// descendant and child selectors depend on ancestor state.
func (s *Storage) rematch(e entity.Entity) {
	for d := range s.tree.PreOrder(e).All() {
		delete(s.matched, d)
		s.restyle[d] = struct{}{}
	}
	if !s.tree.Contains(e) {
		delete(s.matched, e)
		s.restyle[e] = struct{}{}
	}
}

// MarkRestyle schedules e for the next cascade.
func (s *Storage) MarkRestyle(e entity.Entity) {
	if s.alive(e) {
		s.restyle[e] = struct{}{}
	}
}

// MarkRestyleAll schedules every entity for the next cascade.
func (s *Storage) MarkRestyleAll() {
	s.restyleAll = true
}

// NeedsRestyle reports whether a cascade has pending work.
func (s *Storage) NeedsRestyle() bool {
	return s.restyleAll || len(s.restyle) > 0
}

// matchedRules returns the rules matching e, best first.
func (s *Storage) matchedRules(e entity.Entity) []RuleID {
	if ids, ok := s.matched[e]; ok {
		return ids
	}
	var ids []RuleID
	for id, r := range s.rules {
		if r != nil && r.selector.Matches(s, e) {
			ids = append(ids, RuleID(id))
		}
	}
	slices.SortFunc(ids, func(a, b RuleID) int {
		ra, rb := s.rules[a], s.rules[b]
		if ra.specificity != rb.specificity {
			return rb.specificity - ra.specificity
		}
		return rb.order - ra.order
	})
	s.matched[e] = ids
	return ids
}

// MatchedSelectors returns the selectors matching e, best first.
func (s *Storage) MatchedSelectors(e entity.Entity) []string {
	var out []string
	for _, id := range s.matchedRules(e) {
		out = append(out, s.rules[id].selector.String())
	}
	return out
}

// AddSheet installs the rules of sheet after any previously added sheets, so
// equal-specificity rules in it win. Declarations naming unknown attributes
// or holding invalid values are skipped and returned.
func (s *Storage) AddSheet(sheet *Sheet) []*errors.StyleParseError {
	entry := &sheetEntry{name: sheet.Name}
	var errs []*errors.StyleParseError
	for _, rule := range sheet.Rules {
		for _, sel := range rule.Selectors {
			id := RuleID(len(s.rules))
			s.order++
			s.rules = append(s.rules, &ruleEntry{
				sheet:       sheet.Name,
				selector:    sel,
				specificity: sel.Specificity(),
				order:       s.order,
			})
			entry.rules = append(entry.rules, id)
			for _, d := range rule.Declarations {
				if err := s.declare(id, d); err != nil {
					errs = append(errs, &errors.StyleParseError{
						Source:  sheet.Name,
						Line:    d.Line,
						Column:  d.Column,
						Snippet: d.Property + ": " + d.Value,
						Msg:     err.Error(),
					})
				}
			}
		}
	}
	s.sheets = append(s.sheets, entry)
	s.invalidateRules()
	s.report("style.AddSheet", errs)
	return errs
}

func (s *Storage) declare(id RuleID, d Declaration) error {
	for _, long := range expand(d.Property) {
		p, ok := s.byName[long]
		if !ok {
			return errUnknownProperty(d.Property)
		}
		if err := p.setRule(id, d.Value); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSheet drops every rule installed from the named sheet.
func (s *Storage) RemoveSheet(name string) bool {
	i := slices.IndexFunc(s.sheets, func(e *sheetEntry) bool { return e.name == name })
	if i < 0 {
		return false
	}
	entry := s.sheets[i]
	s.sheets = slices.Delete(s.sheets, i, i+1)
	ids := make(map[RuleID]bool, len(entry.rules))
	for _, id := range entry.rules {
		ids[id] = true
		s.rules[id] = nil
	}
	for _, p := range s.props {
		p.clearRules(ids)
	}
	s.invalidateRules()
	return true
}

// LoadSheet parses text and replaces any sheet already loaded under name.
// Both syntax errors and rejected declarations are returned.
func (s *Storage) LoadSheet(name, text string) []*errors.StyleParseError {
	sheet, errs := Parse(name, text)
	s.report("style.Parse", errs)
	s.RemoveSheet(name)
	return append(errs, s.AddSheet(sheet)...)
}

// Sheets lists loaded sheet names in precedence order.
func (s *Storage) Sheets() []string {
	names := make([]string, len(s.sheets))
	for i, e := range s.sheets {
		names[i] = e.name
	}
	return names
}

func (s *Storage) invalidateRules() {
	clear(s.matched)
	s.restyleAll = true
}

func (s *Storage) report(op string, errs []*errors.StyleParseError) {
	for _, err := range errs {
		errors.ReportTo(s.handler, &errors.WeftError{
			Op:   op,
			Kind: errors.KindStyleParse,
			Err:  err,
		})
	}
}

// transitionFor returns the transition declared on e for the named property.
func (s *Storage) transitionFor(e entity.Entity, name string) (Transition, bool) {
	trs, ok := s.Transitions.Get(e)
	if !ok {
		return Transition{}, false
	}
	for _, tr := range trs {
		if tr.Property == name || tr.Property == "all" {
			return tr, true
		}
	}
	return Transition{}, false
}

func (s *Storage) startTrack(e entity.Entity, name string, tr Transition, apply func(float64), done func()) {
	easing, err := animation.ParseEasing(tr.Easing)
	if err != nil {
		easing, _ = animation.ParseEasing("linear")
	}
	track := animation.NewTrack(tr.Duration, tr.Delay, easing, apply).OnDone(done)
	s.timeline.Start(trackKey{entity: e, property: name}, track)
}

func (s *Storage) cancelTrack(e entity.Entity, name string) {
	s.timeline.Cancel(trackKey{entity: e, property: name})
}

// Animating reports whether any transition is running or pending.
func (s *Storage) Animating() bool {
	return s.timeline.Active() > 0
}

// StepAnimations advances running transitions by dt and marks every entity
// whose animated value moved for restyle. It returns those entities.
func (s *Storage) StepAnimations(dt time.Duration) []entity.Entity {
	var touched []entity.Entity
	for _, key := range s.timeline.Step(dt) {
		if !s.alive(key.entity) {
			continue
		}
		if !slices.Contains(touched, key.entity) {
			touched = append(touched, key.entity)
		}
		s.restyle[key.entity] = struct{}{}
	}
	return touched
}

// Remove purges e from every table. Call it for each entity returned by
// tree.Remove.
func (s *Storage) Remove(e entity.Entity) {
	for _, p := range s.props {
		p.purge(e)
	}
	if m := s.meta[e]; m != nil {
		s.unindexID(e, m.id)
	}
	delete(s.meta, e)
	delete(s.matched, e)
	delete(s.restyle, e)
	s.timeline.CancelFunc(func(k trackKey) bool { return k.entity == e })
}
