// Package scene builds entity trees from YAML scene documents.
//
// A scene names the stylesheets to load and describes a tree of elements:
//
//	stylesheets: [theme.css]
//	sheet: |
//	  .row { layout-type: row; }
//	root:
//	  children:
//	    - element: button
//	      id: ok
//	      class: [primary]
//	      text: OK
//	      role: button
//	      focusable: true
//	      style:
//	        width: 80px
//	        height: 24px
package scene

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/ui"
)

// Document is a parsed scene file.
type Document struct {
	// Stylesheets are loaded in order, relative to the scene file.
	Stylesheets []string `yaml:"stylesheets,omitempty"`
	// Sheet is an inline stylesheet loaded after Stylesheets.
	Sheet string `yaml:"sheet,omitempty"`
	// Root decorates the context root. Its Element is ignored.
	Root Node `yaml:"root"`

	// Dir is the directory Stylesheets are resolved against.
	Dir string `yaml:"-"`
	// Path is the file the document was read from, if any.
	Path string `yaml:"-"`
}

// Node describes one element and its children.
type Node struct {
	Element       string       `yaml:"element,omitempty"`
	ID            string       `yaml:"id,omitempty"`
	Class         []string     `yaml:"class,omitempty"`
	Style         Declarations `yaml:"style,omitempty"`
	Text          string       `yaml:"text,omitempty"`
	Role          string       `yaml:"role,omitempty"`
	Name          string       `yaml:"name,omitempty"`
	Live          string       `yaml:"live,omitempty"`
	DefaultAction string       `yaml:"default-action,omitempty"`
	LabelledBy    string       `yaml:"labelled-by,omitempty"`
	Value         *float64     `yaml:"value,omitempty"`
	TextValue     string       `yaml:"text-value,omitempty"`
	Focusable     bool         `yaml:"focusable,omitempty"`
	Hidden        bool         `yaml:"hidden,omitempty"`
	Disabled      bool         `yaml:"disabled,omitempty"`
	Checked       bool         `yaml:"checked,omitempty"`
	Children      []Node       `yaml:"children,omitempty"`
}

// Declaration is one inline property.
type Declaration struct {
	Name  string
	Value string
	Line  int
}

// Declarations keeps inline properties in document order so shorthands
// and longhands apply the way they are written.
type Declarations []Declaration

// UnmarshalYAML reads a mapping of property names to scalar values.
func (d *Declarations) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: style must be a mapping", node.Line)
	}
	out := make(Declarations, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: style %q must be a scalar", v.Line, k.Value)
		}
		out = append(out, Declaration{Name: k.Value, Value: v.Value, Line: k.Line})
	}
	*d = out
	return nil
}

// MarshalYAML writes the declarations back as an ordered mapping.
func (d Declarations) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, decl := range d {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: decl.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: decl.Value},
		)
	}
	return n, nil
}

// Parse decodes a scene document. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, sceneError("scene.Parse", err)
	}
	return doc, nil
}

func parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the scene at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sceneError("scene.Load", err)
	}
	doc, err := parse(data)
	if err != nil {
		return nil, sceneError("scene.Load", fmt.Errorf("%s: %w", path, err))
	}
	doc.Path = path
	doc.Dir = filepath.Dir(path)
	if abs, err := filepath.Abs(doc.Dir); err == nil {
		doc.Dir = abs
	}
	return doc, nil
}

// SheetPaths returns the document's stylesheet paths resolved against Dir.
func (d *Document) SheetPaths() []string {
	paths := make([]string, len(d.Stylesheets))
	for i, s := range d.Stylesheets {
		if filepath.IsAbs(s) || d.Dir == "" {
			paths[i] = s
		} else {
			paths[i] = filepath.Join(d.Dir, s)
		}
	}
	return paths
}

// Result maps the ids declared in a scene to their entities.
type Result struct {
	Root     entity.Entity
	Entities []entity.Entity
	IDs      map[string]entity.Entity
}

// Lookup returns the entity declared with id.
func (r *Result) Lookup(id string) (entity.Entity, bool) {
	e, ok := r.IDs[id]
	return e, ok
}

// Build loads the document's stylesheets into cx and creates its nodes
// under the context root. Problems with individual sheets, rules or
// properties do not stop the build; they are joined into the returned
// error and every valid part of the scene is still created.
func Build(cx *ui.Context, doc *Document) (*Result, error) {
	b := &builder{cx: cx, res: &Result{Root: cx.Root(), IDs: map[string]entity.Entity{}}}
	for _, path := range doc.SheetPaths() {
		text, err := os.ReadFile(path)
		if err != nil {
			b.errs = append(b.errs, sceneError("scene.Build", err))
			continue
		}
		b.sheet(path, string(text))
	}
	if doc.Sheet != "" {
		name := "inline"
		if doc.Path != "" {
			name = doc.Path + "#sheet"
		}
		b.sheet(name, doc.Sheet)
	}
	b.apply(cx.Root(), &doc.Root)
	for i := range doc.Root.Children {
		b.node(cx.Root(), &doc.Root.Children[i])
	}
	return b.res, stderrors.Join(b.errs...)
}

type builder struct {
	cx   *ui.Context
	res  *Result
	errs []error
}

func (b *builder) sheet(name, text string) {
	for _, perr := range b.cx.LoadStylesheet(name, text) {
		b.errs = append(b.errs, perr)
	}
}

func (b *builder) node(parent entity.Entity, n *Node) {
	el := n.Element
	if el == "" {
		el = "element"
	}
	e := b.cx.Add(parent, ui.Element(el))
	if e.IsNull() {
		b.errs = append(b.errs, sceneError("scene.Build", fmt.Errorf("could not add %q", el)))
		return
	}
	b.res.Entities = append(b.res.Entities, e)
	b.apply(e, n)
	for i := range n.Children {
		b.node(e, &n.Children[i])
	}
}

func (b *builder) apply(e entity.Entity, n *Node) {
	h := b.cx.With(e)
	if n.ID != "" {
		if prev, dup := b.res.IDs[n.ID]; dup && prev != e {
			b.errs = append(b.errs, sceneError("scene.Build", fmt.Errorf("duplicate id %q", n.ID)))
		} else {
			b.res.IDs[n.ID] = e
		}
		h.ID(n.ID)
	}
	h.Class(n.Class...)
	if n.Text != "" {
		h.Text(binding.Const(n.Text))
	}
	if n.Name != "" {
		h.Name(binding.Const(n.Name))
	}
	if n.TextValue != "" {
		h.TextValue(binding.Const(n.TextValue))
	}
	if n.Value != nil {
		h.NumericValue(binding.Const(*n.Value))
	}
	if n.LabelledBy != "" {
		h.LabelledBy(n.LabelledBy)
	}
	b.prop(e, "role", n.Role, 0)
	b.prop(e, "live", n.Live, 0)
	b.prop(e, "default-action-verb", n.DefaultAction, 0)
	if n.Focusable {
		h.Focusable(true)
	}
	if n.Hidden {
		h.Hidden(binding.Const(true))
	}
	if n.Disabled {
		h.Disabled(binding.Const(true))
	}
	if n.Checked {
		h.Checked(binding.Const(true))
	}
	for _, d := range n.Style {
		b.prop(e, d.Name, d.Value, d.Line)
	}
}

func (b *builder) prop(e entity.Entity, name, value string, line int) {
	if value == "" {
		return
	}
	if err := b.cx.Style().SetProperty(e, name, value); err != nil {
		if line > 0 {
			err = fmt.Errorf("line %d: %w", line, err)
		}
		b.errs = append(b.errs, &errors.WeftError{
			Op:        "scene.Build",
			Kind:      errors.KindStyleParse,
			Err:       err,
			Entity:    e,
			Timestamp: time.Now(),
		})
	}
}

func sceneError(op string, err error) error {
	return &errors.WeftError{
		Op:        op,
		Kind:      errors.KindConfig,
		Err:       err,
		Timestamp: time.Now(),
	}
}
