package scene

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

const demo = `
sheet: |
  button { background: red; }
  .wide { width: 200px; }
root:
  role: window
  name: Demo
  children:
    - element: label
      id: title
      text: Hello
    - element: button
      id: ok
      class: [wide]
      role: button
      labelled-by: title
      focusable: true
      style:
        height: 24px
        child-space: 2px
        child-top: 4px
      children:
        - element: icon
          hidden: true
    - element: slider
      id: volume
      role: slider
      value: 0.5
      disabled: true
`

func newContext(t *testing.T) *ui.Context {
	t.Helper()
	return ui.New(ui.WithErrorHandler(&errors.Collector{}), ui.WithViewport(400, 300))
}

func TestBuildCreatesTree(t *testing.T) {
	doc, err := Parse([]byte(demo))
	require.NoError(t, err)
	cx := newContext(t)
	res, err := Build(cx, doc)
	require.NoError(t, err)
	cx.Tick(16 * time.Millisecond)

	require.Len(t, res.Entities, 4)
	ok, found := res.Lookup("ok")
	require.True(t, found)
	title, _ := res.Lookup("title")
	volume, _ := res.Lookup("volume")

	assert.Equal(t, "button", cx.Style().Element(ok))
	assert.Equal(t, cx.Root(), cx.Tree().Parent(ok))
	assert.Equal(t, "Hello", cx.Style().Text.Computed(title))
	assert.Equal(t, style.Px(200), cx.Style().Width.Computed(ok))
	assert.Equal(t, style.Px(24), cx.Style().Height.Computed(ok))
	assert.Equal(t, style.ColorRed, cx.Style().Resolve(ok).Background)

	// declarations apply in document order, so the longhand wins
	assert.Equal(t, style.Px(2), cx.Style().ChildLeft.Computed(ok))
	assert.Equal(t, style.Px(4), cx.Style().ChildTop.Computed(ok))

	role, _ := cx.Style().Role.Get(cx.Root())
	assert.Equal(t, style.RoleWindow, role)
	label, _ := cx.Style().LabelledBy.Get(ok)
	assert.Equal(t, "title", label)
	v, _ := cx.Style().NumericValue.Get(volume)
	assert.Equal(t, 0.5, v)
	assert.NotZero(t, cx.Style().Pseudo(volume)&style.Disabled)

	icon := cx.Tree().Children(ok)[0]
	hidden, _ := cx.Style().Hidden.Get(icon)
	assert.True(t, hidden)
	assert.Equal(t, "icon", cx.Style().Element(icon))
}

func TestBuildKeepsGoingPastBadProperties(t *testing.T) {
	doc, err := Parse([]byte(`
sheet: "label { color: nope; } .x { width: 5px }"
root:
  children:
    - element: label
      class: [x]
      role: wizard
      style:
        bogus: "1"
        height: 10px
`))
	require.NoError(t, err)
	cx := newContext(t)
	res, err := Build(cx, doc)
	require.Error(t, err)
	cx.Tick(16 * time.Millisecond)

	var perr *errors.StyleParseError
	assert.True(t, stderrors.As(err, &perr))
	var werr *errors.WeftError
	require.True(t, stderrors.As(err, &werr))
	assert.Equal(t, errors.KindStyleParse, werr.Kind)

	require.Len(t, res.Entities, 1)
	e := res.Entities[0]
	assert.Equal(t, style.Px(5), cx.Style().Width.Computed(e))
	assert.Equal(t, style.Px(10), cx.Style().Height.Computed(e))
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	doc, err := Parse([]byte(`
root:
  children:
    - id: a
    - id: a
`))
	require.NoError(t, err)
	res, err := Build(newContext(t), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "a"`)
	assert.Len(t, res.Entities, 2)
	assert.Equal(t, res.Entities[0], res.IDs["a"])
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("root:\n  colour: red\n"))
	require.Error(t, err)
	var werr *errors.WeftError
	require.True(t, stderrors.As(err, &werr))
	assert.Equal(t, errors.KindConfig, werr.Kind)

	_, err = Parse([]byte("root:\n  style: [a, b]\n"))
	assert.ErrorContains(t, err, "style must be a mapping")
}

func TestLoadResolvesStylesheetsAgainstSceneDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "theme.css"), []byte("panel { color: blue }"), 0o644))
	scene := filepath.Join(dir, "main.yaml")
	require.NoError(t, os.WriteFile(scene, []byte(`
stylesheets: [css/theme.css, missing.css]
root:
  children:
    - element: panel
      id: p
`), 0o644))

	doc, err := Load(scene)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "css", "theme.css"), filepath.Join(dir, "missing.css")}, doc.SheetPaths())

	cx := newContext(t)
	res, err := Build(cx, doc)
	require.Error(t, err, "missing sheet is reported")
	cx.Tick(16 * time.Millisecond)
	p, _ := res.Lookup("p")
	assert.Equal(t, style.ColorBlue, cx.Style().Resolve(p).Foreground)

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestDeclarationsKeepOrderWhenMarshalled(t *testing.T) {
	n := Node{Style: Declarations{{Name: "width", Value: "1px"}, {Name: "child-space", Value: "2px"}, {Name: "child-top", Value: "3px"}}}
	out, err := yaml.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "style:\n    width: 1px\n    child-space: 2px\n    child-top: 3px\n", string(out))
}
