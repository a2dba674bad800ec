package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// UpdateEnv names the environment variable that rewrites golden files.
const UpdateEnv = "WEFT_UPDATE_SNAPSHOTS"

// Snapshot captures the laid-out tree and the paint walk.
type Snapshot struct {
	Tree  *Node     `json:"tree"`
	Paint []PaintOp `json:"paint,omitempty"`
}

// Node is one entity in the serialized tree.
type Node struct {
	ID       string         `json:"id"`
	Element  string         `json:"element"`
	Selector string         `json:"selector,omitempty"`
	Box      [4]float64     `json:"box"`
	Props    map[string]any `json:"props,omitempty"`
	Children []*Node        `json:"children,omitempty"`
}

// CaptureSnapshot captures the current tree and paint walk. Node ids are
// stable across runs: the element name and its index among entities with
// the same element, like "button#1".
func (t *Tester) CaptureSnapshot() *Snapshot {
	return Capture(t.cx)
}

// Capture snapshots cx.
func Capture(cx *ui.Context) *Snapshot {
	counter := &elementCounter{}
	names := make(map[entity.Entity]string)
	snap := &Snapshot{Tree: captureNode(cx, cx.Root(), counter, names)}
	snap.Paint = capturePaint(cx, names)
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When WEFT_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between other (expected) and this snapshot.
// Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// --- Internal ---

// elementCounter assigns stable ids like "button#0", "button#1".
type elementCounter struct {
	counts map[string]int
}

func (c *elementCounter) next(element string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[element]
	c.counts[element] = n + 1
	return fmt.Sprintf("%s#%d", element, n)
}

func captureNode(cx *ui.Context, e entity.Entity, counter *elementCounter, names map[entity.Entity]string) *Node {
	st := cx.Style()
	element := st.Element(e)
	node := &Node{
		ID:       counter.next(element),
		Element:  element,
		Selector: selector(st, e),
	}
	names[e] = node.ID
	if box, ok := cx.Layout().Box(e); ok {
		node.Box = serializeRect(box)
	}
	if props := captureProps(cx, e); len(props) > 0 {
		node.Props = props
	}
	for _, c := range cx.Tree().Children(e) {
		node.Children = append(node.Children, captureNode(cx, c, counter, names))
	}
	return node
}

func selector(st *style.Storage, e entity.Entity) string {
	var b strings.Builder
	if id := st.ID(e); id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range st.Classes(e) {
		b.WriteString("." + c)
	}
	return b.String()
}

func captureProps(cx *ui.Context, e entity.Entity) map[string]any {
	st := cx.Style()
	props := make(map[string]any)
	if t := st.Text.Computed(e); t != "" {
		props["text"] = t
	}
	if r := st.Role.Computed(e); r != style.RoleNone {
		props["role"] = r.String()
	}
	if !st.Shown(e) {
		props["hidden"] = true
	}
	if cx.Focus().Focused() == e {
		props["focused"] = true
	}
	return props
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
