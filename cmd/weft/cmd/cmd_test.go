package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/weft/cmd/weft/internal/templates"
)

// syncBuffer is a bytes.Buffer safe for the watch goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// withOutput captures stdout and stderr for the rest of the test.
func withOutput(t *testing.T) (out, errOut *syncBuffer) {
	t.Helper()
	out, errOut = &syncBuffer{}, &syncBuffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return out, errOut
}

// newScene scaffolds the starter scene into a temp dir and returns the
// scene path.
func newScene(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "demo")
	if err := scaffoldProject(dir, templates.NewTemplateData("demo", "com.example.demo")); err != nil {
		t.Fatalf("scaffoldProject failed: %v", err)
	}
	return filepath.Join(dir, "scene.yaml")
}

func TestExecuteVersionAndUnknown(t *testing.T) {
	out, _ := withOutput(t)
	if err := Execute([]string{"--version"}); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "weft version "+Version) {
		t.Errorf("unexpected version output: %q", out.String())
	}
	if err := Execute([]string{"frobnicate"}); err == nil {
		t.Error("expected error for unknown command")
	}
	if err := Execute([]string{"--config"}); err == nil {
		t.Error("expected error for --config without a path")
	}
}

func TestCheckReportsErrors(t *testing.T) {
	out, _ := withOutput(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.css")
	bad := filepath.Join(dir, "bad.css")
	os.WriteFile(good, []byte("label { color: red } button { width: 10px }"), 0o644)
	os.WriteFile(bad, []byte("label { color: nope }"), 0o644)

	if err := runCheck([]string{good}); err != nil {
		t.Fatalf("check of a valid sheet failed: %v", err)
	}
	if !strings.Contains(out.String(), "good.css: ok (2 rules)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	err := runCheck([]string{good, bad})
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one failing sheet, got %v", err)
	}
	if !strings.Contains(out.String(), "bad.css:1:") {
		t.Errorf("expected a positioned error for bad.css, got %q", out.String())
	}
	if err := runCheck(nil); err == nil {
		t.Error("expected error without arguments")
	}
}

func TestInspectPrintsTree(t *testing.T) {
	scene := newScene(t)
	out, errOut := withOutput(t)

	if err := runInspect([]string{scene}); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Viewport: 480x320 (scale 1)",
		"window.light [0,0 480x320] bg=#fafafa",
		"  label#title.title",
		"  button#start",
		`"Start"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("inspect output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(errOut.String(), "warning") {
		t.Errorf("starter scene should build cleanly, got:\n%s", errOut.String())
	}
}

func TestInspectConfigFlag(t *testing.T) {
	scene := newScene(t)
	cfg := filepath.Join(t.TempDir(), "other.toml")
	os.WriteFile(cfg, []byte("[window]\nwidth = 100\nheight = 50\n"), 0o644)
	out, _ := withOutput(t)

	if err := runInspect([]string{"-config", cfg, scene}); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(out.String(), "Viewport: 100x50") {
		t.Errorf("config flag was not applied:\n%s", out.String())
	}
	if err := runInspect([]string{"-bogus", scene}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if err := runInspect(nil); err == nil {
		t.Error("expected error without a scene")
	}
}

func TestA11yPrintsUpdate(t *testing.T) {
	scene := newScene(t)
	out, _ := withOutput(t)

	if err := runA11y([]string{scene}); err != nil {
		t.Fatalf("a11y failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"seq=1", "window \"Demo\"", "heading", "button", "focusable", "Encoded:"} {
		if !strings.Contains(got, want) {
			t.Errorf("a11y output missing %q:\n%s", want, got)
		}
	}
}

func TestWatchReprintsOnChange(t *testing.T) {
	scene := newScene(t)
	out, _ := withOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	printed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchScene(ctx, sceneOptions{scene: scene}, func() { printed <- struct{}{} })
	}()

	select {
	case <-printed:
	case <-time.After(5 * time.Second):
		t.Fatal("initial print did not happen")
	}
	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	theme := filepath.Join(filepath.Dir(scene), "theme.css")
	if err := os.WriteFile(theme, []byte("window { background: red }"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-printed:
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a reprint")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch returned %v", err)
	}
	if !strings.Contains(out.String(), "bg=#ff0000") {
		t.Errorf("reprint should show the new background:\n%s", out.String())
	}
}
