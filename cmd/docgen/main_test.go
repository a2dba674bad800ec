package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProcessMarkdown(t *testing.T) {
	in := strings.Join([]string{
		"# style",
		"Package style resolves properties.",
		"```go",
		`import "github.com/go-drift/weft/pkg/style"`,
		"```",
		"## Index",
		"- [func Parse](<#Parse>)",
		"## func Parse",
		"<details><summary>Example</summary>",
		"<p>",
		"body",
		"</p>",
		"</details>",
	}, "\n")

	got := processMarkdown(in)
	want := strings.Join([]string{
		"Package style resolves properties.",
		"## func Parse",
		"",
		"**Example:**",
		"",
		"body",
	}, "\n")
	if got != want {
		t.Errorf("processMarkdown:\n%s\nwant:\n%s", got, want)
	}
}

func TestPackagesExist(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]bool)
	for _, pkg := range packages {
		if _, err := os.Stat(filepath.Join(root, pkg.Path)); err != nil {
			t.Errorf("%s: %v", pkg.Path, err)
		}
		if seen[pkg.Position] {
			t.Errorf("duplicate position %d", pkg.Position)
		}
		seen[pkg.Position] = true
	}
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "guides"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "guides", "intro.md"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := copyDir(src, dst); err != nil {
		t.Fatalf("copyDir: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dst, "guides", "intro.md"))
	if err != nil || string(data) != "hello" {
		t.Errorf("copied file = %q, %v", data, err)
	}

	if err := copyDir(filepath.Join(src, "missing"), dst); err != nil {
		t.Errorf("missing src should be skipped, got %v", err)
	}
}
