// Package main generates the weft API reference. It copies hand-written
// guides from docs-src/ and renders one markdown page per public package
// with gomarkdoc.
package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Package is a Go package to document.
type Package struct {
	Name     string
	Title    string
	Path     string
	Position int
}

// Public packages, in sidebar order.
var packages = []Package{
	{Name: "ui", Title: "UI Context", Path: "pkg/ui", Position: 1},
	{Name: "entity", Title: "Entities", Path: "pkg/entity", Position: 2},
	{Name: "tree", Title: "Tree", Path: "pkg/tree", Position: 3},
	{Name: "style", Title: "Style", Path: "pkg/style", Position: 4},
	{Name: "binding", Title: "Bindings", Path: "pkg/binding", Position: 5},
	{Name: "layout", Title: "Layout", Path: "pkg/layout", Position: 6},
	{Name: "event", Title: "Events", Path: "pkg/event", Position: 7},
	{Name: "animation", Title: "Animation", Path: "pkg/animation", Position: 8},
	{Name: "accessibility", Title: "Accessibility", Path: "pkg/accessibility", Position: 9},
	{Name: "scene", Title: "Scenes", Path: "pkg/scene", Position: 10},
	{Name: "config", Title: "Configuration", Path: "pkg/config", Position: 11},
	{Name: "errors", Title: "Errors", Path: "pkg/errors", Position: 12},
	{Name: "testing", Title: "Testing", Path: "pkg/testing", Position: 13},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root, err := findRepoRoot()
	if err != nil {
		return fmt.Errorf("finding repo root: %w", err)
	}
	fmt.Printf("Repository root: %s\n", root)

	if err := ensureGomarkdoc(); err != nil {
		return fmt.Errorf("installing gomarkdoc: %w", err)
	}

	docsDir := filepath.Join(root, "docs")
	apiDir := filepath.Join(docsDir, "api")
	if err := os.MkdirAll(apiDir, 0o755); err != nil {
		return fmt.Errorf("creating api directory: %w", err)
	}

	if err := copyDir(filepath.Join(root, "docs-src"), docsDir); err != nil {
		return fmt.Errorf("copying guides: %w", err)
	}
	if err := writeAPICategoryFile(apiDir); err != nil {
		return fmt.Errorf("writing category file: %w", err)
	}

	var generated int
	for _, pkg := range packages {
		if _, err := os.Stat(filepath.Join(root, pkg.Path)); os.IsNotExist(err) {
			fmt.Printf("Skipping %s (not found)\n", pkg.Name)
			continue
		}
		fmt.Printf("Generating docs for %s...\n", pkg.Name)
		ok, err := generatePackageDocs(root, pkg, apiDir)
		if err != nil {
			return fmt.Errorf("generating docs for %s: %w", pkg.Name, err)
		}
		if ok {
			generated++
		}
	}

	fmt.Printf("\nGenerated %d of %d package pages in %s\n", generated, len(packages), apiDir)
	return nil
}

func findRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

func ensureGomarkdoc() error {
	if _, err := exec.LookPath("gomarkdoc"); err == nil {
		return nil
	}
	fmt.Println("Installing gomarkdoc...")
	cmd := exec.Command("go", "install", "github.com/princjef/gomarkdoc/cmd/gomarkdoc@latest")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// copyDir mirrors src into dst. A missing src is not an error.
func copyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Warning: %s does not exist, skipping copy\n", src)
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeAPICategoryFile(apiDir string) error {
	content := `{
  "label": "API Reference",
  "position": 100,
  "link": {
    "type": "generated-index",
    "description": "Package reference for weft."
  }
}
`
	return os.WriteFile(filepath.Join(apiDir, "_category_.json"), []byte(content), 0o644)
}

// generatePackageDocs writes apiDir/<name>.md. It returns false when
// gomarkdoc produced nothing usable for the package.
func generatePackageDocs(root string, pkg Package, apiDir string) (bool, error) {
	cmd := exec.Command("gomarkdoc", "./"+pkg.Path)
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("  Warning: skipping %s: %s\n", pkg.Name, strings.TrimSpace(stderr.String()))
		return false, nil
	}
	if stdout.Len() == 0 {
		fmt.Printf("  Warning: no documentation generated for %s\n", pkg.Name)
		return false, nil
	}

	var page strings.Builder
	fmt.Fprintf(&page, "---\nid: %s\ntitle: %s\nsidebar_position: %d\n---\n\n", pkg.Name, pkg.Title, pkg.Position)
	page.WriteString(processMarkdown(stdout.String()))

	return true, os.WriteFile(filepath.Join(apiDir, pkg.Name+".md"), []byte(page.String()), 0o644)
}

// processMarkdown strips the parts of gomarkdoc output that the site
// renders itself: the top heading, the index, import blocks and the
// details wrappers around examples.
func processMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	var out []string
	inImport := false
	inIndex := false

	for i, line := range lines {
		if i == 0 && strings.HasPrefix(line, "# ") {
			continue
		}

		if line == "## Index" {
			inIndex = true
			continue
		}
		if inIndex {
			if !strings.HasPrefix(line, "## ") {
				continue
			}
			inIndex = false
		}

		if strings.HasPrefix(line, "```go") && i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "import") {
			inImport = true
		}
		if inImport {
			if line == "```" {
				inImport = false
			}
			continue
		}

		if summary, ok := strings.CutPrefix(line, "<details><summary>"); ok && strings.HasSuffix(summary, "</summary>") {
			out = append(out, "", "**"+strings.TrimSuffix(summary, "</summary>")+":**", "")
			continue
		}
		if line == "</details>" || line == "<p>" || line == "</p>" {
			continue
		}

		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
