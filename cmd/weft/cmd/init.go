package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-drift/weft/cmd/weft/internal/templates"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Create a starter scene, theme and config",
		Long: `Create a new directory with a starter weft.yaml, theme.css and
scene.yaml.

The app name is derived from the directory basename. The app id defaults
to com.example.<name> if not specified.

Examples:
  weft init demo
  weft init demo com.acme.demo
  weft init ./scenes/demo`,
		Usage: "weft init <directory> [app-id]",
		Run:   runInit,
	})
}

// runInit creates a new scene directory. The first argument is the directory
// path to create (which may be relative or absolute). An optional second
// argument overrides the app id.
func runInit(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("directory is required\n\nUsage: weft init <directory> [app-id]")
	}

	raw := args[0]
	if strings.HasPrefix(raw, "~") {
		return fmt.Errorf("tilde (~) is not expanded by weft; use an absolute path or $HOME instead")
	}

	dir := filepath.Clean(raw)

	// Validate directory path before deriving anything from it
	if err := validateDirectory(dir); err != nil {
		return err
	}

	projectName := filepath.Base(dir)
	if err := validateProjectName(projectName); err != nil {
		return fmt.Errorf("invalid project name %q (derived from directory basename): %w", projectName, err)
	}

	appID := "com.example." + strings.ReplaceAll(strings.ToLower(projectName), "-", "_")
	if len(args) > 1 {
		appID = args[1]
	}
	if appID == "" {
		return fmt.Errorf("app id cannot be empty")
	}

	if err := scaffoldProject(dir, templates.NewTemplateData(projectName, appID)); err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Scene created successfully!\n\n")
	fmt.Fprintf(stdout, "Next steps:\n")
	fmt.Fprintf(stdout, "  weft inspect %s\n", filepath.Join(dir, "scene.yaml"))
	fmt.Fprintf(stdout, "  weft watch %s\n", filepath.Join(dir, "scene.yaml"))

	return nil
}

// scaffoldProject creates the directory and writes the rendered templates.
func scaffoldProject(dir string, data *templates.TemplateData) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	fmt.Fprintf(stdout, "Creating new weft scene: %s\n", filepath.Base(dir))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	files, err := templates.GetInitFiles()
	if err != nil {
		safeRemoveAll(dir)
		return fmt.Errorf("failed to list templates: %w", err)
	}
	for _, f := range files {
		if err := writeInitTemplate(dir, f, data); err != nil {
			safeRemoveAll(dir)
			return err
		}
		fmt.Fprintf(stdout, "  Created %s\n", templates.DestName(f))
	}

	return nil
}

func writeInitTemplate(projectDir, templatePath string, data *templates.TemplateData) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	out, err := templates.ProcessTemplate(string(content), data)
	if err != nil {
		return fmt.Errorf("failed to process template %s: %w", templatePath, err)
	}

	destName := templates.DestName(templatePath)
	if err := os.WriteFile(filepath.Join(projectDir, destName), []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destName, err)
	}

	return nil
}

// validateDirectory rejects directory paths that would be dangerous to create or
// clean up. This includes filesystem roots (/, C:\), the current/parent directory,
// and root-level absolute paths (e.g. /etc, C:\Users).
func validateDirectory(dir string) error {
	switch dir {
	case "", "/", ".", "..":
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if filepath.IsAbs(dir) && isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create project at root-level path %q", dir)
	}
	return nil
}

// isVolumeRoot reports whether dir is a filesystem root. On Unix this is "/",
// on Windows this covers drive roots like "C:\" and the bare root "\".
func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}

// safeRemoveAll removes a directory only if the path passes validateDirectory.
func safeRemoveAll(dir string) {
	if validateDirectory(dir) != nil {
		return
	}
	os.RemoveAll(dir)
}

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// validateProjectName checks that a project name (derived from the directory
// basename) starts with a letter and contains only letters, digits,
// underscores, and hyphens.
func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("project name cannot start with a hyphen")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("project name must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}
