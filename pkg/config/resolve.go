package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// Resolved contains resolved configuration values for a project directory.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	AppID      string
	Config     *Config
}

// Resolve loads the project config (if present) from dir and fills the
// app name and id from the go.mod module path when the file omits them.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	appID := strings.TrimSpace(cfg.App.ID)
	if appID == "" {
		appID = defaultAppID(modulePath, appName)
	}
	if err := validateAppID(appID); err != nil {
		return nil, configError(dir, err)
	}

	cfg.App.Name, cfg.App.ID = appName, appID
	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		AppID:      appID,
		Config:     cfg,
	}, nil
}

// FindProjectRoot walks up from dir to the nearest directory holding go.mod.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
		if parts := strings.Split(prefix, "/"); len(parts) > 0 {
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." {
		return "weft_app"
	}
	return base
}

func defaultAppID(modulePath, appName string) string {
	parts := strings.Split(modulePath, "/")
	if len(parts) < 2 || !strings.Contains(parts[0], ".") {
		return "com.example." + sanitizeSegment(appName, true)
	}

	host := strings.Split(parts[0], ".")
	for i, j := 0, len(host)-1; i < j; i, j = i+1, j-1 {
		host[i], host[j] = host[j], host[i]
	}
	segments := host
	for _, p := range parts[1:] {
		if p != "" {
			segments = append(segments, p)
		}
	}
	for i, s := range segments {
		segments[i] = sanitizeSegment(s, i > 0)
	}
	return strings.Join(segments, ".")
}

func sanitizeSegment(segment string, allowLeadingDigit bool) string {
	var out []rune
	for _, r := range strings.TrimSpace(segment) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	if len(out) == 0 {
		out = []rune("app")
	}
	if !allowLeadingDigit && out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'a'}, out...)
	}
	return string(out)
}

func validateAppID(appID string) error {
	if !strings.Contains(appID, ".") {
		return fmt.Errorf("app.id must contain at least one '.' (got %q)", appID)
	}
	for _, segment := range strings.Split(appID, ".") {
		if segment == "" {
			return fmt.Errorf("app.id contains an empty segment (%q)", appID)
		}
		if segment[0] >= '0' && segment[0] <= '9' {
			return fmt.Errorf("app.id segments cannot start with a digit (%q)", appID)
		}
		for _, r := range segment {
			if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
				return fmt.Errorf("app.id contains invalid character %q in %q", r, appID)
			}
		}
	}
	return nil
}
