// Package templates provides embedded template files for project creation.
package templates

import (
	"embed"
	"io/fs"
	"path"
	"strings"
	"text/template"
)

//go:embed init/*
var FS embed.FS

// TemplateData contains the data for template substitution.
type TemplateData struct {
	AppName string // e.g., "my_app"
	AppID   string // e.g., "com.example.my_app"
	Title   string // e.g., "My App"
}

// NewTemplateData derives the display title from the app name.
func NewTemplateData(appName, appID string) *TemplateData {
	return &TemplateData{
		AppName: appName,
		AppID:   appID,
		Title:   title(appName),
	}
}

func title(appName string) string {
	words := strings.FieldsFunc(appName, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "App"
	}
	return strings.Join(words, " ")
}

// ProcessTemplate processes a template string with the given data.
func ProcessTemplate(content string, data *TemplateData) (string, error) {
	tmpl, err := template.New("").Parse(content)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ListFiles returns all files in the embedded filesystem under the given path.
func ListFiles(root string) ([]string, error) {
	var files []string

	err := fs.WalkDir(FS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}

// ReadFile reads a file from the embedded filesystem.
func ReadFile(name string) ([]byte, error) {
	return FS.ReadFile(name)
}

// GetInitFiles returns the list of init template files.
func GetInitFiles() ([]string, error) {
	return ListFiles("init")
}

// DestName returns the file name a template is written to: its base name
// without the .tmpl suffix.
func DestName(name string) string {
	return strings.TrimSuffix(path.Base(name), ".tmpl")
}
