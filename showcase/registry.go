package main

import (
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/ui"
)

// Demo is one showcase page.
type Demo struct {
	Route    string
	Title    string
	Subtitle string
	Category string
	Build    func(cx *ui.Context, page entity.Entity)
}

// Category constants for demo organization.
const (
	CategoryWidgets = "widgets"
	CategoryStyle   = "style"
)

// demos is the registry of all showcase pages.
var demos = []Demo{
	{"/buttons", "Buttons", "Clickable entities bound to a model", CategoryWidgets, buildButtonsPage},
	{"/forms", "Forms", "Focus, text input and checkboxes", CategoryWidgets, buildFormsPage},
	{"/layouts", "Layouts", "Row, column and stack composition", CategoryWidgets, buildLayoutsPage},
	{"/animations", "Animations", "Declared transitions", CategoryWidgets, buildAnimationsPage},
	{"/error-boundaries", "Error Boundaries", "Bad styles are reported, not fatal", CategoryWidgets, buildErrorBoundariesPage},
	{"/decorations", "Decorations", "Borders, radii and gradients", CategoryStyle, buildDecorationsPage},
	{"/theming", "Theming", "Light and dark stylesheets", CategoryStyle, buildThemingPage},
}

// findDemo returns the demo registered at route.
func findDemo(route string) (Demo, bool) {
	for _, d := range demos {
		if d.Route == route {
			return d, true
		}
	}
	return Demo{}, false
}

// demosByCategory returns demos filtered by category.
func demosByCategory(category string) []Demo {
	var out []Demo
	for _, d := range demos {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}
