package main

import (
	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

type themeState struct {
	Dark bool
}

var (
	darkLens  = binding.Field("dark", func(s themeState) bool { return s.Dark })
	lightLens = binding.Map(darkLens, func(dark bool) bool { return !dark })
	modeText  = binding.Map(darkLens, func(dark bool) string {
		if dark {
			return "Dark mode"
		}
		return "Light mode"
	})
)

// buildThemingPage switches the root between the light and dark rules of
// the showcase stylesheet.
func buildThemingPage(cx *ui.Context, page entity.Entity) {
	root := cx.Root()
	m := binding.NewModel(cx.Bindings(), themeState{Dark: cx.Style().HasClass(root, "dark")})

	cx.With(root).
		ToggleClass("dark", binding.Bound(m, darkLens)).
		ToggleClass("light", binding.Bound(m, lightLens))

	sectionTitle(cx, page, "Mode")
	cx.Child(page, ui.Element("label")).
		ID("mode").
		Height(style.Px(20)).
		Text(binding.Bound(m, modeText))
	button(cx, page, "Switch", func(*ui.Context) {
		m.Update(func(s *themeState) { s.Dark = !s.Dark })
	}).ID("switch-theme")

	sectionTitle(cx, page, "Sample")
	button(cx, page, "Themed", func(*ui.Context) {}).ID("sample")
}
