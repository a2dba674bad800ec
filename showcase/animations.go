package main

import (
	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

func buildAnimationsPage(cx *ui.Context, page entity.Entity) {
	sectionTitle(cx, page, "Fade")
	fade := swatch(cx, page, 80, 80, style.RGB(0x8e, 0x24, 0xaa)).
		ID("fade").
		Style("transition", "opacity 300ms ease-in-out").
		Entity()
	visible := true
	button(cx, page, "Toggle", func(cx *ui.Context) {
		visible = !visible
		if visible {
			cx.Style().Opacity.Set(fade, 1)
		} else {
			cx.Style().Opacity.Set(fade, 0.2)
		}
	}).ID("toggle-fade")

	sectionTitle(cx, page, "Grow")
	grow := cx.Child(page, ui.Element("bar")).
		ID("grow").
		Size(style.Px(40), style.Px(16)).
		Background(binding.Const(style.RGB(0xfb, 0x8c, 0x00))).
		Entity()
	wide := false
	button(cx, page, "Grow", func(cx *ui.Context) {
		wide = !wide
		to := style.Px(40)
		if wide {
			to = style.Px(240)
		}
		ui.Animate(cx, cx.Style().Width, grow, to)
	}).ID("toggle-grow")
}
