package main

import (
	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

// sectionTitle adds a section header to a demo page.
func sectionTitle(cx *ui.Context, parent entity.Entity, text string) entity.Entity {
	return cx.Child(parent, ui.Element("label")).
		Class("section").
		Role(style.RoleHeading).
		Text(binding.Const(text)).
		Entity()
}

// label adds a plain text line.
func label(cx *ui.Context, parent entity.Entity, text string) ui.Handle {
	return cx.Child(parent, ui.Element("label")).
		Height(style.Px(20)).
		Text(binding.Const(text))
}

// button adds a focusable button that calls onClick.
func button(cx *ui.Context, parent entity.Entity, text string, onClick func(cx *ui.Context)) ui.Handle {
	return cx.Child(parent, ui.Element("button")).
		Role(style.RoleButton).
		DefaultAction(style.ActionClick).
		Focusable(true).
		Text(binding.Const(text)).
		OnClick(onClick)
}

// swatch adds a fixed-size colored box.
func swatch(cx *ui.Context, parent entity.Entity, w, h float64, color style.Color) ui.Handle {
	return cx.Child(parent, ui.Element("box")).
		Size(style.Px(w), style.Px(h)).
		Background(binding.Const(color))
}

// row adds a horizontal container of the given height.
func row(cx *ui.Context, parent entity.Entity, height float64) entity.Entity {
	return cx.Child(parent, ui.Element("row")).
		Layout(style.Row).
		Height(style.Px(height)).
		Style("col-between", "8px").
		Entity()
}
