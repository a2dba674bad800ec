package main

import (
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/ui"
)

func buildDecorationsPage(cx *ui.Context, page entity.Entity) {
	sectionTitle(cx, page, "Borders")
	r := row(cx, page, 64)
	card(cx, r, "thin").
		Style("border-width", "1").
		Style("border-color", "#9e9e9e")
	card(cx, r, "thick").
		Style("border-width", "4").
		Style("border-color", "#1565c0")

	sectionTitle(cx, page, "Rounded corners")
	r = row(cx, page, 64)
	card(cx, r, "rounded").
		Style("border-radius", "12").
		Style("background-color", "#43a047")
	card(cx, r, "pill").
		Style("border-radius", "32").
		Style("background-color", "#fb8c00")

	sectionTitle(cx, page, "Gradient")
	cx.Child(page, ui.Element("banner")).
		ID("gradient").
		Style("height", "48px").
		Style("background-image", "linear-gradient(to right, #1565c0, #8e24aa)")

	sectionTitle(cx, page, "Opacity")
	r = row(cx, page, 64)
	for _, o := range []string{"1", "0.6", "0.3"} {
		card(cx, r, "").
			Style("background-color", "#e53935").
			Style("opacity", o)
	}
}

func card(cx *ui.Context, parent entity.Entity, id string) ui.Handle {
	h := cx.Child(parent, ui.Element("card")).
		Style("width", "64px").
		Style("height", "64px")
	if id != "" {
		h = h.ID(id)
	}
	return h
}
