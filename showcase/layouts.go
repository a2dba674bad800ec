package main

import (
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

var (
	layoutRed   = style.RGB(0xe5, 0x39, 0x35)
	layoutGreen = style.RGB(0x43, 0xa0, 0x47)
	layoutBlue  = style.RGB(0x1e, 0x88, 0xe5)
)

func buildLayoutsPage(cx *ui.Context, page entity.Entity) {
	sectionTitle(cx, page, "Row")
	r := row(cx, page, 48)
	swatch(cx, r, 48, 48, layoutRed)
	swatch(cx, r, 48, 48, layoutGreen)
	swatch(cx, r, 48, 48, layoutBlue)

	sectionTitle(cx, page, "Stretch")
	stretch := row(cx, page, 32)
	swatch(cx, stretch, 0, 32, layoutRed).Width(style.Fill(1))
	swatch(cx, stretch, 0, 32, layoutGreen).Width(style.Fill(2))
	swatch(cx, stretch, 0, 32, layoutBlue).Width(style.Pct(25))

	sectionTitle(cx, page, "Column")
	col := cx.Child(page, ui.Element("column")).
		Layout(style.Column).
		Height(style.AutoUnits).
		Style("row-between", "4px").
		Entity()
	for _, c := range []style.Color{layoutRed, layoutGreen, layoutBlue} {
		swatch(cx, col, 120, 12, c)
	}

	sectionTitle(cx, page, "Stack")
	stack := cx.Child(page, ui.Element("stack")).
		ID("stack").
		Layout(style.Stack).
		Size(style.Px(96), style.Px(96)).
		Entity()
	swatch(cx, stack, 96, 96, layoutBlue)
	swatch(cx, stack, 48, 48, layoutGreen).Style("left", "24px").Style("top", "24px")
	swatch(cx, stack, 16, 16, layoutRed).Style("z-index", "1").Style("left", "40px").Style("top", "40px")
}
