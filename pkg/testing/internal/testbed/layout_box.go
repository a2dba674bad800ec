package testbed

import (
	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

// LayoutBox adds a fixed-size colored box.
func LayoutBox(cx *ui.Context, parent entity.Entity, width, height float64, color style.Color) entity.Entity {
	return cx.Child(parent, ui.Element("box")).
		Size(style.Px(width), style.Px(height)).
		Background(binding.Const(color)).
		Entity()
}

// FadingBox adds a 50x50 box that declares a 100ms linear opacity
// transition.
func FadingBox(cx *ui.Context, parent entity.Entity) entity.Entity {
	return cx.Child(parent, ui.Element("box")).
		Size(style.Px(50), style.Px(50)).
		Background(binding.Const(style.ColorRed)).
		Style("transition", "opacity 100ms linear").
		Entity()
}
