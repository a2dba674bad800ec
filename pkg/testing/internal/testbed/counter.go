// Package testbed provides small scenes for the testing package's own tests.
package testbed

import (
	"strconv"

	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

// CounterState is the model behind Counter.
type CounterState struct {
	Count int
}

var countText = binding.Map(
	binding.Field("count", func(s CounterState) int { return s.Count }),
	strconv.Itoa,
)

// Counter adds a row with a "+" button (#increment) and a label (#count)
// showing the count. Clicking the button increments it.
func Counter(cx *ui.Context, parent entity.Entity, initial int) *binding.Model[CounterState] {
	m := binding.NewModel(cx.Bindings(), CounterState{Count: initial})
	row := cx.Child(parent, ui.Element("row")).
		Layout(style.Row).
		Height(style.Px(40))
	cx.Child(row.Entity(), ui.Element("button")).
		ID("increment").
		Role(style.RoleButton).
		Focusable(true).
		Text(binding.Const("+")).
		Size(style.Px(40), style.Px(40)).
		Background(binding.Const(style.ColorBlue)).
		OnClick(func(*ui.Context) {
			m.Update(func(s *CounterState) { s.Count++ })
		})
	cx.Child(row.Entity(), ui.Element("label")).
		ID("count").
		Text(binding.Bound(m, countText))
	return m
}
