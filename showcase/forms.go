package main

import (
	"strings"

	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/event"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

type formState struct {
	Name    string
	Agreed  bool
	Submits int
}

var (
	nameLens    = binding.Field("name", func(s formState) string { return s.Name })
	agreedLens  = binding.Field("agreed", func(s formState) bool { return s.Agreed })
	invalidLens = binding.Func("invalid", func(s formState) bool { return !s.Agreed || strings.TrimSpace(s.Name) == "" })
	greeting    = binding.Map(binding.Field("submits", func(s formState) int { return s.Submits }), func(n int) string {
		if n == 0 {
			return ""
		}
		return "Submitted"
	})
)

func buildFormsPage(cx *ui.Context, page entity.Entity) {
	m := binding.NewModel(cx.Bindings(), formState{})

	sectionTitle(cx, page, "Text input")
	label(cx, page, "Name").ID("name-label")
	cx.Child(page, ui.Element("input")).
		ID("name").
		Role(style.RoleTextInput).
		LabelledBy("name-label").
		Focusable(true).
		Text(binding.Bound(m, nameLens)).
		TextValue(binding.Bound(m, nameLens)).
		OnEvent(func(_ *ui.Context, ev *event.Event) {
			switch msg := ev.Message.(type) {
			case event.TextInput:
				m.Update(func(s *formState) { s.Name += msg.Text })
				ev.Consume()
			case event.KeyPressed:
				if msg.Key == event.KeyBackspace {
					m.Update(func(s *formState) {
						if r := []rune(s.Name); len(r) > 0 {
							s.Name = string(r[:len(r)-1])
						}
					})
					ev.Consume()
				}
			}
		})

	sectionTitle(cx, page, "Checkbox")
	cx.Child(page, ui.Element("checkbox")).
		ID("agree").
		Role(style.RoleCheckBox).
		Name(binding.Const("I agree")).
		DefaultAction(style.ActionClick).
		Focusable(true).
		Size(style.Px(20), style.Px(20)).
		Checked(binding.Bound(m, agreedLens)).
		ToggleClass("on", binding.Bound(m, agreedLens)).
		OnClick(func(*ui.Context) {
			m.Update(func(s *formState) { s.Agreed = !s.Agreed })
		})

	button(cx, page, "Submit", func(*ui.Context) {
		if s := m.Get(); s.Agreed && strings.TrimSpace(s.Name) != "" {
			m.Update(func(s *formState) { s.Submits++ })
		}
	}).ID("submit").Disabled(binding.Bound(m, invalidLens))
	cx.Child(page, ui.Element("label")).
		ID("status").
		Live(style.LiveAssertive).
		Height(style.Px(20)).
		Text(binding.Bound(m, greeting))
}
