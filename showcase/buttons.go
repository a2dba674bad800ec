package main

import (
	"strconv"

	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

type buttonsState struct {
	Taps   int
	Locked bool
}

var (
	tapsText = binding.Map(
		binding.Field("taps", func(s buttonsState) int { return s.Taps }),
		func(n int) string { return "Tapped " + strconv.Itoa(n) + " times" },
	)
	lockedLens = binding.Field("locked", func(s buttonsState) bool { return s.Locked })
	lockText   = binding.Map(lockedLens, func(locked bool) string {
		if locked {
			return "Unlock"
		}
		return "Lock"
	})
)

func buildButtonsPage(cx *ui.Context, page entity.Entity) {
	m := binding.NewModel(cx.Bindings(), buttonsState{})

	sectionTitle(cx, page, "Counter")
	r := row(cx, page, 40)
	button(cx, r, "Tap me", func(*ui.Context) {
		if m.Get().Locked {
			return
		}
		m.Update(func(s *buttonsState) { s.Taps++ })
	}).ID("tap").Disabled(binding.Bound(m, lockedLens))
	cx.Child(r, ui.Element("label")).
		ID("taps").
		Live(style.LivePolite).
		Text(binding.Bound(m, tapsText))

	sectionTitle(cx, page, "Disabled state")
	button(cx, page, "", func(*ui.Context) {
		m.Update(func(s *buttonsState) { s.Locked = !s.Locked })
	}).ID("lock").Text(binding.Bound(m, lockText))
}
