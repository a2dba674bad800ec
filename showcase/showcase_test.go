package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/weft/pkg/entity"
	weferrors "github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/style"
	weftest "github.com/go-drift/weft/pkg/testing"
	"github.com/go-drift/weft/pkg/ui"
)

func mount(t *testing.T, route string) *weftest.Tester {
	t.Helper()
	demo, ok := findDemo(route)
	if !ok {
		t.Fatalf("no demo at %s", route)
	}
	tester := weftest.NewTesterWithT(t)
	tester.Context().Style().AddClass(tester.Root(), "light")
	tester.Mount(func(cx *ui.Context, root entity.Entity) {
		mountDemo(cx, root, demo)
	})
	if err := tester.PumpAndSettle(5 * time.Second); err != nil {
		t.Fatalf("settle: %v", err)
	}
	return tester
}

func TestDemosBuildCleanly(t *testing.T) {
	for _, d := range demos {
		if d.Route == "/error-boundaries" {
			continue
		}
		t.Run(d.Title, func(t *testing.T) {
			tester := mount(t, d.Route)
			if errs := tester.Errors().Errors; len(errs) > 0 {
				t.Errorf("%d errors reported, first: %v", len(errs), errs[0])
			}
			if !tester.Find(weftest.ByText(d.Title)).Exists() {
				t.Errorf("page title %q not found", d.Title)
			}
		})
	}
}

func TestDemosHaveUniqueRoutes(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range demos {
		if seen[d.Route] {
			t.Errorf("duplicate route %s", d.Route)
		}
		seen[d.Route] = true
		if d.Build == nil {
			t.Errorf("%s has no builder", d.Route)
		}
	}
}

func TestButtonsPage(t *testing.T) {
	tester := mount(t, "/buttons")

	tester.Tap(weftest.ByID("tap"))
	tester.Pump()
	if got := tester.Find(weftest.ByID("taps")).Text(); got != "Tapped 1 times" {
		t.Fatalf("taps = %q", got)
	}

	tester.Tap(weftest.ByID("lock"))
	tester.Pump()
	tap := tester.Find(weftest.ByID("tap")).First()
	if tester.Context().Style().Pseudo(tap)&style.Disabled == 0 {
		t.Error("tap button should be :disabled once locked")
	}
	if got := tester.Find(weftest.ByID("lock")).Text(); got != "Unlock" {
		t.Errorf("lock text = %q, want Unlock", got)
	}

	tester.Tap(weftest.ByID("tap"))
	tester.Pump()
	if got := tester.Find(weftest.ByID("taps")).Text(); got != "Tapped 1 times" {
		t.Errorf("locked tap changed the count: %q", got)
	}
}

func TestFormsPage(t *testing.T) {
	tester := mount(t, "/forms")
	submit := tester.Find(weftest.ByID("submit")).First()
	if tester.Context().Style().Pseudo(submit)&style.Disabled == 0 {
		t.Fatal("submit should start disabled")
	}

	tester.Tap(weftest.ByID("name"))
	tester.Pump()
	tester.TypeText("Ada")
	tester.Pump()
	if got := tester.Find(weftest.ByID("name")).Text(); got != "Ada" {
		t.Fatalf("name = %q, want Ada", got)
	}

	tester.Tap(weftest.ByID("agree"))
	tester.Pump()
	agree := tester.Find(weftest.ByID("agree")).First()
	if tester.Context().Style().Pseudo(agree)&style.Checked == 0 {
		t.Error("checkbox should be :checked")
	}
	if tester.Context().Style().Pseudo(submit)&style.Disabled != 0 {
		t.Error("submit should be enabled")
	}

	tester.Tap(weftest.ByID("submit"))
	tester.Pump()
	if got := tester.Find(weftest.ByID("status")).Text(); got != "Submitted" {
		t.Errorf("status = %q, want Submitted", got)
	}
}

func TestThemingPage(t *testing.T) {
	tester := mount(t, "/theming")
	st := tester.Context().Style()

	tester.Tap(weftest.ByID("switch-theme"))
	tester.PumpAndSettle(time.Second)

	if !st.HasClass(tester.Root(), "dark") || st.HasClass(tester.Root(), "light") {
		t.Error("root should switch to dark")
	}
	if got := tester.Find(weftest.ByID("mode")).Text(); got != "Dark mode" {
		t.Errorf("mode = %q", got)
	}
	if bg := st.BackgroundColor.Computed(tester.Root()); bg != style.RGB(0x12, 0x12, 0x12) {
		t.Errorf("root background = %s, want #121212", bg)
	}
}

func TestErrorBoundariesPage(t *testing.T) {
	tester := mount(t, "/error-boundaries")

	parseErrs := tester.Errors().OfKind(weferrors.KindStyleParse)
	if len(parseErrs) == 0 {
		t.Fatal("expected style parse errors to be reported")
	}
	if !tester.Find(weftest.ByID("error-0")).Exists() {
		t.Error("errors should be listed on the page")
	}
	broken := tester.Find(weftest.ByID("broken")).First()
	if bg := tester.Context().Style().BackgroundColor.Computed(broken); bg != style.RGB(0x15, 0x65, 0xc0) {
		t.Errorf("valid declaration lost: background = %s", bg)
	}
}

func TestAnimationsPage(t *testing.T) {
	tester := mount(t, "/animations")
	fade := tester.Find(weftest.ByID("fade")).First()
	opacity := tester.Context().Style().Opacity

	tester.Tap(weftest.ByID("toggle-fade"))
	tester.PumpFor(150 * time.Millisecond)
	if v := opacity.Computed(fade); v <= 0.2 || v >= 1 {
		t.Errorf("mid-transition opacity = %v", v)
	}

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if v := opacity.Computed(fade); v != 0.2 {
		t.Errorf("settled opacity = %v, want 0.2", v)
	}
}

func TestRun(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run(nil, &out, &errOut); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "/buttons") || !strings.Contains(out.String(), "style:") {
		t.Errorf("index output:\n%s", out.String())
	}

	out.Reset()
	if err := run([]string{"-width", "320", "/layouts"}, &out, &errOut); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "window [0,0 320x800]") {
		t.Errorf("paint output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "stack#stack") {
		t.Errorf("stack missing from paint output:\n%s", out.String())
	}

	if err := run([]string{"/nope"}, &out, &errOut); err == nil {
		t.Error("expected an error for an unknown page")
	}
}
