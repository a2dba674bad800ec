package testing

import (
	"testing"

	"github.com/go-drift/weft/pkg/style"
)

func TestFinders_Basic(t *testing.T) {
	tester := mountCounter(t)

	if n := tester.Find(ByElement("button")).Count(); n != 1 {
		t.Errorf("ByElement(button) count = %d, want 1", n)
	}
	if !tester.Find(ByText("+")).Exists() {
		t.Error("ByText(+) should match the button")
	}
	if tester.Find(ByText("+")).First() != tester.Find(ByID("increment")).First() {
		t.Error("ByText and ByID disagree")
	}
	if !tester.Find(ByRole(style.RoleButton)).Exists() {
		t.Error("ByRole(button) should match")
	}
	if tester.Find(ByID("missing")).Exists() {
		t.Error("ByID(missing) should not match")
	}
	if !tester.Find(ByID("missing")).FirstOrNull().IsNull() {
		t.Error("FirstOrNull should return the null entity")
	}
}

func TestFinders_TextContaining(t *testing.T) {
	tester := mountCounter(t)
	tester.Context().Style().AddClass(tester.Find(ByID("count")).First(), "value")
	tester.Pump()

	if !tester.Find(ByClass("value")).Exists() {
		t.Error("ByClass(value) should match the label")
	}
	if tester.Find(ByTextContaining("")).Count() != 2 {
		t.Errorf("ByTextContaining(\"\") count = %d, want 2 entities with text", tester.Find(ByTextContaining("")).Count())
	}
}

func TestFinders_Relationships(t *testing.T) {
	tester := mountCounter(t)

	inRow := tester.Find(Descendant(ByElement("row"), ByRole(style.RoleButton)))
	if inRow.Count() != 1 {
		t.Fatalf("Descendant count = %d, want 1", inRow.Count())
	}
	if tester.Find(Descendant(ByID("count"), ByElement("button"))).Exists() {
		t.Error("the label has no button descendants")
	}

	rows := tester.Find(Ancestor(ByID("count"), ByElement("row")))
	if rows.Count() != 1 {
		t.Fatalf("Ancestor count = %d, want 1", rows.Count())
	}
	if parent := tester.Context().Tree().Parent(tester.Find(ByID("count")).First()); parent != rows.First() {
		t.Error("Ancestor should return the label's row")
	}
}

func TestFinderResult_FirstPanicsWhenEmpty(t *testing.T) {
	tester := mountCounter(t)
	defer func() {
		if recover() == nil {
			t.Error("expected First to panic on an empty result")
		}
	}()
	tester.Find(ByID("missing")).First()
}

func TestFinderResult_Box(t *testing.T) {
	tester := mountCounter(t)
	box, ok := tester.Find(ByID("increment")).Box()
	if !ok {
		t.Fatal("button has no box")
	}
	if box.Width() != 40 || box.Height() != 40 {
		t.Errorf("box = %vx%v, want 40x40", box.Width(), box.Height())
	}
}
