package main

import (
	"fmt"

	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/ui"
)

const brokenSheet = `
.broken { width: wide; background-color: #1565c0; }
.broken-too { opacity: ; }
`

// buildErrorBoundariesPage loads a stylesheet with bad declarations. The
// parse errors are reported and listed while the valid declarations still
// apply.
func buildErrorBoundariesPage(cx *ui.Context, page entity.Entity) {
	errs := cx.LoadStylesheet("broken.css", brokenSheet)

	sectionTitle(cx, page, "Recovered")
	cx.Child(page, ui.Element("box")).
		ID("broken").
		Class("broken").
		Style("height", "32px")

	sectionTitle(cx, page, fmt.Sprintf("Reported (%d)", len(errs)))
	for i, err := range errs {
		cx.Child(page, ui.Element("label")).
			ID(fmt.Sprintf("error-%d", i)).
			Style("height", "20px").
			Text(binding.Const(err.Error()))
	}
}
