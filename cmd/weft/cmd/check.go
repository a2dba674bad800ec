package cmd

import (
	"fmt"
	"os"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Report stylesheet errors",
		Long: `Parse each stylesheet and print every malformed rule or declaration
with its line and column.

The command exits with an error when any sheet has problems, so it can be
used in CI.

Examples:
  weft check theme.css
  weft check css/*.css`,
		Usage: "weft check <sheet.css>...",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one stylesheet is required\n\nUsage: weft check <sheet.css>...")
	}

	// Values are only validated when a sheet is added to a storage.
	st := style.NewStorage(tree.New(entity.NewManager()), style.WithErrorHandler(&errors.Collector{}))

	var failed int
	for _, path := range args {
		text, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", path, err)
			failed++
			continue
		}
		errs := st.LoadSheet(path, string(text))
		for _, e := range errs {
			fmt.Fprintln(stdout, e.Error())
		}
		if len(errs) > 0 {
			failed++
			continue
		}
		sheet, _ := style.Parse(path, string(text))
		fmt.Fprintf(stdout, "%s: ok (%d rules)\n", path, len(sheet.Rules))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d stylesheets have errors", failed, len(args))
	}
	return nil
}
