package cmd

import (
	"fmt"
	"os"

	"github.com/go-drift/weft/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show the resolved project configuration",
		Long: `Show the configuration weft resolves for the current Go module.

The app name and id come from weft.yaml when set and are otherwise derived
from the module path in go.mod. Missing theme stylesheets are flagged.`,
		Usage: "weft status",
		Run:   runStatus,
	})
}

func runStatus(args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return err
	}

	res, err := config.Resolve(root)
	if err != nil {
		return err
	}
	cfg := res.Config

	fmt.Fprintf(stdout, "Project: %s (%s)\n", res.AppName, res.AppID)
	fmt.Fprintf(stdout, "Module:  %s\n", res.ModulePath)
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Window:        %gx%g (scale %g)\n", cfg.Window.Width, cfg.Window.Height, cfg.Window.Scale)
	fmt.Fprintf(stdout, "Theme:         %s\n", cfg.Theme.Mode)
	fmt.Fprintf(stdout, "Log:           %s/%s\n", cfg.Log.Level, cfg.Log.Format)
	fmt.Fprintf(stdout, "Transition:    %s %s\n", cfg.Animation.DefaultDuration.Std(), cfg.Animation.DefaultEasing)
	fmt.Fprintf(stdout, "Accessibility: %t\n", cfg.AccessibilityEnabled())
	fmt.Fprintf(stdout, "Binding:       %d passes\n", cfg.Binding.MaxPasses)

	if len(cfg.Theme.Stylesheets) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Stylesheets:")
		for _, p := range cfg.Theme.Stylesheets {
			state := "ok"
			if _, err := os.Stat(p); err != nil {
				state = "missing"
			}
			fmt.Fprintf(stdout, "  %-8s %s\n", state, p)
		}
	}

	return nil
}
