package cmd

import (
	"fmt"
)

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Print the laid-out entity tree of a scene",
		Long: `Build a scene, run one frame and print every entity with its element,
id, classes, layout box and resolved colors.

The config file (weft.yaml, weft.yml or weft.toml) is looked up next to the
scene unless -config names one. Its window section sets the viewport and
its theme stylesheets are loaded before the scene's own.

Examples:
  weft inspect scene.yaml
  weft inspect -config weft.toml scene.yaml`,
		Usage: "weft inspect [-config weft.yaml] <scene.yaml>",
		Run:   runInspect,
	})
}

func runInspect(args []string) error {
	opts, err := parseSceneArgs("inspect", args)
	if err != nil {
		return err
	}
	s, err := openScene(opts)
	if err != nil {
		return err
	}

	cfg := s.Config
	fmt.Fprintf(stdout, "Viewport: %gx%g (scale %g)\n", cfg.Window.Width, cfg.Window.Height, cfg.Window.Scale)
	fmt.Fprintf(stdout, "Stylesheets: %d\n\n", len(s.Context.Style().Sheets()))
	printTree(stdout, s.Context)

	if n := len(s.Reported.Errors); n > 0 {
		for _, e := range s.Reported.Errors {
			fmt.Fprintf(stderr, "reported: %v\n", e)
		}
	}
	return nil
}
