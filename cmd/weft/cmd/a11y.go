package cmd

import (
	"fmt"
	"strings"

	"github.com/go-drift/weft/pkg/accessibility"
	"github.com/go-drift/weft/pkg/ui"
)

func init() {
	RegisterCommand(&Command{
		Name:  "a11y",
		Short: "Print the accessibility tree of a scene",
		Long: `Build a scene, run one frame and print the accessibility update that
would be pushed to the platform, followed by its encoded size.

Accessibility is enabled for this command even when the config turns it off.

Examples:
  weft a11y scene.yaml`,
		Usage: "weft a11y [-config weft.yaml] <scene.yaml>",
		Run:   runA11y,
	})
}

func runA11y(args []string) error {
	opts, err := parseSceneArgs("a11y", args)
	if err != nil {
		return err
	}
	s, err := openScene(opts, ui.WithAccessibility(true))
	if err != nil {
		return err
	}

	u := s.Context.LastAccessibilityUpdate()
	if u == nil {
		return fmt.Errorf("no accessibility update was produced")
	}
	printUpdate(u)

	data, err := u.Encode()
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	fmt.Fprintf(stdout, "\nEncoded: %d bytes (CBOR)\n", len(data))
	return nil
}

func printUpdate(u *accessibility.Update) {
	fmt.Fprintf(stdout, "Tree %s  seq=%d  nodes=%d  focus=%d\n\n", u.TreeID, u.Sequence, len(u.Nodes), u.Focus)
	var walk func(id accessibility.NodeID, depth int)
	walk = func(id accessibility.NodeID, depth int) {
		n, ok := u.Node(id)
		if !ok {
			return
		}
		fmt.Fprintf(stdout, "%s%s\n", strings.Repeat("  ", depth), describeNode(n))
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(u.Root, 0)
}

func describeNode(n accessibility.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", n.ID, n.Role)
	if n.Name != "" {
		fmt.Fprintf(&b, " %q", n.Name)
	}
	if n.NumericValue != nil {
		fmt.Fprintf(&b, " value=%g", *n.NumericValue)
	}
	if n.TextValue != "" {
		fmt.Fprintf(&b, " text=%q", n.TextValue)
	}
	if n.Live != "" && n.Live != "off" {
		fmt.Fprintf(&b, " live=%s", n.Live)
	}
	if n.DefaultAction != "" && n.DefaultAction != "none" {
		fmt.Fprintf(&b, " action=%s", n.DefaultAction)
	}
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{n.Focusable, "focusable"},
		{n.Focused, "focused"},
		{n.Checked, "checked"},
		{n.Disabled, "disabled"},
	} {
		if flag.on {
			b.WriteString(" " + flag.name)
		}
	}
	fmt.Fprintf(&b, " [%g,%g %gx%g]", n.Bounds[0], n.Bounds[1], n.Bounds[2], n.Bounds[3])
	return b.String()
}
