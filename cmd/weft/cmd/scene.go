package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-drift/weft/cmd/weft/internal/session"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

type sceneOptions struct {
	scene  string
	config string
}

// parseSceneArgs extracts the scene path and an optional -config flag.
// A command-level -config overrides the global one.
func parseSceneArgs(name string, args []string) (sceneOptions, error) {
	opts := sceneOptions{config: configPath}
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a file path", arg)
			}
			opts.config = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			opts.config = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown flag %q", arg)
		default:
			rest = append(rest, arg)
		}
	}
	if len(rest) != 1 {
		return opts, fmt.Errorf("exactly one scene file is required\n\nUsage: weft %s [-config weft.yaml] <scene.yaml>", name)
	}
	opts.scene = rest[0]
	return opts, nil
}

// openScene builds the scene and runs one frame. Build problems are
// printed as warnings.
func openScene(opts sceneOptions, uiOpts ...ui.Option) (*session.Session, error) {
	s, err := session.Open(opts.scene, session.Options{
		ConfigPath: opts.config,
		LogOutput:  stderr,
		UI:         uiOpts,
	})
	if err != nil {
		return nil, err
	}
	if s.Problems != nil {
		for _, line := range strings.Split(s.Problems.Error(), "\n") {
			fmt.Fprintf(stderr, "warning: %s\n", line)
		}
	}
	s.Tick()
	return s, nil
}

// printTree writes one line per entity with its box and resolved colors.
func printTree(w io.Writer, cx *ui.Context) {
	root := cx.Root()
	for e := range cx.Tree().PreOrder(root).All() {
		depth := cx.Tree().Depth(e) - cx.Tree().Depth(root)
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(cx, e))
	}
}

func describe(cx *ui.Context, e entity.Entity) string {
	st := cx.Style()
	var b strings.Builder
	b.WriteString(st.Element(e))
	if id := st.ID(e); id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range st.Classes(e) {
		b.WriteString("." + c)
	}

	if box, ok := cx.Layout().Box(e); ok {
		fmt.Fprintf(&b, " [%g,%g %gx%g]", box.Left, box.Top, box.Width(), box.Height())
	} else {
		b.WriteString(" [none]")
	}

	r := st.Resolve(e)
	if r.Background != style.ColorTransparent {
		fmt.Fprintf(&b, " bg=%s", r.Background)
	}
	fmt.Fprintf(&b, " fg=%s", r.Foreground)
	if r.Opacity < 1 {
		fmt.Fprintf(&b, " opacity=%g", r.Opacity)
	}
	if r.Visibility == style.Hidden || !st.Shown(e) {
		b.WriteString(" hidden")
	}
	if r.Text != "" {
		fmt.Fprintf(&b, " %q", r.Text)
	}
	if e == cx.Focus().Focused() {
		b.WriteString(" *focused*")
	}
	return b.String()
}
