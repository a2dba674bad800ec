package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-drift/weft/pkg/style"
)

// watchDebounce is how long a file must be quiet before it is reloaded.
const watchDebounce = 150 * time.Millisecond

func init() {
	RegisterCommand(&Command{
		Name:  "watch",
		Short: "Re-print a scene whenever its files change",
		Long: `Build a scene and print its tree like inspect, then watch the scene file,
its stylesheets and the theme stylesheets. Every change rebuilds the scene
and prints the tree again.

Press Ctrl+C to stop.

Examples:
  weft watch scene.yaml`,
		Usage: "weft watch [-config weft.yaml] <scene.yaml>",
		Run:   runWatch,
	})
}

func runWatch(args []string) error {
	opts, err := parseSceneArgs("watch", args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchScene(ctx, opts, nil)
}

// watchScene prints the scene and reprints it after every change until ctx
// is done. printed, when set, is called after each print.
func watchScene(ctx context.Context, opts sceneOptions, printed func()) error {
	s, err := openScene(opts)
	if err != nil {
		return err
	}
	printTree(stdout, s.Context)
	if printed != nil {
		printed()
	}

	w, err := style.NewWatcher(watchDebounce, s.WatchPaths()...)
	if err != nil {
		return err
	}
	defer w.Close()
	fmt.Fprintf(stderr, "watching %d files\n", len(s.WatchPaths()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.Logger.Warn("watch error", "error", err)
		case change, ok := <-w.Changes():
			if !ok {
				return nil
			}
			s.Logger.Info("reloading", "path", change.Path)
			next, err := openScene(opts)
			if err != nil {
				fmt.Fprintf(stderr, "reload failed: %v\n", err)
				continue
			}
			s = next
			fmt.Fprintf(stdout, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
			printTree(stdout, s.Context)
			if printed != nil {
				printed()
			}
		}
	}
}
