// Package session builds a ui.Context from a project config and a scene
// file for the CLI commands.
package session

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-drift/weft/pkg/config"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/scene"
	"github.com/go-drift/weft/pkg/ui"
)

// FrameTime is the tick length used when a command advances the context.
const FrameTime = 16 * time.Millisecond

// Options controls how a session is opened.
type Options struct {
	// ConfigPath names the config file. When empty, weft.yaml, weft.yml or
	// weft.toml is looked up next to the scene.
	ConfigPath string
	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer
	// UI options are applied after the config.
	UI []ui.Option
}

// Session is a scene built into a context.
type Session struct {
	Config  *config.Config
	Logger  *slog.Logger
	Context *ui.Context
	Scene   *scene.Document
	Result  *scene.Result
	// Reported collects errors reported by the context while it runs.
	Reported *errors.Collector
	// Problems joins the non-fatal errors found while building: bad
	// stylesheets, properties or ids.
	Problems error
}

// Open loads the config and the scene at scenePath and builds it. Config
// and scene file errors are fatal; problems inside the scene are recorded
// in Problems.
func Open(scenePath string, opts Options) (*Session, error) {
	cfg, err := loadConfig(scenePath, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger, err := config.NewLogger(cfg.Log, out)
	if err != nil {
		return nil, err
	}
	doc, err := scene.Load(scenePath)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:   cfg,
		Logger:   logger,
		Scene:    doc,
		Reported: &errors.Collector{},
	}
	uiOpts := append([]ui.Option{
		ui.WithConfig(cfg),
		ui.WithLogger(logger),
		ui.WithErrorHandler(s.Reported),
	}, opts.UI...)
	s.Context = ui.New(uiOpts...)
	s.Context.With(s.Context.Root()).Class(cfg.Theme.Mode)

	var problems []error
	for _, path := range cfg.Theme.Stylesheets {
		text, err := os.ReadFile(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("theme stylesheet: %w", err))
			continue
		}
		for _, perr := range s.Context.LoadStylesheet(path, string(text)) {
			problems = append(problems, perr)
		}
	}
	s.Result, err = scene.Build(s.Context, doc)
	if err != nil {
		problems = append(problems, err)
	}
	s.Problems = stderrors.Join(problems...)
	logger.Debug("scene built",
		"scene", scenePath,
		"entities", len(s.Result.Entities),
		"stylesheets", len(cfg.Theme.Stylesheets)+len(doc.Stylesheets),
	)
	return s, nil
}

// Tick advances the context by one frame.
func (s *Session) Tick() ui.FrameSample {
	return s.Context.Tick(FrameTime)
}

// WatchPaths lists the files whose change should rebuild the session.
func (s *Session) WatchPaths() []string {
	paths := append([]string(nil), s.Config.Theme.Stylesheets...)
	paths = append(paths, s.Scene.SheetPaths()...)
	if s.Scene.Path != "" {
		paths = append(paths, s.Scene.Path)
	}
	return paths
}

func loadConfig(scenePath, configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadOptional(filepath.Dir(scenePath))
}
