// deencode explores how strings are mangled when they are encoded with one
// character set and decoded with another.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/deencode"
	"github.com/wippyai/deencode/config"
	"github.com/wippyai/deencode/engine"
	"github.com/wippyai/deencode/errors"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "deencode",
		Usage:     "reverse engineer encoding errors",
		ArgsUsage: "STRING...",
		Flags:     append(sharedFlags(), treeFlags()...),
		Action:    runTree,
		Commands: []*cli.Command{
			{
				Name:      "tree",
				Usage:     "Print the encode/decode tree of each STRING (default)",
				ArgsUsage: "STRING...",
				Flags:     append(sharedFlags(), treeFlags()...),
				Action:    runTree,
			},
			{
				Name:   "engines",
				Usage:  "List the available engines",
				Flags:  sharedFlags(),
				Action: runEngines,
			},
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Explore strings in a terminal UI",
				Flags:   sharedFlags(),
				Action:  runInteractive,
			},
		},
	}
}

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a .yaml or .jsonc config file",
		},
		&cli.StringSliceFlag{
			Name:  "env-file",
			Usage: "Dotenv files with DEENCODE_* variables",
			Value: cli.NewStringSlice(".env"),
		},
		&cli.StringSliceFlag{
			Name:    "engine",
			Aliases: []string{"e"},
			Usage:   "Engine key, repeatable, in priority order (see 'deencode engines')",
		},
		&cli.IntFlag{
			Name:    "depth",
			Aliases: []string{"d"},
			Usage:   "Number of encodings on each path",
		},
		&cli.BoolFlag{
			Name:  "parallel",
			Usage: "Build top-level subtrees concurrently",
		},
		&cli.Uint64Flag{
			Name:  "max-nodes",
			Usage: "Reject trees that may exceed this many nodes, 0 for no limit",
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "auto, always or never",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
	}
}

// flagContext returns the nearest context in which name was set on the
// command line, or nil.
func flagContext(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return nil
}

// loadConfig layers command line flags over config.Load.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var path string
	if ctx := flagContext(c, "config"); ctx != nil {
		path = ctx.String("config")
	}
	dotenv := c.StringSlice("env-file")
	if ctx := flagContext(c, "env-file"); ctx != nil {
		dotenv = ctx.StringSlice("env-file")
	}

	cfg, err := config.Load(path, dotenv...)
	if err != nil {
		return nil, err
	}

	if ctx := flagContext(c, "engine"); ctx != nil {
		cfg.Engines = ctx.StringSlice("engine")
	}
	if ctx := flagContext(c, "depth"); ctx != nil {
		cfg.Depth = ctx.Int("depth")
	}
	if ctx := flagContext(c, "parallel"); ctx != nil {
		cfg.Parallel = ctx.Bool("parallel")
	}
	if ctx := flagContext(c, "max-nodes"); ctx != nil {
		cfg.MaxNodes = ctx.Uint64("max-nodes")
	}
	if ctx := flagContext(c, "color"); ctx != nil {
		cfg.Color = config.Color(ctx.String("color"))
	}
	if ctx := flagContext(c, "log-level"); ctx != nil {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx := flagContext(c, "format"); ctx != nil {
		cfg.Format = ctx.String("format")
	}
	if ctx := flagContext(c, "compression"); ctx != nil {
		cfg.Compression = ctx.String("compression")
	}
	if ctx := flagContext(c, "no-dedup"); ctx != nil {
		cfg.Dedup = !ctx.Bool("no-dedup")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session holds what every command needs: configuration, logger, engines.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *engine.Registry
	engines  []engine.Engine
	plugins  []*engine.WazeroEngine
	color    bool
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		registry: engine.NewRegistry(),
		color:    cfg.UseColor(isTerminal(c)),
	}

	s.log, err = newLogger(cfg.Level(), s.color)
	if err != nil {
		return nil, err
	}
	deencode.SetLogger(s.log)
	engine.SetLogger(s.log)

	if err := s.loadPlugins(c.Context); err != nil {
		s.Close(c.Context)
		return nil, err
	}

	s.engines, err = s.registry.Resolve(cfg.Engines)
	if err != nil {
		s.Close(c.Context)
		return nil, err
	}

	s.log.Debug("session ready",
		zap.Strings("engines", engine.Names(s.engines)),
		zap.Int("depth", cfg.Depth),
		zap.Int("plugins", len(s.plugins)),
	)
	return s, nil
}

func (s *session) loadPlugins(ctx context.Context) error {
	for _, p := range s.cfg.Plugins {
		data, err := os.ReadFile(p.Path)
		if err != nil {
			return errors.Load("read plugin "+p.Path, err)
		}
		e, err := engine.LoadWazeroEngineWithConfig(ctx, p.DisplayName(), data, &engine.WazeroConfig{
			MemoryLimitPages: p.MemoryLimitPages,
		})
		if err != nil {
			return err
		}
		s.plugins = append(s.plugins, e)
		if err := s.registry.Register(p.Key, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) options() []deencode.Option {
	return []deencode.Option{
		deencode.WithParallel(s.cfg.Parallel),
		deencode.WithMaxNodes(s.cfg.MaxNodes),
		deencode.WithLogger(s.log),
	}
}

func (s *session) Close(ctx context.Context) {
	for _, p := range s.plugins {
		if err := p.Close(ctx); err != nil && s.log != nil {
			s.log.Warn("close plugin", zap.String("engine", p.Name()), zap.Error(err))
		}
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
}

func newLogger(level zapcore.Level, color bool) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	if color {
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zcfg.Build()
}

// isTerminal reports whether the app writes to a terminal.
func isTerminal(c *cli.Context) bool {
	f, ok := c.App.Writer.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
