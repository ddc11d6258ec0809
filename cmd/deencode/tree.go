package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wippyai/deencode"
	"github.com/wippyai/deencode/errors"
	"github.com/wippyai/deencode/render"
)

func treeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json or cbor",
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "Output compression: none or zstd",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to a file instead of standard output",
		},
		&cli.BoolFlag{
			Name:  "no-dedup",
			Usage: "Keep repeated outputs in the tree",
		},
		&cli.BoolFlag{
			Name:    "alphabet",
			Aliases: []string{"a"},
			Usage:   "Print the distinct strings and byte sequences instead of the tree",
		},
	}
}

func runTree(c *cli.Context) error {
	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		return cli.Exit("at least one STRING is required, see 'deencode --help'", 2)
	}

	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close(c.Context)

	format, err := render.ParseFormat(s.cfg.Format)
	if err != nil {
		return err
	}
	compression, err := render.ParseCompression(s.cfg.Compression)
	if err != nil {
		return err
	}

	var w io.Writer = c.App.Writer
	color := s.color
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(errors.PhaseRender, errors.KindInvalidInput, err, "create "+path)
		}
		defer f.Close()
		w = f
		color = s.cfg.Color == "always"
	}

	alphabet := c.Bool("alphabet")
	for i, input := range inputs {
		tree, err := deencode.Deencode(input, s.engines, s.cfg.Depth, s.options()...)
		if err != nil {
			return err
		}

		if i > 0 && format == render.FormatText {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		// The artifact lists come from deduplication, so --alphabet
		// deduplicates regardless of --no-dedup.
		if alphabet {
			strs, bytes := tree.Deduplicate()
			s.log.Debug("alphabet", zap.Int("strings", len(strs)), zap.Int("bytes", len(bytes)))
			if err := render.ExportAlphabet(w, strs, bytes, format, compression); err != nil {
				return err
			}
			continue
		}

		if s.cfg.Dedup {
			tree.Deduplicate()
		}
		if err := render.Export(w, tree, format, compression, render.Style{Color: color}); err != nil {
			return err
		}
	}
	return nil
}
