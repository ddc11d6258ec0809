package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/wippyai/deencode/engine"
)

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// runEngines lists every registry key with its engine name. Engines in the
// configured list are marked with their priority.
func runEngines(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close(c.Context)

	priority := make(map[string]int, len(s.cfg.Engines))
	for i, key := range s.cfg.Engines {
		if e, ok := s.registry.Lookup(key); ok {
			if _, seen := priority[e.Name()]; !seen {
				priority[e.Name()] = i + 1
			}
		}
	}

	keys := s.registry.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	for _, key := range keys {
		e, _ := s.registry.Lookup(key)
		mark := ""
		if p, ok := priority[e.Name()]; ok {
			mark = fmt.Sprintf("%d.", p)
		}
		mark = fmt.Sprintf("%3s", mark)
		k := fmt.Sprintf("%-*s", width, key)
		if s.color {
			mark = activeStyle.Render(mark)
			k = keyStyle.Render(k)
		}
		fmt.Fprintf(c.App.Writer, "%s %s  %s\n", mark, k, e.Name())
	}

	if len(s.plugins) > 0 {
		fmt.Fprintf(c.App.Writer, "\n%d plugin engine(s): %s\n", len(s.plugins), strings.Join(engine.Names(pluginEngines(s.plugins)), ", "))
	}
	return nil
}

func pluginEngines(plugins []*engine.WazeroEngine) []engine.Engine {
	out := make([]engine.Engine, len(plugins))
	for i, p := range plugins {
		out[i] = p
	}
	return out
}
