package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/urfave/cli/v2"

	"github.com/wippyai/deencode"
	"github.com/wippyai/deencode/engine"
	"github.com/wippyai/deencode/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	cacheSize = 128
	maxDepth  = 4

	// header and footer lines around the viewport
	chromeHeight = 6
)

type treeKey struct {
	input string
	depth int
	dedup bool
}

type treeResult struct {
	text    string
	stats   deencode.Stats
	strings int
	bytes   int
}

type builtMsg struct {
	key    treeKey
	result *treeResult
	err    error
}

type focus int

const (
	focusInput focus = iota
	focusTree
)

type interactiveModel struct {
	err     error
	cache   *lru.Cache[treeKey, *treeResult]
	engines []engine.Engine
	opts    []deencode.Option
	style   render.Style
	input   textinput.Model
	view    viewport.Model
	current treeKey
	result  *treeResult
	focus   focus
	ready   bool
}

func newInteractiveModel(engines []engine.Engine, depth int, dedup bool, opts []deencode.Option, style render.Style) (*interactiveModel, error) {
	cache, err := lru.New[treeKey, *treeResult](cacheSize)
	if err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = "Clément"
	ti.Prompt = "string: "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		cache:   cache,
		engines: engines,
		opts:    opts,
		style:   style,
		input:   ti,
		current: treeKey{depth: depth, dedup: dedup},
		focus:   focusInput,
	}, nil
}

func (m *interactiveModel) Init() tea.Cmd {
	if m.input.Value() != "" {
		return tea.Batch(textinput.Blink, m.rebuild())
	}
	return textinput.Blink
}

// build returns a command producing the tree for key, from the cache when
// possible.
func (m *interactiveModel) build(key treeKey) tea.Cmd {
	return func() tea.Msg {
		if r, ok := m.cache.Get(key); ok {
			return builtMsg{key: key, result: r}
		}

		tree, err := deencode.Deencode(key.input, m.engines, key.depth, m.opts...)
		if err != nil {
			return builtMsg{key: key, err: err}
		}
		r := &treeResult{}
		if key.dedup {
			strs, bytes := tree.Deduplicate()
			r.strings, r.bytes = len(strs), len(bytes)
		}
		r.stats = tree.Stats()
		r.text = render.Text(tree, m.style)

		m.cache.Add(key, r)
		return builtMsg{key: key, result: r}
	}
}

func (m *interactiveModel) rebuild() tea.Cmd {
	m.current.input = m.input.Value()
	if m.current.input == "" {
		m.result = nil
		m.err = nil
		m.setContent("")
		return nil
	}
	return m.build(m.current)
}

func (m *interactiveModel) setContent(s string) {
	if m.ready {
		m.view.SetContent(s)
		m.view.GotoTop()
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.view = viewport.New(msg.Width, height)
			m.ready = true
			if m.result != nil {
				m.view.SetContent(m.result.text)
			}
		} else {
			m.view.Width = msg.Width
			m.view.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			if m.focus == focusInput {
				m.focus = focusTree
				m.input.Blur()
			} else {
				m.focus = focusInput
				return m, m.input.Focus()
			}
			return m, nil

		case "enter":
			return m, m.rebuild()
		}

		if m.focus == focusTree {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "+", "=":
				if m.current.depth < maxDepth {
					m.current.depth++
					return m, m.rebuild()
				}
				return m, nil
			case "-", "_":
				if m.current.depth > 1 {
					m.current.depth--
					return m, m.rebuild()
				}
				return m, nil
			case "d":
				m.current.dedup = !m.current.dedup
				return m, m.rebuild()
			}
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}

	case builtMsg:
		if msg.key != m.current {
			// stale result for an earlier input or depth
			return m, nil
		}
		m.err = msg.err
		m.result = msg.result
		if msg.err != nil {
			m.setContent("")
		} else {
			m.setContent(msg.result.text)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("deencode"))
	b.WriteString(" ")
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d engines • depth %d • dedup %t",
		len(m.engines), m.current.depth, m.current.dedup)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.result != nil:
		s := m.result.stats
		line := fmt.Sprintf("%d nodes • %d leaves", s.Nodes(), s.Leaves)
		if m.current.dedup {
			line += fmt.Sprintf(" • %d strings • %d byte sequences", m.result.strings, m.result.bytes)
		}
		b.WriteString(statsStyle.Render(line))
	}
	b.WriteString("\n")

	b.WriteString(m.view.View())
	b.WriteString("\n")

	if m.focus == focusInput {
		b.WriteString(helpStyle.Render("enter build • tab tree • esc quit"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ scroll • +/- depth • d dedup • tab input • q quit"))
	}

	return b.String()
}

func runInteractive(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close(c.Context)

	m, err := newInteractiveModel(s.engines, s.cfg.Depth, s.cfg.Dedup, s.options(), render.Style{Color: s.color})
	if err != nil {
		return err
	}

	// Args prefill the input.
	if c.Args().Len() > 0 {
		m.input.SetValue(strings.Join(c.Args().Slice(), " "))
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
