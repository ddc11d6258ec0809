package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/muesli/termenv"

	"github.com/wippyai/deencode"
)

// Style controls text rendering.
type Style struct {
	// Color emits ANSI colours regardless of the output device.
	Color bool
}

type palette struct {
	root       lipgloss.Style
	enumerator lipgloss.Style
	encoder    lipgloss.Style
	decoder    lipgloss.Style
	bytes      lipgloss.Style
	text       lipgloss.Style
}

// newPalette binds every style to a renderer with a fixed profile, so
// output does not depend on the terminal the process runs in.
func newPalette(s Style) palette {
	profile := termenv.Ascii
	if s.Color {
		profile = termenv.ANSI256
	}
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	r.SetColorProfile(profile)

	return palette{
		root:       r.NewStyle().Bold(true),
		enumerator: r.NewStyle().Foreground(lipgloss.Color("#666666")).PaddingRight(1),
		encoder:    r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		decoder:    r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		bytes:      r.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		text:       r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
	}
}

// Text renders t with box drawings. The root shows the quoted input,
// encode nodes show "name: hex bytes" and decode nodes show
// "name: quoted string".
func Text(t *deencode.Tree, s Style) string {
	p := newPalette(s)

	root := p.newTree(p.root.Render(strconv.Quote(t.Input)))
	for _, enc := range t.Children {
		root.Child(p.encodeItem(enc))
	}
	return root.String()
}

func (p palette) newTree(label string) *tree.Tree {
	return tree.Root(label).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(p.enumerator)
}

func (p palette) encodeItem(n *deencode.EncodeNode) any {
	label := p.encoder.Render(n.Name+":") + " " + p.bytes.Render(Hex(n.Output))
	if len(n.Children) == 0 {
		return label
	}
	sub := p.newTree(label)
	for _, dec := range n.Children {
		sub.Child(p.decodeItem(dec))
	}
	return sub
}

func (p palette) decodeItem(n *deencode.DecodeNode) any {
	label := p.decoder.Render(n.Name+":") + " " + p.text.Render(strconv.Quote(n.Output))
	if len(n.Children) == 0 {
		return label
	}
	sub := p.newTree(label)
	for _, enc := range n.Children {
		sub.Child(p.encodeItem(enc))
	}
	return sub
}

// Hex formats b as space-separated lowercase hex pairs, or "<empty>".
func Hex(b []byte) string {
	if len(b) == 0 {
		return "<empty>"
	}
	return fmt.Sprintf("% x", b)
}

// Alphabet lists the distinct strings and byte sequences returned by
// Deduplicate, one per line.
func Alphabet(strs []string, bytes [][]byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "strings (%d):\n", len(strs))
	for _, s := range strs {
		b.WriteString("  ")
		b.WriteString(strconv.Quote(s))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "bytes (%d):\n", len(bytes))
	for _, v := range bytes {
		b.WriteString("  ")
		b.WriteString(Hex(v))
		b.WriteByte('\n')
	}
	return b.String()
}
