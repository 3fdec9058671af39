package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"soyorin/pkg/html"
)

var (
	tagStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	attrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleStyle = lipgloss.NewStyle().Faint(true)
)

// writeTree prints one node per line, indented by depth. props selects
// computed style values to show next to each element.
func writeTree(w io.Writer, root *html.Element, props []string) {
	writeNode(w, root, 0, props)
}

func writeNode(w io.Writer, n html.Node, depth int, props []string) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *html.Text:
		fmt.Fprintf(w, "%s%s\n", indent, textStyle.Render(strconv.Quote(n.Data)))
	case *html.Element:
		var sb strings.Builder
		sb.WriteString(tagStyle.Render("<" + n.Tag + ">"))
		for _, name := range slices.Sorted(maps.Keys(n.Attributes)) {
			sb.WriteString(" " + attrStyle.Render(name+"="+strconv.Quote(n.Attributes[name])))
		}
		for _, p := range props {
			if v, ok := n.Style[p]; ok {
				sb.WriteString(" " + styleStyle.Render(p+": "+v))
			}
		}
		fmt.Fprintf(w, "%s%s\n", indent, sb.String())
		for _, child := range n.Children {
			writeNode(w, child, depth+1, props)
		}
	}
}
