package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/verse-saver/verse"
)

// printVerse is the fallback when no display surface is available.
// The reference is bold on a color terminal; piped output stays plain.
func printVerse(out io.Writer, v verse.Formatted) error {
	refStyle := lipgloss.NewRenderer(out).NewStyle().Bold(true)

	lines := v.Lines()
	ref := "[" + v.Entry.Reference() + "]"
	if len(lines) > 0 {
		if rest, ok := strings.CutPrefix(lines[0], ref); ok {
			lines[0] = refStyle.Render(ref) + rest
		}
	}

	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}
