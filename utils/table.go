package utils

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
)

// Render output into an ASCII table
func RenderTable(w io.Writer, headers []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Bulk(data)
	table.Render()
}

func RenderBox(title string, lines []string) string {
	// Determine max line width using visual character count (runes), not byte count
	titleWidth := utf8.RuneCountInString(title)
	maxWidth := titleWidth + 4 // for padding
	for _, line := range lines {
		lineWidth := utf8.RuneCountInString(line)
		if lineWidth+2 > maxWidth {
			maxWidth = lineWidth + 2
		}
	}

	var b strings.Builder

	// Top border with title
	b.WriteString("┌─ " + title + " " + strings.Repeat("─", maxWidth-titleWidth-3) + "┐\n")

	for _, line := range lines {
		lineWidth := utf8.RuneCountInString(line)
		padding := maxWidth - lineWidth - 2
		b.WriteString("│ " + line + strings.Repeat(" ", padding) + " │\n")
	}

	b.WriteString("└" + strings.Repeat("─", maxWidth) + "┘\n")

	return b.String()
}
