package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(18)
	valStyle   = lipgloss.NewStyle().Bold(true)
)

// renderStats formats a titled key/value block for terminal output.
func renderStats(title string, rows [][2]string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("== " + title + " =="))
	sb.WriteByte('\n')
	for _, row := range rows {
		fmt.Fprintf(&sb, "%s %s\n", keyStyle.Render(row[0]), valStyle.Render(row[1]))
	}
	return sb.String()
}
