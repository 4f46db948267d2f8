package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// reportStyles styles the human readable output of detect. Colors are
// dropped automatically when out is not a terminal.
type reportStyles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Item    lipgloss.Style
}

func newReportStyles(out io.Writer) *reportStyles {
	r := lipgloss.NewRenderer(out)
	return &reportStyles{
		Title:   r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Item:    r.NewStyle().PaddingLeft(2),
	}
}
