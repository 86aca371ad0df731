package ui

import "github.com/charmbracelet/lipgloss"

var (
	Primary  = lipgloss.Color("#7D56F4")
	Accent   = lipgloss.Color("#04B575")
	ErrorCol = lipgloss.Color("#FF5F56")
	Muted    = lipgloss.Color("#888888")
	Text     = lipgloss.Color("#FFFFFF")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	ItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	PostTitleStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	PostBodyStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(2).
			MarginBottom(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	StatusStyle = lipgloss.NewStyle().
			Foreground(Accent)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorCol)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1).
			Faint(true)
)
