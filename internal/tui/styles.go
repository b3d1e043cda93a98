package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#ff8c00")
	emberColor  = lipgloss.Color("#2b1400")
	textColor   = lipgloss.Color("#fff4d0")
	mutedColor  = lipgloss.Color("#ffb347")

	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(textColor).Background(emberColor).Padding(0, 2)
	titleShadowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	taglineStyle       = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	healthOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))
	healthBadStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	resultsPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor).Padding(0, 1)
	errorBoxStyle     = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("9")).Foreground(lipgloss.Color("9")).Padding(0, 1)
	helpBoxStyle      = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)

	focusedFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	blurredFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)
	statusBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
)
