package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorDisabled lipgloss.Color = "#6c7086"
	colorGroup    lipgloss.Color = "#f9e2af"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText)
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(colorMantle)

	viewModeStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorMuted).
			Padding(0, 1)
	editModeStyle = lipgloss.NewStyle().
			Background(colorAccent).
			Foreground(colorMantle).
			Bold(true).
			Padding(0, 1)
	controlOnStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorMantle).Padding(0, 1)
	controlOffStyle = lipgloss.NewStyle().Foreground(colorDisabled).Background(colorMantle).Strikethrough(true).Padding(0, 1)

	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(colorBorder)
	rowStyle         = lipgloss.NewStyle().Foreground(colorText)
	selectedRowStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface1).Bold(true)
	groupStyle       = lipgloss.NewStyle().Foreground(colorGroup)
	rowNumStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	emptyStyle       = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0)
	footerStyle     = lipgloss.NewStyle().Background(colorMantle)
	footerKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(colorMantle)
	footerDescStyle = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle)
	footerOffStyle  = lipgloss.NewStyle().Foreground(colorDisabled).Background(colorMantle)
)
