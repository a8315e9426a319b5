package tui

import (
	"github.com/charmbracelet/lipgloss"

	"specforge/internal/features/briefs/domain"
)

var (
	colorAccent  = lipgloss.Color("#C8F135")
	colorBorder  = lipgloss.Color("#444444")
	colorMuted   = lipgloss.Color("#888888")
	colorText    = lipgloss.Color("#F0F0F0")
	colorRed     = lipgloss.Color("#FF4747")
	colorAmber   = lipgloss.Color("#F7B801")
	colorGreen   = lipgloss.Color("#4CAF50")
	colorBlue    = lipgloss.Color("#5B8DEF")
	colorNeutral = lipgloss.Color("#CCCCCC")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	tagStyle     = lipgloss.NewStyle().Foreground(colorAccent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(colorAccent)

	selectedItemStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	armedItemStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

	noticeInfoStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	noticeErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

func priorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityMustHave:
		return lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	case domain.PriorityShouldHave:
		return lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	case domain.PriorityNiceToHave:
		return lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	}
	return lipgloss.NewStyle().Foreground(colorNeutral)
}

func severityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	case domain.SeverityMedium:
		return lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	case domain.SeverityLow:
		return lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	}
	return lipgloss.NewStyle().Foreground(colorNeutral)
}

func methodStyle(method string) lipgloss.Style {
	switch method {
	case "GET":
		return lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	case "POST":
		return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	case "PUT", "PATCH":
		return lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	case "DELETE":
		return lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorNeutral)
}
