package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) handleSidebarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.briefs)-1 {
			a.cursor++
		}
	case "enter":
		if len(a.briefs) > 0 {
			a.selectBrief(a.briefs[a.cursor])
		}
	case "n":
		a.showForm()
	case "d":
		if len(a.briefs) == 0 {
			return a, nil
		}
		id := a.briefs[a.cursor].ID
		confirmed, cmd := a.confirm.press(id, a.confirmWindow)
		if confirmed {
			a.logger.Printf("Delete · brief %d confirmed", id)
			return a, a.deleteBrief(id)
		}
		return a, cmd
	}
	return a, nil
}

func (a *App) renderSidebar(width int) string {
	title := lipgloss.JoinHorizontal(lipgloss.Top,
		mutedStyle.Render("HISTORY"),
		"  ",
		tagStyle.Render("[n] New"),
	)
	if len(a.briefs) == 0 {
		empty := mutedStyle.Render("No briefs yet.\nGenerate your first spec.")
		return lipgloss.JoinVertical(lipgloss.Left, title, "", empty)
	}

	now := time.Now()
	rows := []string{title, ""}
	for i, b := range a.briefs {
		name := truncate(b.AppName, width-4)
		desc := truncate(b.Description, width-2)
		age := humanizeAge(now.Sub(b.CreatedAt))

		nameStyle := labelStyle
		if b.ID == a.selectedID {
			nameStyle = selectedItemStyle
		}
		prefix := "  "
		if a.focus == focusSidebar && i == a.cursor {
			prefix = "> "
		}
		line := prefix + nameStyle.Render(name)
		if a.confirm.isArmed(b.ID) {
			line += " " + armedItemStyle.Render("[d again]")
		}
		rows = append(rows,
			line,
			"  "+mutedStyle.Render(desc),
			"  "+mutedStyle.Render("◷ "+age),
			"",
		)
	}
	return strings.Join(rows, "\n")
}

// humanizeAge renders d as "5 minutes ago" style text.
func humanizeAge(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	switch {
	case d < time.Minute:
		return "less than a minute ago"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/(24*30)), "month")
	}
	return plural(int(d.Hours()/(24*365)), "year")
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
