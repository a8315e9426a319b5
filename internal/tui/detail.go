package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"specforge/internal/features/briefs/domain"
)

// copyResetMsg clears the "copied" indicator if token is still current.
type copyResetMsg struct {
	token int
}

type specSection struct {
	title  string
	render func(width int) string
}

// detailView shows one brief's generated spec as collapsible sections.
type detailView struct {
	brief     domain.Brief
	sections  []specSection
	collapsed map[string]bool
	cursor    int

	viewport viewport.Model
	width    int

	copied    bool
	copyToken int
}

func newDetailView() *detailView {
	return &detailView{
		collapsed: map[string]bool{},
		viewport:  viewport.New(80, 20),
		width:     80,
	}
}

func (d *detailView) setBrief(b domain.Brief) {
	d.brief = b
	d.sections = buildSections(b.GeneratedSpec)
	d.collapsed = map[string]bool{}
	d.cursor = 0
	d.copied = false
	d.refresh()
	d.viewport.GotoTop()
}

// reload swaps in a refetched copy of the shown brief, keeping which
// sections are collapsed.
func (d *detailView) reload(b domain.Brief) {
	d.brief = b
	d.sections = buildSections(b.GeneratedSpec)
	if d.cursor >= len(d.sections) {
		d.cursor = max(0, len(d.sections)-1)
	}
	d.refresh()
}

func (d *detailView) setSize(width, height int) {
	d.width = max(20, width)
	d.viewport.Width = d.width
	d.viewport.Height = max(3, height)
	d.refresh()
}

// sectionTitles lists the rendered sections in display order.
func (d *detailView) sectionTitles() []string {
	titles := make([]string, len(d.sections))
	for i, s := range d.sections {
		titles[i] = s.title
	}
	return titles
}

func (d *detailView) moveCursor(delta int) {
	if len(d.sections) == 0 {
		return
	}
	d.cursor = (d.cursor + delta + len(d.sections)) % len(d.sections)
	d.refresh()
}

// toggle collapses or expands the section under the cursor.
func (d *detailView) toggle() {
	if len(d.sections) == 0 {
		return
	}
	title := d.sections[d.cursor].title
	d.collapsed[title] = !d.collapsed[title]
	d.refresh()
}

// setAll collapses or expands every section.
func (d *detailView) setAll(collapsed bool) {
	for _, s := range d.sections {
		d.collapsed[s.title] = collapsed
	}
	d.refresh()
}

func (d *detailView) isCollapsed(title string) bool {
	return d.collapsed[title]
}

func (d *detailView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

func (d *detailView) refresh() {
	d.viewport.SetContent(d.render())
}

func (d *detailView) render() string {
	b := d.brief
	spec := b.GeneratedSpec
	width := d.width
	wrap := lipgloss.NewStyle().Width(width)

	copyLabel := "c → Copy JSON"
	if d.copied {
		copyLabel = noticeInfoStyle.Render("✓ Copied!")
	}

	var parts []string
	parts = append(parts,
		mutedStyle.Render(fmt.Sprintf("ENGINEERING BRIEF · %s", b.CreatedAt.Local().Format("Jan 2, 2006 · 15:04"))),
		titleStyle.Render(b.AppName),
		wrap.Render(b.Description),
		hintStyle.Render("n → New Brief    "+copyLabel),
		"",
	)

	if spec.Summary != "" {
		parts = append(parts, headingStyle.Render("EXECUTIVE SUMMARY"), wrap.Render(spec.Summary), "")
	}
	if spec.ProblemStatement != "" {
		parts = append(parts, headingStyle.Render("PROBLEM STATEMENT"), wrap.Render(spec.ProblemStatement), "")
	}

	for i, s := range d.sections {
		marker := "▾"
		if d.collapsed[s.title] {
			marker = "▸"
		}
		head := fmt.Sprintf("%s %s", marker, s.title)
		if i == d.cursor {
			head = selectedItemStyle.Render("> " + head)
		} else {
			head = labelStyle.Render("  " + head)
		}
		parts = append(parts, head)
		if !d.collapsed[s.title] {
			body := lipgloss.NewStyle().PaddingLeft(4).Render(s.render(max(10, width-4)))
			parts = append(parts, body)
		}
		parts = append(parts, "")
	}

	if spec.IsEmpty() {
		parts = append(parts, mutedStyle.Render("The generated spec is empty."))
	}
	return strings.Join(parts, "\n")
}

func (d *detailView) View() string {
	return d.viewport.View()
}

// buildSections returns only the sections whose data is present.
func buildSections(spec domain.GeneratedSpec) []specSection {
	var out []specSection
	if len(spec.MVPFeatures) > 0 {
		out = append(out, specSection{"MVP Features", func(w int) string { return renderFeatures(spec.MVPFeatures, w) }})
	}
	if len(spec.UserStories) > 0 {
		out = append(out, specSection{"User Stories", func(w int) string { return renderStories(spec.UserStories, w) }})
	}
	if spec.TechStack != nil {
		out = append(out, specSection{"Tech Stack", func(w int) string { return renderTechStack(spec.TechStack, w) }})
	}
	if len(spec.DataModels) > 0 {
		out = append(out, specSection{"Data Models", func(w int) string { return renderDataModels(spec.DataModels, w) }})
	}
	if len(spec.APIEndpoints) > 0 {
		out = append(out, specSection{"API Endpoints", func(w int) string { return renderEndpoints(spec.APIEndpoints, w) }})
	}
	if len(spec.Risks) > 0 {
		out = append(out, specSection{"Risks & Mitigations", func(w int) string { return renderRisks(spec.Risks, w) }})
	}
	if len(spec.Milestones) > 0 {
		out = append(out, specSection{"Milestones", func(w int) string { return renderMilestones(spec.Milestones, w) }})
	}
	if len(spec.SuccessMetrics) > 0 {
		out = append(out, specSection{"Success Metrics", func(w int) string { return renderBullets(spec.SuccessMetrics, "↗", w) }})
	}
	if len(spec.OutOfScope) > 0 {
		out = append(out, specSection{"Out of Scope", func(w int) string { return renderBullets(spec.OutOfScope, "✕", w) }})
	}
	return out
}

func renderFeatures(features []domain.MVPFeature, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var rows []string
	for _, f := range features {
		head := labelStyle.Render(f.Feature)
		if f.Priority != "" {
			head += " " + priorityStyle(f.Priority).Render("["+string(f.Priority)+"]")
		}
		rows = append(rows, head, mutedStyle.Inherit(wrap).Render(f.Description))
	}
	return strings.Join(rows, "\n")
}

func renderStories(stories []domain.UserStory, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var rows []string
	for i, s := range stories {
		line := strings.Join(nonEmpty(s.Role, s.Action, s.Benefit), ", ")
		rows = append(rows, wrap.Render(fmt.Sprintf("%02d  %s", i+1, line)))
	}
	return strings.Join(rows, "\n")
}

func renderTechStack(stack *domain.TechStack, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var rows []string
	for _, c := range stack.Categories() {
		rows = append(rows,
			mutedStyle.Render(strings.ToUpper(c.Category))+" "+labelStyle.Render(c.Choice.Technology),
			wrap.Render(c.Choice.Reason))
	}
	if len(stack.Extras) > 0 {
		rows = append(rows, mutedStyle.Render("EXTRAS"))
		for _, e := range stack.Extras {
			rows = append(rows, wrap.Render(fmt.Sprintf("• %s: %s", e.Technology, e.Reason)))
		}
	}
	if len(rows) == 0 {
		return mutedStyle.Render("No technology choices.")
	}
	return strings.Join(rows, "\n")
}

func renderDataModels(models []domain.DataModel, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var rows []string
	for _, m := range models {
		rows = append(rows, labelStyle.Render(m.Model))
		for _, f := range m.Fields {
			rows = append(rows, wrap.Render(fmt.Sprintf("  %s %s %s",
				f.Name, tagStyle.Render(f.Type), mutedStyle.Render(f.Description))))
		}
	}
	return strings.Join(rows, "\n")
}

func renderEndpoints(endpoints []domain.APIEndpoint, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var rows []string
	for _, e := range endpoints {
		line := fmt.Sprintf("%s %s", methodStyle(e.Method).Render(fmt.Sprintf("%-6s", e.Method)), e.Path)
		if e.AuthRequired {
			line += " " + mutedStyle.Render("[auth]")
		}
		rows = append(rows, line, mutedStyle.Inherit(wrap).Render("       "+e.Description))
	}
	return strings.Join(rows, "\n")
}

func renderRisks(risks []domain.Risk, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var rows []string
	for _, r := range risks {
		head := r.Risk
		if r.Severity != "" {
			head = severityStyle(r.Severity).Render("["+string(r.Severity)+"]") + " " + head
		}
		rows = append(rows, wrap.Render(head))
		if r.Mitigation != "" {
			rows = append(rows, mutedStyle.Inherit(wrap).Render("  → "+r.Mitigation))
		}
	}
	return strings.Join(rows, "\n")
}

func renderMilestones(milestones []domain.Milestone, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var rows []string
	for i, m := range milestones {
		head := fmt.Sprintf("%d. %s", i+1, labelStyle.Render(m.Phase))
		if m.Duration != "" {
			head += " " + tagStyle.Render("("+m.Duration+")")
		}
		rows = append(rows, head)
		for _, d := range m.Deliverables {
			rows = append(rows, wrap.Render("   - "+d))
		}
	}
	return strings.Join(rows, "\n")
}

func renderBullets(items []string, bullet string, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = wrap.Render(bullet + " " + item)
	}
	return strings.Join(rows, "\n")
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
