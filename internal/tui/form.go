package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"specforge/internal/features/briefs/domain"
)

type formField int

const (
	fieldAppName formField = iota
	fieldDescription
	fieldTargetUsers
	fieldExtraContext
	fieldCount
)

// examples are the quick-start presets offered on the form.
var examples = []domain.CreateBriefRequest{
	{
		AppName:     "TaskFlow",
		Description: "A kanban-style project management tool for remote teams",
		TargetUsers: "Remote software teams of 5-50 people",
	},
	{
		AppName:     "MealMate",
		Description: "AI-powered meal planning and grocery list generator",
		TargetUsers: "Busy professionals who want to eat healthily",
	},
	{
		AppName:     "PitchPerfect",
		Description: "A tool to help founders craft and refine investor pitches",
		TargetUsers: "Early-stage startup founders",
	},
}

// briefForm is the new-brief form: two single-line inputs and two text areas.
type briefForm struct {
	appName      textinput.Model
	description  textarea.Model
	targetUsers  textinput.Model
	extraContext textarea.Model

	focus       formField
	nextExample int
}

func newBriefForm() *briefForm {
	appName := textinput.New()
	appName.Placeholder = "e.g. TaskFlow, HealthOS, CodeReview Pro"
	appName.Prompt = ""
	appName.CharLimit = 200

	description := textarea.New()
	description.Placeholder = "e.g. A kanban-style project management tool that helps remote teams track tasks and ship faster."
	description.ShowLineNumbers = false
	description.SetHeight(4)

	targetUsers := textinput.New()
	targetUsers.Placeholder = "e.g. Remote software teams of 5-50 people, B2B SaaS"
	targetUsers.Prompt = ""
	targetUsers.CharLimit = 300

	extraContext := textarea.New()
	extraContext.Placeholder = "e.g. Must integrate with Stripe. Competitor is Linear. Prefer open-source libraries."
	extraContext.ShowLineNumbers = false
	extraContext.SetHeight(3)

	f := &briefForm{
		appName:      appName,
		description:  description,
		targetUsers:  targetUsers,
		extraContext: extraContext,
	}
	f.setFocus(fieldAppName)
	return f
}

func (f *briefForm) request() domain.CreateBriefRequest {
	return domain.CreateBriefRequest{
		AppName:      f.appName.Value(),
		Description:  f.description.Value(),
		TargetUsers:  f.targetUsers.Value(),
		ExtraContext: f.extraContext.Value(),
	}
}

// ready reports whether every required field has content.
func (f *briefForm) ready() bool {
	req := f.request()
	return req.MissingField() == ""
}

func (f *briefForm) load(req domain.CreateBriefRequest) {
	f.appName.SetValue(req.AppName)
	f.description.SetValue(req.Description)
	f.targetUsers.SetValue(req.TargetUsers)
	f.extraContext.SetValue(req.ExtraContext)
}

// loadNextExample fills the form with the next preset, cycling through them.
func (f *briefForm) loadNextExample() domain.CreateBriefRequest {
	ex := examples[f.nextExample%len(examples)]
	f.nextExample++
	f.load(ex)
	return ex
}

func (f *briefForm) reset() {
	f.appName.Reset()
	f.description.Reset()
	f.targetUsers.Reset()
	f.extraContext.Reset()
	f.setFocus(fieldAppName)
}

func (f *briefForm) setFocus(field formField) {
	f.focus = field
	f.appName.Blur()
	f.description.Blur()
	f.targetUsers.Blur()
	f.extraContext.Blur()
	switch field {
	case fieldAppName:
		f.appName.Focus()
	case fieldDescription:
		f.description.Focus()
	case fieldTargetUsers:
		f.targetUsers.Focus()
	case fieldExtraContext:
		f.extraContext.Focus()
	}
}

func (f *briefForm) cycleFocus(delta int) {
	next := (int(f.focus) + delta + int(fieldCount)) % int(fieldCount)
	f.setFocus(formField(next))
}

func (f *briefForm) setWidth(width int) {
	w := max(20, width)
	f.appName.Width = w
	f.targetUsers.Width = w
	f.description.SetWidth(w)
	f.extraContext.SetWidth(w)
}

// Update forwards input to the focused field.
func (f *briefForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldAppName:
		f.appName, cmd = f.appName.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldTargetUsers:
		f.targetUsers, cmd = f.targetUsers.Update(msg)
	case fieldExtraContext:
		f.extraContext, cmd = f.extraContext.Update(msg)
	}
	return cmd
}

func (f *briefForm) View(width int, generating bool) string {
	field := func(label, hint string, required bool, input string) string {
		head := labelStyle.Render(strings.ToUpper(label))
		if required {
			head += " " + tagStyle.Render("[required]")
		}
		return lipgloss.JoinVertical(lipgloss.Left, head, mutedStyle.Render(hint), input, "")
	}

	var names []string
	for _, ex := range examples {
		names = append(names, ex.AppName)
	}

	hero := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("From idea to engineering spec in seconds."),
		mutedStyle.Width(max(20, width)).Render("Describe your product idea and get a complete engineering specification: user stories, data models, API design, tech stack, risks and milestones."),
		"",
		hintStyle.Render(fmt.Sprintf("Quick examples (ctrl+e): %s", strings.Join(names, " · "))),
		"",
	)

	submit := "ctrl+s → Generate Engineering Spec"
	switch {
	case generating:
		submit = "Generating spec..."
	case !f.ready():
		submit = mutedStyle.Render(submit + " (fill in the required fields)")
	default:
		submit = titleStyle.Render(submit)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		hero,
		field("App Name", "What's the product called?", true, f.appName.View()),
		field("Product Description", "Explain what it does and the core value proposition.", true, f.description.View()),
		field("Target Users", "Who is this built for? Be specific.", true, f.targetUsers.View()),
		field("Extra Context", "Tech constraints, competitors, integrations, or anything else helpful.", false, f.extraContext.View()),
		submit,
	)
}
