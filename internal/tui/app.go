// Package tui is the SpecForge terminal client. It follows the bubbletea
// Elm architecture: App holds all state, Update turns messages into new
// state plus commands, and View renders the state.
//
// Network calls run as tea.Cmds and report back as messages; timers (delete
// confirm, notices, the copy indicator) carry tokens so stale expiries are
// ignored.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"specforge/internal/client"
	"specforge/internal/features/briefs/domain"
)

const (
	defaultDeleteConfirmWindow = 3 * time.Second
	defaultNoticeTTL           = 4 * time.Second
	defaultCopyReset           = 2 * time.Second
	sidebarWidth               = 34
)

// BriefAPI is the part of the REST client the TUI needs.
type BriefAPI interface {
	ListBriefs(ctx context.Context) ([]domain.Brief, error)
	CreateBrief(ctx context.Context, req domain.CreateBriefRequest) (*domain.Brief, error)
	DeleteBrief(ctx context.Context, id uint) error
}

// Logger receives diagnostic lines; *logging.FileLogger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type mainView int

const (
	viewForm mainView = iota
	viewDetail
)

type focusArea int

const (
	focusMain focusArea = iota
	focusSidebar
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeError
)

type notice struct {
	text  string
	kind  noticeKind
	token int
}

type briefsLoadedMsg struct {
	briefs []domain.Brief
	err    error
}

type briefCreatedMsg struct {
	brief *domain.Brief
	err   error
}

type briefDeletedMsg struct {
	id  uint
	err error
}

type noticeExpiredMsg struct {
	token int
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger routes diagnostics to l.
func WithLogger(l Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDeleteConfirmWindow sets how long a first delete press stays armed.
func WithDeleteConfirmWindow(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.confirmWindow = d
		}
	}
}

// WithNoticeTTL sets how long footer notices stay visible.
func WithNoticeTTL(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.noticeTTL = d
		}
	}
}

// WithCopyReset sets how long the "copied" indicator stays on.
func WithCopyReset(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.copyReset = d
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) AppOption {
	return func(a *App) {
		if write != nil {
			a.clipboard = write
		}
	}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// App is the main application model.
type App struct {
	api    BriefAPI
	logger Logger

	// Read-through copy of the server list, newest first.
	briefs     []domain.Brief
	selectedID uint
	cursor     int

	view        mainView
	focus       focusArea
	sidebarOpen bool
	generating  bool

	form    *briefForm
	detail  *detailView
	confirm deleteConfirm
	notice  notice

	confirmWindow time.Duration
	noticeTTL     time.Duration
	copyReset     time.Duration
	clipboard     func(string) error

	width  int
	height int
}

// NewApp creates a new App talking to api.
func NewApp(api BriefAPI, opts ...AppOption) *App {
	a := &App{
		api:           api,
		logger:        discardLogger{},
		view:          viewForm,
		focus:         focusMain,
		sidebarOpen:   true,
		form:          newBriefForm(),
		detail:        newDetailView(),
		confirmWindow: defaultDeleteConfirmWindow,
		noticeTTL:     defaultNoticeTTL,
		copyReset:     defaultCopyReset,
		clipboard:     clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.fetchBriefs()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case briefsLoadedMsg:
		return a.handleBriefsLoaded(msg)

	case briefCreatedMsg:
		return a.handleBriefCreated(msg)

	case briefDeletedMsg:
		return a.handleBriefDeleted(msg)

	case deleteConfirmExpiredMsg:
		a.confirm.expire(msg.token)
		return a, nil

	case noticeExpiredMsg:
		if msg.token == a.notice.token {
			a.notice.text = ""
		}
		return a, nil

	case copyResetMsg:
		if msg.token == a.detail.copyToken {
			a.detail.copied = false
			a.detail.refresh()
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.view == viewForm {
		return a, a.form.Update(msg)
	}
	return a, a.detail.Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+b":
		a.sidebarOpen = !a.sidebarOpen
		if !a.sidebarOpen {
			a.focus = focusMain
		}
		a.resize()
		return a, nil
	case "ctrl+n":
		a.showForm()
		return a, nil
	case "ctrl+r":
		return a, a.fetchBriefs()
	case "esc":
		if a.sidebarOpen && a.focus == focusMain {
			a.focus = focusSidebar
		} else {
			a.focus = focusMain
		}
		return a, nil
	}

	if a.focus == focusSidebar {
		return a.handleSidebarKey(key)
	}
	if a.view == viewForm {
		return a.handleFormKey(msg)
	}
	return a.handleDetailKey(msg)
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.generating {
		return a, nil
	}
	switch msg.String() {
	case "ctrl+s":
		return a.submit()
	case "ctrl+e":
		ex := a.form.loadNextExample()
		a.logger.Printf("Form · example %s loaded", ex.AppName)
		return a, nil
	case "tab":
		a.form.cycleFocus(1)
		return a, nil
	case "shift+tab":
		a.form.cycleFocus(-1)
		return a, nil
	}
	return a, a.form.Update(msg)
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "n":
		a.showForm()
		return a, nil
	case "c":
		return a.copySpec()
	case "tab":
		a.detail.moveCursor(1)
		return a, nil
	case "shift+tab":
		a.detail.moveCursor(-1)
		return a, nil
	case "enter", " ":
		a.detail.toggle()
		return a, nil
	case "e":
		a.detail.setAll(false)
		return a, nil
	case "x":
		a.detail.setAll(true)
		return a, nil
	}
	return a, a.detail.Update(msg)
}

// submit posts the form. Nothing is sent unless every required field has
// content and no other submission is pending.
func (a *App) submit() (tea.Model, tea.Cmd) {
	if a.generating {
		return a, nil
	}
	req := a.form.request()
	if field := req.MissingField(); field != "" {
		return a, a.setNotice(fmt.Sprintf("Missing required field: %s", field), noticeError)
	}
	a.generating = true
	a.logger.Printf("Submit · generating spec for %q", req.AppName)
	api := a.api
	return a, func() tea.Msg {
		brief, err := api.CreateBrief(context.Background(), req)
		return briefCreatedMsg{brief: brief, err: err}
	}
}

func (a *App) fetchBriefs() tea.Cmd {
	api := a.api
	return func() tea.Msg {
		briefs, err := api.ListBriefs(context.Background())
		return briefsLoadedMsg{briefs: briefs, err: err}
	}
}

func (a *App) deleteBrief(id uint) tea.Cmd {
	api := a.api
	return func() tea.Msg {
		return briefDeletedMsg{id: id, err: api.DeleteBrief(context.Background(), id)}
	}
}

func (a *App) handleBriefsLoaded(msg briefsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Fetch failures are logged only; the prior list stays.
		a.logger.Printf("Failed to fetch briefs: %v", msg.err)
		return a, nil
	}
	a.briefs = msg.briefs
	a.clampCursor()
	if a.selectedID != 0 {
		if b, ok := a.findBrief(a.selectedID); ok {
			a.detail.reload(b)
		} else {
			a.dropSelection()
		}
	}
	a.logger.Printf("Fetched %d brief(s)", len(a.briefs))
	return a, nil
}

func (a *App) handleBriefCreated(msg briefCreatedMsg) (tea.Model, tea.Cmd) {
	a.generating = false
	if msg.err != nil {
		a.logger.Printf("Failed to generate spec: %v", msg.err)
		return a, a.setNotice(createErrorText(msg.err), noticeError)
	}
	brief := *msg.brief
	a.briefs = append([]domain.Brief{brief}, a.briefs...)
	a.cursor = 0
	a.selectBrief(brief)
	a.form.reset()
	a.logger.Printf("Created brief %d (%s)", brief.ID, brief.AppName)
	return a, a.setNotice("Engineering spec generated!", noticeInfo)
}

func (a *App) handleBriefDeleted(msg briefDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.logger.Printf("Failed to delete brief %d: %v", msg.id, msg.err)
		return a, a.setNotice("Failed to delete", noticeError)
	}
	kept := a.briefs[:0:0]
	for _, b := range a.briefs {
		if b.ID != msg.id {
			kept = append(kept, b)
		}
	}
	a.briefs = kept
	a.clampCursor()
	if a.selectedID == msg.id {
		a.dropSelection()
	}
	a.logger.Printf("Deleted brief %d", msg.id)
	return a, a.setNotice("Brief deleted", noticeInfo)
}

// createErrorText prefers the server's {error} message.
func createErrorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to generate spec"
}

func (a *App) selectBrief(b domain.Brief) {
	a.selectedID = b.ID
	a.detail.setBrief(b)
	a.view = viewDetail
	a.focus = focusMain
}

// dropSelection returns to an empty form once the selected brief is gone.
func (a *App) dropSelection() {
	a.selectedID = 0
	a.view = viewForm
	a.form.reset()
}

// showForm switches to the form. Coming from the detail view the form
// starts empty; an in-progress form is left alone.
func (a *App) showForm() {
	if a.view != viewForm {
		a.form.reset()
	}
	a.selectedID = 0
	a.view = viewForm
	a.focus = focusMain
}

func (a *App) copySpec() (tea.Model, tea.Cmd) {
	text, err := a.detail.brief.GeneratedSpec.PrettyJSON()
	if err == nil {
		err = a.clipboard(text)
	}
	if err != nil {
		a.logger.Printf("Copy failed: %v", err)
		return a, a.setNotice("Failed to copy", noticeError)
	}
	a.detail.copyToken++
	a.detail.copied = true
	a.detail.refresh()
	token := a.detail.copyToken
	return a, tea.Tick(a.copyReset, func(time.Time) tea.Msg {
		return copyResetMsg{token: token}
	})
}

func (a *App) setNotice(text string, kind noticeKind) tea.Cmd {
	a.notice.token++
	a.notice.text = text
	a.notice.kind = kind
	token := a.notice.token
	return tea.Tick(a.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{token: token}
	})
}

func (a *App) findBrief(id uint) (domain.Brief, bool) {
	for _, b := range a.briefs {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Brief{}, false
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.briefs) {
		a.cursor = len(a.briefs) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) mainWidth() int {
	width := a.width
	if width <= 0 {
		width = 100
	}
	if a.sidebarOpen {
		width -= sidebarWidth + 2
	}
	return max(20, width-4)
}

func (a *App) resize() {
	w := a.mainWidth()
	a.form.setWidth(w)
	height := a.height
	if height <= 0 {
		height = 30
	}
	a.detail.setSize(w, height-8)
}

// View renders the current state to a string.
func (a *App) View() string {
	header := a.renderHeader()

	mainStyle := panelStyle
	if a.focus == focusMain {
		mainStyle = focusedPanelStyle
	}
	var content string
	if a.view == viewForm {
		content = a.form.View(a.mainWidth(), a.generating)
	} else {
		content = a.detail.View()
	}
	mainBox := mainStyle.Width(a.mainWidth() + 2).Render(content)

	body := mainBox
	if a.sidebarOpen {
		sideStyle := panelStyle
		if a.focus == focusSidebar {
			sideStyle = focusedPanelStyle
		}
		side := sideStyle.Width(sidebarWidth).Render(a.renderSidebar(sidebarWidth - 2))
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, mainBox)
	}

	return strings.Join([]string{header, body, a.renderFooter()}, "\n")
}

func (a *App) renderHeader() string {
	toggle := "☰"
	if a.sidebarOpen {
		toggle = "✕"
	}
	noun := "briefs"
	if len(a.briefs) == 1 {
		noun = "brief"
	}
	left := fmt.Sprintf("%s  %s  %s", mutedStyle.Render(toggle), titleStyle.Render("⚡ SpecForge"), mutedStyle.Render("AI ENGINEERING BRIEF GENERATOR"))
	right := mutedStyle.Render(fmt.Sprintf("%d %s generated", len(a.briefs), noun))
	return lipgloss.NewStyle().MarginBottom(1).Render(left + "    " + right)
}

func (a *App) renderFooter() string {
	if a.notice.text != "" {
		style := noticeInfoStyle
		if a.notice.kind == noticeError {
			style = noticeErrorStyle
		}
		return style.Render(a.notice.text)
	}
	var keys string
	switch {
	case a.focus == focusSidebar:
		keys = "↑/↓ move · enter open · n new · d delete · esc main · ctrl+b hide · ctrl+c quit"
	case a.view == viewForm:
		keys = "tab next field · ctrl+e example · ctrl+s generate · esc history · ctrl+c quit"
	default:
		keys = "tab section · enter toggle · e/x expand/collapse all · c copy JSON · n new · esc history"
	}
	return hintStyle.Render(keys)
}
