package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"matesite/internal/debug"
	"matesite/internal/domain"
	appErrors "matesite/internal/errors"
	"matesite/internal/issues"
	"matesite/internal/readmodel"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minPaneWidth       = 20
	minBodyHeight      = 6
	sideBySideMinWidth = 90
	copyToastDuration  = 2 * time.Second
)

// FocusArea identifies which pane receives key input.
type FocusArea int

const (
	FocusList FocusArea = iota
	FocusForm
	FocusDetail
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// Config configures the UI application.
type Config struct {
	Client issues.Client
	// CollectionKey identifies the cached issue collection, normally the
	// collection URL of the backend.
	CollectionKey   string
	BaseURL         string
	RequestTimeout  time.Duration
	RefreshInterval time.Duration
	OutputFormat    string
	Version         string
	PlaceholderIDs  *domain.PlaceholderIDs
}

// App implements the Bubble Tea model for the issue page.
type App struct {
	client    issues.Client
	readModel *readmodel.Model
	form      *Form
	list      *List
	detail    detailPane

	// current is the issue being edited; nil while adding.
	current *issues.Issue

	deleteOverlay *DeleteOverlay
	showDetail    bool
	showHelp      bool
	focus         FocusArea

	keys    KeyMap
	spinner spinner.Model
	width   int
	height  int

	lastError      string
	copiedID       string
	showCopyToast  bool
	copyToastStart time.Time

	baseURL string
	version string
	timeout time.Duration
}

// NewApp creates the page model. No network call is made until Init.
func NewApp(cfg Config) (*App, error) {
	if cfg.Client == nil {
		return nil, errors.New("ui: issue client is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	collectionKey := cfg.CollectionKey
	if collectionKey == "" {
		collectionKey = strings.TrimRight(cfg.BaseURL, "/") + "/issues"
	}

	keys := DefaultKeyMap()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleLoading

	m := &App{
		client: cfg.Client,
		readModel: readmodel.New(cfg.Client, collectionKey,
			readmodel.WithTimeout(cfg.RequestTimeout),
			readmodel.WithRefreshInterval(cfg.RefreshInterval),
		),
		form:    NewForm(keys, cfg.PlaceholderIDs),
		list:    NewList(keys),
		detail:  newDetailPane(resolveMarkdownStyle(cfg.OutputFormat)),
		focus:   FocusList,
		keys:    keys,
		spinner: sp,
		baseURL: cfg.BaseURL,
		version: cfg.Version,
		timeout: cfg.RequestTimeout,
	}
	return m, nil
}

// Init starts the initial fetch and, when configured, periodic revalidation.
func (m *App) Init() tea.Cmd {
	return tea.Batch(m.readModel.Fetch(), m.spinner.Tick, m.readModel.Tick())
}

// Current returns the issue being edited, or nil.
func (m *App) Current() *issues.Issue { return m.current }

// ReadModel exposes the cached collection.
func (m *App) ReadModel() *readmodel.Model { return m.readModel }

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case spinner.TickMsg:
		if !m.readModel.IsLoading() && !m.readModel.Validating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case readmodel.LoadedMsg:
		m.applyLoaded(msg)
		return m, nil
	case readmodel.TickMsg:
		if msg.Key != m.readModel.Key() {
			return m, nil
		}
		return m, tea.Batch(m.refetch(), m.readModel.Tick())
	case SaveIssueMsg:
		return m, m.save(msg.Issue)
	case CancelEditMsg:
		m.current = nil
		m.form.SetEditing(nil)
		return m, nil
	case EditIssueMsg:
		return m, m.edit(msg.Issue)
	case DeleteIssueMsg:
		m.openDeleteOverlay(msg.ID)
		return m, nil
	case DeleteConfirmedMsg:
		m.deleteOverlay = nil
		return m, deleteIssueCmd(m.client, msg.IssueID, m.timeout)
	case DeleteCancelledMsg:
		m.deleteOverlay = nil
		return m, nil
	case mutationDoneMsg:
		return m, m.mutationDone(msg)
	case detailLoadedMsg:
		m.detail.apply(msg)
		return m, nil
	case copyToastTickMsg:
		if !m.showCopyToast {
			return m, nil
		}
		if time.Since(m.copyToastStart) >= copyToastDuration {
			m.showCopyToast = false
			return m, nil
		}
		return m, scheduleCopyToastTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and similar messages belong to the form inputs.
	if m.focus == FocusForm {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *App) applyLoaded(msg readmodel.LoadedMsg) {
	var selectedID string
	if prev, ok := m.list.Selected(m.readModel.Issues()); ok {
		selectedID = prev.ID
	}
	if !m.readModel.Apply(msg) {
		return
	}
	items := m.readModel.Issues()
	m.form.SetKnownIDs(items)
	if selectedID != "" {
		m.list.SelectID(items, selectedID)
	}
	if msg.Err != nil {
		debug.Event("ui.list_failed", "err", msg.Err)
	}
}

// refetch revalidates the collection and keeps the spinner running meanwhile.
func (m *App) refetch() tea.Cmd {
	return tea.Batch(m.readModel.Mutate(), m.spinner.Tick)
}

// save creates or updates depending on whether an issue is being edited.
func (m *App) save(issue issues.Issue) tea.Cmd {
	return saveIssueCmd(m.client, m.current, issue, m.timeout)
}

func (m *App) mutationDone(msg mutationDoneMsg) tea.Cmd {
	// A deleted issue can no longer be saved, so an edit of it is dropped too.
	if msg.kind != mutationDelete || (m.current != nil && m.current.ID == msg.id) {
		m.current = nil
		m.form.SetEditing(nil)
	}
	if msg.err != nil {
		m.lastError = describeMutationError(msg.kind, msg.err)
	} else {
		m.lastError = ""
	}
	if msg.kind == mutationDelete && m.showDetail && m.detail.id == msg.id {
		m.closeDetail()
	}
	return m.refetch()
}

// describeMutationError words a failed create, update or delete for the footer.
func describeMutationError(kind mutationKind, err error) string {
	switch appErrors.CodeOf(err) {
	case appErrors.CodeNotFound:
		return fmt.Sprintf("%s failed: issue no longer exists", kind)
	case appErrors.CodeNetwork:
		return fmt.Sprintf("%s failed: backend unreachable", kind)
	}
	if status := issues.StatusCodeOf(err); status != 0 {
		return fmt.Sprintf("%s failed: backend returned %d", kind, status)
	}
	return fmt.Sprintf("%s failed: %v", kind, err)
}

func (m *App) edit(issue issues.Issue) tea.Cmd {
	m.current = &issue
	m.form.SetEditing(m.current)
	m.closeDetail()
	return m.focusForm()
}

func (m *App) openDeleteOverlay(id string) {
	title := ""
	for _, issue := range m.readModel.Issues() {
		if issue.ID == id {
			title = issue.Title
			break
		}
	}
	m.deleteOverlay = NewDeleteOverlay(id, title)
}

func (m *App) openDetail(issue issues.Issue) tea.Cmd {
	m.showDetail = true
	m.focus = FocusDetail
	m.form.Blur()
	m.detail.open(issue)
	return loadDetailCmd(m.client, issue.ID, m.timeout)
}

func (m *App) closeDetail() {
	m.showDetail = false
	m.detail.id = ""
	if m.focus == FocusDetail {
		m.focus = FocusList
	}
}

func (m *App) focusForm() tea.Cmd {
	m.focus = FocusForm
	return m.form.Focus(fieldTitle)
}

func (m *App) focusList() {
	m.form.Blur()
	m.focus = FocusList
}

func (m *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.deleteOverlay != nil {
		var cmd tea.Cmd
		m.deleteOverlay, cmd = m.deleteOverlay.Update(msg)
		return m, cmd
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch m.focus {
	case FocusForm:
		return m.handleFormKey(msg)
	case FocusDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab) && m.form.OnLastField():
		m.focusList()
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab) && m.form.OnFirstField():
		m.focusList()
		return m, nil
	}
	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.readModel.Issues()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Tab, m.keys.ShiftTab):
		return m, m.focusForm()
	case key.Matches(msg, m.keys.NewIssue):
		if m.current != nil {
			m.current = nil
			m.form.SetEditing(nil)
		}
		return m, m.focusForm()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refetch()
	case key.Matches(msg, m.keys.Escape):
		m.lastError = ""
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if issue, ok := m.list.Selected(items); ok {
			return m, m.openDetail(issue)
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelectedID(items)
	}
	return m, m.list.Update(msg, items)
}

func (m *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Enter, m.keys.Quit):
		m.closeDetail()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Tab, m.keys.ShiftTab):
		m.closeDetail()
		return m, m.focusForm()
	case key.Matches(msg, m.keys.Edit):
		return m, m.detailIssue().Edit()
	case key.Matches(msg, m.keys.Delete):
		return m, m.detailIssue().Delete()
	case key.Matches(msg, m.keys.Refresh):
		m.detail.loading = true
		m.detail.refresh()
		return m, tea.Batch(loadDetailCmd(m.client, m.detail.id, m.timeout), m.refetch())
	}
	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

func (m *App) detailIssue() Item {
	return Item{Issue: m.detail.issue}
}

func (m *App) copySelectedID(items []issues.Issue) tea.Cmd {
	issue, ok := m.list.Selected(items)
	if !ok {
		return nil
	}
	if err := writeClipboard(issue.ID); err != nil {
		debug.Event("ui.copy_failed", "id", issue.ID, "err", err)
		return nil
	}
	m.copiedID = issue.ID
	m.showCopyToast = true
	m.copyToastStart = time.Now()
	return scheduleCopyToastTick()
}

// layout sizes the panes for the current window.
func (m *App) layout() {
	formWidth, listWidth, bodyHeight := m.paneSizes()
	m.form.SetWidth(formWidth)
	listHeight := bodyHeight
	if m.width < sideBySideMinWidth {
		listHeight = bodyHeight - lipgloss.Height(m.form.View()) - 2
	}
	if listHeight < minBodyHeight {
		listHeight = minBodyHeight
	}
	m.list.SetSize(listWidth, listHeight)
	m.detail.setSize(listWidth, listHeight)
}

// paneSizes returns inner widths for the form and list panes and the body height.
func (m *App) paneSizes() (formWidth, listWidth, bodyHeight int) {
	// Header is one row; footer is one row plus an optional error line.
	bodyHeight = m.height - 3 - 2
	if bodyHeight < minBodyHeight {
		bodyHeight = minBodyHeight
	}
	if m.width < sideBySideMinWidth {
		w := m.width - 2
		if w < minPaneWidth {
			w = minPaneWidth
		}
		return w, w, bodyHeight
	}
	formWidth = m.width*2/5 - 2
	listWidth = m.width - formWidth - 4
	if formWidth < minPaneWidth {
		formWidth = minPaneWidth
	}
	if listWidth < minPaneWidth {
		listWidth = minPaneWidth
	}
	return formWidth, listWidth, bodyHeight
}

// View renders the page.
func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return renderHelpOverlay(m.keys, m.width, m.height)
	}
	if m.deleteOverlay != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.deleteOverlay.View())
	}

	formWidth, listWidth, _ := m.paneSizes()

	formPane := paneStyle(m.focus == FocusForm).Width(formWidth).Render(m.form.View())

	var right string
	if m.showDetail {
		right = m.detail.View()
	} else {
		title := stylePaneTitle.Render("Issues")
		if m.readModel.Validating() && !m.readModel.IsLoading() {
			title += " " + m.spinner.View()
		}
		right = lipgloss.JoinVertical(lipgloss.Left, title, "", m.list.View(m.readModel, m.spinner.View()))
	}
	listPane := paneStyle(m.focus != FocusForm).Width(listWidth).Render(right)

	var body string
	if m.width < sideBySideMinWidth {
		body = lipgloss.JoinVertical(lipgloss.Left, formPane, listPane)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, formPane, listPane)
	}

	footer := m.renderFooter()
	if m.showCopyToast {
		footer = styleCopyToast.Render(fmt.Sprintf("Copied '%s' to clipboard.", m.copiedID)) + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, footer)
}

func (m *App) renderHeader() string {
	left := styleAppHeader.Render("matesite")
	info := ""
	if m.baseURL != "" {
		info = styleHeaderInfo.Render(" " + m.baseURL)
	}
	if every := m.readModel.RefreshInterval(); every > 0 {
		info += styleHeaderInfo.Render(" ⟳ " + every.String())
	}
	right := ""
	if m.version != "" {
		right = styleHeaderInfo.Render(m.version + " ")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(info) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + info + styleHeaderInfo.Render(strings.Repeat(" ", gap)) + right
}

func paneStyle(focused bool) lipgloss.Style {
	if focused {
		return stylePaneFocused
	}
	return stylePane
}
