package ui

import (
	"strings"

	"matesite/internal/domain"
	"matesite/internal/issues"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	formDescriptionLines = 5
	formTitleCharLimit   = 200
	formDefaultWidth     = 40
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
)

// Form collects the title and description of a new or edited issue.
type Form struct {
	title       textinput.Model
	description textarea.Model
	field       formField
	focused     bool

	editing  *issues.Issue
	errorMsg string

	ids      *domain.PlaceholderIDs
	knownIDs map[string]bool
	keys     KeyMap
	width    int
}

// NewForm returns an empty form in add mode.
func NewForm(keys KeyMap, ids *domain.PlaceholderIDs) *Form {
	if ids == nil {
		ids = domain.NewPlaceholderIDs()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Short summary"
	ti.CharLimit = formTitleCharLimit

	ta := NewBaseTextarea(formDefaultWidth, formDescriptionLines)
	ta.Placeholder = "What happened? Markdown is fine."

	f := &Form{
		title:       ti,
		description: ta,
		ids:         ids,
		knownIDs:    map[string]bool{},
		keys:        keys,
	}
	f.SetWidth(formDefaultWidth)
	return f
}

// SetEditing switches the form into edit mode for issue. A new non-nil issue
// overwrites both fields; nil returns to add mode and leaves the fields alone.
func (f *Form) SetEditing(issue *issues.Issue) {
	if issue != nil && issue != f.editing {
		f.title.SetValue(issue.Title)
		f.description.SetValue(issue.Description)
		f.errorMsg = ""
	}
	f.editing = issue
}

// Editing returns the issue being edited, or nil in add mode.
func (f *Form) Editing() *issues.Issue {
	return f.editing
}

// SetKnownIDs records ids already in use so placeholders never collide with them.
func (f *Form) SetKnownIDs(list []issues.Issue) {
	known := make(map[string]bool, len(list))
	for _, issue := range list {
		known[issue.ID] = true
	}
	f.knownIDs = known
}

// Title returns the current title input.
func (f *Form) Title() string { return f.title.Value() }

// Description returns the current description input.
func (f *Form) Description() string { return f.description.Value() }

// Focused reports whether the form receives key input.
func (f *Form) Focused() bool { return f.focused }

// OnFirstField reports whether the title field has the cursor.
func (f *Form) OnFirstField() bool { return f.field == fieldTitle }

// OnLastField reports whether the description field has the cursor.
func (f *Form) OnLastField() bool { return f.field == fieldDescription }

// Focus gives the form key input, starting on field.
func (f *Form) Focus(field formField) tea.Cmd {
	f.focused = true
	return f.focusField(field)
}

// Blur removes key input from the form.
func (f *Form) Blur() {
	f.focused = false
	f.title.Blur()
	f.description.Blur()
}

// SetWidth resizes the inputs to fit a pane of the given inner width.
func (f *Form) SetWidth(width int) {
	if width < 10 {
		width = 10
	}
	f.width = width
	f.title.Width = width - 1
	f.description.SetWidth(width)
}

func (f *Form) focusField(field formField) tea.Cmd {
	f.field = field
	if field == fieldTitle {
		f.description.Blur()
		return f.title.Focus()
	}
	f.title.Blur()
	return f.description.Focus()
}

// Update handles key input for the form.
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, f.keys.Submit):
			return f, f.submit()
		case key.Matches(keyMsg, f.keys.Escape):
			if f.editing == nil {
				return f, nil
			}
			return f, func() tea.Msg { return CancelEditMsg{} }
		case keyMsg.Type == tea.KeyEnter && f.field == fieldTitle:
			return f, f.submit()
		case key.Matches(keyMsg, f.keys.Tab) && f.field == fieldTitle:
			return f, f.focusField(fieldDescription)
		case key.Matches(keyMsg, f.keys.ShiftTab) && f.field == fieldDescription:
			return f, f.focusField(fieldTitle)
		}
	}

	var cmd tea.Cmd
	if f.field == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.description, cmd = f.description.Update(msg)
	}
	return f, cmd
}

// submit validates the inputs, emits a SaveIssueMsg and clears the form
// without waiting for the save to finish.
func (f *Form) submit() tea.Cmd {
	draft, err := domain.NewDraft(f.title.Value(), f.description.Value())
	if err != nil {
		f.errorMsg = capitalize(err.Error())
		return nil
	}

	var id string
	if f.editing != nil {
		id = f.editing.ID
	} else {
		id = f.ids.Next(f.knownIDs)
	}
	issue := issues.Issue{ID: id, Title: draft.Title, Description: draft.Description}

	f.title.SetValue("")
	f.description.Reset()
	f.errorMsg = ""
	focusCmd := f.focusField(fieldTitle)
	if !f.focused {
		f.Blur()
		focusCmd = nil
	}

	return tea.Batch(focusCmd, func() tea.Msg { return SaveIssueMsg{Issue: issue} })
}

// View renders the form.
func (f *Form) View() string {
	header := "Add Issue"
	button := "Add"
	if f.editing != nil {
		header = "Edit Issue"
		button = "Update"
	}

	lines := []string{stylePaneTitle.Render(header)}
	if f.editing != nil {
		lines = append(lines, styleMutedText.Render("Editing ")+styleID.Render(f.editing.ID))
	}
	lines = append(lines,
		"",
		styleField.Render("Title"),
		f.title.View(),
		"",
		styleField.Render("Description"),
		f.description.View(),
	)
	if f.errorMsg != "" {
		lines = append(lines, styleFormError.Render("✖ "+f.errorMsg))
	} else {
		lines = append(lines, "")
	}

	buttonStyle := styleButton
	if f.focused {
		buttonStyle = styleButtonActive
	}
	controls := buttonStyle.Render(button) + " " + styleMutedText.Render(f.keys.Submit.Help().Key)
	if f.editing != nil {
		controls += "   " + styleMutedText.Render(f.keys.Escape.Help().Key+" Cancel")
	}
	lines = append(lines, controls)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
