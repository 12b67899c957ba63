package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stefanpenner/goalpost/pkg/store"
)

type formField int

const (
	fieldTitle formField = iota
	fieldReason
	fieldCategory
	fieldPhotos
	fieldCount
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// goalForm is the add/edit form. Photos are given as image file paths and
// are appended to any the goal already has.
type goalForm struct {
	editID   string // empty when adding
	focus    formField
	title    textinput.Model
	reason   textarea.Model
	category textinput.Model
	photos   textinput.Model
	existing int
	err      string
}

func newGoalForm(g *store.Goal, categories []string, width int) goalForm {
	width = max(width, 20)

	title := textinput.New()
	title.Placeholder = "What do you want to achieve?"
	title.CharLimit = 200
	title.Width = width

	reason := textarea.New()
	reason.Placeholder = "Why does it matter?"
	reason.ShowLineNumbers = false
	reason.SetWidth(width)
	reason.SetHeight(4)

	category := textinput.New()
	category.Placeholder = "e.g. Travel"
	category.CharLimit = 60
	category.Width = width
	category.ShowSuggestions = true
	category.SetSuggestions(categories)

	photos := textinput.New()
	photos.Placeholder = "image paths, comma separated"
	photos.Width = width

	f := goalForm{title: title, reason: reason, category: category, photos: photos}
	if g != nil {
		f.editID = g.ID
		f.title.SetValue(g.Title)
		f.reason.SetValue(g.Reason)
		f.category.SetValue(g.Category)
		f.existing = len(g.Photos)
	}
	f.focusField(fieldTitle)
	return f
}

func (f *goalForm) focusField(ff formField) tea.Cmd {
	f.focus = ff
	f.title.Blur()
	f.reason.Blur()
	f.category.Blur()
	f.photos.Blur()
	switch ff {
	case fieldReason:
		return f.reason.Focus()
	case fieldCategory:
		return f.category.Focus()
	case fieldPhotos:
		return f.photos.Focus()
	default:
		return f.title.Focus()
	}
}

// update handles a key. Enter submits from any single-line field; the
// reason takes newlines, so ctrl+s submits from anywhere.
func (f goalForm) update(msg tea.KeyMsg) (goalForm, tea.Cmd, formAction) {
	switch msg.String() {
	case "esc":
		return f, nil, formCancel
	case "ctrl+s":
		return f, nil, formSubmit
	case "tab", "down":
		if f.focus != fieldReason || msg.String() == "tab" {
			return f, f.focusField((f.focus + 1) % fieldCount), formNone
		}
	case "shift+tab", "up":
		if f.focus != fieldReason || msg.String() == "shift+tab" {
			return f, f.focusField((f.focus + fieldCount - 1) % fieldCount), formNone
		}
	case "enter":
		if f.focus != fieldReason {
			return f, nil, formSubmit
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldReason:
		f.reason, cmd = f.reason.Update(msg)
	case fieldCategory:
		f.category, cmd = f.category.Update(msg)
	case fieldPhotos:
		f.photos, cmd = f.photos.Update(msg)
	}
	return f, cmd, formNone
}

// input merges the form fields over base.
func (f goalForm) input(base store.Input) store.Input {
	base.Title = f.title.Value()
	base.Reason = f.reason.Value()
	base.Category = f.category.Value()
	return base
}

func (f goalForm) photoPaths() []string {
	var out []string
	for _, p := range strings.Split(f.photos.Value(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// fail shows err on the form and moves focus to the field it concerns.
func (f *goalForm) fail(err error, field formField) tea.Cmd {
	f.err = err.Error()
	return f.focusField(field)
}

func (f goalForm) view(s Styles) string {
	var b strings.Builder
	heading := "New goal"
	if f.editID != "" {
		heading = "Edit goal"
	}
	b.WriteString(s.ModalTitle.Render(heading))
	b.WriteString("\n\n")

	row := func(ff formField, label, body string) {
		ls := s.FieldLabel
		if f.focus == ff {
			ls = s.FieldFocus
		}
		b.WriteString(ls.Render(label))
		b.WriteString(body)
		b.WriteString("\n")
	}
	row(fieldTitle, "Goal", f.title.View())
	b.WriteString("\n")
	row(fieldReason, "Why", "")
	b.WriteString(f.reason.View())
	b.WriteString("\n\n")
	row(fieldCategory, "Category", f.category.View())
	photos := f.photos.View()
	if f.existing > 0 {
		photos += s.Footer.Render(fmt.Sprintf("  (+%d attached)", f.existing))
	}
	row(fieldPhotos, "Photos", photos)

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Footer.Render("tab next field  enter save  ctrl+s save  esc cancel"))
	return s.Modal.Render(b.String())
}
