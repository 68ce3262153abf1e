package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"checklist/internal/config"
	"checklist/internal/item"
	"checklist/internal/logging"
	"checklist/internal/view"
)

const emptyInputWarning = "Please enter something to learn!"

// Store is the part of the item store the terminal front-end drives.
type Store interface {
	Items() []item.Item
	Add(text string) ([]item.Item, error)
	Toggle(id int64) ([]item.Item, error)
	Delete(id int64) ([]item.Item, error)
	Clear() ([]item.Item, error)
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmClear
)

type Model struct {
	store     Store
	keys      keyMap
	logger    *log.Logger
	items     []item.Item
	list      view.ListView
	progress  view.ProgressView
	cursor    int
	mode      mode
	input     textinput.Model
	help      help.Model
	width     int
	status    string
	statusErr bool
}

func New(store Store, keys config.Keymap, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	ti := textinput.New()
	ti.Placeholder = "What do you want to learn?"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:  store,
		keys:   newKeyMap(keys),
		logger: logger,
		input:  ti,
		help:   help.New(),
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, %s to toggle, '%s' to delete.", label(keys.Add), label(keys.Toggle), label(keys.Delete)),
	}
	m.refresh(store.Items())
	return m
}

func Run(store Store, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(store, cfg.Keys, logger), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeConfirmClear:
			return m.updateConfirmClear(msg)
		case modeAdd:
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
		m.help.Width = msg.Width
	}
	return m, nil
}

// refresh replaces the whole projection; nothing is patched in place.
func (m *Model) refresh(items []item.Item) {
	m.items = items
	m.list, m.progress = view.Project(items)
	m.cursor = clampCursor(m.cursor, len(items))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.setStatus("Cancelled")
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		items, err := m.store.Add(m.input.Value())
		if errors.Is(err, item.ErrEmptyInput) {
			m.logger.Debug("rejected blank item")
			m.setError(emptyInputWarning)
			return m, nil
		}
		if err != nil {
			m.logger.Error("add failed", "err", err)
			m.setError(fmt.Sprintf("save failed: %v", err))
			return m, nil
		}
		m.refresh(items)
		m.cursor = clampCursor(len(items)-1, len(items))
		m.input.SetValue("")
		m.setStatus("Added item")
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.items))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.items))
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.setStatus("Type an item and press Enter")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		items, err := m.store.Toggle(id)
		if err != nil {
			m.logger.Error("toggle failed", "id", id, "err", err)
			m.setError(fmt.Sprintf("toggle failed: %v", err))
			return m, nil
		}
		m.refresh(items)
		m.setStatus("Toggled item")
	case key.Matches(msg, m.keys.Delete):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		items, err := m.store.Delete(id)
		if err != nil {
			m.logger.Error("delete failed", "id", id, "err", err)
			m.setError(fmt.Sprintf("delete failed: %v", err))
			return m, nil
		}
		m.refresh(items)
		m.setStatus("Deleted item")
	case key.Matches(msg, m.keys.Clear):
		m.mode = modeConfirmClear
		m.setStatus(fmt.Sprintf("Clear all %d items? %s/%s", len(m.items), m.keys.Yes.Help().Key, m.keys.No.Help().Key))
	}
	return m, nil
}

// updateConfirmClear is the only path that reaches Store.Clear.
func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.mode = modeList
		items, err := m.store.Clear()
		if err != nil {
			m.logger.Error("clear failed", "err", err)
			m.setError(fmt.Sprintf("clear failed: %v", err))
			return m, nil
		}
		m.refresh(items)
		m.cursor = 0
		m.setStatus("Cleared all items")
	case key.Matches(msg, m.keys.No):
		m.mode = modeList
		m.setStatus("Clear cancelled")
	}
	return m, nil
}

func (m Model) selectedID() (int64, bool) {
	if len(m.list.Rows) == 0 {
		return 0, false
	}
	return m.list.Rows[clampCursor(m.cursor, len(m.list.Rows))].ID, true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Checklist"))
	b.WriteString("\n\n")

	cursor := -1
	if len(m.items) > 0 {
		cursor = m.cursor
	}
	opt := RenderOptions{Width: m.width, Cursor: cursor}
	b.WriteString(RenderProgress(m.progress, opt))
	b.WriteString("\n\n")
	b.WriteString(RenderList(m.list, opt))
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString("\n")
		b.WriteString(renderPrompt("Add item", m.input.View()))
		b.WriteString("\n")
	case modeConfirmClear:
		b.WriteString("\n")
		b.WriteString(renderPrompt("Clear all items?", "This removes every item and cannot be undone."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpKeys()))

	return b.String()
}

func (m Model) helpKeys() help.KeyMap {
	switch m.mode {
	case modeAdd:
		return addHelp{m.keys}
	case modeConfirmClear:
		return confirmHelp{m.keys}
	default:
		return listHelp{m.keys}
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
