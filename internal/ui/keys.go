package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"checklist/internal/config"
)

type keyMap struct {
	Quit    key.Binding
	Add     key.Binding
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Clear   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Yes     key.Binding
	No      key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(label(k.Quit), "quit")),
		Add:     key.NewBinding(key.WithKeys(k.Add), key.WithHelp(label(k.Add), "add")),
		Up:      key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(label(k.Up)+"/↑", "up")),
		Down:    key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(label(k.Down)+"/↓", "down")),
		Toggle:  key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(label(k.Toggle), "toggle")),
		Delete:  key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(label(k.Delete), "delete")),
		Clear:   key.NewBinding(key.WithKeys(k.Clear), key.WithHelp(label(k.Clear), "clear all")),
		Confirm: key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(label(k.Confirm), "save")),
		Cancel:  key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(label(k.Cancel), "cancel")),
		Yes:     key.NewBinding(key.WithKeys(k.Yes), key.WithHelp(label(k.Yes), "yes")),
		No:      key.NewBinding(key.WithKeys(k.No, k.Cancel), key.WithHelp(label(k.No), "no")),
	}
}

func label(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// listHelp, addHelp and confirmHelp satisfy help.KeyMap for each mode.
type listHelp struct{ k keyMap }

func (h listHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Add, h.k.Toggle, h.k.Delete, h.k.Clear, h.k.Quit}
}

func (h listHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

type addHelp struct{ k keyMap }

func (h addHelp) ShortHelp() []key.Binding  { return []key.Binding{h.k.Confirm, h.k.Cancel} }
func (h addHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

type confirmHelp struct{ k keyMap }

func (h confirmHelp) ShortHelp() []key.Binding  { return []key.Binding{h.k.Yes, h.k.No} }
func (h confirmHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
