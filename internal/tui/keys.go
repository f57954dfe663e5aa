package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
    quit      key.Binding
    help      key.Binding
    add       key.Binding
    del       key.Binding
    toggle    key.Binding
    all       key.Binding
    pending   key.Binding
    completed key.Binding
    down      key.Binding
    up        key.Binding
    open      key.Binding
    export    key.Binding
}

func newKeymap() keymap {
    return keymap{
        quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
        help:      key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
        add:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
        del:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
        toggle:    key.NewBinding(key.WithKeys("c", " "), key.WithHelp("c", "toggle done")),
        all:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
        pending:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pending")),
        completed: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finished")),
        down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
        up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
        open:      key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "details")),
        export:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export zip")),
    }
}

var keys = newKeymap()

func (k keymap) ShortHelp() []key.Binding {
    return []key.Binding{k.add, k.toggle, k.del, k.all, k.pending, k.completed, k.open, k.help, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
    return [][]key.Binding{
        {k.up, k.down, k.open},
        {k.add, k.toggle, k.del, k.export},
        {k.all, k.pending, k.completed},
        {k.help, k.quit},
    }
}

// editKeymap only feeds the hint line while a new todo is being typed.
type editKeymap struct {
    save   key.Binding
    cancel key.Binding
}

var editKeys = editKeymap{
    save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
    cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

func (k editKeymap) ShortHelp() []key.Binding  { return []key.Binding{k.save, k.cancel} }
func (k editKeymap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
