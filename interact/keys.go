package interact

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	Trigger               key.Binding
	Pause                 key.Binding
	FreqUp, FreqDown      key.Binding
	AbsUp, AbsDown        key.Binding
	Probe                 key.Binding
	Help                  key.Binding
	Quit                  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Trigger, k.Pause, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Trigger, k.Pause, k.Probe},
		{k.FreqUp, k.FreqDown, k.AbsUp, k.AbsDown},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "source up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "source down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "source left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "source right")),
	Trigger:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "trigger")),
	Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	FreqUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "frequency up")),
	FreqDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "frequency down")),
	AbsUp:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "wall absorption up")),
	AbsDown:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "wall absorption down")),
	Probe:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "probe at source")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
