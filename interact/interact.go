package interact

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jdginn/go-room-wave/fdtd"
)

const (
	frameInterval = 50 * time.Millisecond
	// Frequency steps are a sixth of an octave
	freqStep     = 1.122462048309373
	absStep      = 0.05
	probePanel   = 8
	defaultSteps = 4
)

var (
	docStyle     = lipgloss.NewStyle().Margin(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type item struct {
	probe *fdtd.Probe
}

func (i item) Title() string {
	return fmt.Sprintf("%s (%d, %d)", i.probe.Name, i.probe.X, i.probe.Y)
}

func (i item) Description() string {
	idx, peak := i.probe.Peak()
	if idx < 0 {
		return "no samples"
	}
	return fmt.Sprintf("peak %.3g at %.2f ms, rms %.3g",
		peak, float64(idx)*i.probe.Interval/fdtd.MS, i.probe.RMS())
}

func (i item) FilterValue() string {
	return i.probe.Name
}

type model struct {
	sim           *fdtd.Simulation
	stepsPerFrame int
	paused        bool

	list list.Model
	help help.Model
	keys keyMap

	width, height int
}

func newModel(sim *fdtd.Simulation, stepsPerFrame int) model {
	if stepsPerFrame < 1 {
		stepsPerFrame = defaultSteps
	}
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Probes"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	m := model{
		sim:           sim,
		stepsPerFrame: stepsPerFrame,
		list:          l,
		help:          help.New(),
		keys:          keys,
		width:         80,
		height:        24,
	}
	m.refreshProbes()
	return m
}

func (m *model) refreshProbes() tea.Cmd {
	items := make([]list.Item, len(m.sim.Probes()))
	for i, p := range m.sim.Probes() {
		items[i] = item{probe: p}
	}
	return m.list.SetItems(items)
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m *model) moveSource(dx, dy int) {
	x, y := m.sim.SourcePosition()
	if x < 0 {
		return
	}
	m.sim.SetSourcePosition(x+dx, y+dy)
}

func (m *model) frequency() float64 {
	if len(m.sim.Sources()) == 0 {
		return 0
	}
	return m.sim.Sources()[0].Signal().Frequency
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		if !m.paused {
			m.sim.Run(m.stepsPerFrame)
			cmds = append(cmds, m.refreshProbes())
		}
		cmds = append(cmds, tick())

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, _ := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, probePanel)
		m.help.Width = msg.Width - h

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveSource(0, -1)
		case key.Matches(msg, m.keys.Down):
			m.moveSource(0, 1)
		case key.Matches(msg, m.keys.Left):
			m.moveSource(-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.moveSource(1, 0)
		case key.Matches(msg, m.keys.Trigger):
			m.sim.TriggerImpulse()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.FreqUp):
			m.sim.SetFrequency(m.frequency() * freqStep)
		case key.Matches(msg, m.keys.FreqDown):
			m.sim.SetFrequency(m.frequency() / freqStep)
		case key.Matches(msg, m.keys.AbsUp):
			m.sim.SetWallAbsorption(m.sim.WallAbsorption() + absStep)
		case key.Matches(msg, m.keys.AbsDown):
			m.sim.SetWallAbsorption(m.sim.WallAbsorption() - absStep)
		case key.Matches(msg, m.keys.Probe):
			x, y := m.sim.SourcePosition()
			if x >= 0 {
				m.sim.AddProbe(fmt.Sprintf("probe%d", len(m.sim.Probes())+1), x, y)
				cmds = append(cmds, m.refreshProbes())
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		default:
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m model) status() string {
	e := m.sim.Field().Energy()
	state := "running"
	if m.paused {
		state = "paused"
	}
	return statusStyle.Render(fmt.Sprintf(
		"tick %d  %s  %.0f Hz  wall %.2f  peak %.3g  energy %.3g  damping %.3f",
		m.sim.Ticks(), state, m.frequency(), m.sim.WallAbsorption(),
		m.sim.Field().Peak(), e.Total(), e.Damping))
}

func (m model) View() string {
	h, v := docStyle.GetFrameSize()
	helpView := m.help.View(m.keys)
	reserved := 2 + lipgloss.Height(helpView)
	if len(m.sim.Probes()) > 0 {
		reserved += probePanel
	}
	fieldH := int(math.Max(float64(m.height-v-reserved), 3))

	parts := []string{Frame(m.sim, m.width-h, fieldH, true), m.status()}
	if w, ok := m.sim.Warning(); ok {
		parts = append(parts, warningStyle.Render(w.Message))
	} else {
		parts = append(parts, "")
	}
	if len(m.sim.Probes()) > 0 {
		parts = append(parts, m.list.View())
	}
	parts = append(parts, helpView)
	return docStyle.Render(strings.Join(parts, "\n"))
}

// Run shows the simulation in the terminal until the user quits, advancing stepsPerFrame
// ticks every frame.
func Run(sim *fdtd.Simulation, stepsPerFrame int) error {
	p := tea.NewProgram(newModel(sim, stepsPerFrame), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal viewer: %w", err)
	}
	return nil
}
