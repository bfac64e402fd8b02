// Package tui is an interactive stepper for scenario replays. Each key press
// feeds the next surface signal to a live compositor and redraws the step
// log next to the container tree.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tessel/internal/compositor"
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/render"
	"github.com/Iron-Ham/tessel/internal/scenario"
)

// Pane selects what the right-hand side shows.
type Pane int

const (
	PaneTree Pane = iota
	PaneViews
)

// DefaultPlayInterval is the delay between steps while playing.
const DefaultPlayInterval = 600 * time.Millisecond

type tickMsg struct{}

// Model is the Bubbletea model for the scenario stepper.
type Model struct {
	scenario *scenario.Scenario
	opts     compositor.Options
	logger   *logging.Logger

	session  *scenario.Session
	results  []scenario.StepResult
	log      viewport.Model
	help     help.Model
	pane     Pane
	playing  bool
	interval time.Duration
	width    int
	height   int
	quitting bool
}

// New creates a stepper for s positioned before its first step.
func New(s *scenario.Scenario, opts compositor.Options, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.NopLogger()
	}
	m := Model{
		scenario: s,
		opts:     opts,
		logger:   logger,
		log:      viewport.New(80, 20),
		help:     help.New(),
		interval: DefaultPlayInterval,
	}
	m.session = scenario.NewSession(s, opts, logger)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Session returns the live replay session.
func (m Model) Session() *scenario.Session { return m.session }

// Results returns the steps run so far.
func (m Model) Results() []scenario.StepResult { return m.results }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		m.step()
		if m.session.Done() {
			m.playing = false
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			m.session.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.Step):
			m.step()
		case key.Matches(msg, keys.Run):
			for !m.session.Done() {
				m.step()
			}
		case key.Matches(msg, keys.Play):
			m.playing = !m.playing && !m.session.Done()
			if m.playing {
				return m, m.tick()
			}
		case key.Matches(msg, keys.Reset):
			m.session.Close()
			m.session = scenario.NewSession(m.scenario, m.opts, m.logger)
			m.results = nil
			m.playing = false
			m.refresh()
		case key.Matches(msg, keys.Pane):
			if m.pane == PaneTree {
				m.pane = PaneViews
			} else {
				m.pane = PaneTree
			}
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
		case key.Matches(msg, keys.Up):
			m.log.LineUp(1)
		case key.Matches(msg, keys.Down):
			m.log.LineDown(1)
		}
	}
	return m, nil
}

func (m *Model) step() {
	res, ok := m.session.Step()
	if !ok {
		return
	}
	m.results = append(m.results, res)
	m.refresh()
}

func (m *Model) refresh() {
	lines := make([]string, 0, len(m.results))
	for _, r := range m.results {
		lines = append(lines, render.Step(r))
	}
	m.log.SetContent(strings.Join(lines, "\n"))
	m.log.GotoBottom()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

// resize splits the window between the log and the side pane.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	chrome := 3 + lipgloss.Height(m.help.View(keys))
	m.log.Width = m.width / 2
	m.log.Height = max(m.height-chrome, 1)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	next := render.Muted.Render("finished")
	if !m.session.Done() {
		next = "next: " + m.scenario.Steps[m.session.Position()].Describe()
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		render.Title.Render(m.scenario.Name), "  ",
		render.Muted.Render(stepCounter(m.session.Position(), len(m.scenario.Steps))), "  ",
		next,
	)
	if m.playing {
		header += "  " + render.Secondary.Render("playing")
	}

	snap := m.session.Compositor().Snapshot()
	side := render.Tree(snap)
	title := "tree"
	if m.pane == PaneViews {
		side = render.Views(snap)
		title = "views"
	}
	sidePane := lipgloss.JoinVertical(lipgloss.Left, render.Heading.Render(title), side)
	if m.width > 0 {
		sidePane = render.Fit(sidePane, max(m.width-m.log.Width-2, 10))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.log.Width).Render(m.log.View()),
		"  ",
		sidePane,
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", m.help.View(keys))
}

func stepCounter(pos, total int) string {
	return fmt.Sprintf("step %d/%d", pos, total)
}
