package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// pollInterval is how often the dashboard refreshes from the control server.
const pollInterval = time.Second

// Model is the Bubble Tea model for the strategy dashboard.
type Model struct {
	client   *apiClient
	status   *statusPayload
	spot     float64
	prevSpot float64
	spotName string
	legTable table.Model
	err      error
	width    int
	height   int
}

// NewModel creates a new dashboard model polling the given client.
func NewModel(client *apiClient) Model {
	return Model{
		client:   client,
		status:   nil,
		spot:     0,
		prevSpot: 0,
		spotName: "",
		legTable: NewLegTable(),
		err:      nil,
		width:    0,
		height:   0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus(), m.fetchSpot(), pollTick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s":
			return m, m.setRunning(true)
		case "x":
			return m, m.setRunning(false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.legTable.SetWidth(msg.Width)

		return m, nil

	case StatusMsg:
		status := msg.Status
		m.status = &status
		m.err = nil

		if status.StrategyState != nil {
			m.legTable = UpdateLegRows(m.legTable, status.StrategyState.Legs)
		}

		return m, nil

	case SpotMsg:
		m.prevSpot = m.spot
		m.spot = msg.Price
		m.spotName = msg.Instrument

		return m, nil

	case FetchErrorMsg:
		m.err = msg.Err
		return m, nil

	case ControlDoneMsg:
		return m, m.fetchStatus()

	case pollTickMsg:
		return m, tea.Batch(m.fetchStatus(), m.fetchSpot(), pollTick())
	}

	var cmd tea.Cmd
	m.legTable, cmd = m.legTable.Update(msg)

	return m, cmd
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m Model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := m.client.FetchStatus()
		if err != nil {
			return FetchErrorMsg{Err: err}
		}

		return StatusMsg{Status: status}
	}
}

func (m Model) fetchSpot() tea.Cmd {
	return func() tea.Msg {
		spot, err := m.client.FetchSpot()
		if err != nil {
			// The spot price is decoration; status errors are the ones shown.
			return pollTickMsg{}
		}

		return SpotMsg{Instrument: spot.Instrument, Price: spot.SpotPrice}
	}
}

func (m Model) setRunning(running bool) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.SetRunning(running); err != nil {
			return FetchErrorMsg{Err: err}
		}

		return ControlDoneMsg{Running: running}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Range Breakout Strategy"))
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}

	if m.status == nil {
		s.WriteString("Connecting to control server...\n\n")
		s.WriteString(HelpStyle.Render("q: quit"))

		return s.String()
	}

	running := "STOPPED"
	runningStyle := StoppedStyle

	if m.status.Config.IsRunning {
		running = "RUNNING"
		runningStyle = RunningStyle
	}

	phase := "-"
	if m.status.StrategyState != nil {
		phase = RenderPhase(m.status.StrategyState.Phase)
	}

	s.WriteString(fmt.Sprintf("Engine: %s   Phase: %s   Version: %s\n",
		runningStyle.Render(running), phase, m.status.Version))

	if m.spotName != "" {
		s.WriteString(fmt.Sprintf("%s: %s\n", m.spotName, FormatPriceWithColor(m.spot, m.prevSpot)))
	}

	s.WriteString("\n")
	s.WriteString(m.legTable.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("s: start | x: stop | q: quit"))

	return s.String()
}
