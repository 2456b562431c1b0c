// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lambdaphotonics/lumastat/pkg/lambdamini"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

const (
	powerStepPercent = 5 // Up/Down arrow step as percent of ceiling
	maxLogEntries    = 100
)

// Focus states
const (
	focusPowerInput = iota
	focusEmissionButton
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

type logEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// controlModel is the Bubble Tea model for the control TUI
type controlModel struct {
	client   *lambdamini.Client
	connInfo string

	// Latest device state
	snap     *lambdamini.Snapshot
	power    lambdamini.Power
	emission bool

	// An operation or poll is in flight; the client lock would make a
	// second one queue up, so the UI refuses instead
	busy bool

	// Control widgets
	powerInput   textinput.Model
	powerBar     progress.Model
	focusedField int

	// Event log
	eventLog []logEntry

	// UI state
	width    int
	height   int
	quitting bool
	lastPoll time.Time
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type controlTickMsg time.Time

type pollResultMsg struct {
	snap *lambdamini.Snapshot
	err  error
}

type opResultMsg struct {
	desc  string
	power *lambdamini.Power
	err   error
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialControlModel(client *lambdamini.Client, snap *lambdamini.Snapshot, connInfo string) controlModel {
	ti := textinput.New()
	ti.Placeholder = "0.0"
	ti.CharLimit = 8
	ti.Width = 10

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	m := controlModel{
		client:       client,
		connInfo:     connInfo,
		snap:         snap,
		power:        snap.Power,
		emission:     snap.Status.EmissionOn,
		powerInput:   ti,
		powerBar:     bar,
		focusedField: focusEmissionButton,
		eventLog:     make([]logEntry, 0),
		width:        80,
		height:       24,
		lastPoll:     snap.Taken,
	}
	m.addLogEntry(fmt.Sprintf("Connected: %s", connInfo), false)
	if snap.Err != nil {
		m.addLogEntry(fmt.Sprintf("Device error 0x%02X: %s", snap.Err.Code, snap.Err.Description), true)
	}
	return m
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m controlModel) Init() tea.Cmd {
	return controlTickCmd(m.client.Config().PollInterval)
}

func controlTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return controlTickMsg(t)
	})
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.powerBar.Width = min(m.width-20, 60)

	case controlTickMsg:
		// Skip the cycle if an operation is still in flight; the next
		// tick retries.
		if m.busy {
			return m, controlTickCmd(m.client.Config().PollInterval)
		}
		m.busy = true
		return m, tea.Batch(
			pollCmd(m.client),
			controlTickCmd(m.client.Config().PollInterval),
		)

	case pollResultMsg:
		m.busy = false
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Poll failed: %v", msg.err), true)
			return m, nil
		}
		m.snap = msg.snap
		m.emission = msg.snap.Status.EmissionOn
		m.lastPoll = msg.snap.Taken
		// Keep the known ceiling if the device momentarily reports none
		if msg.snap.Power.Max > 0 || m.power.Max == 0 {
			m.power = msg.snap.Power
		} else {
			m.power.Current = msg.snap.Power.Current
		}
		if msg.snap.Err != nil {
			m.addLogEntry(fmt.Sprintf("Device error 0x%02X: %s", msg.snap.Err.Code, msg.snap.Err.Description), true)
		}

	case opResultMsg:
		m.busy = false
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Failed: %s: %v", msg.desc, msg.err), true)
			return m, nil
		}
		if msg.power != nil {
			m.power = *msg.power
		}
		m.emission = m.client.Enabled()
		m.addLogEntry(msg.desc, false)
	}

	// Pass remaining messages to the focused input
	if m.focusedField == focusPowerInput {
		var cmd tea.Cmd
		m.powerInput, cmd = m.powerInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m controlModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		if m.focusedField == focusPowerInput {
			m.focusedField = focusEmissionButton
			m.powerInput.Blur()
		} else {
			m.focusedField = focusPowerInput
			m.powerInput.Focus()
		}
		return m, nil

	case "e":
		if m.focusedField != focusPowerInput {
			return m.toggleEmission()
		}

	case "enter":
		if m.focusedField == focusPowerInput {
			return m.applyPowerInput()
		}
		return m.toggleEmission()

	case "up":
		return m.stepPower(+1)

	case "down":
		return m.stepPower(-1)
	}

	if m.focusedField == focusPowerInput {
		var cmd tea.Cmd
		m.powerInput, cmd = m.powerInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m controlModel) toggleEmission() (tea.Model, tea.Cmd) {
	if m.busy {
		m.addLogEntry("Busy, try again", true)
		return m, nil
	}
	m.busy = true
	if m.emission {
		return m, disableCmd(m.client, m.power)
	}
	return m, enableCmd(m.client)
}

func (m controlModel) applyPowerInput() (tea.Model, tea.Cmd) {
	if m.busy {
		m.addLogEntry("Busy, try again", true)
		return m, nil
	}
	level, err := strconv.ParseFloat(strings.TrimSpace(m.powerInput.Value()), 64)
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Invalid power value %q", m.powerInput.Value()), true)
		return m, nil
	}
	m.busy = true
	return m, setPowerCmd(m.client, m.power, level)
}

// stepPower nudges the power by a fixed percentage of the ceiling.
func (m controlModel) stepPower(direction int) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.power.Max <= 0 {
		m.addLogEntry("Power ceiling unknown, cannot step", true)
		return m, nil
	}
	step := m.power.Max * powerStepPercent / 100.0
	level := m.power.Current + float64(direction)*step
	m.busy = true
	return m, setPowerCmd(m.client, m.power, level)
}

func (m *controlModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, logEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.eventLog) > maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-maxLogEntries:]
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m controlModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	focusedBoxStyle := boxStyle.
		BorderForeground(lipgloss.Color("12"))

	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("12")).
		Padding(0, 2)

	focusedButtonStyle := buttonStyle.
		Background(lipgloss.Color("10"))

	// Header
	s.WriteString(titleStyle.Render("LUMASTAT CONTROL"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | q=quit Tab=switch e=emission ↑/↓=power", m.connInfo)))
	s.WriteString("\n\n")

	// Device panel
	devicePanel := boxStyle.Width(36).Render(m.renderDevicePanel(labelStyle, valueStyle))

	// Status panel
	statusPanel := boxStyle.Width(m.width - 44).Render(m.renderStatusPanel(labelStyle, valueStyle, errorStyle, warningStyle))

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, devicePanel, " ", statusPanel))
	s.WriteString("\n\n")

	// Power control panel
	powerStyle := boxStyle
	if m.focusedField == focusPowerInput {
		powerStyle = focusedBoxStyle
	}
	s.WriteString(powerStyle.Width(m.width - 6).Render(m.renderPowerPanel(labelStyle, valueStyle, buttonStyle, focusedButtonStyle)))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(m.renderEventLog(labelStyle, warningStyle, boxStyle))

	return s.String()
}

func (m controlModel) renderDevicePanel(labelStyle, valueStyle lipgloss.Style) string {
	info := m.snap.Info
	var s strings.Builder

	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Device:"), valueStyle.Render(info.DeviceName)))
	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Serial:"), valueStyle.Render(info.SerialNumber)))
	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Maker:"), valueStyle.Render(info.Manufacturer)))
	s.WriteString(fmt.Sprintf("%s %s nm\n", labelStyle.Render("Wavelength:"), valueStyle.Render(fmt.Sprintf("%d", info.Wavelength))))
	s.WriteString(fmt.Sprintf("%s %s h\n", labelStyle.Render("Hours:"), valueStyle.Render(fmt.Sprintf("%.2f", info.OperatingHours))))

	modes := []string{}
	if info.ACCActive {
		modes = append(modes, "ACC")
	}
	if info.APCActive {
		modes = append(modes, "APC")
	}
	if len(modes) == 0 {
		modes = append(modes, "none")
	}
	s.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Modes:"), valueStyle.Render(strings.Join(modes, " "))))

	return s.String()
}

func (m controlModel) renderStatusPanel(labelStyle, valueStyle, errorStyle, warningStyle lipgloss.Style) string {
	var s strings.Builder

	emission := valueStyle.Render("OFF")
	if m.emission {
		emission = errorStyle.Render("ON")
	}
	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Emission:"), emission))

	if m.snap.Status.InterlockOpen {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Interlock:"), warningStyle.Render("OPEN")))
	} else {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Interlock:"), valueStyle.Render("closed")))
	}

	temp := m.snap.Temperature
	tempStr := fmt.Sprintf("%.1f C (%.1f to %.1f)", temp.Current, temp.Min, temp.Max)
	if m.snap.Status.TemperatureOK {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Temp:"), valueStyle.Render(tempStr)))
	} else {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Temp:"), warningStyle.Render(tempStr+" WARN")))
	}

	if m.snap.Err != nil {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Error:"), errorStyle.Render(m.snap.Err.Description)))
	} else {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Error:"), valueStyle.Render("none")))
	}

	busy := ""
	if m.busy {
		busy = " (updating...)"
	}
	s.WriteString(fmt.Sprintf("%s %s%s", labelStyle.Render("Last poll:"), valueStyle.Render(m.lastPoll.Format("15:04:05")), busy))

	return s.String()
}

func (m controlModel) renderPowerPanel(labelStyle, valueStyle, buttonStyle, focusedButtonStyle lipgloss.Style) string {
	var s strings.Builder

	fraction := 0.0
	if m.power.Max > 0 {
		fraction = m.power.Current / m.power.Max
	}
	s.WriteString(fmt.Sprintf("%s %s / %s mW\n",
		labelStyle.Render("Power:"),
		valueStyle.Render(fmt.Sprintf("%.2f", m.power.Current)),
		valueStyle.Render(fmt.Sprintf("%.2f", m.power.Max))))
	s.WriteString(m.powerBar.ViewAs(fraction))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Set (mW): "))
	if m.focusedField == focusPowerInput {
		s.WriteString(m.powerInput.View())
	} else {
		val := m.powerInput.Value()
		if val == "" {
			val = m.powerInput.Placeholder
		}
		s.WriteString(fmt.Sprintf("[%s]", val))
	}
	s.WriteString("  ")

	btnText := "[ Emission On ]"
	if m.emission {
		btnText = "[ Emission Off ]"
	}
	if m.focusedField == focusEmissionButton {
		s.WriteString(focusedButtonStyle.Render(btnText))
	} else {
		s.WriteString(buttonStyle.Render(btnText))
	}

	return s.String()
}

func (m controlModel) renderEventLog(labelStyle, warningStyle lipgloss.Style, boxStyle lipgloss.Style) string {
	var s strings.Builder

	s.WriteString(labelStyle.Render("Events"))
	s.WriteString("\n")

	visible := 8
	start := len(m.eventLog) - visible
	if start < 0 {
		start = 0
	}
	for _, entry := range m.eventLog[start:] {
		line := fmt.Sprintf("%s %s", entry.timestamp.Format("15:04:05"), entry.message)
		if entry.isError {
			line = warningStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	return boxStyle.Width(m.width - 6).Render(s.String())
}
