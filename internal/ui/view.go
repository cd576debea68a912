// ABOUTME: Rendering for the soundboard TUI
// ABOUTME: Draws the button grid, device menu, add-sound prompts and status line
package ui

import (
	"fmt"
	"strings"

	"github.com/Sendspin/soundboard/internal/version"
	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 18

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#696969"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444"))
	selectedCellStyle = cellStyle.
				BorderForeground(lipgloss.Color("#7D56F4"))
	playingCellStyle = cellStyle.
				Foreground(lipgloss.Color("#000000")).
				Background(lipgloss.Color("#73F59F"))

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.mode {
	case modeDevices:
		b.WriteString(m.renderDevices())
	case modeAddFile:
		b.WriteString(menuStyle.Render("Add sound: choose a .wav or .mp3 file\n\n" + m.picker.View()))
	case modeAddTitle, modeAddShortcut:
		b.WriteString(m.renderPrompt())
	default:
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders product, output device and mute state
func (m Model) renderHeader() string {
	mute := okStyle.Render("live")
	if m.muted {
		mute = errorStyle.Render("MUTED")
	}
	return fmt.Sprintf("%s  Output: %s  Sound: %s",
		titleStyle.Render(version.String()), m.deviceName(), mute)
}

// renderGrid renders the sound buttons Columns to a row
func (m Model) renderGrid() string {
	if len(m.sounds) == 0 {
		return mutedStyle.Render("No sounds yet. Press a to add one.")
	}

	var rows []string
	for start := 0; start < len(m.sounds); start += Columns {
		end := min(start+Columns, len(m.sounds))

		var cells []string
		for i := start; i < end; i++ {
			cells = append(cells, m.renderCell(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(i int) string {
	s := m.sounds[i]

	label := truncate(s.Title, cellWidth)
	if s.Shortcut != "" {
		label += "\n" + truncate("["+s.Shortcut+"]", cellWidth)
	} else {
		label += "\n "
	}

	style := cellStyle
	switch {
	case m.playing[s.FileName] && i == m.cursor:
		style = playingCellStyle.BorderForeground(selectedCellStyle.GetBorderTopForeground())
	case m.playing[s.FileName]:
		style = playingCellStyle
	case i == m.cursor:
		style = selectedCellStyle
	}
	return style.Render(label)
}

// renderDevices renders the output device menu
func (m Model) renderDevices() string {
	var b strings.Builder
	b.WriteString("Output device\n\n")

	if len(m.devices) == 0 {
		b.WriteString(mutedStyle.Render("No output devices found"))
		return menuStyle.Render(b.String())
	}

	for i, d := range m.devices {
		cursor := "  "
		if i == m.deviceCursor {
			cursor = "> "
		}
		current := ""
		if d.ID == m.device {
			current = okStyle.Render(" (current)")
		}
		fmt.Fprintf(&b, "%s%d: %s%s\n", cursor, d.ID, d.Name, current)
	}
	return menuStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

// renderPrompt renders the title or shortcut prompt of the add flow
func (m Model) renderPrompt() string {
	label := "Title for " + truncate(m.pendingPath, 40)
	if m.mode == modeAddShortcut {
		label = "Shortcut for " + m.pendingTitle
	}
	return menuStyle.Render(label + "\n\n" + m.input.View())
}

// renderStatus renders the last status or error line
func (m Model) renderStatus() string {
	line := m.status
	if ids := m.playingIDs(); len(ids) > 0 {
		if line != "" {
			line += "  "
		}
		line += "Playing: " + strings.Join(ids, ", ")
	}
	if m.statusErr {
		return errorStyle.Render(line)
	}
	return line
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	var help string
	switch m.mode {
	case modeDevices:
		help = "↑/↓:Select  enter:Use device  esc:Back"
	case modeAddFile:
		help = "↑/↓:Browse  enter/→:Open  ←:Up  esc:Cancel"
	case modeAddTitle, modeAddShortcut:
		help = "enter:Next  esc:Cancel"
	default:
		help = "←↑↓→:Move  enter:Play  m:Mute  o:Output  a:Add  s:Stop  S:Stop all  q:Quit"
	}
	return mutedStyle.Render(help)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
