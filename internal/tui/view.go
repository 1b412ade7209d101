package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmunhall/dice-sack/internal/model"
)

const maxHistoryRows = 10

// View renders the table
func (m *Model) View() string {
	state := m.turns.State()

	sections := []string{
		titleStyle.Render("Dice Sack"),
		renderDice(state),
		m.renderSummary(state),
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, helpStyle.Render(m.help(state)))
	if m.showHistory {
		panel := historyPanel
		if m.width > 4 {
			panel = panel.Width(m.width - 4)
		}
		sections = append(sections, panel.Render(renderHistory(m.groups)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// renderDice draws the current group. Locked dice are only highlighted
// while the turn is active.
func renderDice(state model.TurnState) string {
	if state.Group == nil {
		return ""
	}
	dice := state.Group.Dice()
	columns := make([]string, len(dice))
	for i, d := range dice {
		face := strings.Join(FaceLines(d.Value()), "\n")
		style := dieStyle
		label := fmt.Sprintf("%d", i+1)
		switch {
		case d.InMotion():
			style = rollingStyle
		case d.Locked() && state.Active():
			style = lockedStyle
			label += " held"
		}
		columns[i] = lipgloss.JoinVertical(lipgloss.Center,
			style.Render(face),
			labelStyle.Render(label),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m *Model) renderSummary(state model.TurnState) string {
	if state.Group == nil {
		return ""
	}
	phase := "Turn active"
	switch {
	case state.Group.Animating():
		phase = "Rolling"
	case !state.Active():
		phase = "Turn ended"
	}
	return fmt.Sprintf("%s  %s",
		totalStyle.Render(fmt.Sprintf("Total: %d", state.Group.Total())),
		dim.Render(phase),
	)
}

func (m *Model) help(state model.TurnState) string {
	var keys []string
	if state.Active() {
		keys = append(keys, "1-9 hold", "r roll", "e end turn")
	} else {
		keys = append(keys, "e new turn")
	}
	keys = append(keys, "n new turn", "h history")
	if m.showHistory {
		keys = append(keys, "c clear history")
	}
	keys = append(keys, "q quit")
	return strings.Join(keys, " • ")
}

// renderHistory lists committed rolls newest first
func renderHistory(groups []*model.DiceGroup) string {
	if len(groups) == 0 {
		return dim.Render("No rolls in history")
	}

	rows := make([]string, 0, maxHistoryRows+1)
	for i, g := range groups {
		if i == maxHistoryRows {
			rows = append(rows, dim.Render(fmt.Sprintf("... and %d more", len(groups)-maxHistoryRows)))
			break
		}
		values := g.Values()
		faces := make([]string, len(values))
		for j, v := range values {
			faces[j] = fmt.Sprintf("[%d]", v)
		}
		rows = append(rows, fmt.Sprintf("%s  %s = %d",
			dim.Render(g.CreatedAt.Local().Format("Jan 02 15:04:05")),
			strings.Join(faces, " "),
			g.Total(),
		))
	}
	return strings.Join(rows, "\n")
}
