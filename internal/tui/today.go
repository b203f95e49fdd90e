package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pilltrack/internal/dose"
	"github.com/sadopc/pilltrack/internal/store"
)

type todayModel struct {
	store  *store.Store
	width  int
	height int

	pills      []store.Pill
	intakes    []store.PillIntake // full intake history; filtered per pill/day on render
	cursor     int
	slotCursor int
}

func newTodayModel(s *store.Store) todayModel {
	return todayModel{store: s}
}

func (m todayModel) Init() tea.Cmd {
	return m.refresh()
}

func (m *todayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type todayDataMsg struct {
	pills   []store.Pill
	intakes []store.PillIntake
}

func (m todayModel) refresh() tea.Cmd {
	return func() tea.Msg {
		pills, err := m.store.ListPills()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		intakes, err := m.store.ListPillIntakes()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return todayDataMsg{pills: pills, intakes: intakes}
	}
}

func (m todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		m.pills = msg.pills
		m.intakes = msg.intakes
		if m.cursor >= len(m.pills) {
			m.cursor = max(0, len(m.pills)-1)
		}
		m.clampSlotCursor()
		return m, nil

	case intakeRecordedMsg:
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: msg.pillName + " marked as taken"}
		})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.clampSlotCursor()
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.pills)-1 {
				m.cursor++
				m.clampSlotCursor()
			}
		case key.Matches(msg, keys.Left):
			if m.slotCursor > 0 {
				m.slotCursor--
			}
		case key.Matches(msg, keys.Right):
			if m.cursor < len(m.pills) && m.slotCursor < len(m.pills[m.cursor].TimesOfDay)-1 {
				m.slotCursor++
			}
		case key.Matches(msg, keys.Take), key.Matches(msg, keys.Enter):
			if m.cursor < len(m.pills) {
				return m, m.takePill(m.pills[m.cursor])
			}
		}
	}
	return m, nil
}

func (m *todayModel) clampSlotCursor() {
	if m.cursor >= len(m.pills) {
		m.slotCursor = 0
		return
	}
	if n := len(m.pills[m.cursor].TimesOfDay); m.slotCursor >= n {
		m.slotCursor = max(0, n-1)
	}
}

// takePill runs the engine decision for the selected slot and, on
// acceptance, persists the intake row followed by the counter update.
func (m todayModel) takePill(pill store.Pill) tea.Cmd {
	if len(pill.TimesOfDay) == 0 {
		return nil
	}
	slot := pill.TimesOfDay[min(m.slotCursor, len(pill.TimesOfDay)-1)]

	return func() tea.Msg {
		now := time.Now()
		todays := dose.IntakesForDay(m.intakes, pill.ID, now)

		decision := dose.RecordIntake(pill, todays, slot)
		if !decision.Accepted {
			return statusMsg{text: decision.Reason.Message(), isError: true}
		}

		if _, err := m.store.AddPillIntake(store.PillIntake{
			PillID:    pill.ID,
			TakenAt:   now,
			TimeOfDay: slot,
		}); err != nil {
			return statusMsg{text: fmt.Sprintf("Record error: %v", err), isError: true}
		}
		if _, err := m.store.UpdatePillAmount(pill.ID, decision.Pill.CurrentPackAmount); err != nil {
			return statusMsg{text: fmt.Sprintf("Inventory error: %v", err), isError: true}
		}
		return intakeRecordedMsg{pillName: pill.Name}
	}
}

func (m todayModel) view() string {
	w := m.width - 4
	now := time.Now()
	currentSlot := dose.SlotForTime(now)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Today's Pills"), "  ",
		mutedStyle.Render(now.Format("Mon, Jan 02 2006")),
	)

	if len(m.pills) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No pills configured. Press 2 to go to Pills and add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	for i, pill := range m.pills {
		rows = append(rows, "")
		rows = append(rows, m.renderPillCard(pill, i, now, currentSlot))
	}

	rows = append(rows, "")
	rows = append(rows, m.renderSummary())
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: pill  ←/→: slot  t/enter: take"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m todayModel) renderPillCard(pill store.Pill, idx int, now time.Time, currentSlot store.TimeOfDay) string {
	todays := dose.IntakesForDay(m.intakes, pill.ID, now)
	status := dose.StatusFor(pill.CurrentPackAmount)

	cursor := "  "
	nameStyle := normalItemStyle
	if idx == m.cursor {
		cursor = "> "
		nameStyle = selectedItemStyle
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(pill.Color)).Render("●")
	name := nameStyle.Render(fmt.Sprintf("%-20s", pill.Name))
	dosage := mutedStyle.Render(fmt.Sprintf("%-12s", pill.Dosage))
	stock := stockStyle(status).Render(fmt.Sprintf("%d left (%s)", pill.CurrentPackAmount, status))

	head := fmt.Sprintf("%s%s %s %s %s", cursor, dot, name, dosage, stock)

	var slots []string
	for j, slot := range pill.TimesOfDay {
		label := slot.Label()
		taken := dose.TakenForSlot(todays, slot)

		style := mutedStyle
		switch {
		case taken:
			style = slotTakenStyle
			label = "✓ " + label
		case slot == currentSlot:
			style = slotCurrentStyle
		}
		if idx == m.cursor && j == m.slotCursor {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		slots = append(slots, style.Render(label))
	}

	card := head + "\n      " + strings.Join(slots, " ")
	if pill.Instructions != "" {
		card += "\n      " + mutedStyle.Render(pill.Instructions)
	}
	return card
}

func (m todayModel) renderSummary() string {
	low := 0
	for _, pill := range m.pills {
		if pill.CurrentPackAmount <= 5 {
			low++
		}
	}

	summary := fmt.Sprintf("  %s %d pills tracked", titleStyle.Render("Summary:"), len(m.pills))
	if low > 0 {
		summary += warningStyle.Render(fmt.Sprintf("  %d low on stock", low))
	}
	return summary
}
