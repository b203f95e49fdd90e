package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/sadopc/pilltrack/internal/export"
	"github.com/sadopc/pilltrack/internal/store"
)

type settingsAction int

const (
	actionExportSnapshot settingsAction = iota
	actionExportCSV
	actionExportJSON
	actionClearAll
)

var settingsActions = []struct {
	action settingsAction
	title  string
	detail string
}{
	{actionExportSnapshot, "Export all data", "Full snapshot (pills, packs, intakes, schedules) as JSON"},
	{actionExportCSV, "Export history as CSV", "Intake log with pill names"},
	{actionExportJSON, "Export history as JSON", "Intake log with pill names"},
	{actionClearAll, "Clear all data", "Permanently delete everything"},
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	totalPills   int
	totalPacks   int
	activePacks  int
	totalIntakes int

	cursor int

	formActive   bool
	form         *huh.Form
	confirmClear *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	confirm := false
	return settingsModel{store: s, confirmClear: &confirm}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	totalPills   int
	totalPacks   int
	activePacks  int
	totalIntakes int
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		pills, err := m.store.ListPills()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		packs, err := m.store.ListPillPacks()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		intakes, err := m.store.ListPillIntakes()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		active := 0
		for _, p := range packs {
			if p.IsActive {
				active++
			}
		}
		return settingsDataMsg{
			totalPills:   len(pills),
			totalPacks:   len(packs),
			activePacks:  active,
			totalIntakes: len(intakes),
		}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.totalPills = msg.totalPills
		m.totalPacks = msg.totalPacks
		m.activePacks = msg.activePacks
		m.totalIntakes = msg.totalIntakes
		return m, nil

	case dataClearedMsg:
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: "All data cleared"}
		})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(settingsActions)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return m.runAction(settingsActions[m.cursor].action)
		}
	}
	return m, nil
}

func (m settingsModel) runAction(action settingsAction) (settingsModel, tea.Cmd) {
	switch action {
	case actionClearAll:
		*m.confirmClear = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Clear all data?").
					Description("This permanently deletes all pills, packs, and intake history.").
					Affirmative("Clear everything").
					Negative("Cancel").
					Value(m.confirmClear),
			),
		)
		m.formActive = true
		return m, m.form.Init()

	case actionExportSnapshot:
		return m, m.exportSnapshot()
	case actionExportCSV:
		return m, m.exportHistory(true)
	case actionExportJSON:
		return m, m.exportHistory(false)
	}
	return m, nil
}

func (m settingsModel) updateConfirm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if !*m.confirmClear {
			return m, nil
		}
		return m, func() tea.Msg {
			if err := m.store.ClearAll(); err != nil {
				return statusMsg{text: fmt.Sprintf("Clear error: %v", err), isError: true}
			}
			return dataClearedMsg{}
		}
	}
	return m, cmd
}

func (m settingsModel) exportSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.store.ExportAll()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := exportPath("pilltrack-export", "json")
		if err := export.SnapshotToJSON(snap, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (m settingsModel) exportHistory(asCSV bool) tea.Cmd {
	return func() tea.Msg {
		intakes, err := m.store.ListPillIntakes()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		plist, err := m.store.ListPills()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		pills := make(map[string]*store.Pill)
		for i := range plist {
			pills[plist[i].ID] = &plist[i]
		}

		var path string
		if asCSV {
			path = exportPath("pilltrack-history", "csv")
			err = export.ToCSV(intakes, pills, path)
		} else {
			path = exportPath("pilltrack-history", "json")
			err = export.ToJSON(intakes, pills, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func exportPath(prefix, ext string) string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fmt.Sprintf("%s-%s.%s", prefix, time.Now().Format("2006-01-02"), ext))
}

func (m settingsModel) view() string {
	if m.formActive && m.form != nil {
		return activePanelStyle.Width(m.width - 4).Render(m.form.View())
	}

	w := m.width - 4

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Statistics"))
	rows = append(rows, fmt.Sprintf("    Pills tracked     %s", highlightStyle.Render(fmt.Sprintf("%d", m.totalPills))))
	rows = append(rows, fmt.Sprintf("    Packs             %s", highlightStyle.Render(fmt.Sprintf("%d", m.totalPacks))))
	rows = append(rows, fmt.Sprintf("    Active packs      %s", successStyle.Render(fmt.Sprintf("%d", m.activePacks))))
	rows = append(rows, fmt.Sprintf("    Intakes recorded  %s", highlightStyle.Render(fmt.Sprintf("%d", m.totalIntakes))))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Data"))

	for i, a := range settingsActions {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("  %s%s", cursor, a.title)))
		rows = append(rows, mutedStyle.Render("      "+a.detail))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: run  ↑/↓: select"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
