package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pilltrack/internal/dose"
	"github.com/sadopc/pilltrack/internal/export"
	"github.com/sadopc/pilltrack/internal/store"
)

// maxTableDays caps how many day rows the adherence table renders; longer
// periods still feed the chart and stats in full.
const maxTableDays = 10

type historyModel struct {
	store  *store.Store
	width  int
	height int

	period     dose.Period
	pills      []store.Pill
	intakes    []store.PillIntake // filtered to the selected period (chart, stats, export)
	allIntakes []store.PillIntake // full history; pack reconstruction needs intakes before the cutoff
	packs      []store.PillPack
	stats      dose.Stats

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store:  s,
		period: dose.PeriodWeek,
		chart:  barchart.New(60, 10),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type historyDataMsg struct {
	pills      []store.Pill
	intakes    []store.PillIntake
	allIntakes []store.PillIntake
	packs      []store.PillPack
}

func (m historyModel) refresh() tea.Cmd {
	period := m.period
	return func() tea.Msg {
		pills, err := m.store.ListPills()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		intakes, err := m.store.ListPillIntakes()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		packs, err := m.store.ListPillPacks()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		filtered := dose.FilterByPeriod(intakes, period, time.Now())
		return historyDataMsg{pills: pills, intakes: filtered, allIntakes: intakes, packs: packs}
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.pills = msg.pills
		m.intakes = msg.intakes
		m.allIntakes = msg.allIntakes
		m.packs = msg.packs
		m.stats = dose.SummaryStats(m.intakes, time.Now())
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.period = prevPeriod(m.period)
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			m.period = nextPeriod(m.period)
			return m, m.refresh()
		case key.Matches(msg, keys.Export):
			return m, m.exportCSV()
		}
	}
	return m, nil
}

// exportCSV writes the currently visible period's intakes to a dated file
// in the home directory.
func (m historyModel) exportCSV() tea.Cmd {
	intakes := m.intakes
	pills := make(map[string]*store.Pill, len(m.pills))
	for i := range m.pills {
		pills[m.pills[i].ID] = &m.pills[i]
	}
	return func() tea.Msg {
		path := exportPath("pilltrack-history", "csv")
		if err := export.ToCSV(intakes, pills, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func prevPeriod(p dose.Period) dose.Period {
	for i, period := range dose.Periods {
		if period == p && i > 0 {
			return dose.Periods[i-1]
		}
	}
	return p
}

func nextPeriod(p dose.Period) dose.Period {
	for i, period := range dose.Periods {
		if period == p && i < len(dose.Periods)-1 {
			return dose.Periods[i+1]
		}
	}
	return p
}

// buildChart stacks doses taken per day for the trailing week, one bar value
// per pill in the pill's color.
func (m *historyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 10)

	now := time.Now()
	var bars []barchart.BarData
	for _, day := range dose.DateRange(dose.PeriodWeek, now) {
		var values []barchart.BarValue
		for _, pill := range m.pills {
			count := len(dose.IntakesForDay(m.intakes, pill.ID, day))
			if count == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  pill.Name,
				Value: float64(count),
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(pill.Color)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{
			Label:  day.Format("Mon 02"),
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m historyModel) view() string {
	w := m.width - 4

	var tabs []string
	for _, p := range dose.Periods {
		if p == m.period {
			tabs = append(tabs, activeTabStyle.Render(p.Label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(p.Label()))
		}
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	statsLine := mutedStyle.Render(fmt.Sprintf(
		"  %d intakes  ·  %d pills  ·  %d today",
		m.stats.TotalIntakes, m.stats.UniquePillCount, m.stats.TodayIntakeCount,
	))

	table := m.renderAdherenceTable(w)
	legend := m.renderLegend()
	nav := mutedStyle.Render("  ←/→: period  x: export csv")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, statsLine, "", m.chart.View(), "", legend, "", table, "", nav,
		),
	)
}

// renderAdherenceTable shows one row per day (newest first) with a
// taken/expected cell and the remaining count per pill.
func (m historyModel) renderAdherenceTable(w int) string {
	if len(m.pills) == 0 {
		return mutedStyle.Render("  No pills configured")
	}

	now := time.Now()
	dates := dose.DateRange(m.period, now)
	if len(dates) > maxTableDays {
		dates = dates[len(dates)-maxTableDays:]
	}

	var rows []string
	headerCells := []string{fmt.Sprintf("  %-10s", "Date")}
	for _, pill := range m.pills {
		headerCells = append(headerCells, fmt.Sprintf("%-18s", pill.Name))
	}
	rows = append(rows, mutedStyle.Render(strings.Join(headerCells, " ")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 11+19*len(m.pills)))))

	for i := len(dates) - 1; i >= 0; i-- {
		day := dates[i]
		cells := []string{fmt.Sprintf("  %-10s", formatDay(day, now))}
		for _, pill := range m.pills {
			cell := dose.ComputeDailyCell(pill, day, m.allIntakes, m.packs, now)
			text := fmt.Sprintf("%d/%d · %d left", cell.TakenCount, cell.ExpectedCount, cell.Remaining)
			cells = append(cells, cellStyle(cell.Status).Render(fmt.Sprintf("%-18s", text)))
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	return strings.Join(rows, "\n")
}

func (m historyModel) renderLegend() string {
	var items []string
	for _, pill := range m.pills {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(pill.Color)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, pill.Name))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
