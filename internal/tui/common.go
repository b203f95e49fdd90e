package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pilltrack/internal/dose"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewPills
	viewHistory
	viewSettings
)

var viewNames = []string{"Today", "Pills", "History", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type intakeRecordedMsg struct {
	pillName string
}

type pillSavedMsg struct {
	name    string
	created bool
}

type pillDeletedMsg struct {
	name string
}

type packResetMsg struct {
	name string
}

type exportDoneMsg struct {
	path string
}

type dataClearedMsg struct{}

// --- Helpers ---

func stockStyle(status dose.StockStatus) lipgloss.Style {
	switch status {
	case dose.StockEmpty:
		return errorStyle
	case dose.StockLow:
		return warningStyle
	case dose.StockMedium:
		return accentStyle
	default:
		return successStyle
	}
}

func cellStyle(status dose.CellStatus) lipgloss.Style {
	switch status {
	case dose.CellFull:
		return successStyle
	case dose.CellPartial:
		return warningStyle
	default:
		return errorStyle
	}
}

// formatDay renders a date as Today / Yesterday / "Jan 02".
func formatDay(date, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case date.Equal(today):
		return "Today"
	case date.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return date.Format("Jan 02")
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
