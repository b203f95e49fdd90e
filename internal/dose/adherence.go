package dose

import (
	"time"

	"github.com/sadopc/pilltrack/internal/store"
)

// Period selects a trailing history window ending at the reference date.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods lists the selectable history windows in ascending length.
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodYear}

func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "Week"
	case PeriodMonth:
		return "Month"
	case PeriodYear:
		return "Year"
	}
	return string(p)
}

func (p Period) days() int {
	switch p {
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 7
	}
}

// DateRange returns the trailing calendar days of the period ending at ref
// inclusive, oldest first, normalized to midnight.
func DateRange(p Period, ref time.Time) []time.Time {
	n := p.days()
	end := startOfDay(ref)
	dates := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, end.AddDate(0, 0, -i))
	}
	return dates
}

// Cutoff is the start of the oldest day in the period's range, so that the
// single-cutoff filter and the bounded window agree on what is "in period".
func Cutoff(p Period, ref time.Time) time.Time {
	return startOfDay(ref).AddDate(0, 0, -(p.days() - 1))
}

// FilterByPeriod keeps intakes taken at or after the period cutoff.
func FilterByPeriod(intakes []store.PillIntake, p Period, ref time.Time) []store.PillIntake {
	cutoff := Cutoff(p, ref)
	var out []store.PillIntake
	for _, in := range intakes {
		if !in.TakenAt.Before(cutoff) {
			out = append(out, in)
		}
	}
	return out
}

// CellStatus summarizes one pill-day for history coloring.
type CellStatus int

const (
	CellNone CellStatus = iota
	CellPartial
	CellFull
)

func (c CellStatus) String() string {
	switch c {
	case CellNone:
		return "none"
	case CellPartial:
		return "partial"
	case CellFull:
		return "full"
	}
	return "unknown"
}

// DailyCell is one pill-day adherence summary for the history table.
type DailyCell struct {
	TakenCount    int
	ExpectedCount int
	Remaining     int
	Status        CellStatus
}

// ComputeDailyCell derives the adherence cell for one pill and calendar day.
// intakes and packs are the pill's full history snapshots.
//
// Remaining is asymmetric on purpose: for the current day it is the live
// counter (which survives manual pack resets), while past days are
// reconstructed from the active pack's size minus the intakes drawn from it
// up to that day, floored at zero. Days with no active pack show zero.
func ComputeDailyCell(pill store.Pill, date time.Time, intakes []store.PillIntake, packs []store.PillPack, now time.Time) DailyCell {
	cell := DailyCell{ExpectedCount: len(pill.TimesOfDay)}

	for _, in := range intakes {
		if in.PillID == pill.ID && sameDay(in.TakenAt, date) {
			cell.TakenCount++
		}
	}

	switch {
	case cell.TakenCount == 0:
		cell.Status = CellNone
	case cell.TakenCount == cell.ExpectedCount:
		cell.Status = CellFull
	default:
		cell.Status = CellPartial
	}

	cell.Remaining = remainingAtDate(pill, date, intakes, packs, now)
	return cell
}

func remainingAtDate(pill store.Pill, date time.Time, intakes []store.PillIntake, packs []store.PillPack, now time.Time) int {
	if sameDay(date, now) {
		if active := ActivePack(packs, pill.ID); active != nil {
			return active.RemainingPills
		}
		return pill.CurrentPackAmount
	}

	var pack *store.PillPack
	for i := range packs {
		if packs[i].PillID == pill.ID && packs[i].IsActive && !startOfDay(packs[i].StartDate).After(date) {
			pack = &packs[i]
			break
		}
	}
	if pack == nil {
		return 0
	}

	endOfDate := startOfDay(date).AddDate(0, 0, 1)
	drawn := 0
	for _, in := range intakes {
		if in.PillID != pill.ID || in.PackID != pack.ID {
			continue
		}
		if in.TakenAt.Before(pack.StartDate) || !in.TakenAt.Before(endOfDate) {
			continue
		}
		drawn++
	}

	remaining := pack.PackSize - drawn
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Stats summarizes an intake sequence for the history header.
type Stats struct {
	TotalIntakes     int
	UniquePillCount  int
	TodayIntakeCount int
}

// SummaryStats counts intakes, distinct pills, and doses taken on the
// current (local) calendar day.
func SummaryStats(intakes []store.PillIntake, now time.Time) Stats {
	stats := Stats{TotalIntakes: len(intakes)}
	seen := map[string]bool{}
	for _, in := range intakes {
		if !seen[in.PillID] {
			seen[in.PillID] = true
			stats.UniquePillCount++
		}
		if sameDay(in.TakenAt, now) {
			stats.TodayIntakeCount++
		}
	}
	return stats
}
