package dose

import (
	"testing"
	"time"

	"github.com/sadopc/pilltrack/internal/store"
)

// ============================================================
// Stock status
// ============================================================

func TestStatusFor(t *testing.T) {
	cases := []struct {
		remaining int
		want      StockStatus
	}{
		{0, StockEmpty},
		{1, StockLow},
		{5, StockLow},
		{6, StockMedium},
		{10, StockMedium},
		{11, StockGood},
		{100, StockGood},
		{-1, StockEmpty},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.remaining); got != tc.want {
			t.Fatalf("remaining %d: expected %s, got %s", tc.remaining, tc.want, got)
		}
	}
}

// ============================================================
// Date ranges and period filtering
// ============================================================

func TestDateRangeWeek(t *testing.T) {
	ref := time.Date(2026, 8, 27, 15, 30, 0, 0, time.Local)
	dates := DateRange(PeriodWeek, ref)

	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	last := dates[len(dates)-1]
	if last.Year() != 2026 || last.Month() != time.August || last.Day() != 27 {
		t.Fatalf("last date should be the reference day, got %v", last)
	}
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) != 24*time.Hour {
			t.Fatalf("dates must be strictly increasing with no gaps: %v -> %v", dates[i-1], dates[i])
		}
	}
	if dates[0].Hour() != 0 || dates[0].Minute() != 0 {
		t.Fatal("dates should be normalized to midnight")
	}
}

func TestDateRangeLengths(t *testing.T) {
	ref := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	if got := len(DateRange(PeriodMonth, ref)); got != 30 {
		t.Fatalf("month: expected 30, got %d", got)
	}
	if got := len(DateRange(PeriodYear, ref)); got != 365 {
		t.Fatalf("year: expected 365, got %d", got)
	}
}

func TestCutoffMatchesRange(t *testing.T) {
	ref := time.Date(2026, 8, 27, 12, 0, 0, 0, time.Local)
	for _, p := range Periods {
		dates := DateRange(p, ref)
		if got := Cutoff(p, ref); !got.Equal(dates[0]) {
			t.Fatalf("%s: cutoff %v should equal oldest range day %v", p, got, dates[0])
		}
	}
}

func TestFilterByPeriod(t *testing.T) {
	ref := time.Date(2026, 8, 27, 12, 0, 0, 0, time.Local)
	in := func(daysAgo int) store.PillIntake {
		return store.PillIntake{PillID: "p1", TakenAt: ref.AddDate(0, 0, -daysAgo)}
	}
	intakes := []store.PillIntake{in(0), in(3), in(6), in(8), in(40), in(400)}

	if got := len(FilterByPeriod(intakes, PeriodWeek, ref)); got != 3 {
		t.Fatalf("week: expected 3, got %d", got)
	}
	if got := len(FilterByPeriod(intakes, PeriodMonth, ref)); got != 4 {
		t.Fatalf("month: expected 4, got %d", got)
	}
	if got := len(FilterByPeriod(intakes, PeriodYear, ref)); got != 5 {
		t.Fatalf("year: expected 5, got %d", got)
	}
}

// ============================================================
// Daily cells
// ============================================================

func TestComputeDailyCellStatus(t *testing.T) {
	pill := testPill()
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.Local)
	day := now.AddDate(0, 0, -2)

	cell := ComputeDailyCell(pill, day, nil, nil, now)
	if cell.Status != CellNone || cell.TakenCount != 0 || cell.ExpectedCount != 2 {
		t.Fatalf("none: %+v", cell)
	}

	intakes := []store.PillIntake{intakeAt(pill.ID, store.Morning, day.Add(8*time.Hour))}
	cell = ComputeDailyCell(pill, day, intakes, nil, now)
	if cell.Status != CellPartial || cell.TakenCount != 1 {
		t.Fatalf("partial: %+v", cell)
	}

	intakes = append(intakes, intakeAt(pill.ID, store.Evening, day.Add(20*time.Hour)))
	cell = ComputeDailyCell(pill, day, intakes, nil, now)
	if cell.Status != CellFull || cell.TakenCount != 2 {
		t.Fatalf("full: %+v", cell)
	}

	// Editing the schedule down after intakes were recorded can leave more
	// intakes than expected slots; that day is partial, not full.
	pill.TimesOfDay = []store.TimeOfDay{store.Morning}
	cell = ComputeDailyCell(pill, day, intakes, nil, now)
	if cell.Status != CellPartial || cell.TakenCount != 2 || cell.ExpectedCount != 1 {
		t.Fatalf("over-taken day should be partial: %+v", cell)
	}
}

func TestComputeDailyCellRemainingToday(t *testing.T) {
	pill := testPill()
	pill.CurrentPackAmount = 17
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.Local)

	// Today uses the live counter, not a reconstruction.
	cell := ComputeDailyCell(pill, now, nil, nil, now)
	if cell.Remaining != 17 {
		t.Fatalf("expected live counter 17, got %d", cell.Remaining)
	}

	// With an active pack, today shows the pack's live count.
	packs := []store.PillPack{{ID: "k", PillID: pill.ID, PackSize: 30, RemainingPills: 9, IsActive: true, StartDate: now.AddDate(0, 0, -10)}}
	cell = ComputeDailyCell(pill, now, nil, packs, now)
	if cell.Remaining != 9 {
		t.Fatalf("expected pack count 9, got %d", cell.Remaining)
	}
}

func TestComputeDailyCellRemainingPast(t *testing.T) {
	pill := testPill()
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.Local)
	start := now.AddDate(0, 0, -10)
	packs := []store.PillPack{{ID: "k", PillID: pill.ID, PackSize: 30, RemainingPills: 25, IsActive: true, StartDate: start}}

	withPack := func(daysAfterStart int) store.PillIntake {
		in := intakeAt(pill.ID, store.Morning, start.AddDate(0, 0, daysAfterStart))
		in.PackID = "k"
		return in
	}
	intakes := []store.PillIntake{withPack(1), withPack(2), withPack(3), withPack(5)}

	// Three intakes drawn by day start+3: 30 - 3.
	day := startDay(start.AddDate(0, 0, 3))
	cell := ComputeDailyCell(pill, day, intakes, packs, now)
	if cell.Remaining != 27 {
		t.Fatalf("expected 27, got %d", cell.Remaining)
	}

	// Before the pack started: no active pack at that date, remaining 0.
	day = startDay(start.AddDate(0, 0, -2))
	cell = ComputeDailyCell(pill, day, intakes, packs, now)
	if cell.Remaining != 0 {
		t.Fatalf("expected 0 before pack start, got %d", cell.Remaining)
	}

	// Reconstruction floors at zero.
	packs[0].PackSize = 2
	day = startDay(start.AddDate(0, 0, 6))
	cell = ComputeDailyCell(pill, day, intakes, packs, now)
	if cell.Remaining != 0 {
		t.Fatalf("expected floor at 0, got %d", cell.Remaining)
	}
}

func startDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ============================================================
// Summary stats
// ============================================================

func TestSummaryStats(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.Local)
	intakes := []store.PillIntake{
		intakeAt("p1", store.Morning, now.Add(-2*time.Hour)),
		intakeAt("p1", store.Evening, now.AddDate(0, 0, -1)),
		intakeAt("p2", store.Morning, now.Add(-1*time.Hour)),
		intakeAt("p2", store.Morning, now.AddDate(0, 0, -3)),
	}

	stats := SummaryStats(intakes, now)
	if stats.TotalIntakes != 4 {
		t.Fatalf("total: %d", stats.TotalIntakes)
	}
	if stats.UniquePillCount != 2 {
		t.Fatalf("unique: %d", stats.UniquePillCount)
	}
	if stats.TodayIntakeCount != 2 {
		t.Fatalf("today: %d", stats.TodayIntakeCount)
	}
}

func TestSummaryStatsEmpty(t *testing.T) {
	stats := SummaryStats(nil, time.Now())
	if stats.TotalIntakes != 0 || stats.UniquePillCount != 0 || stats.TodayIntakeCount != 0 {
		t.Fatalf("expected zeros, got %+v", stats)
	}
}

// ============================================================
// Daily schedule derivation
// ============================================================

func TestBuildDailySchedule(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	done := testPill()

	partial := testPill()
	partial.ID = "p2"

	intakes := []store.PillIntake{
		intakeAt(done.ID, store.Morning, day.Add(8*time.Hour)),
		intakeAt(done.ID, store.Evening, day.Add(20*time.Hour)),
		intakeAt(partial.ID, store.Morning, day.Add(8*time.Hour)),
	}

	sched := BuildDailySchedule([]store.Pill{done, partial}, intakes, day)
	if sched.Date != "2026-08-27" {
		t.Fatalf("date: %s", sched.Date)
	}
	if len(sched.Pills) != 2 {
		t.Fatalf("pills: %+v", sched.Pills)
	}
	if len(sched.Completed) != 1 || sched.Completed[0] != done.ID {
		t.Fatalf("completed: %+v", sched.Completed)
	}
	if len(sched.Missed) != 1 || sched.Missed[0] != partial.ID {
		t.Fatalf("missed: %+v", sched.Missed)
	}
}
