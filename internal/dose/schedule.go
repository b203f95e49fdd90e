package dose

import (
	"time"

	"github.com/sadopc/pilltrack/internal/store"
)

// BuildDailySchedule derives the cached per-day view from the pill and
// intake snapshots. Completed pills have every scheduled slot covered;
// everything else counts as missed for that day.
func BuildDailySchedule(pills []store.Pill, intakes []store.PillIntake, date time.Time) store.DailySchedule {
	sched := store.DailySchedule{
		Date:      date.Format("2006-01-02"),
		Pills:     []string{},
		Completed: []string{},
		Missed:    []string{},
	}

	for _, pill := range pills {
		sched.Pills = append(sched.Pills, pill.ID)

		taken := 0
		for _, in := range intakes {
			if in.PillID == pill.ID && sameDay(in.TakenAt, date) {
				taken++
			}
		}
		if taken >= len(pill.TimesOfDay) && len(pill.TimesOfDay) > 0 {
			sched.Completed = append(sched.Completed, pill.ID)
		} else {
			sched.Missed = append(sched.Missed, pill.ID)
		}
	}
	return sched
}
