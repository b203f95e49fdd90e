// Package dose is the inventory and adherence engine. Every function is
// pure: it takes collection snapshots plus an explicit reference time and
// returns decisions or derived views. Persisting an accepted decision is the
// caller's job, via the repository.
package dose

import (
	"time"

	"github.com/sadopc/pilltrack/internal/store"
)

// RejectReason explains why a take-pill action was refused. Rejections are
// expected, frequent outcomes and are returned as values, never as errors.
type RejectReason string

const (
	OutOfStock   RejectReason = "out_of_stock"
	AlreadyTaken RejectReason = "already_taken"
	NoActivePack RejectReason = "no_active_pack"
)

// Message returns the user-facing text for a rejection.
func (r RejectReason) Message() string {
	switch r {
	case OutOfStock:
		return "No pills available. Reset your pack or check your inventory."
	case AlreadyTaken:
		return "This pill has already been taken for this time period."
	case NoActivePack:
		return "No active pack for this pill. Start a new pack first."
	}
	return string(r)
}

// Decision is the outcome of a take-pill action. When accepted, Pill (and
// Pack, in pack mode) carry the post-decrement state for the caller to
// persist; exactly one unit is deducted per accepted call.
type Decision struct {
	Accepted bool
	Reason   RejectReason
	Pill     store.Pill
	Pack     *store.PillPack
}

func reject(reason RejectReason) Decision {
	return Decision{Reason: reason}
}

// RecordIntake decides a dose against the pill's live counter.
// Stock is checked before the duplicate check: an empty pack is always
// reported as out of stock, whatever was already taken today.
func RecordIntake(pill store.Pill, todays []store.PillIntake, slot store.TimeOfDay) Decision {
	if pill.CurrentPackAmount <= 0 {
		return reject(OutOfStock)
	}
	if TakenForSlot(todays, slot) {
		return reject(AlreadyTaken)
	}

	pill.CurrentPackAmount--
	return Decision{Accepted: true, Pill: pill}
}

// RecordPackIntake decides a dose against the pill's active pack, for data
// imported from pack-based installations.
func RecordPackIntake(pill store.Pill, todays []store.PillIntake, slot store.TimeOfDay, packs []store.PillPack) Decision {
	active := ActivePack(packs, pill.ID)
	if active == nil {
		return reject(NoActivePack)
	}
	if active.RemainingPills <= 0 {
		return reject(OutOfStock)
	}
	if TakenForSlot(todays, slot) {
		return reject(AlreadyTaken)
	}

	pack := *active
	pack.RemainingPills--
	return Decision{Accepted: true, Pill: pill, Pack: &pack}
}

// TakenForSlot reports whether the day's intakes already cover a slot.
func TakenForSlot(todays []store.PillIntake, slot store.TimeOfDay) bool {
	for _, in := range todays {
		if in.TimeOfDay == slot {
			return true
		}
	}
	return false
}

// ActivePack returns the single active pack for a pill, or nil.
func ActivePack(packs []store.PillPack, pillID string) *store.PillPack {
	for i := range packs {
		if packs[i].PillID == pillID && packs[i].IsActive {
			return &packs[i]
		}
	}
	return nil
}

// IntakesForDay filters a pill's intakes down to one calendar day.
func IntakesForDay(intakes []store.PillIntake, pillID string, day time.Time) []store.PillIntake {
	var out []store.PillIntake
	for _, in := range intakes {
		if in.PillID == pillID && sameDay(in.TakenAt, day) {
			out = append(out, in)
		}
	}
	return out
}

// SlotForTime maps a wall-clock time to its schedule slot.
func SlotForTime(t time.Time) store.TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return store.Morning
	case hour >= 12 && hour < 17:
		return store.Afternoon
	case hour >= 17 && hour < 22:
		return store.Evening
	default:
		return store.Night
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
