package store

import (
	"errors"
	"time"
)

// ExportAll serializes all four collections into one snapshot. Empty
// collections export as empty slices, never nil, so the snapshot file always
// carries JSON arrays.
func (s *Store) ExportAll() (*Snapshot, error) {
	pills, err := s.ListPills()
	if err != nil {
		return nil, err
	}
	intakes, err := s.ListPillIntakes()
	if err != nil {
		return nil, err
	}
	schedules, err := s.ListDailySchedules()
	if err != nil {
		return nil, err
	}
	packs, err := s.ListPillPacks()
	if err != nil {
		return nil, err
	}

	if pills == nil {
		pills = []Pill{}
	}
	if intakes == nil {
		intakes = []PillIntake{}
	}
	if schedules == nil {
		schedules = []DailySchedule{}
	}
	if packs == nil {
		packs = []PillPack{}
	}

	return &Snapshot{
		Pills:          pills,
		PillIntakes:    intakes,
		DailySchedules: schedules,
		PillPacks:      packs,
		ExportDate:     time.Now(),
	}, nil
}

// ImportAll overwrites each collection present in the snapshot wholesale.
// Nil collections are absent from the snapshot and leave stored data alone.
func (s *Store) ImportAll(snap Snapshot) error {
	if snap.Pills != nil {
		if err := s.save(keyPills, snap.Pills); err != nil {
			return err
		}
	}
	if snap.PillIntakes != nil {
		if err := s.save(keyPillIntakes, snap.PillIntakes); err != nil {
			return err
		}
	}
	if snap.DailySchedules != nil {
		if err := s.save(keyDailySchedules, snap.DailySchedules); err != nil {
			return err
		}
	}
	if snap.PillPacks != nil {
		if err := s.save(keyPillPacks, snap.PillPacks); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll removes all four collections. Every remove is attempted.
func (s *Store) ClearAll() error {
	var errs []error
	for _, key := range []string{keyPills, keyPillIntakes, keyDailySchedules, keyPillPacks} {
		if err := s.db.Remove(key); err != nil {
			errs = append(errs, &StorageError{Op: "clear " + key, Err: err})
		}
	}
	return errors.Join(errs...)
}
