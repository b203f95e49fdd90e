package store

func (s *Store) ListDailySchedules() ([]DailySchedule, error) {
	var schedules []DailySchedule
	if err := s.load(keyDailySchedules, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetDailySchedule returns the cached schedule for a YYYY-MM-DD date, or nil
// when none has been saved.
func (s *Store) GetDailySchedule(date string) (*DailySchedule, error) {
	schedules, err := s.ListDailySchedules()
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		if schedules[i].Date == date {
			return &schedules[i], nil
		}
	}
	return nil, nil
}

// SaveDailySchedule upserts by date. Schedules are a rebuildable cache over
// pills and intakes, so stale entries are simply overwritten.
func (s *Store) SaveDailySchedule(sched DailySchedule) error {
	if sched.Date == "" {
		return &ValidationError{Fields: map[string]string{
			"date": "date is required",
		}}
	}

	schedules, err := s.ListDailySchedules()
	if err != nil {
		return err
	}

	replaced := false
	for i := range schedules {
		if schedules[i].Date == sched.Date {
			schedules[i] = sched
			replaced = true
			break
		}
	}
	if !replaced {
		schedules = append(schedules, sched)
	}
	return s.save(keyDailySchedules, schedules)
}
