package store

import "time"

func (s *Store) ListPillIntakes() ([]PillIntake, error) {
	var intakes []PillIntake
	if err := s.load(keyPillIntakes, &intakes); err != nil {
		return nil, err
	}
	return intakes, nil
}

// AddPillIntake appends one intake event. Intake rows are never updated
// afterwards; the engine decides beforehand whether the dose is legal.
func (s *Store) AddPillIntake(in PillIntake) (*PillIntake, error) {
	fields := map[string]string{}
	if in.PillID == "" {
		fields["pillId"] = "pill id is required"
	}
	if !validSlot(in.TimeOfDay) {
		fields["timeOfDay"] = "unknown time of day"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	intakes, err := s.ListPillIntakes()
	if err != nil {
		return nil, err
	}

	in.ID = s.newID()
	if in.TakenAt.IsZero() {
		in.TakenAt = time.Now()
	}
	in.CreatedAt = time.Now()
	intakes = append(intakes, in)

	if err := s.save(keyPillIntakes, intakes); err != nil {
		return nil, err
	}
	return &in, nil
}

// DeletePillIntakes removes every intake referencing pillID. Used by the
// pill delete cascade; intakes for other pills are untouched.
func (s *Store) DeletePillIntakes(pillID string) error {
	intakes, err := s.ListPillIntakes()
	if err != nil {
		return err
	}

	kept := intakes[:0]
	for _, in := range intakes {
		if in.PillID == pillID {
			continue
		}
		kept = append(kept, in)
	}
	return s.save(keyPillIntakes, kept)
}
