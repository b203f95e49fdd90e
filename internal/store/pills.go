package store

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied when a new pill leaves display fields unset.
const (
	defaultPillColor = "#2196F3"
	defaultPillShape = "round"
)

func (s *Store) ListPills() ([]Pill, error) {
	var pills []Pill
	if err := s.load(keyPills, &pills); err != nil {
		return nil, err
	}
	return pills, nil
}

func (s *Store) GetPill(id string) (*Pill, error) {
	pills, err := s.ListPills()
	if err != nil {
		return nil, err
	}
	for i := range pills {
		if pills[i].ID == id {
			return &pills[i], nil
		}
	}
	return nil, fmt.Errorf("pill %s: %w", id, ErrNotFound)
}

// CreatePill validates p, assigns an id and timestamps, and persists it.
// Nothing is written when validation fails.
func (s *Store) CreatePill(p Pill) (*Pill, error) {
	if p.Type == "" {
		p.Type = TypeTablet
	}
	if p.Color == "" {
		p.Color = defaultPillColor
	}
	if p.Shape == "" {
		p.Shape = defaultPillShape
	}
	if err := validatePill(p); err != nil {
		return nil, err
	}

	pills, err := s.ListPills()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.ID = s.newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	pills = append(pills, p)

	if err := s.save(keyPills, pills); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePill merges patch over the stored pill and persists the collection.
// The merged record is re-validated before anything is written.
func (s *Store) UpdatePill(id string, patch PillPatch) (*Pill, error) {
	pills, err := s.ListPills()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range pills {
		if pills[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("pill %s: %w", id, ErrNotFound)
	}

	merged := pills[idx]
	applyPillPatch(&merged, patch)
	if err := validatePill(merged); err != nil {
		return nil, err
	}
	merged.UpdatedAt = time.Now()
	pills[idx] = merged

	if err := s.save(keyPills, pills); err != nil {
		return nil, err
	}
	return &merged, nil
}

// UpdatePillAmount writes a new value for the live remaining-dose counter.
// Out-of-range values are an error, never clamped.
func (s *Store) UpdatePillAmount(id string, amount int) (*Pill, error) {
	pill, err := s.GetPill(id)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, &ValidationError{Fields: map[string]string{
			"currentPackAmount": "current pack amount cannot be negative",
		}}
	}
	if amount > pill.DefaultPackSize {
		return nil, &ValidationError{Fields: map[string]string{
			"currentPackAmount": "current pack amount cannot exceed default pack size",
		}}
	}
	return s.UpdatePill(id, PillPatch{CurrentPackAmount: &amount})
}

// ResetPillPack refills the counter to the default pack size. This is the
// only user-initiated transition that moves stock backward.
func (s *Store) ResetPillPack(id string) (*Pill, error) {
	pill, err := s.GetPill(id)
	if err != nil {
		return nil, err
	}
	return s.UpdatePill(id, PillPatch{CurrentPackAmount: &pill.DefaultPackSize})
}

// DeletePill removes the pill and cascades to its intakes and packs. Both
// cascade deletes are attempted even if one fails; failures are joined.
func (s *Store) DeletePill(id string) error {
	pills, err := s.ListPills()
	if err != nil {
		return err
	}

	kept := pills[:0]
	found := false
	for _, p := range pills {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("pill %s: %w", id, ErrNotFound)
	}

	if err := s.save(keyPills, kept); err != nil {
		return err
	}
	return errors.Join(
		s.DeletePillIntakes(id),
		s.deletePacksForPill(id),
	)
}

func applyPillPatch(p *Pill, patch PillPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Dosage != nil {
		p.Dosage = *patch.Dosage
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.TimesPerDay != nil {
		p.TimesPerDay = *patch.TimesPerDay
	}
	if patch.TimesOfDay != nil {
		p.TimesOfDay = patch.TimesOfDay
	}
	if patch.Instructions != nil {
		p.Instructions = *patch.Instructions
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.Shape != nil {
		p.Shape = *patch.Shape
	}
	if patch.DefaultPackSize != nil {
		p.DefaultPackSize = *patch.DefaultPackSize
	}
	if patch.CurrentPackAmount != nil {
		p.CurrentPackAmount = *patch.CurrentPackAmount
	}
}

func validatePill(p Pill) error {
	fields := map[string]string{}

	if p.Name == "" {
		fields["name"] = "pill name is required"
	}
	if p.Dosage == "" {
		fields["dosage"] = "dosage is required"
	}
	if !validPillType(p.Type) {
		fields["type"] = "unknown pill type"
	}
	if p.TimesPerDay < 1 || p.TimesPerDay > 4 {
		fields["timesPerDay"] = "times per day must be between 1 and 4"
	}
	if len(p.TimesOfDay) == 0 {
		fields["timesOfDay"] = "select at least one time of day"
	} else if p.TimesPerDay >= 1 && len(p.TimesOfDay) > p.TimesPerDay {
		fields["timesOfDay"] = "more times of day than times per day"
	} else {
		seen := map[TimeOfDay]bool{}
		for _, slot := range p.TimesOfDay {
			if !validSlot(slot) {
				fields["timesOfDay"] = "unknown time of day"
				break
			}
			if seen[slot] {
				fields["timesOfDay"] = "duplicate time of day"
				break
			}
			seen[slot] = true
		}
	}
	if !validShape(p.Shape) {
		fields["shape"] = "unknown pill shape"
	}
	if p.DefaultPackSize < 1 {
		fields["defaultPackSize"] = "default pack size must be at least 1"
	}
	if p.CurrentPackAmount < 0 {
		fields["currentPackAmount"] = "current pack amount cannot be negative"
	} else if p.DefaultPackSize >= 1 && p.CurrentPackAmount > p.DefaultPackSize {
		fields["currentPackAmount"] = "current pack amount cannot exceed default pack size"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validPillType(t PillType) bool {
	for _, pt := range PillTypes {
		if t == pt {
			return true
		}
	}
	return false
}

func validSlot(t TimeOfDay) bool {
	for _, slot := range Slots {
		if t == slot {
			return true
		}
	}
	return false
}

func validShape(s string) bool {
	for _, shape := range Shapes {
		if s == shape {
			return true
		}
	}
	return false
}
