package store

import (
	"fmt"
	"time"
)

func (s *Store) ListPillPacks() ([]PillPack, error) {
	var packs []PillPack
	if err := s.load(keyPillPacks, &packs); err != nil {
		return nil, err
	}
	return packs, nil
}

// ActivePillPack returns the single active pack for a pill, or nil when the
// pill has none.
func (s *Store) ActivePillPack(pillID string) (*PillPack, error) {
	packs, err := s.ListPillPacks()
	if err != nil {
		return nil, err
	}
	for i := range packs {
		if packs[i].PillID == pillID && packs[i].IsActive {
			return &packs[i], nil
		}
	}
	return nil, nil
}

// CreatePillPack starts a new pack. An active pack is rejected while another
// pack for the same pill is still active; the caller must deactivate the old
// one first.
func (s *Store) CreatePillPack(p PillPack) (*PillPack, error) {
	fields := map[string]string{}
	if p.PillID == "" {
		fields["pillId"] = "pill id is required"
	}
	if p.PackSize < 1 {
		fields["packSize"] = "pack size must be greater than 0"
	}
	if p.RemainingPills < 0 || p.RemainingPills > p.PackSize {
		fields["remainingPills"] = "remaining pills must be between 0 and the pack size"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	packs, err := s.ListPillPacks()
	if err != nil {
		return nil, err
	}
	if p.IsActive {
		for _, existing := range packs {
			if existing.PillID == p.PillID && existing.IsActive {
				return nil, &ValidationError{Fields: map[string]string{
					"isActive": "another pack is already active for this pill",
				}}
			}
		}
	}

	now := time.Now()
	p.ID = s.newID()
	if p.StartDate.IsZero() {
		p.StartDate = now
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	packs = append(packs, p)

	if err := s.save(keyPillPacks, packs); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePillPack merges patch over the stored pack. Activating a pack while
// a different pack for the same pill is active is rejected.
func (s *Store) UpdatePillPack(id string, patch PackPatch) (*PillPack, error) {
	packs, err := s.ListPillPacks()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range packs {
		if packs[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("pill pack %s: %w", id, ErrNotFound)
	}

	merged := packs[idx]
	if patch.RemainingPills != nil {
		if *patch.RemainingPills < 0 || *patch.RemainingPills > merged.PackSize {
			return nil, &ValidationError{Fields: map[string]string{
				"remainingPills": "remaining pills must be between 0 and the pack size",
			}}
		}
		merged.RemainingPills = *patch.RemainingPills
	}
	if patch.ExpiryDate != nil {
		merged.ExpiryDate = patch.ExpiryDate
	}
	if patch.IsActive != nil {
		if *patch.IsActive && !merged.IsActive {
			for i := range packs {
				if i != idx && packs[i].PillID == merged.PillID && packs[i].IsActive {
					return nil, &ValidationError{Fields: map[string]string{
						"isActive": "another pack is already active for this pill",
					}}
				}
			}
		}
		merged.IsActive = *patch.IsActive
	}
	merged.UpdatedAt = time.Now()
	packs[idx] = merged

	if err := s.save(keyPillPacks, packs); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *Store) DeletePillPack(id string) error {
	packs, err := s.ListPillPacks()
	if err != nil {
		return err
	}

	kept := packs[:0]
	found := false
	for _, p := range packs {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("pill pack %s: %w", id, ErrNotFound)
	}
	return s.save(keyPillPacks, kept)
}

// deletePacksForPill removes every pack owned by pillID (pill delete cascade).
func (s *Store) deletePacksForPill(pillID string) error {
	packs, err := s.ListPillPacks()
	if err != nil {
		return err
	}

	kept := packs[:0]
	for _, p := range packs {
		if p.PillID == pillID {
			continue
		}
		kept = append(kept, p)
	}
	return s.save(keyPillPacks, kept)
}
