package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pilltrack/internal/store"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Intakes    []jsonIntake `json:"intakes"`
}

type jsonIntake struct {
	ID        string `json:"id"`
	Pill      string `json:"pill"`
	PillID    string `json:"pill_id"`
	Dosage    string `json:"dosage,omitempty"`
	TakenAt   string `json:"taken_at"`
	TimeOfDay string `json:"time_of_day"`
	Notes     string `json:"notes,omitempty"`
}

// ToJSON writes the intake history, joined with pill names, to path.
func ToJSON(intakes []store.PillIntake, pills map[string]*store.Pill, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(intakes),
	}

	for _, in := range intakes {
		pillName, dosage := "Unknown", ""
		if p, ok := pills[in.PillID]; ok {
			pillName = p.Name
			dosage = p.Dosage
		}

		export.Intakes = append(export.Intakes, jsonIntake{
			ID:        in.ID,
			Pill:      pillName,
			PillID:    in.PillID,
			Dosage:    dosage,
			TakenAt:   in.TakenAt.Local().Format(time.RFC3339),
			TimeOfDay: string(in.TimeOfDay),
			Notes:     in.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// SnapshotToJSON writes a full repository snapshot to path, in the same
// shape the repository's import accepts.
func SnapshotToJSON(snap *store.Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}
