package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pilltrack/internal/store"
)

// ToCSV writes the intake history, joined with pill names, to path.
func ToCSV(intakes []store.PillIntake, pills map[string]*store.Pill, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Pill", "Dosage", "Taken At", "Time of Day", "Notes"}); err != nil {
		return err
	}

	for _, in := range intakes {
		pillName, dosage := "Unknown", ""
		if p, ok := pills[in.PillID]; ok {
			pillName = p.Name
			dosage = p.Dosage
		}

		row := []string{
			in.ID,
			pillName,
			dosage,
			in.TakenAt.Local().Format(time.RFC3339),
			string(in.TimeOfDay),
			in.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
