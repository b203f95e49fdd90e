package store

import "time"

// PillType classifies the physical form of a medication.
type PillType string

const (
	TypeTablet    PillType = "tablet"
	TypeCapsule   PillType = "capsule"
	TypeLiquid    PillType = "liquid"
	TypeInjection PillType = "injection"
	TypeOther     PillType = "other"
)

// PillTypes lists every valid pill type.
var PillTypes = []PillType{TypeTablet, TypeCapsule, TypeLiquid, TypeInjection, TypeOther}

// TimeOfDay is a recurring daily schedule slot, not a timestamp.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Slots lists every schedule slot in day order.
var Slots = []TimeOfDay{Morning, Afternoon, Evening, Night}

// Label returns the display name for a slot ("morning" -> "Morning").
func (t TimeOfDay) Label() string {
	switch t {
	case Morning:
		return "Morning"
	case Afternoon:
		return "Afternoon"
	case Evening:
		return "Evening"
	case Night:
		return "Night"
	}
	return string(t)
}

// Shapes lists the allowed display shapes for a pill.
var Shapes = []string{"round", "oval", "square", "triangle", "diamond"}

// Pill is a medication definition. CurrentPackAmount is the live
// remaining-dose counter, always within [0, DefaultPackSize].
type Pill struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Dosage            string      `json:"dosage"`
	Type              PillType    `json:"type"`
	TimesPerDay       int         `json:"timesPerDay"`
	TimesOfDay        []TimeOfDay `json:"timesOfDay"`
	Instructions      string      `json:"instructions,omitempty"`
	Color             string      `json:"color"`
	Shape             string      `json:"shape"`
	DefaultPackSize   int         `json:"defaultPackSize"`
	CurrentPackAmount int         `json:"currentPackAmount"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// PillPack is one physical pack instance. At most one pack per pill is
// active at a time; depleted packs are kept for history views.
type PillPack struct {
	ID             string     `json:"id"`
	PillID         string     `json:"pillId"`
	PackSize       int        `json:"packSize"`
	RemainingPills int        `json:"remainingPills"`
	StartDate      time.Time  `json:"startDate"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// PillIntake records one dose taken. Rows are append-only; they are removed
// only when the owning pill is deleted.
type PillIntake struct {
	ID        string    `json:"id"`
	PillID    string    `json:"pillId"`
	PackID    string    `json:"packId,omitempty"`
	TakenAt   time.Time `json:"takenAt"`
	TimeOfDay TimeOfDay `json:"timeOfDay"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailySchedule is a date-keyed cache of planned vs. completed doses. It is
// always re-derivable from Pill + PillIntake and never authoritative.
type DailySchedule struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	Pills     []string `json:"pills"`
	Completed []string `json:"completed"`
	Missed    []string `json:"missed"`
}

// PillPatch is a partial update for a pill; nil fields are left unchanged.
type PillPatch struct {
	Name              *string
	Dosage            *string
	Type              *PillType
	TimesPerDay       *int
	TimesOfDay        []TimeOfDay
	Instructions      *string
	Color             *string
	Shape             *string
	DefaultPackSize   *int
	CurrentPackAmount *int
}

// PackPatch is a partial update for a pill pack.
type PackPatch struct {
	RemainingPills *int
	ExpiryDate     *time.Time
	IsActive       *bool
}

// Snapshot is the export/import interchange format. A nil collection means
// "absent": import leaves that stored collection untouched.
type Snapshot struct {
	Pills          []Pill          `json:"pills"`
	PillIntakes    []PillIntake    `json:"pillIntakes"`
	DailySchedules []DailySchedule `json:"dailySchedules"`
	PillPacks      []PillPack      `json:"pillPacks"`
	ExportDate     time.Time       `json:"exportDate"`
}
