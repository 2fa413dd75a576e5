package pilot

import (
	"database/sql"
	"strings"
	"time"

	"pilot_license_tracker/internal/domain/reminder"
)

// Certification is a pilot's RATA certification level.
type Certification string

const (
	CertificationIP   Certification = "IP"
	CertificationEP   Certification = "EP"
	CertificationBoth Certification = "BOTH"
)

func (c Certification) Valid() bool {
	switch c {
	case CertificationIP, CertificationEP, CertificationBoth:
		return true
	}
	return false
}

// Category is a UAV class a pilot is rated for. The set of accepted values is
// closed; unrecognized tags are rejected at the service boundary instead of
// being silently stored.
type Category string

const (
	CategoryMultirotorLight Category = "multirotor-0-25kg"
	CategoryMultirotorHeavy Category = "multirotor-25-2000kg"
	CategoryFixedWing       Category = "fixed-wing-25-2000kg"
	CategoryFixedWingTwin   Category = "fixed-wing-twin-25-2000kg"
	CategoryPoweredLiftVTOL Category = "powered-lift-vtol"
)

var allowedCategories = map[Category]struct{}{
	CategoryMultirotorLight: {},
	CategoryMultirotorHeavy: {},
	CategoryFixedWing:       {},
	CategoryFixedWingTwin:   {},
	CategoryPoweredLiftVTOL: {},
}

func (c Category) Valid() bool {
	_, ok := allowedCategories[c]
	return ok
}

// Restriction is an operational limitation on a pilot. RestrictionOther is
// accompanied by free-text detail in Pilot.CustomRestriction.
type Restriction string

const (
	RestrictionNone           Restriction = "none"
	RestrictionLaunchRecovery Restriction = "launch-recovery-only"
	RestrictionOther          Restriction = "other"
)

func (r Restriction) Valid() bool {
	switch r {
	case RestrictionNone, RestrictionLaunchRecovery, RestrictionOther:
		return true
	}
	return false
}

// Pilot is a tracked pilot record. The medical certificate expiry is always
// present; the instructor license expiry only applies to instructors.
type Pilot struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	Certification     Certification
	Categories        []Category
	MedicalExpiry     time.Time
	IsInstructor      bool
	InstructorExpiry  sql.NullTime
	Restriction       Restriction
	CustomRestriction sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p *Pilot) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// TrackedFields returns the expiry-dated attributes eligible for reminder
// evaluation. The medical certificate is always tracked. The instructor
// license is tracked only when the pilot currently holds the instructor flag
// and a date is set; a stale date left on a record after the flag was cleared
// is ignored.
func (p *Pilot) TrackedFields() []reminder.TrackedField {
	fields := []reminder.TrackedField{
		{Kind: reminder.KindMedical, Expiry: p.MedicalExpiry},
	}
	if p.IsInstructor && p.InstructorExpiry.Valid {
		fields = append(fields, reminder.TrackedField{
			Kind:   reminder.KindInstructor,
			Expiry: p.InstructorExpiry.Time,
		})
	}
	return fields
}
