package healthcondition

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// HealthCondition is a diagnosis recorded for a patient. When RelativeID is
// set it is family history: the condition belongs to the named relative.
type HealthCondition struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patientId"`
	Description   string     `json:"description"`
	RelativeID    *uuid.UUID `json:"relativeId"`
	Relative      *string    `json:"relative"`
	FamilyHistory bool       `json:"familyHistory"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Relative is a family member of a patient, e.g. "mãe" or "avô paterno".
type Relative struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patientId"`
	Description string    `json:"description"`
}

type CreateRequest struct {
	PatientID   string  `json:"patientId" validate:"required,uuid"`
	Description string  `json:"description" validate:"required,max=255"`
	Relative    *string `json:"relative" validate:"omitempty,max=255"`
}

type UpdateRequest struct {
	Description string `json:"description" validate:"required,max=255"`
}

// Normalize trims and lower-cases a description or relative label.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
