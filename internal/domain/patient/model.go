package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clin/clin/internal/domain/healthcondition"
	"github.com/clin/clin/pkg/cpf"
)

// DisplayDateLayout is how birthdays are rendered (dd/MM/yyyy).
const DisplayDateLayout = "02/01/2006"

// Accepted birthday input layouts, ISO first.
var birthdayLayouts = []string{"2006-01-02", DisplayDateLayout, time.RFC3339}

type Patient struct {
	ID        uuid.UUID
	Name      string
	Birthday  time.Time
	GenderID  int
	Gender    string
	CPF       string // 11 digits, unpunctuated
	UserID    *uuid.UUID
	Doctor    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Gender struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// View is the JSON representation of a patient.
type View struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Birthday  string     `json:"birthday"`
	Age       int        `json:"age"`
	GenderID  int        `json:"genderId"`
	Gender    string     `json:"gender"`
	CPF       string     `json:"cpf"`
	UserID    *uuid.UUID `json:"userId"`
	Doctor    *string    `json:"doctor"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Detail is a patient together with its health conditions.
type Detail struct {
	View
	HealthConditions []*healthcondition.HealthCondition `json:"healthConditions"`
}

func (p *Patient) View(now time.Time) View {
	return View{
		ID:        p.ID,
		Name:      strings.ToUpper(p.Name),
		Birthday:  p.Birthday.Format(DisplayDateLayout),
		Age:       Age(p.Birthday, now),
		GenderID:  p.GenderID,
		Gender:    p.Gender,
		CPF:       cpf.Format(p.CPF),
		UserID:    p.UserID,
		Doctor:    p.Doctor,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Age is the number of whole years between birthday and now.
func Age(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ParseBirthday accepts yyyy-mm-dd, dd/mm/yyyy or an RFC 3339 timestamp and
// returns the calendar date at UTC midnight.
func ParseBirthday(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

type CreateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Birthday string `json:"birthday" validate:"required"`
	GenderID int    `json:"genderId" validate:"required,gt=0"`
	CPF      string `json:"cpf" validate:"required"`
}

// UpdateRequest carries optional changes. Nil fields keep their value.
type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Birthday *string `json:"birthday" validate:"omitempty,min=1"`
	GenderID *int    `json:"genderId" validate:"omitempty,gt=0"`
	CPF      *string `json:"cpf" validate:"omitempty,min=1"`
}
