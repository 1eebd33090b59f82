package therapies

import (
	"fmt"
	"strings"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/errors"
)

const (
	MinDrugNameLength = 2
	MinYear           = 1900
)

// Normalize trims the free text fields, truncates the dates to calendar days and
// validates the prescription
func (t *Therapy) Normalize() error {
	t.DrugName = strings.TrimSpace(t.DrugName)
	t.Dosage = strings.TrimSpace(t.Dosage)
	t.Instructions = trimOptional(t.Instructions)
	t.Notes = trimOptional(t.Notes)

	if t.PatientId == "" {
		return fmt.Errorf("%w: patient id is required", errors.BadRequest)
	}
	if t.DoctorName == "" {
		return fmt.Errorf("%w: doctor name is required", errors.BadRequest)
	}
	if len([]rune(t.DrugName)) < MinDrugNameLength {
		return fmt.Errorf("%w: drug name must be at least %d characters long", errors.BadRequest, MinDrugNameLength)
	}
	for _, field := range []struct{ name, value string }{
		{"doctor name", t.DoctorName},
		{"patient id", t.PatientId},
		{"drug name", t.DrugName},
	} {
		if strings.Contains(field.value, keySeparator) {
			return fmt.Errorf("%w: %s cannot contain %q", errors.BadRequest, field.name, keySeparator)
		}
	}
	if t.Dosage == "" {
		return fmt.Errorf("%w: dosage is required", errors.BadRequest)
	}
	if t.DailyIntakes < MinDailyIntakes || t.DailyIntakes > MaxDailyIntakes {
		return fmt.Errorf("%w: daily intakes must be between %d and %d", errors.BadRequest, MinDailyIntakes, MaxDailyIntakes)
	}
	if t.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", errors.BadRequest)
	}
	t.StartDate = calendar.Date(t.StartDate)
	if t.StartDate.Year() < MinYear {
		return fmt.Errorf("%w: start date cannot be before %d", errors.BadRequest, MinYear)
	}
	if t.EndDate != nil {
		endDate := calendar.Date(*t.EndDate)
		if endDate.Before(t.StartDate) {
			return fmt.Errorf("%w: end date cannot be before the start date", errors.BadRequest)
		}
		t.EndDate = &endDate
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
