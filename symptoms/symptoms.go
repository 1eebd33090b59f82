package symptoms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/store"
)

const (
	CollectionName       = "symptoms"
	MinDescriptionLength = 2
	MinYear              = 1900
)

var (
	ErrNotFound  = fmt.Errorf("symptom %w", errors.NotFound)
	ErrDuplicate = fmt.Errorf("%w: the same entry was already logged starting on the same day", errors.Duplicate)
)

type Type string

const (
	TypeSymptom   Type = "symptom"
	TypePathology Type = "pathology"
	TypeTreatment Type = "treatment"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSymptom, TypePathology, TypeTreatment:
		return true
	default:
		return false
	}
}

type Frequency string

const (
	FrequencyOccasional Frequency = "occasional"
	FrequencyFrequent   Frequency = "frequent"
	FrequencyDaily      Frequency = "daily"
	FrequencyContinuous Frequency = "continuous"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOccasional, FrequencyFrequent, FrequencyDaily, FrequencyContinuous:
		return true
	default:
		return false
	}
}

// Symptom is a symptom, pathology or concomitant treatment reported by a patient.
// StartDate and EndDate are calendar days, an entry without an end date is ongoing.
type Symptom struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PatientId   string              `bson:"patientId" json:"patientId"`
	Type        Type                `bson:"type" json:"type"`
	Description string              `bson:"description" json:"description"`
	StartDate   time.Time           `bson:"startDate" json:"startDate"`
	EndDate     *time.Time          `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Frequency   *Frequency          `bson:"frequency,omitempty" json:"frequency,omitempty"`
	Note        *string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedTime time.Time           `bson:"createdTime" json:"createdTime"`
}

// IsOngoing returns true if the entry started on or before day and didn't end before it
func (s Symptom) IsOngoing(day time.Time) bool {
	day = calendar.Date(day)
	if calendar.Date(s.StartDate).After(day) {
		return false
	}
	return s.EndDate == nil || !calendar.Date(*s.EndDate).Before(day)
}

type Filter struct {
	PatientId string
	Type      *Type
	OngoingOn *time.Time
}

//go:generate mockgen --build_flags=--mod=mod -source=./symptoms.go -destination=./test/mock_symptoms.go -package test
type Repository interface {
	Get(ctx context.Context, id string) (*Symptom, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Symptom, error)
	Create(ctx context.Context, symptom Symptom) (*Symptom, error)
	Delete(ctx context.Context, id string) (*Symptom, error)
}

type Service interface {
	Get(ctx context.Context, id string) (*Symptom, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Symptom, error)
	Create(ctx context.Context, symptom Symptom) (*Symptom, error)
	Delete(ctx context.Context, id string) error
}

// Normalize validates the entry against the current day of the clock. The frequency is
// required for symptoms and dropped for pathologies and treatments.
func (s *Symptom) Normalize(clock *calendar.Clock) error {
	s.Description = strings.Join(strings.Fields(s.Description), " ")

	if s.PatientId == "" {
		return fmt.Errorf("%w: patient id is required", errors.BadRequest)
	}
	if !s.Type.Valid() {
		return fmt.Errorf("%w: invalid type %q", errors.BadRequest, s.Type)
	}
	if len([]rune(s.Description)) < MinDescriptionLength {
		return fmt.Errorf("%w: description must be at least %d characters long", errors.BadRequest, MinDescriptionLength)
	}
	if err := validateDay(clock, s.StartDate, "start date"); err != nil {
		return err
	}
	s.StartDate = calendar.Date(s.StartDate)
	if s.EndDate != nil {
		if err := validateDay(clock, *s.EndDate, "end date"); err != nil {
			return err
		}
		endDate := calendar.Date(*s.EndDate)
		if endDate.Before(s.StartDate) {
			return fmt.Errorf("%w: end date cannot be before the start date", errors.BadRequest)
		}
		s.EndDate = &endDate
	}

	if s.Type == TypeSymptom {
		if s.Frequency == nil {
			return fmt.Errorf("%w: the frequency of a symptom is required", errors.BadRequest)
		}
		if !s.Frequency.Valid() {
			return fmt.Errorf("%w: invalid frequency %q", errors.BadRequest, *s.Frequency)
		}
	} else {
		s.Frequency = nil
	}

	if s.Note != nil {
		note := strings.TrimSpace(*s.Note)
		s.Note = &note
		if note == "" {
			s.Note = nil
		}
	}
	return nil
}

func validateDay(clock *calendar.Clock, day time.Time, name string) error {
	if day.IsZero() {
		return fmt.Errorf("%w: %s is required", errors.BadRequest, name)
	}
	if calendar.Date(day).After(clock.Today()) {
		return fmt.Errorf("%w: %s cannot be in the future", errors.BadRequest, name)
	}
	if day.Year() < MinYear {
		return fmt.Errorf("%w: %s cannot be before %d", errors.BadRequest, name, MinYear)
	}
	return nil
}
