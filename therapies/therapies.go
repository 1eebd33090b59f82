package therapies

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/deletions"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/store"
)

const (
	CollectionName  = "therapies"
	MinDailyIntakes = 1
	MaxDailyIntakes = 10
)

var (
	ErrNotFound  = fmt.Errorf("therapy %w", errors.NotFound)
	ErrDuplicate = fmt.Errorf("%w: the doctor already prescribed this drug to the patient starting on the same day", errors.Duplicate)
)

// Therapy is a drug regimen prescribed by a doctor to a patient. StartDate and EndDate are
// calendar days (see calendar package). A therapy without an end date is continuous.
type Therapy struct {
	Id           *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DoctorId     string              `bson:"doctorId" json:"doctorId"`
	DoctorName   string              `bson:"doctorName" json:"doctorName"`
	PatientId    string              `bson:"patientId" json:"patientId"`
	DrugName     string              `bson:"drugName" json:"drugName"`
	Dosage       string              `bson:"dosage" json:"dosage"`
	DailyIntakes int                 `bson:"dailyIntakes" json:"dailyIntakes"`
	StartDate    time.Time           `bson:"startDate" json:"startDate"`
	EndDate      *time.Time          `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Instructions *string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Notes        *string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ModifiedBy   *string             `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`
	CreatedTime  time.Time           `bson:"createdTime" json:"createdTime"`
	UpdatedTime  time.Time           `bson:"updatedTime" json:"updatedTime"`
}

func (t Therapy) IsContinuous() bool {
	return t.EndDate == nil
}

// IsActive returns true if the therapy started on or before day and didn't end before it
func (t Therapy) IsActive(day time.Time) bool {
	day = calendar.Date(day)
	if calendar.Date(t.StartDate).After(day) {
		return false
	}
	return t.EndDate == nil || !calendar.Date(*t.EndDate).Before(day)
}

// PlannedDays returns the number of days of a bounded therapy, start and end day included
func (t Therapy) PlannedDays() (int, bool) {
	if t.EndDate == nil {
		return 0, false
	}
	return calendar.DaysBetween(t.StartDate, *t.EndDate) + 1, true
}

func (t Therapy) Key() IdentityKey {
	return IdentityKey{
		DoctorName: t.DoctorName,
		PatientId:  t.PatientId,
		DrugName:   t.DrugName,
		StartDate:  calendar.Date(t.StartDate),
	}
}

// Update replaces the prescription fields of a therapy. Changing the drug name or the
// start date changes the identity key of the therapy.
type Update struct {
	DrugName     string
	Dosage       string
	DailyIntakes int
	StartDate    time.Time
	EndDate      *time.Time
	Instructions *string
	Notes        *string

	// UpdatedBy is the user id of the doctor performing the update
	UpdatedBy string
}

type Filter struct {
	PatientId *string
	DoctorId  *string
	ActiveOn  *time.Time
}

//go:generate mockgen --build_flags=--mod=mod -source=./therapies.go -destination=./test/mock_therapies.go -package test
type Repository interface {
	Get(ctx context.Context, id string) (*Therapy, error)
	FindByKey(ctx context.Context, key IdentityKey) (*Therapy, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Therapy, error)
	Create(ctx context.Context, therapy Therapy) (*Therapy, error)
	Update(ctx context.Context, therapy Therapy) (*Therapy, error)
	Delete(ctx context.Context, id string, metadata deletions.Metadata) (*Therapy, error)
}

type Service interface {
	Get(ctx context.Context, id string) (*Therapy, error)
	// Resolve returns the therapy identified by a serialized identity key. It fails with
	// *KeyParseError if the key is malformed and with ErrNotFound if no therapy has the key.
	Resolve(ctx context.Context, key string) (*Therapy, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Therapy, error)
	Create(ctx context.Context, therapy Therapy) (*Therapy, error)
	Update(ctx context.Context, id string, update Update) (*Therapy, error)
	Delete(ctx context.Context, id string, deletedBy *string) error
}
