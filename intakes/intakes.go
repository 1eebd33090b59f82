package intakes

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
	CollectionName    = "intakes"
	MinDrugNameLength = 2
	MinYear           = 1900
)

var (
	ErrNotFound  = fmt.Errorf("intake %w", errors.NotFound)
	ErrDuplicate = fmt.Errorf("%w: the drug intake was already logged at this time", errors.Duplicate)
)

// Intake is a logged medication intake of a patient. TherapyId links the intake to a
// therapy explicitly, otherwise it is matched by drug name and dosage.
type Intake struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PatientId   string              `bson:"patientId" json:"patientId"`
	DrugName    string              `bson:"drugName" json:"drugName"`
	Dosage      string              `bson:"dosage" json:"dosage"`
	Time        time.Time           `bson:"time" json:"time"`
	TherapyId   *primitive.ObjectID `bson:"therapyId,omitempty" json:"therapyId,omitempty"`
	Note        *string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedTime time.Time           `bson:"createdTime" json:"createdTime"`
}

type Filter struct {
	PatientId string
	From      *time.Time
	To        *time.Time
}

//go:generate mockgen --build_flags=--mod=mod -source=./intakes.go -destination=./test/mock_intakes.go -package test
type Repository interface {
	Get(ctx context.Context, id string) (*Intake, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Intake, error)
	Create(ctx context.Context, intake Intake) (*Intake, error)
	Delete(ctx context.Context, id string) (*Intake, error)
}

type Service interface {
	Get(ctx context.Context, id string) (*Intake, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Intake, error)
	Create(ctx context.Context, intake Intake) (*Intake, error)
	Delete(ctx context.Context, id string) error
}

func (i *Intake) Normalize(clock *calendar.Clock) error {
	i.DrugName = strings.TrimSpace(i.DrugName)
	i.Dosage = strings.TrimSpace(i.Dosage)

	if i.PatientId == "" {
		return fmt.Errorf("%w: patient id is required", errors.BadRequest)
	}
	if len([]rune(i.DrugName)) < MinDrugNameLength {
		return fmt.Errorf("%w: drug name must be at least %d characters long", errors.BadRequest, MinDrugNameLength)
	}
	if i.Dosage == "" {
		return fmt.Errorf("%w: dosage is required", errors.BadRequest)
	}
	if i.Time.IsZero() {
		return fmt.Errorf("%w: time is required", errors.BadRequest)
	}
	if clock.Day(i.Time).After(clock.Today()) {
		return fmt.Errorf("%w: intake time cannot be in the future", errors.BadRequest)
	}
	if i.Time.Year() < MinYear {
		return fmt.Errorf("%w: intake time cannot be before %d", errors.BadRequest, MinYear)
	}
	return nil
}
