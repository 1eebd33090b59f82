package readings

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/store"
)

const (
	CollectionName = "readings"
	MinYear        = 1900
)

var (
	ErrNotFound  = fmt.Errorf("reading %w", errors.NotFound)
	ErrDuplicate = fmt.Errorf("%w: a reading was already logged at this time", errors.Duplicate)
)

type MealContext string

const (
	MealContextFasting     MealContext = "fasting"
	MealContextBeforeMeal  MealContext = "before_meal"
	MealContextAfterMeal   MealContext = "after_meal"
	MealContextUnspecified MealContext = "unspecified"
)

func (m MealContext) Valid() bool {
	switch m {
	case MealContextFasting, MealContextBeforeMeal, MealContextAfterMeal, MealContextUnspecified:
		return true
	default:
		return false
	}
}

// Reading is a glucose measurement in mg/dL
type Reading struct {
	Id                *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PatientId         string              `bson:"patientId" json:"patientId"`
	Value             float64             `bson:"value" json:"value"`
	Time              time.Time           `bson:"time" json:"time"`
	MealContext       MealContext         `bson:"mealContext" json:"mealContext"`
	TwoHoursAfterMeal *bool               `bson:"twoHoursAfterMeal,omitempty" json:"twoHoursAfterMeal,omitempty"`
	Note              *string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedTime       time.Time           `bson:"createdTime" json:"createdTime"`
}

type Filter struct {
	PatientId string
	From      *time.Time
	To        *time.Time
}

//go:generate mockgen --build_flags=--mod=mod -source=./readings.go -destination=./test/mock_readings.go -package test
type Repository interface {
	Get(ctx context.Context, id string) (*Reading, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Reading, error)
	Create(ctx context.Context, reading Reading) (*Reading, error)
	Delete(ctx context.Context, id string) (*Reading, error)
}

type Service interface {
	Get(ctx context.Context, id string) (*Reading, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Reading, error)
	Create(ctx context.Context, reading Reading) (*Reading, error)
	Delete(ctx context.Context, id string) error
}

// Normalize validates the reading against the current time of the clock and drops
// the two hours flag unless the reading was taken after a meal
func (r *Reading) Normalize(clock *calendar.Clock) error {
	if r.PatientId == "" {
		return fmt.Errorf("%w: patient id is required", errors.BadRequest)
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value <= 0 {
		return fmt.Errorf("%w: value must be a positive number", errors.BadRequest)
	}
	if r.Time.IsZero() {
		return fmt.Errorf("%w: time is required", errors.BadRequest)
	}
	if clock.Day(r.Time).After(clock.Today()) {
		return fmt.Errorf("%w: reading time cannot be in the future", errors.BadRequest)
	}
	if r.Time.Year() < MinYear {
		return fmt.Errorf("%w: reading time cannot be before %d", errors.BadRequest, MinYear)
	}
	if r.MealContext == "" {
		r.MealContext = MealContextUnspecified
	}
	if !r.MealContext.Valid() {
		return fmt.Errorf("%w: invalid meal context %q", errors.BadRequest, r.MealContext)
	}
	if r.MealContext == MealContextAfterMeal {
		if r.TwoHoursAfterMeal == nil {
			return fmt.Errorf("%w: readings after a meal must state whether two hours have passed", errors.BadRequest)
		}
	} else {
		r.TwoHoursAfterMeal = nil
	}
	return nil
}
