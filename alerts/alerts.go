// Package alerts aggregates the adherence and glycemia alerts of the doctor and patient views.
//
// Alerts are transient: every evaluation reads the current therapies, intakes and readings
// through a DataSource and recomputes the alerts from scratch.
package alerts

import (
	"context"
	"time"

	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/therapies"
)

type Kind string

const (
	KindAdherence   Kind = "adherence"
	KindGlycemia    Kind = "glycemia"
	KindReminder    Kind = "reminder"
	KindUnavailable Kind = "unavailable"
)

type Tier string

const (
	TierDanger       Tier = "danger"
	TierDangerOrange Tier = "dangerOrange"
	TierWarning      Tier = "warning"
	TierInfo         Tier = "info"
)

// Color is the indicator summarizing the most severe alert of a view
type Color string

const (
	ColorDanger       Color = "danger"
	ColorDangerOrange Color = "dangerOrange"
	ColorWarning      Color = "warning"
	ColorInfo         Color = "info"
	ColorSuccess      Color = "success"

	// ColorNeutral is reported when the evaluation couldn't be completed
	ColorNeutral Color = "neutral"
)

type Alert struct {
	Kind        Kind       `json:"kind"`
	Tier        Tier       `json:"tier"`
	PatientId   string     `json:"patientId"`
	PatientName string     `json:"patientName,omitempty"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Time        *time.Time `json:"time,omitempty"`

	TherapyId     *string               `json:"therapyId,omitempty"`
	DrugName      *string               `json:"drugName,omitempty"`
	Dosage        *string               `json:"dosage,omitempty"`
	MissingStreak *int                  `json:"missingStreak,omitempty"`
	Continuous    *bool                 `json:"continuous,omitempty"`
	Remaining     *int                  `json:"remaining,omitempty"`
	Required      *int                  `json:"required,omitempty"`
	Value         *float64              `json:"value,omitempty"`
	MealContext   *readings.MealContext `json:"mealContext,omitempty"`
}

type Evaluation struct {
	Alerts        []Alert   `json:"alerts"`
	Color         Color     `json:"color"`
	EvaluatedTime time.Time `json:"evaluatedTime"`

	// Failures is the number of patients whose alerts couldn't be evaluated
	Failures int `json:"failures"`
}

// DataSource is the read path used by the engine. Days are calendar days in the clinic
// time zone.
//
//go:generate mockgen --build_flags=--mod=mod -source=./alerts.go -destination=./test/mock_alerts.go -package test
type DataSource interface {
	Patient(ctx context.Context, patientId string) (*patients.Patient, error)
	FollowedPatients(ctx context.Context, doctorId string) ([]*patients.Patient, error)
	ActiveTherapiesForPatient(ctx context.Context, patientId string, asOf time.Time) ([]*therapies.Therapy, error)
	AllTherapiesForPatient(ctx context.Context, patientId string) ([]*therapies.Therapy, error)
	IntakesForPatientOnDay(ctx context.Context, patientId string, day time.Time) ([]*intakes.Intake, error)
	IntakesForPatientToday(ctx context.Context, patientId string) ([]*intakes.Intake, error)
	ReadingsForPatient(ctx context.Context, patientId string) ([]*readings.Reading, error)
	ReadingsForPatientToday(ctx context.Context, patientId string) ([]*readings.Reading, error)
}

// Engine never returns errors. Failures degrade to an empty evaluation with a neutral color.
type Engine interface {
	EvaluateForDoctor(ctx context.Context, doctorId string) Evaluation
	EvaluateForPatient(ctx context.Context, patientId string) Evaluation
}
