package alerts

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/adherence"
	errs "github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/severity"
)

var doctorColorPriority = []Color{ColorDanger, ColorDangerOrange, ColorWarning}
var patientColorPriority = []Color{ColorDanger, ColorWarning, ColorInfo}

type engine struct {
	dataSource DataSource
	evaluator  *adherence.Evaluator
	logger     *zap.SugaredLogger
}

var _ Engine = &engine{}

func NewEngine(dataSource DataSource, evaluator *adherence.Evaluator, logger *zap.SugaredLogger) Engine {
	return &engine{
		dataSource: dataSource,
		evaluator:  evaluator,
		logger:     logger,
	}
}

// patientResult is the outcome of the evaluation of a single followed patient
type patientResult struct {
	patient *patients.Patient
	alerts  []Alert
	err     error
}

func (e *engine) EvaluateForDoctor(ctx context.Context, doctorId string) (evaluation Evaluation) {
	evaluation = Evaluation{
		Alerts:        []Alert{},
		Color:         ColorSuccess,
		EvaluatedTime: e.evaluator.Clock().Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("doctor alerts evaluation panicked", "doctorId", doctorId, "panic", r)
			evaluation = degraded(evaluation.EvaluatedTime)
		}
	}()

	followed, err := e.dataSource.FollowedPatients(ctx, doctorId)
	if err != nil {
		e.logger.Errorw("unable to get followed patients", "doctorId", doctorId, "error", err)
		return degraded(evaluation.EvaluatedTime)
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, patient := range followed {
		if patient == nil || !seen.Add(patient.UserId) {
			continue
		}
		result := e.evaluatePatient(ctx, patient)
		if result.err != nil {
			e.logger.Warnw("unable to evaluate patient alerts", "doctorId", doctorId, "patientId", patient.UserId, "error", result.err)
			evaluation.Failures++
			evaluation.Alerts = append(evaluation.Alerts, unavailable(patient))
			continue
		}
		evaluation.Alerts = append(evaluation.Alerts, result.alerts...)
	}

	SortAlerts(evaluation.Alerts)
	evaluation.Color = IndicatorColor(evaluation.Alerts, doctorColorPriority)
	return evaluation
}

// evaluatePatient computes the doctor facing alerts of a patient. Errors and panics are
// captured in the result so they don't affect the evaluation of the other patients.
func (e *engine) evaluatePatient(ctx context.Context, patient *patients.Patient) (result patientResult) {
	result.patient = patient
	defer func() {
		if r := recover(); r != nil {
			result.alerts = nil
			result.err = fmt.Errorf("evaluation panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.err = err
		return
	}

	adherenceAlerts, err := e.adherenceAlerts(ctx, patient)
	if err != nil {
		result.err = err
		return
	}
	glycemiaAlerts, err := e.glycemiaAlerts(ctx, patient)
	if err != nil {
		result.err = err
		return
	}

	result.alerts = append(adherenceAlerts, glycemiaAlerts...)
	return
}

func (e *engine) adherenceAlerts(ctx context.Context, patient *patients.Patient) ([]Alert, error) {
	today := e.evaluator.Clock().Today()
	list, err := e.dataSource.ActiveTherapiesForPatient(ctx, patient.UserId, today)
	if err != nil {
		return nil, fmt.Errorf("unable to get active therapies: %w", err)
	}

	lookup := adherence.CachedDayIntakes(func(ctx context.Context, day time.Time) ([]*intakes.Intake, error) {
		return e.dataSource.IntakesForPatientOnDay(ctx, patient.UserId, day)
	})

	result := make([]Alert, 0)
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, therapy := range list {
		if therapy == nil || (therapy.Id != nil && !seen.Add(therapy.Id.Hex())) {
			continue
		}
		streak, err := e.evaluator.MissingStreak(ctx, *therapy, lookup)
		if err != nil {
			return nil, err
		}
		if streak.Alerting() {
			result = append(result, missedDoses(patient, *therapy, streak))
		}
	}

	return result, nil
}

func (e *engine) glycemiaAlerts(ctx context.Context, patient *patients.Patient) ([]Alert, error) {
	list, err := e.dataSource.ReadingsForPatient(ctx, patient.UserId)
	if err != nil {
		return nil, fmt.Errorf("unable to get readings: %w", err)
	}

	result := make([]Alert, 0)
	for _, reading := range list {
		if reading == nil {
			continue
		}
		if tier := severity.ClassifyReading(*reading); tier != severity.None {
			result = append(result, glycemia(patient, *reading, tier))
		}
	}

	return result, nil
}

func (e *engine) EvaluateForPatient(ctx context.Context, patientId string) (evaluation Evaluation) {
	evaluation = Evaluation{
		Alerts:        []Alert{},
		Color:         ColorSuccess,
		EvaluatedTime: e.evaluator.Clock().Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("patient alerts evaluation panicked", "patientId", patientId, "panic", r)
			evaluation = degraded(evaluation.EvaluatedTime)
			evaluation.Failures = 1
		}
	}()

	patient, err := e.dataSource.Patient(ctx, patientId)
	if errors.Is(err, errs.NotFound) {
		return evaluation
	} else if err != nil {
		e.logger.Errorw("unable to get patient", "patientId", patientId, "error", err)
		evaluation = degraded(evaluation.EvaluatedTime)
		evaluation.Failures = 1
		return evaluation
	}

	alerts, err := e.reminders(ctx, patient)
	if err != nil {
		e.logger.Warnw("unable to evaluate patient reminders", "patientId", patientId, "error", err)
		evaluation = degraded(evaluation.EvaluatedTime)
		evaluation.Failures = 1
		return evaluation
	}

	evaluation.Alerts = alerts
	evaluation.Color = IndicatorColor(evaluation.Alerts, patientColorPriority)
	return evaluation
}

func (e *engine) reminders(ctx context.Context, patient *patients.Patient) ([]Alert, error) {
	today := e.evaluator.Clock().Today()
	active, err := e.dataSource.ActiveTherapiesForPatient(ctx, patient.UserId, today)
	if err != nil {
		return nil, fmt.Errorf("unable to get active therapies: %w", err)
	}
	intakesToday, err := e.dataSource.IntakesForPatientToday(ctx, patient.UserId)
	if err != nil {
		return nil, fmt.Errorf("unable to get intakes of today: %w", err)
	}
	readingsToday, err := e.dataSource.ReadingsForPatientToday(ctx, patient.UserId)
	if err != nil {
		return nil, fmt.Errorf("unable to get readings of today: %w", err)
	}

	result := make([]Alert, 0)
	for _, therapy := range active {
		if therapy == nil {
			continue
		}
		completeness := e.evaluator.DailyCompleteness(*therapy, intakesToday)
		if !completeness.IsComplete() {
			result = append(result, doseReminder(patient, *therapy, completeness))
		}
	}
	if len(result) == 0 && len(intakesToday) == 0 {
		result = append(result, intakeReminder(patient))
	}
	if len(readingsToday) == 0 {
		result = append(result, glucoseReminder(patient))
	}

	return result, nil
}

func degraded(evaluatedTime time.Time) Evaluation {
	return Evaluation{
		Alerts:        []Alert{},
		Color:         ColorNeutral,
		EvaluatedTime: evaluatedTime,
	}
}

// SortAlerts sorts alerts by time, most recent first. Alerts without a time are last.
// Ties are broken by patient, kind and title so repeated evaluations are stable.
func SortAlerts(alerts []Alert) {
	slices.SortStableFunc(alerts, func(a, b Alert) int {
		switch {
		case a.Time == nil && b.Time != nil:
			return 1
		case a.Time != nil && b.Time == nil:
			return -1
		case a.Time != nil && b.Time != nil && !a.Time.Equal(*b.Time):
			return b.Time.Compare(*a.Time)
		}
		return cmp.Or(
			cmp.Compare(a.PatientId, b.PatientId),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Title, b.Title),
		)
	})
}

// IndicatorColor returns the first color of priority matching the tier of an alert,
// or success if none does
func IndicatorColor(alerts []Alert, priority []Color) Color {
	tiers := mapset.NewThreadUnsafeSet[Tier]()
	for _, alert := range alerts {
		tiers.Add(alert.Tier)
	}
	for _, color := range priority {
		if tiers.Contains(Tier(color)) {
			return color
		}
	}
	return ColorSuccess
}
