package alerts_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/adherence"
	"github.com/tidepool-org/adherence/alerts"
	alertsTest "github.com/tidepool-org/adherence/alerts/test"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/therapies"
)

type patientData struct {
	patient   *patients.Patient
	therapies []*therapies.Therapy
	intakes   []*intakes.Intake
	readings  []*readings.Reading
}

var _ = Describe("Engine", func() {
	var ctrl *gomock.Controller
	var dataSource *alertsTest.MockDataSource
	var engine alerts.Engine
	var clock *calendar.Clock
	var now time.Time
	var today time.Time

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		dataSource = alertsTest.NewMockDataSource(ctrl)
		now = time.Date(2024, time.May, 20, 16, 0, 0, 0, time.UTC)
		clock = calendar.Fixed(time.UTC, now)
		today = clock.Today()
		engine = alerts.NewEngine(dataSource, adherence.NewEvaluator(clock), zap.NewNop().Sugar())
	})

	newPatient := func(userId, fullName string) *patients.Patient {
		return &patients.Patient{UserId: userId, FullName: fullName}
	}

	continuousTherapy := func(patientId, drugName string) *therapies.Therapy {
		id := primitive.NewObjectID()
		return &therapies.Therapy{
			Id:           &id,
			PatientId:    patientId,
			DrugName:     drugName,
			Dosage:       "500mg",
			DailyIntakes: 2,
			StartDate:    calendar.AddDays(today, -10),
		}
	}

	reading := func(patientId string, value float64, ctx readings.MealContext, ago time.Duration) *readings.Reading {
		return &readings.Reading{PatientId: patientId, Value: value, MealContext: ctx, Time: now.Add(-ago)}
	}

	stub := func(data patientData) {
		id := data.patient.UserId
		dataSource.EXPECT().Patient(gomock.Any(), id).Return(data.patient, nil).AnyTimes()
		dataSource.EXPECT().ActiveTherapiesForPatient(gomock.Any(), id, today).Return(data.therapies, nil).AnyTimes()
		dataSource.EXPECT().IntakesForPatientOnDay(gomock.Any(), id, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, day time.Time) ([]*intakes.Intake, error) {
				result := make([]*intakes.Intake, 0)
				for _, intake := range data.intakes {
					if clock.Day(intake.Time).Equal(calendar.Date(day)) {
						result = append(result, intake)
					}
				}
				return result, nil
			}).AnyTimes()
		dataSource.EXPECT().IntakesForPatientToday(gomock.Any(), id).DoAndReturn(
			func(_ context.Context, _ string) ([]*intakes.Intake, error) {
				result := make([]*intakes.Intake, 0)
				for _, intake := range data.intakes {
					if clock.Day(intake.Time).Equal(today) {
						result = append(result, intake)
					}
				}
				return result, nil
			}).AnyTimes()
		dataSource.EXPECT().ReadingsForPatient(gomock.Any(), id).Return(data.readings, nil).AnyTimes()
		dataSource.EXPECT().ReadingsForPatientToday(gomock.Any(), id).DoAndReturn(
			func(_ context.Context, _ string) ([]*readings.Reading, error) {
				result := make([]*readings.Reading, 0)
				for _, r := range data.readings {
					if clock.Day(r.Time).Equal(today) {
						result = append(result, r)
					}
				}
				return result, nil
			}).AnyTimes()
	}

	Describe("EvaluateForDoctor", func() {
		var mario *patients.Patient
		var lucia *patients.Patient

		BeforeEach(func() {
			mario = newPatient("mario", "Mario Rossi")
			lucia = newPatient("lucia", "Lucia Bianchi")
		})

		It("returns success for a doctor without patients", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "unknown").Return([]*patients.Patient{}, nil)

			evaluation := engine.EvaluateForDoctor(context.Background(), "unknown")
			Expect(evaluation.Alerts).To(BeEmpty())
			Expect(evaluation.Color).To(Equal(alerts.ColorSuccess))
			Expect(evaluation.EvaluatedTime).To(Equal(now))
			Expect(evaluation.Failures).To(Equal(0))
		})

		It("combines adherence and glycemia alerts sorted by time", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return([]*patients.Patient{mario, lucia}, nil)
			stub(patientData{
				patient:   mario,
				therapies: []*therapies.Therapy{continuousTherapy(mario.UserId, "Metformina")},
				readings:  []*readings.Reading{reading(mario.UserId, 60, readings.MealContextFasting, 3*time.Hour)},
			})
			stub(patientData{
				patient: lucia,
				readings: []*readings.Reading{
					reading(lucia.UserId, 85, readings.MealContextUnspecified, time.Hour),
					reading(lucia.UserId, 110, readings.MealContextFasting, 2*time.Hour),
				},
			})

			evaluation := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(evaluation.Alerts).To(HaveLen(3))

			first := evaluation.Alerts[0]
			Expect(first.Kind).To(Equal(alerts.KindGlycemia))
			Expect(first.Tier).To(Equal(alerts.TierWarning))
			Expect(first.PatientId).To(Equal(lucia.UserId))
			Expect(first.PatientName).To(Equal(lucia.FullName))

			second := evaluation.Alerts[1]
			Expect(second.Kind).To(Equal(alerts.KindGlycemia))
			Expect(second.Tier).To(Equal(alerts.TierDangerOrange))
			Expect(second.PatientId).To(Equal(mario.UserId))

			third := evaluation.Alerts[2]
			Expect(third.Kind).To(Equal(alerts.KindAdherence))
			Expect(third.Tier).To(Equal(alerts.TierDanger))
			Expect(third.Time).To(BeNil())
			Expect(third.DrugName).To(PointTo(Equal("Metformina")))
			Expect(third.MissingStreak).To(PointTo(Equal(3)))
			Expect(third.Continuous).To(PointTo(BeTrue()))

			Expect(evaluation.Color).To(Equal(alerts.ColorDanger))
		})

		It("reports danger orange when it is the most severe tier", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return([]*patients.Patient{mario, lucia}, nil)
			stub(patientData{
				patient:  mario,
				readings: []*readings.Reading{reading(mario.UserId, 160, readings.MealContextBeforeMeal, time.Hour)},
			})
			stub(patientData{
				patient:  lucia,
				readings: []*readings.Reading{reading(lucia.UserId, 75, readings.MealContextAfterMeal, time.Hour)},
			})

			evaluation := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(evaluation.Alerts).To(HaveLen(2))
			Expect(evaluation.Color).To(Equal(alerts.ColorDangerOrange))
		})

		It("doesn't alert for a therapy taken recently", func() {
			therapy := continuousTherapy(mario.UserId, "Metformina")
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return([]*patients.Patient{mario}, nil)
			stub(patientData{
				patient:   mario,
				therapies: []*therapies.Therapy{therapy},
				intakes: []*intakes.Intake{
					{PatientId: mario.UserId, DrugName: "metformina ", Dosage: "500 MG", Time: now.Add(-24 * time.Hour)},
				},
			})

			evaluation := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(evaluation.Alerts).To(BeEmpty())
			Expect(evaluation.Color).To(Equal(alerts.ColorSuccess))
		})

		It("isolates the failure of a patient", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return([]*patients.Patient{mario, lucia}, nil)
			dataSource.EXPECT().ActiveTherapiesForPatient(gomock.Any(), mario.UserId, today).Return(nil, fmt.Errorf("connection reset"))
			stub(patientData{
				patient:  lucia,
				readings: []*readings.Reading{reading(lucia.UserId, 85, readings.MealContextUnspecified, time.Hour)},
			})

			evaluation := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(evaluation.Failures).To(Equal(1))
			Expect(evaluation.Alerts).To(HaveLen(2))
			Expect(evaluation.Alerts[0].PatientId).To(Equal(lucia.UserId))
			Expect(evaluation.Alerts[1].Kind).To(Equal(alerts.KindUnavailable))
			Expect(evaluation.Alerts[1].Tier).To(Equal(alerts.TierInfo))
			Expect(evaluation.Alerts[1].PatientId).To(Equal(mario.UserId))
			Expect(evaluation.Color).To(Equal(alerts.ColorWarning))
		})

		It("isolates a panic while evaluating a patient", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return([]*patients.Patient{mario, lucia}, nil)
			dataSource.EXPECT().ActiveTherapiesForPatient(gomock.Any(), mario.UserId, today).DoAndReturn(
				func(context.Context, string, time.Time) ([]*therapies.Therapy, error) {
					panic("unexpected")
				})
			stub(patientData{patient: lucia})

			evaluation := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(evaluation.Failures).To(Equal(1))
			Expect(evaluation.Alerts).To(HaveLen(1))
			Expect(evaluation.Alerts[0].Kind).To(Equal(alerts.KindUnavailable))
			Expect(evaluation.Color).To(Equal(alerts.ColorSuccess))
		})

		It("evaluates a patient listed twice once", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return([]*patients.Patient{mario, mario}, nil)
			stub(patientData{
				patient:  mario,
				readings: []*readings.Reading{reading(mario.UserId, 300, readings.MealContextAfterMeal, time.Hour)},
			})

			evaluation := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(evaluation.Alerts).To(HaveLen(1))
			Expect(evaluation.Color).To(Equal(alerts.ColorDanger))
		})

		It("degrades to neutral when the followed patients are unavailable", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return(nil, fmt.Errorf("timeout"))

			evaluation := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(evaluation.Alerts).To(BeEmpty())
			Expect(evaluation.Color).To(Equal(alerts.ColorNeutral))
		})

		It("returns the same alerts on repeated evaluations", func() {
			dataSource.EXPECT().FollowedPatients(gomock.Any(), "doctor").Return([]*patients.Patient{mario, lucia}, nil).Times(2)
			stub(patientData{
				patient:   mario,
				therapies: []*therapies.Therapy{continuousTherapy(mario.UserId, "Metformina"), continuousTherapy(mario.UserId, "Insulina")},
				readings:  []*readings.Reading{reading(mario.UserId, 40, readings.MealContextFasting, time.Hour)},
			})
			stub(patientData{
				patient:   lucia,
				therapies: []*therapies.Therapy{continuousTherapy(lucia.UserId, "Aspirina")},
				readings:  []*readings.Reading{reading(lucia.UserId, 40, readings.MealContextFasting, time.Hour)},
			})

			first := engine.EvaluateForDoctor(context.Background(), "doctor")
			second := engine.EvaluateForDoctor(context.Background(), "doctor")
			Expect(first.Alerts).To(HaveLen(5))
			Expect(second).To(Equal(first))
		})
	})

	Describe("EvaluateForPatient", func() {
		var mario *patients.Patient

		BeforeEach(func() {
			mario = newPatient("mario", "Mario Rossi")
		})

		tiers := func(evaluation alerts.Evaluation) []alerts.Tier {
			result := make([]alerts.Tier, 0, len(evaluation.Alerts))
			for _, alert := range evaluation.Alerts {
				result = append(result, alert.Tier)
			}
			return result
		}

		It("returns success for an unknown patient", func() {
			dataSource.EXPECT().Patient(gomock.Any(), "unknown").Return(nil, patients.ErrNotFound)

			evaluation := engine.EvaluateForPatient(context.Background(), "unknown")
			Expect(evaluation.Alerts).To(BeEmpty())
			Expect(evaluation.Color).To(Equal(alerts.ColorSuccess))
		})

		It("reminds to log intakes and glucose when nothing was logged", func() {
			stub(patientData{patient: mario})

			evaluation := engine.EvaluateForPatient(context.Background(), mario.UserId)
			Expect(tiers(evaluation)).To(Equal([]alerts.Tier{alerts.TierInfo, alerts.TierWarning}))
			Expect(evaluation.Color).To(Equal(alerts.ColorWarning))
		})

		It("only reminds to log intakes when glucose was logged", func() {
			stub(patientData{
				patient:  mario,
				readings: []*readings.Reading{reading(mario.UserId, 110, readings.MealContextFasting, time.Hour)},
			})

			evaluation := engine.EvaluateForPatient(context.Background(), mario.UserId)
			Expect(tiers(evaluation)).To(Equal([]alerts.Tier{alerts.TierInfo}))
			Expect(evaluation.Color).To(Equal(alerts.ColorInfo))
		})

		It("reminds the full daily instruction of a therapy without intakes", func() {
			stub(patientData{patient: mario, therapies: []*therapies.Therapy{continuousTherapy(mario.UserId, "Metformina")}})

			evaluation := engine.EvaluateForPatient(context.Background(), mario.UserId)
			Expect(tiers(evaluation)).To(Equal([]alerts.Tier{alerts.TierDanger, alerts.TierWarning}))
			Expect(evaluation.Alerts[0].Kind).To(Equal(alerts.KindReminder))
			Expect(evaluation.Alerts[0].Message).To(Equal("Today you have to take 500mg of Metformina 2 times a day"))
			Expect(evaluation.Alerts[0].Remaining).To(PointTo(Equal(2)))
			Expect(evaluation.Alerts[0].Required).To(PointTo(Equal(2)))
			Expect(evaluation.Color).To(Equal(alerts.ColorDanger))
		})

		It("reminds the remaining doses", func() {
			therapy := continuousTherapy(mario.UserId, "Metformina")
			therapy.DailyIntakes = 3
			stub(patientData{
				patient:   mario,
				therapies: []*therapies.Therapy{therapy},
				intakes: []*intakes.Intake{
					{PatientId: mario.UserId, DrugName: "metformina", Dosage: "500mg", Time: now.Add(-time.Hour)},
				},
				readings: []*readings.Reading{reading(mario.UserId, 110, readings.MealContextFasting, time.Hour)},
			})

			evaluation := engine.EvaluateForPatient(context.Background(), mario.UserId)
			Expect(evaluation.Alerts).To(HaveLen(1))
			Expect(evaluation.Alerts[0].Message).To(Equal("You still have 2 doses of Metformina to take today (1/3 taken)"))
			Expect(evaluation.Alerts[0].Remaining).To(PointTo(Equal(2)))
		})

		It("doesn't remind anything when all the doses and glucose were logged", func() {
			therapy := continuousTherapy(mario.UserId, "Metformina")
			stub(patientData{
				patient:   mario,
				therapies: []*therapies.Therapy{therapy},
				intakes: []*intakes.Intake{
					{PatientId: mario.UserId, DrugName: "Metformina", Dosage: "500mg", Time: now.Add(-2 * time.Hour)},
					{PatientId: mario.UserId, DrugName: "METFORMINA", Dosage: "500mg", Time: now.Add(-time.Hour)},
				},
				readings: []*readings.Reading{reading(mario.UserId, 110, readings.MealContextFasting, time.Hour)},
			})

			evaluation := engine.EvaluateForPatient(context.Background(), mario.UserId)
			Expect(evaluation.Alerts).To(BeEmpty())
			Expect(evaluation.Color).To(Equal(alerts.ColorSuccess))
		})

		It("degrades to neutral when the data is unavailable", func() {
			dataSource.EXPECT().Patient(gomock.Any(), mario.UserId).Return(mario, nil)
			dataSource.EXPECT().ActiveTherapiesForPatient(gomock.Any(), mario.UserId, today).Return(nil, fmt.Errorf("timeout"))

			evaluation := engine.EvaluateForPatient(context.Background(), mario.UserId)
			Expect(evaluation.Alerts).To(BeEmpty())
			Expect(evaluation.Color).To(Equal(alerts.ColorNeutral))
			Expect(evaluation.Failures).To(Equal(1))
		})
	})
})

var _ = Describe("IndicatorColor", func() {
	It("ignores informational alerts in the doctor priority", func() {
		list := []alerts.Alert{{Tier: alerts.TierInfo}}
		Expect(alerts.IndicatorColor(list, []alerts.Color{alerts.ColorDanger, alerts.ColorDangerOrange, alerts.ColorWarning})).To(Equal(alerts.ColorSuccess))
	})

	It("picks the first color in priority order", func() {
		list := []alerts.Alert{{Tier: alerts.TierWarning}, {Tier: alerts.TierInfo}}
		Expect(alerts.IndicatorColor(list, []alerts.Color{alerts.ColorDanger, alerts.ColorWarning, alerts.ColorInfo})).To(Equal(alerts.ColorWarning))
	})
})

var _ = Describe("SortAlerts", func() {
	It("sorts by time descending with untimed alerts last", func() {
		older := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
		newer := older.Add(time.Hour)
		list := []alerts.Alert{
			{Title: "untimed"},
			{Title: "older", Time: &older},
			{Title: "newer", Time: &newer},
		}
		alerts.SortAlerts(list)
		Expect(list[0].Title).To(Equal("newer"))
		Expect(list[1].Title).To(Equal("older"))
		Expect(list[2].Title).To(Equal("untimed"))
	})
})
