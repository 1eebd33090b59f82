package alerts_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/adherence"
	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/doctors"
	doctorsRepository "github.com/tidepool-org/adherence/doctors/repository"
	doctorsTest "github.com/tidepool-org/adherence/doctors/test"
	"github.com/tidepool-org/adherence/intakes"
	intakesRepository "github.com/tidepool-org/adherence/intakes/repository"
	"github.com/tidepool-org/adherence/logger"
	"github.com/tidepool-org/adherence/patients"
	patientsRepository "github.com/tidepool-org/adherence/patients/repository"
	patientsTest "github.com/tidepool-org/adherence/patients/test"
	"github.com/tidepool-org/adherence/readings"
	readingsRepository "github.com/tidepool-org/adherence/readings/repository"
	"github.com/tidepool-org/adherence/signals"
	signalsTest "github.com/tidepool-org/adherence/signals/test"
	dbTest "github.com/tidepool-org/adherence/store/test"
	"github.com/tidepool-org/adherence/therapies"
	therapiesRepository "github.com/tidepool-org/adherence/therapies/repository"
	therapiesTest "github.com/tidepool-org/adherence/therapies/test"
)

var _ = Describe("Data Source", func() {
	var dataSource alerts.DataSource
	var engine alerts.Engine
	var therapiesService therapies.Service
	var intakesService intakes.Service
	var readingsService readings.Service

	var now time.Time
	var today time.Time
	var doctor *doctors.Doctor
	var patient *patients.Patient
	var active *therapies.Therapy
	var ended *therapies.Therapy

	BeforeEach(func() {
		tb := GinkgoT()
		ctrl := gomock.NewController(tb)
		publisher := signalsTest.NewMockPublisher(ctrl)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		now = time.Date(2024, time.May, 20, 16, 0, 0, 0, time.UTC)
		clock := calendar.Fixed(time.UTC, now)
		today = clock.Today()

		var doctorsService doctors.Service
		var patientsService patients.Service
		app := fxtest.New(tb,
			fx.Provide(
				zap.NewNop,
				logger.Suggar,
				dbTest.GetTestDatabase,
				func() *calendar.Clock {
					return clock
				},
				func() signals.Publisher {
					return publisher
				},
				doctorsRepository.NewRepository,
				doctors.NewService,
				patientsRepository.NewRepository,
				patients.NewService,
				therapiesRepository.NewRepository,
				therapies.NewService,
				intakesRepository.NewRepository,
				intakes.NewService,
				readingsRepository.NewRepository,
				readings.NewService,
				adherence.NewEvaluator,
				alerts.NewDataSource,
				alerts.NewEngine,
			),
			fx.Invoke(func(ds alerts.DataSource, eng alerts.Engine, doctorsSvc doctors.Service, patientsSvc patients.Service, therapiesSvc therapies.Service, intakesSvc intakes.Service, readingsSvc readings.Service) {
				dataSource = ds
				engine = eng
				doctorsService = doctorsSvc
				patientsService = patientsSvc
				therapiesService = therapiesSvc
				intakesService = intakesSvc
				readingsService = readingsSvc
			}),
		)
		app.RequireStart()
		DeferCleanup(app.RequireStop)

		ctx := context.Background()
		var err error
		doctor, err = doctorsService.Create(ctx, doctorsTest.RandomDoctor())
		Expect(err).ToNot(HaveOccurred())
		created, err := patientsService.Create(ctx, patientsTest.RandomPatient())
		Expect(err).ToNot(HaveOccurred())
		patient, err = patientsService.Follow(ctx, created.UserId, doctor.UserId, true)
		Expect(err).ToNot(HaveOccurred())

		therapy := therapiesTest.RandomTherapy(doctor.UserId, patient.UserId)
		therapy.DrugName = "Metformina"
		therapy.Dosage = "500mg"
		therapy.DailyIntakes = 2
		therapy.StartDate = calendar.AddDays(today, -10)
		therapy.EndDate = nil
		active, err = therapiesService.Create(ctx, therapy)
		Expect(err).ToNot(HaveOccurred())

		therapy = therapiesTest.RandomTherapy(doctor.UserId, patient.UserId)
		therapy.DrugName = "Ramipril"
		therapy.StartDate = calendar.AddDays(today, -10)
		end := calendar.AddDays(today, -2)
		therapy.EndDate = &end
		ended, err = therapiesService.Create(ctx, therapy)
		Expect(err).ToNot(HaveOccurred())
	})

	logReading := func(value float64, mealContext readings.MealContext, at time.Time) {
		_, err := readingsService.Create(context.Background(), readings.Reading{
			PatientId:   patient.UserId,
			Value:       value,
			MealContext: mealContext,
			Time:        at,
		})
		Expect(err).ToNot(HaveOccurred())
	}

	logIntake := func(drugName, dosage string, at time.Time) {
		_, err := intakesService.Create(context.Background(), intakes.Intake{
			PatientId: patient.UserId,
			DrugName:  drugName,
			Dosage:    dosage,
			Time:      at,
		})
		Expect(err).ToNot(HaveOccurred())
	}

	It("lists the followed patients", func() {
		result, err := dataSource.FollowedPatients(context.Background(), doctor.UserId)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(1))
		Expect(result[0].UserId).To(Equal(patient.UserId))
	})

	It("returns an error for unknown patients", func() {
		_, err := dataSource.Patient(context.Background(), "unknown")
		Expect(err).To(MatchError(patients.ErrNotFound))
	})

	It("separates active therapies from all therapies", func() {
		result, err := dataSource.ActiveTherapiesForPatient(context.Background(), patient.UserId, today)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(1))
		Expect(result[0].Id).To(Equal(active.Id))

		result, err = dataSource.AllTherapiesForPatient(context.Background(), patient.UserId)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(2))

		result, err = dataSource.ActiveTherapiesForPatient(context.Background(), patient.UserId, calendar.AddDays(today, -3))
		Expect(err).ToNot(HaveOccurred())
		ids := []string{result[0].Id.Hex(), result[1].Id.Hex()}
		Expect(ids).To(ConsistOf(active.Id.Hex(), ended.Id.Hex()))
	})

	It("returns the intakes of a day", func() {
		logIntake("Metformina", "500mg", now.Add(-time.Hour))
		logIntake("Metformina", "500mg", now.Add(-24*time.Hour))
		logIntake("Metformina", "500mg", now.Add(-48*time.Hour))

		result, err := dataSource.IntakesForPatientToday(context.Background(), patient.UserId)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(1))

		result, err = dataSource.IntakesForPatientOnDay(context.Background(), patient.UserId, calendar.AddDays(today, -1))
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(1))
		Expect(result[0].Time).To(BeTemporally("==", now.Add(-24*time.Hour)))
	})

	It("returns the readings of today", func() {
		logReading(110, readings.MealContextFasting, now.Add(-time.Hour))
		logReading(85, readings.MealContextUnspecified, now.Add(-24*time.Hour))

		result, err := dataSource.ReadingsForPatientToday(context.Background(), patient.UserId)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(1))

		result, err = dataSource.ReadingsForPatient(context.Background(), patient.UserId)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(2))
	})

	Describe("Engine", func() {
		It("evaluates the doctor panel", func() {
			logReading(45, readings.MealContextFasting, now.Add(-time.Hour))
			logReading(85, readings.MealContextUnspecified, now.Add(-24*time.Hour))

			evaluation := engine.EvaluateForDoctor(context.Background(), doctor.UserId)
			Expect(evaluation.Failures).To(Equal(0))
			Expect(evaluation.Alerts).To(HaveLen(3))
			Expect(evaluation.Alerts[0].Kind).To(Equal(alerts.KindGlycemia))
			Expect(evaluation.Alerts[0].Tier).To(Equal(alerts.TierDanger))
			Expect(evaluation.Alerts[1].Tier).To(Equal(alerts.TierWarning))
			Expect(evaluation.Alerts[2].Kind).To(Equal(alerts.KindAdherence))
			Expect(evaluation.Alerts[2].TherapyId).ToNot(BeNil())
			Expect(*evaluation.Alerts[2].TherapyId).To(Equal(active.Id.Hex()))
			Expect(evaluation.Color).To(Equal(alerts.ColorDanger))
		})

		It("doesn't report adherence when an intake was logged yesterday", func() {
			logIntake(" metformina", "500 MG", now.Add(-24*time.Hour))

			evaluation := engine.EvaluateForDoctor(context.Background(), doctor.UserId)
			Expect(evaluation.Alerts).To(BeEmpty())
			Expect(evaluation.Color).To(Equal(alerts.ColorSuccess))
		})

		It("reminds the patient the doses of today", func() {
			logIntake("Metformina", "500mg", now.Add(-time.Hour))

			evaluation := engine.EvaluateForPatient(context.Background(), patient.UserId)
			Expect(evaluation.Alerts).To(HaveLen(2))
			Expect(evaluation.Alerts[0].Kind).To(Equal(alerts.KindReminder))
			Expect(evaluation.Alerts[0].Message).To(Equal("You still have 1 dose of Metformina to take today (1/2 taken)"))
			Expect(evaluation.Alerts[1].Tier).To(Equal(alerts.TierWarning))
			Expect(evaluation.Color).To(Equal(alerts.ColorDanger))
		})
	})
})
