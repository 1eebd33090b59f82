package patients_test

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/doctors"
	doctorsTest "github.com/tidepool-org/adherence/doctors/test"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/patients"
	patientsTest "github.com/tidepool-org/adherence/patients/test"
	"github.com/tidepool-org/adherence/signals"
	signalsTest "github.com/tidepool-org/adherence/signals/test"
	"github.com/tidepool-org/adherence/test"
)

var _ = Describe("Patients Service", func() {
	var service patients.Service
	var repository *patientsTest.MockRepository
	var doctorsService *doctorsTest.MockService
	var publisher *signalsTest.MockPublisher
	var now time.Time

	var doctor doctors.Doctor
	var patient patients.Patient

	BeforeEach(func() {
		ctrl := gomock.NewController(GinkgoT())
		repository = patientsTest.NewMockRepository(ctrl)
		doctorsService = doctorsTest.NewMockService(ctrl)
		publisher = signalsTest.NewMockPublisher(ctrl)
		now = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

		var err error
		service, err = patients.NewService(repository, doctorsService, publisher, calendar.Fixed(time.UTC, now), zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		doctor = doctorsTest.RandomDoctor()
		patient = patientsTest.RandomPatient()
		patient.Doctors = []string{doctor.UserId}
	})

	Describe("UpdateClinicalData", func() {
		var data patients.ClinicalData

		BeforeEach(func() {
			data = patients.ClinicalData{
				RiskFactors:     []string{"smoking ", "smoking"},
				PastPathologies: []string{"appendicitis"},
				Comorbidities:   []string{"hypertension"},
				UpdatedBy:       "somebody else",
			}
		})

		It("records which doctor updated the clinical data and publishes a change", func() {
			doctorsService.EXPECT().Get(gomock.Any(), doctor.UserId).Return(&doctor, nil)
			repository.EXPECT().Get(gomock.Any(), patient.UserId).Return(&patient, nil)
			repository.EXPECT().UpdateClinicalData(gomock.Any(), patient.UserId, test.Match(func(d patients.ClinicalData) bool {
				return d.UpdatedBy == doctor.DisplayName() &&
					d.UpdatedTime.Equal(now) &&
					len(d.RiskFactors) == 1 &&
					d.RiskFactors[0] == "smoking"
			})).DoAndReturn(func(_ context.Context, _ string, d patients.ClinicalData) (*patients.Patient, error) {
				updated := patient
				updated.ClinicalData = &d
				return &updated, nil
			})
			publisher.EXPECT().Publish(gomock.Any(), test.Match(func(c signals.Change) bool {
				return c.PatientId == patient.UserId && c.DoctorId == doctor.UserId && c.Kind == signals.KindClinicalData
			})).Return(nil)

			updated, err := service.UpdateClinicalData(context.Background(), patient.UserId, doctor.UserId, data)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.ClinicalData.UpdatedBy).To(HavePrefix("Dr. "))
		})

		It("forbids doctors who don't follow the patient", func() {
			patient.Doctors = []string{test.Faker.UUID().V4()}
			doctorsService.EXPECT().Get(gomock.Any(), doctor.UserId).Return(&doctor, nil)
			repository.EXPECT().Get(gomock.Any(), patient.UserId).Return(&patient, nil)

			_, err := service.UpdateClinicalData(context.Background(), patient.UserId, doctor.UserId, data)
			Expect(err).To(MatchError(patients.ErrNotAllowed))
			Expect(errors.StatusCode(err)).To(Equal(http.StatusForbidden))
		})

		It("fails for unknown doctors", func() {
			doctorsService.EXPECT().Get(gomock.Any(), "unknown").Return(nil, doctors.ErrNotFound)

			_, err := service.UpdateClinicalData(context.Background(), patient.UserId, "unknown", data)
			Expect(err).To(MatchError(doctors.ErrNotFound))
		})

		It("fails for unknown patients", func() {
			doctorsService.EXPECT().Get(gomock.Any(), doctor.UserId).Return(&doctor, nil)
			repository.EXPECT().Get(gomock.Any(), "unknown").Return(nil, patients.ErrNotFound)

			_, err := service.UpdateClinicalData(context.Background(), "unknown", doctor.UserId, data)
			Expect(err).To(MatchError(patients.ErrNotFound))
		})
	})
})
