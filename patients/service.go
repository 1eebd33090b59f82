package patients

import (
	"context"

	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/signals"
	"github.com/tidepool-org/adherence/store"
)

type service struct {
	repository     Repository
	doctorsService doctors.Service
	publisher      signals.Publisher
	clock          *calendar.Clock
	logger         *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repository Repository, doctorsService doctors.Service, publisher signals.Publisher, clock *calendar.Clock, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repository:     repository,
		doctorsService: doctorsService,
		publisher:      publisher,
		clock:          clock,
		logger:         logger,
	}, nil
}

func (s *service) Get(ctx context.Context, userId string) (*Patient, error) {
	return s.repository.Get(ctx, userId)
}

func (s *service) List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Patient, error) {
	return s.repository.List(ctx, filter, pagination)
}

func (s *service) Create(ctx context.Context, patient Patient) (*Patient, error) {
	if err := patient.Normalize(s.clock); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, patient)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("patient created", "patientId", created.UserId)
	return created, nil
}

func (s *service) Follow(ctx context.Context, userId string, doctorId string, primary bool) (*Patient, error) {
	if _, err := s.doctorsService.Get(ctx, doctorId); err != nil {
		return nil, err
	}

	patient, err := s.repository.Follow(ctx, userId, doctorId, primary)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("patient followed", "patientId", userId, "doctorId", doctorId, "primary", primary)
	s.notify(ctx, userId, doctorId)
	return patient, nil
}

func (s *service) Unfollow(ctx context.Context, userId string, doctorId string) (*Patient, error) {
	patient, err := s.repository.Unfollow(ctx, userId, doctorId)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("patient unfollowed", "patientId", userId, "doctorId", doctorId)
	s.notify(ctx, userId, doctorId)
	return patient, nil
}

// UpdateClinicalData replaces the clinical data of the patient. Only the doctors following
// the patient are allowed to update it.
func (s *service) UpdateClinicalData(ctx context.Context, userId string, doctorId string, data ClinicalData) (*Patient, error) {
	doctor, err := s.doctorsService.Get(ctx, doctorId)
	if err != nil {
		return nil, err
	}
	patient, err := s.repository.Get(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !patient.IsFollowedBy(doctorId) {
		return nil, ErrNotAllowed
	}

	data.Normalize()
	data.UpdatedBy = doctor.DisplayName()
	data.UpdatedTime = s.clock.Now()

	updated, err := s.repository.UpdateClinicalData(ctx, userId, data)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("clinical data updated", "patientId", userId, "doctorId", doctorId)
	signals.NotifyChange(ctx, s.publisher, s.logger, signals.Change{
		PatientId: userId,
		DoctorId:  doctorId,
		Kind:      signals.KindClinicalData,
	})
	return updated, nil
}

func (s *service) notify(ctx context.Context, userId string, doctorId string) {
	signals.NotifyChange(ctx, s.publisher, s.logger, signals.Change{
		PatientId: userId,
		DoctorId:  doctorId,
		Kind:      signals.KindFollow,
	})
}
