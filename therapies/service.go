package therapies

import (
	"context"

	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/deletions"
	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/signals"
	"github.com/tidepool-org/adherence/store"
)

type service struct {
	repository      Repository
	doctorsService  doctors.Service
	patientsService patients.Service
	publisher       signals.Publisher
	logger          *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repository Repository, doctorsService doctors.Service, patientsService patients.Service, publisher signals.Publisher, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repository:      repository,
		doctorsService:  doctorsService,
		patientsService: patientsService,
		publisher:       publisher,
		logger:          logger,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*Therapy, error) {
	return s.repository.Get(ctx, id)
}

func (s *service) Resolve(ctx context.Context, key string) (*Therapy, error) {
	identityKey, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	return s.repository.FindByKey(ctx, identityKey)
}

func (s *service) List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Therapy, error) {
	return s.repository.List(ctx, filter, pagination)
}

// Create prescribes the therapy. The name of the prescribing doctor is snapshotted on the
// therapy and doesn't change when the doctor's profile changes.
func (s *service) Create(ctx context.Context, therapy Therapy) (*Therapy, error) {
	doctor, err := s.doctorsService.Get(ctx, therapy.DoctorId)
	if err != nil {
		return nil, err
	}
	if _, err := s.patientsService.Get(ctx, therapy.PatientId); err != nil {
		return nil, err
	}

	therapy.DoctorName = doctor.DisplayName()
	therapy.ModifiedBy = nil
	if err := therapy.Normalize(); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, therapy)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("therapy created", "therapyId", created.Id.Hex(), "patientId", created.PatientId, "doctorId", created.DoctorId)
	signals.Notify(ctx, s.publisher, s.logger, created.PatientId, signals.KindTherapy)
	return created, nil
}

// Update replaces the prescription in place. An update of the drug name or the start date
// changes the identity key of the therapy: the previous key stops resolving and the new one
// resolves to the same record.
func (s *service) Update(ctx context.Context, id string, update Update) (*Therapy, error) {
	existing, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	editor, err := s.doctorsService.Get(ctx, update.UpdatedBy)
	if err != nil {
		return nil, err
	}

	therapy := *existing
	therapy.DrugName = update.DrugName
	therapy.Dosage = update.Dosage
	therapy.DailyIntakes = update.DailyIntakes
	therapy.StartDate = update.StartDate
	therapy.EndDate = update.EndDate
	therapy.Instructions = update.Instructions
	therapy.Notes = update.Notes
	modifiedBy := editor.DisplayName()
	therapy.ModifiedBy = &modifiedBy
	if err := therapy.Normalize(); err != nil {
		return nil, err
	}

	updated, err := s.repository.Update(ctx, therapy)
	if err != nil {
		return nil, err
	}

	if existing.Key().String() != updated.Key().String() {
		s.logger.Infow("therapy identity changed", "therapyId", id, "patientId", updated.PatientId, "previousKey", existing.Key().String(), "key", updated.Key().String())
	}
	s.logger.Infow("therapy updated", "therapyId", id, "patientId", updated.PatientId, "doctorId", update.UpdatedBy)
	signals.Notify(ctx, s.publisher, s.logger, updated.PatientId, signals.KindTherapy)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string, deletedBy *string) error {
	deleted, err := s.repository.Delete(ctx, id, deletions.Metadata{DeletedByUserId: deletedBy})
	if err != nil {
		return err
	}

	s.logger.Infow("therapy deleted", "therapyId", id, "patientId", deleted.PatientId)
	signals.Notify(ctx, s.publisher, s.logger, deleted.PatientId, signals.KindTherapy)
	return nil
}
