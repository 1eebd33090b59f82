package intakes

import (
	"context"

	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/signals"
	"github.com/tidepool-org/adherence/store"
)

type service struct {
	repository Repository
	publisher  signals.Publisher
	clock      *calendar.Clock
	logger     *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repository Repository, publisher signals.Publisher, clock *calendar.Clock, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repository: repository,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*Intake, error) {
	return s.repository.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Intake, error) {
	return s.repository.List(ctx, filter, pagination)
}

func (s *service) Create(ctx context.Context, intake Intake) (*Intake, error) {
	if err := intake.Normalize(s.clock); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, intake)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("intake created", "patientId", created.PatientId, "intakeId", created.Id.Hex(), "drugName", created.DrugName)
	signals.Notify(ctx, s.publisher, s.logger, created.PatientId, signals.KindIntake)
	return created, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repository.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Infow("intake deleted", "patientId", deleted.PatientId, "intakeId", id)
	signals.Notify(ctx, s.publisher, s.logger, deleted.PatientId, signals.KindIntake)
	return nil
}
