package readings

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

func (s *service) Get(ctx context.Context, id string) (*Reading, error) {
	return s.repository.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Reading, error) {
	return s.repository.List(ctx, filter, pagination)
}

func (s *service) Create(ctx context.Context, reading Reading) (*Reading, error) {
	if err := reading.Normalize(s.clock); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, reading)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("reading created", "patientId", created.PatientId, "readingId", created.Id.Hex())
	signals.Notify(ctx, s.publisher, s.logger, created.PatientId, signals.KindReading)
	return created, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repository.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Infow("reading deleted", "patientId", deleted.PatientId, "readingId", id)
	signals.Notify(ctx, s.publisher, s.logger, deleted.PatientId, signals.KindReading)
	return nil
}
