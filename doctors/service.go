package doctors

import (
	"context"

	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/store"
)

type service struct {
	repository Repository
	logger     *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repository Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repository: repository,
		logger:     logger,
	}, nil
}

func (s *service) Get(ctx context.Context, userId string) (*Doctor, error) {
	return s.repository.Get(ctx, userId)
}

func (s *service) List(ctx context.Context, pagination store.Pagination) ([]*Doctor, error) {
	return s.repository.List(ctx, pagination)
}

func (s *service) Create(ctx context.Context, doctor Doctor) (*Doctor, error) {
	if err := doctor.Normalize(); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, doctor)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("doctor created", "doctorId", created.UserId)
	return created, nil
}
