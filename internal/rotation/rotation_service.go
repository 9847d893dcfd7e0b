package rotation

import (
	"context"
	"errors"

	rotationerrors "etqan-payroll/internal/rotation/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultRunsLimit = 20

type Starter interface {
	Start(ctx context.Context, trigger string) (string, error)
	InFlight() bool
}

//go:generate mockgen -source=rotation_service.go -destination=mock/rotation_service_mock.go -package=mock
type Service interface {
	Trigger(ctx context.Context) (TriggerRunResponse, error)
	Status(ctx context.Context) StatusResponse
	ListRuns(ctx context.Context, limit int) ([]RunResponse, error)
	GetRun(ctx context.Context, id string) (RunResponse, error)
}

type service struct {
	starter Starter
	runs    RunRepository
}

// NewService builds the HTTP-facing rotation service. runs may be nil when
// no database is configured; history is then empty.
func NewService(starter Starter, runs RunRepository) Service {
	return &service{starter: starter, runs: runs}
}

func (s *service) Trigger(ctx context.Context) (TriggerRunResponse, error) {
	id, err := s.starter.Start(ctx, TriggerAPI)
	if err != nil {
		return TriggerRunResponse{}, err
	}
	return TriggerRunResponse{RunID: id, Trigger: TriggerAPI}, nil
}

func (s *service) Status(_ context.Context) StatusResponse {
	return StatusResponse{InFlight: s.starter.InFlight()}
}

func (s *service) ListRuns(ctx context.Context, limit int) ([]RunResponse, error) {
	if s.runs == nil {
		return []RunResponse{}, nil
	}
	if limit <= 0 {
		limit = defaultRunsLimit
	}

	runs, err := s.runs.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]RunResponse, len(runs))
	for i, r := range runs {
		resp[i] = mapRunToResponse(r)
	}
	return resp, nil
}

func (s *service) GetRun(ctx context.Context, id string) (RunResponse, error) {
	if s.runs == nil {
		return RunResponse{}, rotationerrors.ErrRunNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return RunResponse{}, rotationerrors.ErrRunNotFound
	}

	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, rotationerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}
