package rotation

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rotation_run_repo.go -destination=mock/rotation_run_repo_mock.go -package=mock
type RunRepository interface {
	Create(ctx context.Context, run *RotationRun) error
	Update(ctx context.Context, run *RotationRun) error
	FindRecent(ctx context.Context, limit int) ([]RotationRun, error)
	FindByID(ctx context.Context, id string) (*RotationRun, error)
}

type runRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, run *RotationRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepository) Update(ctx context.Context, run *RotationRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *runRepository) FindRecent(ctx context.Context, limit int) ([]RotationRun, error) {
	var runs []RotationRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func (r *runRepository) FindByID(ctx context.Context, id string) (*RotationRun, error) {
	var run RotationRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	return &run, err
}
