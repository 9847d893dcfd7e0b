package rotation

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Trigger names what started a run.
const (
	TriggerStartup   = "startup"
	TriggerSchedule  = "schedule"
	TriggerAPI       = "api"
	TriggerLifecycle = "employee_lifecycle"
)

type RotationRun struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Trigger        string     `gorm:"size:64;not null"`
	Status         string     `gorm:"size:32;not null;index"`
	Checked        int        `gorm:"not null;default:0"`
	Created        int        `gorm:"not null;default:0"`
	AlreadyExisted int        `gorm:"not null;default:0"`
	Skipped        int        `gorm:"not null;default:0"`
	Failed         int        `gorm:"not null;default:0"`
	Error          string     `gorm:"type:text"`
	StartedAt      time.Time  `gorm:"not null;index"`
	FinishedAt     *time.Time
}

func (RotationRun) TableName() string {
	return "rotation_runs"
}

func (r *RotationRun) apply(s RunSummary) {
	r.Checked = s.Checked
	r.Created = s.Created
	r.AlreadyExisted = s.AlreadyExisted
	r.Skipped = s.Skipped
	r.Failed = s.Failed
}
