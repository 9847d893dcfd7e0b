package events

import "time"

const EmployeeLifecycleTopic = "tutoring.employee.lifecycle.v1"

const (
	EmployeeActivated   = "employee_activated"
	EmployeeDeactivated = "employee_deactivated"
)

// EmployeeLifecycleEvent is produced by the directory system and consumed here.
type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	TeacherID  string    `json:"teacher_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
