package payroll

import (
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

const (
	DefaultAttendanceDays = 22
	DefaultDeductions     = "200"
)

// Period is one employee's dues for one rolling window, keyed by calendar
// month. Everything except Status is immutable once the backend created it.
type Period struct {
	ID             string    `json:"id"`
	TeacherID      string    `json:"teacher_id"`
	UserID         string    `json:"user_id"`
	TeacherName    string    `json:"teacher_name,omitempty"`
	Role           string    `json:"role,omitempty"`
	MonthYear      string    `json:"month_year"`
	PeriodStart    time.Time `json:"period_start"`
	AttendanceDays int       `json:"attendance_days"`
	Deductions     string    `json:"deductions"`
	BaseSalary     string    `json:"base_salary"`
	TotalDue       string    `json:"total_due"`
	Status         Status    `json:"status"`
}

// CreatePeriodRequest is what rotation sends to open a new period.
type CreatePeriodRequest struct {
	TeacherID      string
	UserID         string
	MonthYear      string
	AttendanceDays int
	Deductions     string
	Status         Status
}

func NewCreatePeriodRequest(teacherID, userID, monthYear string) CreatePeriodRequest {
	return CreatePeriodRequest{
		TeacherID:      teacherID,
		UserID:         userID,
		MonthYear:      monthYear,
		AttendanceDays: DefaultAttendanceDays,
		Deductions:     DefaultDeductions,
		Status:         StatusPending,
	}
}
