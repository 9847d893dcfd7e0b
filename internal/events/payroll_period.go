package events

import "time"

const PayrollPeriodTopic = "tutoring.payroll.period.v1"

const (
	PayrollPeriodCreated = "payroll_period_created"
	PayrollPeriodPaid    = "payroll_period_paid"
)

type PayrollPeriodCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PeriodID   string    `json:"period_id"`
	TeacherID  string    `json:"teacher_id"`
	UserID     string    `json:"user_id"`
	MonthYear  string    `json:"month_year"`
	Trigger    string    `json:"trigger,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e PayrollPeriodCreatedEvent) EventName() string     { return PayrollPeriodCreated }
func (e PayrollPeriodCreatedEvent) EventTopic() string    { return PayrollPeriodTopic }
func (e PayrollPeriodCreatedEvent) EventKey() string      { return e.TeacherID }
func (e PayrollPeriodCreatedEvent) AggregateType() string { return "payroll_period" }
func (e PayrollPeriodCreatedEvent) DedupeKey() string {
	return PayrollPeriodCreated + ":" + e.TeacherID + ":" + e.MonthYear
}

type PayrollPeriodPaidEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PeriodID   string    `json:"period_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e PayrollPeriodPaidEvent) EventName() string     { return PayrollPeriodPaid }
func (e PayrollPeriodPaidEvent) EventTopic() string    { return PayrollPeriodTopic }
func (e PayrollPeriodPaidEvent) EventKey() string      { return e.PeriodID }
func (e PayrollPeriodPaidEvent) AggregateType() string { return "payroll_period" }
func (e PayrollPeriodPaidEvent) DedupeKey() string     { return PayrollPeriodPaid + ":" + e.PeriodID }
