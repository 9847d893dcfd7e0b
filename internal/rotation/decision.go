package rotation

import (
	"time"

	"etqan-payroll/internal/employee"
	"etqan-payroll/internal/payroll"
)

type ActionKind string

const (
	ActionSkip   ActionKind = "skip"
	ActionCreate ActionKind = "create"
)

// Action is what rotation should do for one employee. MonthYear is set only
// for ActionCreate.
type Action struct {
	Kind      ActionKind
	MonthYear string
}

func Skip() Action {
	return Action{Kind: ActionSkip}
}

func CreateForMonth(monthYear string) Action {
	return Action{Kind: ActionCreate, MonthYear: monthYear}
}

// Decide picks the next action for emp given its existing periods:
//
//   - no period for the current month: open one for the current month
//   - the current month's period is younger than the succession window: skip
//   - otherwise: open one for the following month
//
// Periods belonging to another teacher are ignored. When several periods
// share the current month key the one with the latest start wins.
func Decide(emp employee.Employee, periods []payroll.Period, now time.Time) Action {
	currentKey := payroll.MonthKey(now)

	var current *payroll.Period
	for i := range periods {
		p := &periods[i]
		if p.MonthYear != currentKey {
			continue
		}
		if emp.TeacherID != "" && p.TeacherID != "" && p.TeacherID != emp.TeacherID {
			continue
		}
		if current == nil || p.PeriodStart.After(current.PeriodStart) {
			current = p
		}
	}

	if current == nil {
		return CreateForMonth(currentKey)
	}
	if current.Fresh(now) {
		return Skip()
	}
	return CreateForMonth(payroll.NextMonthKey(now))
}
