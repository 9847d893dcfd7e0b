package rotation_test

import (
	"testing"
	"time"

	"etqan-payroll/internal/employee"
	"etqan-payroll/internal/payroll"
	"etqan-payroll/internal/rotation"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDecide(t *testing.T) {
	emp := employee.Employee{ID: "u-1", Name: "Amina", TeacherID: "t-1", Active: true}
	now := day(2026, time.January, 15)

	t.Run("no periods bootstraps current month", func(t *testing.T) {
		got := rotation.Decide(emp, nil, now)
		assert.Equal(t, rotation.CreateForMonth("2026-01"), got)
	})

	t.Run("only older months bootstraps current month", func(t *testing.T) {
		periods := []payroll.Period{{TeacherID: "t-1", MonthYear: "2025-12", PeriodStart: day(2025, time.November, 20)}}
		got := rotation.Decide(emp, periods, now)
		assert.Equal(t, rotation.CreateForMonth("2026-01"), got)
	})

	t.Run("29 days old is still fresh", func(t *testing.T) {
		periods := []payroll.Period{{TeacherID: "t-1", MonthYear: "2026-01", PeriodStart: now.Add(-29 * 24 * time.Hour)}}
		got := rotation.Decide(emp, periods, now)
		assert.Equal(t, rotation.Skip(), got)
	})

	t.Run("exactly 30 days old rolls over", func(t *testing.T) {
		periods := []payroll.Period{{TeacherID: "t-1", MonthYear: "2026-01", PeriodStart: now.Add(-30 * 24 * time.Hour)}}
		got := rotation.Decide(emp, periods, now)
		assert.Equal(t, rotation.CreateForMonth("2026-02"), got)
	})

	t.Run("45 day old pending period opens next month", func(t *testing.T) {
		periods := []payroll.Period{{TeacherID: "t-1", MonthYear: "2026-01", PeriodStart: day(2025, time.December, 1), Status: payroll.StatusPending}}
		got := rotation.Decide(emp, periods, now)
		assert.Equal(t, rotation.CreateForMonth("2026-02"), got)
	})

	t.Run("unknown start is fresh", func(t *testing.T) {
		periods := []payroll.Period{{TeacherID: "t-1", MonthYear: "2026-01"}}
		got := rotation.Decide(emp, periods, now)
		assert.Equal(t, rotation.Skip(), got)
	})

	t.Run("latest start wins among duplicates", func(t *testing.T) {
		periods := []payroll.Period{
			{TeacherID: "t-1", MonthYear: "2026-01", PeriodStart: day(2025, time.November, 1)},
			{TeacherID: "t-1", MonthYear: "2026-01", PeriodStart: day(2026, time.January, 10)},
		}
		got := rotation.Decide(emp, periods, now)
		assert.Equal(t, rotation.Skip(), got)
	})

	t.Run("other teachers periods are ignored", func(t *testing.T) {
		periods := []payroll.Period{{TeacherID: "t-2", MonthYear: "2026-01", PeriodStart: day(2026, time.January, 10)}}
		got := rotation.Decide(emp, periods, now)
		assert.Equal(t, rotation.CreateForMonth("2026-01"), got)
	})

	t.Run("month end does not skip february", func(t *testing.T) {
		jan31 := day(2026, time.January, 31)
		periods := []payroll.Period{{TeacherID: "t-1", MonthYear: "2026-01", PeriodStart: day(2025, time.December, 15)}}
		got := rotation.Decide(emp, periods, jan31)
		assert.Equal(t, rotation.CreateForMonth("2026-02"), got)
	})

	t.Run("december rolls into next year", func(t *testing.T) {
		dec := day(2026, time.December, 20)
		periods := []payroll.Period{{TeacherID: "t-1", MonthYear: "2026-12", PeriodStart: day(2026, time.November, 1)}}
		got := rotation.Decide(emp, periods, dec)
		assert.Equal(t, rotation.CreateForMonth("2027-01"), got)
	})
}
