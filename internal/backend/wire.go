package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"etqan-payroll/internal/employee"
	"etqan-payroll/internal/payroll"
)

// flexString accepts ids and amounts sent either as JSON strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type wireEmployee struct {
	ID        flexString `json:"id"`
	Name      string     `json:"name"`
	TeacherID flexString `json:"teacherId"`
	Active    *bool      `json:"active"`
}

func (w wireEmployee) toEmployee() employee.Employee {
	active := true
	if w.Active != nil {
		active = *w.Active
	}
	return employee.Employee{
		ID:        string(w.ID),
		Name:      w.Name,
		TeacherID: string(w.TeacherID),
		Active:    active,
	}
}

type wirePeriod struct {
	ID             flexString `json:"id"`
	TeacherID      flexString `json:"teacherId"`
	UserID         flexString `json:"userId"`
	TeacherName    string     `json:"teacherName"`
	Role           string     `json:"role"`
	MonthYear      string     `json:"monthYear"`
	PeriodStart    string     `json:"periodStart"`
	AttendanceDays int        `json:"attendanceDays"`
	Deductions     flexString `json:"deductions"`
	BaseSalary     flexString `json:"baseSalary"`
	TotalDue       flexString `json:"totalDue"`
	Status         string     `json:"status"`
}

func (w wirePeriod) toPeriod() payroll.Period {
	return payroll.Period{
		ID:             string(w.ID),
		TeacherID:      string(w.TeacherID),
		UserID:         string(w.UserID),
		TeacherName:    w.TeacherName,
		Role:           w.Role,
		MonthYear:      w.MonthYear,
		PeriodStart:    parseTimestamp(w.PeriodStart),
		AttendanceDays: w.AttendanceDays,
		Deductions:     string(w.Deductions),
		BaseSalary:     string(w.BaseSalary),
		TotalDue:       string(w.TotalDue),
		Status:         payroll.Status(strings.ToLower(w.Status)),
	}
}

type wireCreatePeriod struct {
	TeacherID      string `json:"teacherId"`
	UserID         string `json:"userId"`
	AttendanceDays int    `json:"attendanceDays"`
	Deductions     string `json:"deductions"`
	Status         string `json:"status"`
	MonthYear      string `json:"monthYear"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp returns the zero time for values it cannot read.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// decodeList reads either {"data": [...]} or a bare array.
func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []T
		err := json.Unmarshal(body, &items)
		return items, err
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// decodeOne reads either {"data": {...}} or a bare object.
func decodeOne[T any](body []byte) (T, error) {
	var env struct {
		Data *T `json:"data"`
	}
	var zero T
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return *env.Data, nil
	}
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return zero, err
	}
	return item, nil
}
