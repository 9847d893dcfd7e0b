package payroll

import (
	"time"
)

type ListPeriodsRequest struct {
	Search   string `form:"search" binding:"omitempty,max=120"`
	Status   string `form:"status" binding:"omitempty,oneof=all pending pending_old paid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

type BoardParamsRequest struct {
	Search string `json:"search" binding:"omitempty,max=120"`
	Status string `json:"status" binding:"omitempty,oneof=all pending pending_old paid"`
}

type PeriodResponse struct {
	ID             string `json:"id"`
	TeacherID      string `json:"teacher_id"`
	UserID         string `json:"user_id"`
	TeacherName    string `json:"teacher_name,omitempty"`
	Role           string `json:"role,omitempty"`
	MonthYear      string `json:"month_year"`
	PeriodStart    string `json:"period_start,omitempty"`
	AgeDays        int    `json:"age_days"`
	Stale          bool   `json:"stale"`
	AttendanceDays int    `json:"attendance_days"`
	Deductions     string `json:"deductions"`
	BaseSalary     string `json:"base_salary"`
	TotalDue       string `json:"total_due"`
	Status         string `json:"status"`
}

type StatsResponse struct {
	TotalDue     string `json:"total_due"`
	TotalPending string `json:"total_pending"`
	TotalPaid    string `json:"total_paid"`
	PendingCount int    `json:"pending_count"`
	PaidCount    int    `json:"paid_count"`
	StaleCount   int    `json:"stale_count"`
	CurrentMonth string `json:"current_month"`
}

type PeriodListResponse struct {
	Items []PeriodResponse `json:"items"`
	Stats StatsResponse    `json:"stats"`
}

type BoardResponse struct {
	Search    string           `json:"search"`
	Status    string           `json:"status"`
	Items     []PeriodResponse `json:"items"`
	Stats     StatsResponse    `json:"stats"`
	LoadedAt  *string          `json:"loaded_at,omitempty"`
	Pending   bool             `json:"pending"`
	LastError *string          `json:"last_error,omitempty"`
}

type MarkPaidResponse struct {
	ID     string `json:"id"`
	Paid   bool   `json:"paid"`
	State  string `json:"state"`
	Status string `json:"status"`
}

func mapToResponse(p Period, now time.Time) PeriodResponse {
	resp := PeriodResponse{
		ID:             p.ID,
		TeacherID:      p.TeacherID,
		UserID:         p.UserID,
		TeacherName:    p.TeacherName,
		Role:           p.Role,
		MonthYear:      p.MonthYear,
		Stale:          p.Stale(now),
		AttendanceDays: p.AttendanceDays,
		Deductions:     p.Deductions,
		BaseSalary:     p.BaseSalary,
		TotalDue:       p.TotalDue,
		Status:         string(p.Status),
	}
	if !p.PeriodStart.IsZero() {
		resp.PeriodStart = p.PeriodStart.Format(time.RFC3339)
		resp.AgeDays = int(p.Age(now).Hours() / 24)
	}
	return resp
}

func mapToListResponse(items []Period, now time.Time) []PeriodResponse {
	resp := make([]PeriodResponse, len(items))
	for i, p := range items {
		resp[i] = mapToResponse(p, now)
	}
	return resp
}

func mapStatsResponse(s Stats) StatsResponse {
	return StatsResponse{
		TotalDue:     s.TotalDue.StringFixed(2),
		TotalPending: s.TotalPending.StringFixed(2),
		TotalPaid:    s.TotalPaid.StringFixed(2),
		PendingCount: s.PendingCount,
		PaidCount:    s.PaidCount,
		StaleCount:   s.StaleCount,
		CurrentMonth: s.CurrentMonth,
	}
}

func mapBoardResponse(s BoardSnapshot, now time.Time) BoardResponse {
	resp := BoardResponse{
		Search:  s.Params.Search,
		Status:  string(s.Params.Status),
		Items:   mapToListResponse(s.Items, now),
		Stats:   mapStatsResponse(s.Stats),
		Pending: s.Pending,
	}
	if !s.LoadedAt.IsZero() {
		v := s.LoadedAt.Format(time.RFC3339)
		resp.LoadedAt = &v
	}
	if s.LastError != nil {
		v := s.LastError.Error()
		resp.LastError = &v
	}
	return resp
}
