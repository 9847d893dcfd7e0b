package payroll

import (
	"strings"
	"time"

	payrollerrors "etqan-payroll/internal/payroll/errors"
)

type StatusFilter string

const (
	FilterAll        StatusFilter = "all"
	FilterPending    StatusFilter = "pending"
	FilterPendingOld StatusFilter = "pending_old"
	FilterPaid       StatusFilter = "paid"
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterPendingOld, FilterPaid:
		return f, nil
	default:
		return "", payrollerrors.ErrInvalidStatusFilter
	}
}

// BackendStatus is the status value sent upstream. The backend has no notion
// of pending_old, so it is asked for pending and narrowed locally.
func (f StatusFilter) BackendStatus() string {
	switch f {
	case FilterPending, FilterPendingOld:
		return string(StatusPending)
	case FilterPaid:
		return string(StatusPaid)
	default:
		return ""
	}
}

func (f StatusFilter) Match(p Period, now time.Time) bool {
	switch f {
	case FilterPending:
		return p.Status == StatusPending
	case FilterPendingOld:
		return p.Stale(now)
	case FilterPaid:
		return p.Status == StatusPaid
	default:
		return true
	}
}

// QueryParams replaces the dashboard's ambient search/filter state.
type QueryParams struct {
	Search string       `json:"search"`
	Status StatusFilter `json:"status"`
}

func (q QueryParams) Normalize() QueryParams {
	q.Search = strings.TrimSpace(q.Search)
	if q.Status == "" {
		q.Status = FilterAll
	}
	return q
}

// MatchSearch is a case-insensitive substring match on teacher name or role.
func MatchSearch(p Period, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.TeacherName), needle) ||
		strings.Contains(strings.ToLower(p.Role), needle)
}

// FilterPeriods derives the filtered view. The input slice is not modified.
func FilterPeriods(items []Period, params QueryParams, now time.Time) []Period {
	params = params.Normalize()
	out := make([]Period, 0, len(items))
	for _, p := range items {
		if !MatchSearch(p, params.Search) {
			continue
		}
		if !params.Status.Match(p, now) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterByStatus applies only the status predicate.
func FilterByStatus(items []Period, status StatusFilter, now time.Time) []Period {
	return FilterPeriods(items, QueryParams{Status: status}, now)
}
