package payroll_test

import (
	"fmt"
	"testing"
	"time"

	"etqan-payroll/internal/payroll"
	payrollerrors "etqan-payroll/internal/payroll/errors"

	"github.com/stretchr/testify/assert"
)

var filterNow = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return filterNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func samplePeriods() []payroll.Period {
	return []payroll.Period{
		{ID: "1", TeacherName: "Amina Yusuf", Role: "Quran Teacher", Status: payroll.StatusPending, PeriodStart: daysAgo(45), TotalDue: "1000"},
		{ID: "2", TeacherName: "Omar Faruq", Role: "Arabic Tutor", Status: payroll.StatusPending, PeriodStart: daysAgo(10), TotalDue: "800.50"},
		{ID: "3", TeacherName: "Layla Hassan", Role: "Quran Teacher", Status: payroll.StatusPaid, PeriodStart: daysAgo(60), TotalDue: "1200"},
		{ID: "4", TeacherName: "Bilal Ahmed", Role: "Tajweed", Status: payroll.StatusPending, PeriodStart: daysAgo(30), TotalDue: "oops"},
		{ID: "5", TeacherName: "Sara Ali", Role: "Arabic Tutor", Status: payroll.StatusPending, TotalDue: "500"},
	}
}

func ids(items []payroll.Period) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestParseStatusFilter(t *testing.T) {
	for _, s := range []string{"all", "pending", "pending_old", "paid", " PAID "} {
		_, err := payroll.ParseStatusFilter(s)
		assert.NoError(t, err, s)
	}

	f, err := payroll.ParseStatusFilter("")
	assert.NoError(t, err)
	assert.Equal(t, payroll.FilterAll, f)

	_, err = payroll.ParseStatusFilter("overdue")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusFilter)
}

func TestStatusFilter_BackendStatus(t *testing.T) {
	assert.Equal(t, "", payroll.FilterAll.BackendStatus())
	assert.Equal(t, "pending", payroll.FilterPending.BackendStatus())
	assert.Equal(t, "pending", payroll.FilterPendingOld.BackendStatus())
	assert.Equal(t, "paid", payroll.FilterPaid.BackendStatus())
}

func TestFilterPeriods(t *testing.T) {
	items := samplePeriods()

	tests := []struct {
		name   string
		params payroll.QueryParams
		want   []string
	}{
		{"all", payroll.QueryParams{}, []string{"1", "2", "3", "4", "5"}},
		{"pending", payroll.QueryParams{Status: payroll.FilterPending}, []string{"1", "2", "4", "5"}},
		{"pending_old", payroll.QueryParams{Status: payroll.FilterPendingOld}, []string{"1", "4"}},
		{"paid", payroll.QueryParams{Status: payroll.FilterPaid}, []string{"3"}},
		{"search by name", payroll.QueryParams{Search: "amina"}, []string{"1"}},
		{"search by role", payroll.QueryParams{Search: "QURAN"}, []string{"1", "3"}},
		{"search and status", payroll.QueryParams{Search: "arabic", Status: payroll.FilterPending}, []string{"2", "5"}},
		{"no match", payroll.QueryParams{Search: "nobody"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(payroll.FilterPeriods(items, tt.params, filterNow)))
		})
	}
}

// pending_old must select exactly the pending records at least 30 days old.
func TestFilterPeriods_PendingOldIsExact(t *testing.T) {
	var items []payroll.Period
	for age := 0; age <= 90; age += 3 {
		for _, st := range []payroll.Status{payroll.StatusPending, payroll.StatusPaid} {
			items = append(items, payroll.Period{
				ID:          fmt.Sprintf("%s-%d", st, age),
				Status:      st,
				PeriodStart: daysAgo(age),
			})
		}
	}

	got := payroll.FilterPeriods(items, payroll.QueryParams{Status: payroll.FilterPendingOld}, filterNow)

	selected := map[string]bool{}
	for _, p := range got {
		selected[p.ID] = true
	}
	for _, p := range items {
		want := p.Status == payroll.StatusPending && filterNow.Sub(p.PeriodStart) >= 30*24*time.Hour
		assert.Equal(t, want, selected[p.ID], p.ID)
	}
}
