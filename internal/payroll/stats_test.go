package payroll_test

import (
	"fmt"
	"math/rand"
	"testing"

	"etqan-payroll/internal/payroll"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	stats := payroll.ComputeStats(samplePeriods(), filterNow)

	assert.Equal(t, "3500.5", stats.TotalDue.String())
	assert.Equal(t, "2300.5", stats.TotalPending.String())
	assert.Equal(t, "1200", stats.TotalPaid.String())
	assert.Equal(t, 4, stats.PendingCount)
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 2, stats.StaleCount)
	assert.Equal(t, "2026-01", stats.CurrentMonth)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := payroll.ComputeStats(nil, filterNow)

	assert.True(t, stats.TotalDue.IsZero())
	assert.True(t, stats.TotalPaid.IsZero())
	assert.Equal(t, 0, stats.PendingCount)
}

// For any set, paid + pending == due and due is the sum of the parsed amounts.
func TestComputeStats_SumsAreConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	amounts := []string{"", "abc", "12.34", "1e3", "-5", "0.01", "999999.99", " 42 "}

	for round := 0; round < 50; round++ {
		var items []payroll.Period
		want := decimal.Zero
		n := rng.Intn(20)
		for i := 0; i < n; i++ {
			var amount string
			if rng.Intn(3) == 0 {
				amount = amounts[rng.Intn(len(amounts))]
			} else {
				amount = fmt.Sprintf("%d.%02d", rng.Intn(5000), rng.Intn(100))
			}
			status := payroll.StatusPending
			if rng.Intn(2) == 0 {
				status = payroll.StatusPaid
			}
			items = append(items, payroll.Period{Status: status, TotalDue: amount, PeriodStart: daysAgo(rng.Intn(90))})
			want = want.Add(payroll.ParseAmount(amount))
		}

		stats := payroll.ComputeStats(items, filterNow)

		assert.True(t, stats.TotalPaid.Add(stats.TotalPending).Equal(stats.TotalDue))
		assert.True(t, want.Equal(stats.TotalDue))
		assert.Equal(t, len(items), stats.PendingCount+stats.PaidCount)
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "12.5", payroll.ParseAmount(" 12.50 ").String())
	assert.True(t, payroll.ParseAmount("n/a").IsZero())
	assert.True(t, payroll.ParseAmount("").IsZero())
}
