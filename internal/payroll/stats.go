package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stats is derived from whatever view is loaded; it is never persisted.
type Stats struct {
	TotalDue     decimal.Decimal `json:"total_due"`
	TotalPending decimal.Decimal `json:"total_pending"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	PendingCount int             `json:"pending_count"`
	PaidCount    int             `json:"paid_count"`
	StaleCount   int             `json:"stale_count"`
	CurrentMonth string          `json:"current_month"`
}

// ComputeStats aggregates the given view. Unparseable amounts count as zero.
func ComputeStats(items []Period, now time.Time) Stats {
	stats := Stats{
		TotalDue:     decimal.Zero,
		TotalPending: decimal.Zero,
		CurrentMonth: MonthKey(now),
	}

	for _, p := range items {
		due := ParseAmount(p.TotalDue)
		stats.TotalDue = stats.TotalDue.Add(due)

		switch p.Status {
		case StatusPending:
			stats.TotalPending = stats.TotalPending.Add(due)
			stats.PendingCount++
			if p.Stale(now) {
				stats.StaleCount++
			}
		case StatusPaid:
			stats.PaidCount++
		}
	}

	stats.TotalPaid = stats.TotalDue.Sub(stats.TotalPending)
	return stats
}

func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
