package payroll

import "time"

const MonthKeyLayout = "2006-01"

// SuccessionWindow is how old a period must be before the next one may open.
const SuccessionWindow = 30 * 24 * time.Hour

func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// NextMonthKey anchors on the first of the month so that e.g. Jan 31 maps
// to February rather than overflowing into March.
func NextMonthKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthKey(first.AddDate(0, 1, 0))
}

func ParseMonthKey(s string) (time.Time, error) {
	return time.Parse(MonthKeyLayout, s)
}

func (p Period) Age(now time.Time) time.Duration {
	return now.Sub(p.PeriodStart)
}

// Fresh reports whether the period still blocks a successor. A period with
// no known start is treated as fresh.
func (p Period) Fresh(now time.Time) bool {
	if p.PeriodStart.IsZero() {
		return true
	}
	return p.Age(now) < SuccessionWindow
}

// Stale is a pending period whose window has already elapsed.
func (p Period) Stale(now time.Time) bool {
	return p.Status == StatusPending && !p.Fresh(now)
}
