package license

import (
	"time"
)

// UsageMeter tracks per-organization, per-calendar-month counters for
// metered resources. Periods are UTC months formatted YYYY-MM; a new
// period starts from a fresh zeroed record and old records are retained.
type UsageMeter struct {
	store *Store
	now   func() time.Time
}

// ExecutionLimitResult reports whether another execution is allowed this
// period.
type ExecutionLimitResult struct {
	Allowed   bool  `json:"allowed"`
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
}

// NewUsageMeter creates a meter over the store using the wall clock.
func NewUsageMeter(store *Store) *UsageMeter {
	return &UsageMeter{store: store, now: time.Now}
}

// CurrentPeriod returns the UTC calendar-month identifier for now.
func (m *UsageMeter) CurrentPeriod() string {
	return m.now().UTC().Format("2006-01")
}

// Record increments the counter for the current period.
func (m *UsageMeter) Record(organizationID, resource string, amount int64) (*UsageRecord, error) {
	return m.store.AddUsage(organizationID, m.CurrentPeriod(), resource, amount)
}

// Current returns the current period's record without mutating state.
func (m *UsageMeter) Current(organizationID string) UsageRecord {
	return m.store.Usage(organizationID, m.CurrentPeriod())
}

// CheckExecutionLimit compares this period's executions against the
// license's monthly quota. Unlimited plans always allow.
func (m *UsageMeter) CheckExecutionLimit(l *License) ExecutionLimitResult {
	limit, ok := l.Limits[LimitExecutionsPerMonth]
	if !ok || limit == Unlimited {
		return ExecutionLimitResult{Allowed: true, Limit: Unlimited, Remaining: Unlimited,
			Used: m.Current(l.OrganizationID).Executions}
	}

	used := m.Current(l.OrganizationID).Executions
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return ExecutionLimitResult{
		Allowed:   used < limit,
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
	}
}
