package valueobjects

import (
	"fmt"
	"time"
)

// BillingInterval is the Stripe recurring interval of a plan.
type BillingInterval string

const (
	IntervalMonth BillingInterval = "month"
	IntervalYear  BillingInterval = "year"
)

func (i BillingInterval) String() string {
	return string(i)
}

func (i BillingInterval) IsValid() bool {
	return i == IntervalMonth || i == IntervalYear
}

// PeriodEnd returns the end of the billing period starting at start.
func (i BillingInterval) PeriodEnd(start time.Time) time.Time {
	if i == IntervalYear {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

func NewBillingInterval(s string) (BillingInterval, error) {
	i := BillingInterval(s)
	if !i.IsValid() {
		return "", fmt.Errorf("invalid billing interval: %s", s)
	}
	return i, nil
}
