package ticket

import (
	"context"
	"fmt"
	"time"
)

// NumberGenerator issues human-readable ticket numbers.
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

const numberDateLayout = "20060102"

// FormatNumber renders the seq-th ticket of day as TKT-YYYYMMDD-XXXX.
func FormatNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("TKT-%s-%04d", day.UTC().Format(numberDateLayout), seq)
}

// NumberDayKey returns the per-day counter suffix for day.
func NumberDayKey(day time.Time) string {
	return day.UTC().Format(numberDateLayout)
}
