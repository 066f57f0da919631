package domain

import (
	"fmt"
	"time"
)

// DateRange is a half-open-by-day slice of the ledger. The zero value means
// "unscoped": operations keyed on it apply to the entire mirror.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsUnscoped reports whether the range covers the whole mirror.
func (r DateRange) IsUnscoped() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// StartOfDay returns the range start normalised to 00:00:00 UTC.
func (r DateRange) StartOfDay() time.Time {
	y, m, d := r.Start.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the range end normalised to 23:59:59.999999999 UTC.
func (r DateRange) EndOfDay() time.Time {
	y, m, d := r.End.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// MirrorWindow identifies one (date range, kind) slice of remote data that the
// local mirror may claim to faithfully reflect.
type MirrorWindow struct {
	Range DateRange       `json:"range"`
	Kind  TransactionKind `json:"kind"`
}

// Key is the canonical identity of the window, used for freshness tracking
// and for serializing refreshes of the same slice.
func (w MirrorWindow) Key() string {
	if w.Range.IsUnscoped() {
		return fmt.Sprintf("window:all:%s", w.Kind)
	}
	return fmt.Sprintf("window:%s:%s:%s",
		w.Range.Start.UTC().Format("2006-01-02"),
		w.Range.End.UTC().Format("2006-01-02"),
		w.Kind)
}
