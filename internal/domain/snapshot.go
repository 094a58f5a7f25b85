package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price used to value a record
type Quote struct {
	Symbol   string
	Currency string
	Price    decimal.Decimal
	AsOf     time.Time
}

// Snapshot is a persisted, dated copy of an aggregation result.
// Unique per (UserID, Date); Date is a calendar day at midnight in the
// user's timezone.
type Snapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Date      time.Time
	Payload   []byte // serialized aggregation result, opaque to storage
	Rates     map[string]decimal.Decimal
	Quotes    []Quote
	NetWorth  decimal.Decimal // denormalized for listing without decoding Payload
	CreatedAt time.Time
}

// CalendarDay truncates t to midnight of its calendar day in loc
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
