package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
)

// The view types below are the JSON shapes shared by the HTTP and gRPC transports

// RatesView describes a rate table
type RatesView struct {
	Base      string                     `json:"base"`
	Source    domain.RateSource          `json:"source"`
	FetchedAt time.Time                  `json:"fetched_at"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// NewRatesView builds the view of a rate table
func NewRatesView(t domain.RateTable) RatesView {
	return RatesView{
		Base:      t.Base,
		Source:    t.Source,
		FetchedAt: t.FetchedAt,
		Rates:     t.Rates(),
	}
}

// QuoteView describes a live price applied to a holding
type QuoteView struct {
	Symbol   string          `json:"symbol"`
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
	AsOf     time.Time       `json:"as_of"`
}

// NetWorthView is the response of a net-worth query
type NetWorthView struct {
	UserID uuid.UUID          `json:"user_id"`
	Rates  RatesView          `json:"rates"`
	Quotes []QuoteView        `json:"quotes,omitempty"`
	Result *aggregator.Result `json:"result"`
}

// View builds the transport view of a report
func (r *Report) View() NetWorthView {
	v := NetWorthView{
		UserID: r.UserID,
		Rates:  NewRatesView(r.Rates),
		Result: r.Result,
	}
	for _, q := range r.Quotes {
		v.Quotes = append(v.Quotes, QuoteView(q))
	}
	return v
}

// SnapshotView summarizes a stored snapshot
type SnapshotView struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Date      string          `json:"date"`
	NetWorth  decimal.Decimal `json:"net_worth"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSnapshotView builds the summary of a snapshot
func NewSnapshotView(s *domain.Snapshot) SnapshotView {
	return SnapshotView{
		ID:        s.ID,
		UserID:    s.UserID,
		Date:      s.Date.Format("2006-01-02"),
		NetWorth:  s.NetWorth,
		CreatedAt: s.CreatedAt,
	}
}

// SnapshotListView is the response of a snapshot history query
type SnapshotListView struct {
	Snapshots []SnapshotView `json:"snapshots"`
}

// NewSnapshotListView builds the history view, never with a nil slice
func NewSnapshotListView(snaps []*domain.Snapshot) SnapshotListView {
	v := SnapshotListView{Snapshots: make([]SnapshotView, 0, len(snaps))}
	for _, s := range snaps {
		v.Snapshots = append(v.Snapshots, NewSnapshotView(s))
	}
	return v
}
