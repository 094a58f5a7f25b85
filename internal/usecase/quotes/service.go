package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// PriceSource returns EUR prices keyed by symbol
type PriceSource interface {
	Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// QuoteService revalues quoted holdings from live prices
type QuoteService struct {
	Source PriceSource
	Log    logrus.FieldLogger

	now func() time.Time
}

// NewQuoteService creates a new QuoteService instance
func NewQuoteService(source PriceSource, log logrus.FieldLogger) *QuoteService {
	return &QuoteService{
		Source: source,
		Log:    log,
		now:    time.Now,
	}
}

// quoted reports whether a record is valued from a live price
func quoted(r *domain.Record) bool {
	return r != nil && r.Type == domain.TypeCrypto && r.Symbol != "" && r.Quantity.IsPositive()
}

// Revalue returns records with every quoted holding valued at
// Quantity * price in EUR, plus the quotes that were applied.
// Logic:
//   - Input records are never mutated; revalued ones are copies
//   - Holdings without a price keep their stored value
//   - A failing price source leaves every record unchanged
func (s *QuoteService) Revalue(ctx context.Context, records []*domain.Record) ([]*domain.Record, []domain.Quote) {
	symbols := make([]string, 0)
	seen := make(map[string]bool)
	for _, r := range records {
		if !quoted(r) {
			continue
		}
		symbol := strings.ToLower(r.Symbol)
		if !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}

	if len(symbols) == 0 || s.Source == nil {
		return records, nil
	}

	prices, err := s.Source.Prices(ctx, symbols)
	if err != nil {
		s.Log.WithError(err).Warn("price source unavailable, keeping stored values")
		return records, nil
	}

	asOf := s.now().UTC()
	quotes := make([]domain.Quote, 0, len(prices))
	for _, symbol := range symbols {
		if price, ok := prices[symbol]; ok {
			quotes = append(quotes, domain.Quote{
				Symbol:   symbol,
				Currency: domain.BaseCurrency,
				Price:    price,
				AsOf:     asOf,
			})
		}
	}

	out := make([]*domain.Record, len(records))
	for i, r := range records {
		out[i] = r
		if !quoted(r) {
			continue
		}
		price, ok := prices[strings.ToLower(r.Symbol)]
		if !ok {
			s.Log.WithFields(logrus.Fields{
				"record_id": r.ID,
				"symbol":    r.Symbol,
			}).Debug("no quote, keeping stored value")
			continue
		}
		revalued := *r
		revalued.Value = r.Quantity.Mul(price)
		revalued.Currency = domain.BaseCurrency
		out[i] = &revalued
	}

	return out, quotes
}
