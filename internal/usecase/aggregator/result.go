package aggregator

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// Bucket is one labelled total of a breakdown, in base currency
type Bucket struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Breakdown groups gross values by type, country and currency.
// Buckets are sorted by value descending, ties keep discovery order.
type Breakdown struct {
	ByType     []Bucket `json:"by_type"`
	ByCountry  []Bucket `json:"by_country"`
	ByCurrency []Bucket `json:"by_currency"`
}

// Map turns an ordered bucket list into a label lookup
func Map(buckets []Bucket) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(buckets))
	for _, b := range buckets {
		out[b.Label] = b.Value
	}
	return out
}

// TierTotals holds one amount per certainty tier
type TierTotals struct {
	Certain     decimal.Decimal `json:"certain"`
	Contractual decimal.Decimal `json:"contractual"`
	Probable    decimal.Decimal `json:"probable"`
	Optional    decimal.Decimal `json:"optional"`
}

// Get returns the amount of a tier
func (t TierTotals) Get(tier domain.CertaintyTier) decimal.Decimal {
	switch tier {
	case domain.CertaintyContractual:
		return t.Contractual
	case domain.CertaintyProbable:
		return t.Probable
	case domain.CertaintyOptional:
		return t.Optional
	default:
		return t.Certain
	}
}

func (t *TierTotals) add(tier domain.CertaintyTier, amount decimal.Decimal) {
	switch tier {
	case domain.CertaintyContractual:
		t.Contractual = t.Contractual.Add(amount)
	case domain.CertaintyProbable:
		t.Probable = t.Probable.Add(amount)
	case domain.CertaintyOptional:
		t.Optional = t.Optional.Add(amount)
	default:
		t.Certain = t.Certain.Add(amount)
	}
}

// Total sums all four tiers
func (t TierTotals) Total() decimal.Decimal {
	return t.Confirmed().Add(t.Projected())
}

// Confirmed is certain + contractual
func (t TierTotals) Confirmed() decimal.Decimal {
	return t.Certain.Add(t.Contractual)
}

// Projected is probable + optional
func (t TierTotals) Projected() decimal.Decimal {
	return t.Probable.Add(t.Optional)
}

// percentOf expresses every tier as a percentage of denominator.
// A zero denominator yields zero percentages.
func (t TierTotals) percentOf(denominator decimal.Decimal) TierTotals {
	if denominator.IsZero() {
		return TierTotals{Certain: decimal.Zero, Contractual: decimal.Zero, Probable: decimal.Zero, Optional: decimal.Zero}
	}
	pct := func(v decimal.Decimal) decimal.Decimal {
		return v.Div(denominator).Mul(hundred)
	}
	return TierTotals{
		Certain:     pct(t.Certain),
		Contractual: pct(t.Contractual),
		Probable:    pct(t.Probable),
		Optional:    pct(t.Optional),
	}
}

// EntityTotal is the allocated share of every category owned by one entity
type EntityTotal struct {
	Owner        domain.Owner    `json:"owner"`
	Name         string          `json:"name,omitempty"` // empty for unknown entity ids
	Assets       decimal.Decimal `json:"assets"`
	Collectibles decimal.Decimal `json:"collectibles"`
	Liabilities  decimal.Decimal `json:"liabilities"`
	Receivables  decimal.Decimal `json:"receivables"`
	Net          decimal.Decimal `json:"net"`
}

// IsEmpty reports whether the entity owns nothing in any category
func (e EntityTotal) IsEmpty() bool {
	return e.Assets.IsZero() && e.Collectibles.IsZero() && e.Liabilities.IsZero() && e.Receivables.IsZero()
}

// WarningKind classifies a data quality issue found while aggregating
type WarningKind string

const (
	WarningUnresolvedCurrency WarningKind = "UNRESOLVED_CURRENCY"
	WarningUnknownType        WarningKind = "UNKNOWN_TYPE"
	WarningUnknownEntity      WarningKind = "UNKNOWN_ENTITY"
	WarningOwnershipSum       WarningKind = "OWNERSHIP_SUM"
)

// Warning is a diagnostic; warnings never change the computed figures
type Warning struct {
	Kind     WarningKind `json:"kind"`
	RecordID uuid.UUID   `json:"record_id"`
	Detail   string      `json:"detail"`
}

// Result is the derived view of a set of records, all amounts in base currency
type Result struct {
	Currency string `json:"currency"`

	GrossAssets       decimal.Decimal `json:"gross_assets"`
	GrossCollectibles decimal.Decimal `json:"gross_collectibles"`
	GrossLiabilities  decimal.Decimal `json:"gross_liabilities"`
	GrossReceivables  decimal.Decimal `json:"gross_receivables"`
	NetWorth          decimal.Decimal `json:"net_worth"`

	// IncludesReceivables tells whether receivables are folded into NetWorth
	IncludesReceivables bool `json:"includes_receivables"`

	Assets      Breakdown `json:"assets"` // assets and collectibles
	Liabilities Breakdown `json:"liabilities"`
	Receivables Breakdown `json:"receivables"`

	Entities []EntityTotal `json:"entities"`

	CertaintyAssets      TierTotals `json:"certainty_assets"` // assets and collectibles
	CertaintyLiabilities TierTotals `json:"certainty_liabilities"`
	CertaintyReceivables TierTotals `json:"certainty_receivables"`

	// Both percentage sets use GrossAssets + GrossCollectibles as denominator
	CertaintyAssetPercent     TierTotals `json:"certainty_asset_percent"`
	CertaintyLiabilityPercent TierTotals `json:"certainty_liability_percent"`

	ConfirmedNet decimal.Decimal `json:"confirmed_net"`
	ProjectedNet decimal.Decimal `json:"projected_net"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// TotalAssets is GrossAssets + GrossCollectibles
func (r *Result) TotalAssets() decimal.Decimal {
	return r.GrossAssets.Add(r.GrossCollectibles)
}

// Entity returns the totals of an owner, if it appears in the result
func (r *Result) Entity(owner domain.Owner) (EntityTotal, bool) {
	for _, e := range r.Entities {
		if e.Owner == owner {
			return e, true
		}
	}
	return EntityTotal{}, false
}
