package allocator

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthdash-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Share is the fraction (0..1) of a record's value attributed to an owner
type Share struct {
	Owner    domain.Owner
	Fraction decimal.Decimal
}

// Allocate resolves the owners of a record
// Logic:
//  1. Liabilities always take the single-owner path
//  2. A non-empty ownership list is returned verbatim, percentages divided by 100
//  3. Otherwise the whole record goes to its entity, or to Unassigned
//
// Shares are NOT checked to sum to 1: over or under allocation is the
// caller's data quality issue (see domain.ValidateOwnership).
func Allocate(record *domain.Record) []Share {
	if record.Kind != domain.RecordKindLiability && len(record.Ownership) > 0 {
		shares := make([]Share, 0, len(record.Ownership))
		for _, item := range record.Ownership {
			shares = append(shares, Share{
				Owner:    domain.KnownOwner(item.EntityID),
				Fraction: item.Percentage.Div(hundred),
			})
		}
		return shares
	}

	return []Share{{Owner: domain.OwnerOf(record.EntityID), Fraction: decimal.NewFromInt(1)}}
}

// TotalFraction sums the fractions of shares
func TotalFraction(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, share := range shares {
		total = total.Add(share.Fraction)
	}
	return total
}

// Distribute splits value across shares. An owner listed more than once
// receives the sum of its shares.
func Distribute(value decimal.Decimal, shares []Share) map[domain.Owner]decimal.Decimal {
	amounts := make(map[domain.Owner]decimal.Decimal, len(shares))
	for _, share := range shares {
		amounts[share.Owner] = amounts[share.Owner].Add(value.Mul(share.Fraction))
	}
	return amounts
}
