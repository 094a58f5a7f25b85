package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordKind separates the four collections the dashboard tracks
type RecordKind string

const (
	RecordKindAsset       RecordKind = "ASSET"
	RecordKindLiability   RecordKind = "LIABILITY"
	RecordKindCollectible RecordKind = "COLLECTIBLE"
	RecordKindReceivable  RecordKind = "RECEIVABLE"
)

// RecordKinds lists every kind in aggregation order
var RecordKinds = []RecordKind{
	RecordKindAsset,
	RecordKindCollectible,
	RecordKindLiability,
	RecordKindReceivable,
}

// RecordType is the type tag of a record, drawn from a closed set
type RecordType string

// Asset types
const (
	TypeRealEstate RecordType = "real_estate"
	TypeBank       RecordType = "bank"
	TypeInvestment RecordType = "investment"
	TypeCrypto     RecordType = "crypto"
	TypeBusiness   RecordType = "business"
	TypeRetirement RecordType = "retirement"
	TypeOtherAsset RecordType = "other_asset"
)

// Collectible types
const (
	TypeWatch            RecordType = "watch"
	TypeVehicle          RecordType = "vehicle"
	TypeArt              RecordType = "art"
	TypeJewelry          RecordType = "jewelry"
	TypeWine             RecordType = "wine"
	TypeOtherCollectible RecordType = "other_collectible"
)

// Liability types
const (
	TypeMortgage       RecordType = "mortgage"
	TypeLoan           RecordType = "loan"
	TypeCreditCard     RecordType = "credit_card"
	TypeTax            RecordType = "tax"
	TypeOtherLiability RecordType = "other_liability"
)

// Receivable types
const (
	TypePersonalLoan    RecordType = "personal_loan"
	TypeInvoice         RecordType = "invoice"
	TypeDeposit         RecordType = "deposit"
	TypeOtherReceivable RecordType = "other_receivable"
)

// OwnershipShare attributes a percentage (0-100) of a record to an entity
type OwnershipShare struct {
	EntityID   uuid.UUID
	Percentage decimal.Decimal
}

// Record is an asset, liability, collectible or receivable.
// The aggregation engine treats records as read-only input.
type Record struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Kind     RecordKind
	Type     RecordType
	Value    decimal.Decimal // current value, or current balance for liabilities
	Currency string
	Country  string

	EntityID  *uuid.UUID       // NULL means unassigned
	Ownership []OwnershipShare // explicit split, ignored for liabilities
	Certainty *CertaintyTier   // explicit override, NULL means derived from Type

	UnderConstruction bool                // real estate only
	Recovery          RecoveryProbability // receivables only

	// Crypto holdings can be revalued from live quotes
	Symbol   string
	Quantity decimal.Decimal
}

// ownershipTolerance is how far a split may drift from 100 and still pass
var ownershipTolerance = decimal.RequireFromString("0.01")

// Validate ensures the record adheres to domain rules.
// It is meant for the form layer before persisting; aggregation never calls it.
func (r *Record) Validate() error {
	if r.Name == "" {
		return errors.New("record name cannot be empty")
	}

	switch r.Kind {
	case RecordKindAsset, RecordKindLiability, RecordKindCollectible, RecordKindReceivable:
	default:
		return errors.New("record kind must be ASSET, LIABILITY, COLLECTIBLE or RECEIVABLE")
	}

	if r.Value.IsNegative() {
		return errors.New("record value must not be negative")
	}

	if NormalizeCurrency(r.Currency) == "" {
		return errors.New("record currency cannot be empty")
	}

	if r.Kind == RecordKindLiability && len(r.Ownership) > 0 {
		return errors.New("liabilities must reference a single owning entity")
	}

	if len(r.Ownership) > 0 {
		if err := ValidateOwnership(r.Ownership); err != nil {
			return err
		}
	}

	return nil
}

// SumOfShares returns the total percentage points of an ownership list
func SumOfShares(shares []OwnershipShare) decimal.Decimal {
	total := decimal.Zero
	for _, share := range shares {
		total = total.Add(share.Percentage)
	}
	return total
}

// ValidateOwnership checks that shares are in range, reference distinct
// entities and sum to 100 percentage points.
func ValidateOwnership(shares []OwnershipShare) error {
	hundred := decimal.NewFromInt(100)
	seen := make(map[uuid.UUID]bool, len(shares))

	for _, share := range shares {
		if share.Percentage.LessThanOrEqual(decimal.Zero) || share.Percentage.GreaterThan(hundred) {
			return errors.New("ownership percentage must be between 0 and 100")
		}
		if seen[share.EntityID] {
			return fmt.Errorf("entity %s appears twice in ownership", share.EntityID)
		}
		seen[share.EntityID] = true
	}

	sum := SumOfShares(shares)
	if sum.Sub(hundred).Abs().GreaterThan(ownershipTolerance) {
		return fmt.Errorf("ownership must sum to 100, got %s", sum.String())
	}

	return nil
}
