package certainty

import "github.com/simaogato/wealthdash-backend/internal/domain"

// Context carries the optional sub-fields some record types depend on
type Context struct {
	UnderConstruction bool
	Recovery          domain.RecoveryProbability
}

// defaultTiers maps every known type that does not depend on Context
var defaultTiers = map[domain.RecordType]domain.CertaintyTier{
	domain.TypeBank:       domain.CertaintyCertain,
	domain.TypeRetirement: domain.CertaintyContractual,
	domain.TypeInvestment: domain.CertaintyProbable,
	domain.TypeCrypto:     domain.CertaintyProbable,
	domain.TypeBusiness:   domain.CertaintyProbable,
	domain.TypeOtherAsset: domain.CertaintyProbable,

	domain.TypeWatch:            domain.CertaintyProbable,
	domain.TypeVehicle:          domain.CertaintyProbable,
	domain.TypeArt:              domain.CertaintyProbable,
	domain.TypeJewelry:          domain.CertaintyProbable,
	domain.TypeWine:             domain.CertaintyProbable,
	domain.TypeOtherCollectible: domain.CertaintyProbable,

	domain.TypeMortgage:       domain.CertaintyCertain,
	domain.TypeLoan:           domain.CertaintyCertain,
	domain.TypeCreditCard:     domain.CertaintyCertain,
	domain.TypeTax:            domain.CertaintyCertain,
	domain.TypeOtherLiability: domain.CertaintyCertain,
}

var receivableTypes = map[domain.RecordType]bool{
	domain.TypePersonalLoan:    true,
	domain.TypeInvoice:         true,
	domain.TypeDeposit:         true,
	domain.TypeOtherReceivable: true,
}

// Classify returns the default tier of a record type.
// Total over every input: unrecognized types resolve to certain.
func Classify(recordType domain.RecordType, ctx Context) domain.CertaintyTier {
	if recordType == domain.TypeRealEstate {
		if ctx.UnderConstruction {
			return domain.CertaintyContractual
		}
		return domain.CertaintyCertain
	}

	if receivableTypes[recordType] {
		return fromRecovery(ctx.Recovery)
	}

	if tier, ok := defaultTiers[recordType]; ok {
		return tier
	}

	return domain.CertaintyCertain
}

// fromRecovery maps a receivable's recovery hint to a tier
func fromRecovery(recovery domain.RecoveryProbability) domain.CertaintyTier {
	switch recovery {
	case domain.RecoveryGuaranteed:
		return domain.CertaintyCertain
	case domain.RecoveryMedium:
		return domain.CertaintyProbable
	case domain.RecoveryLow:
		return domain.CertaintyOptional
	default:
		// high and unspecified
		return domain.CertaintyContractual
	}
}

// Resolve returns the record's explicit override if it has a valid one,
// otherwise the default tier of its type.
func Resolve(record *domain.Record) domain.CertaintyTier {
	if record.Certainty != nil {
		if tier, err := domain.ParseCertaintyTier(string(*record.Certainty)); err == nil {
			return tier
		}
	}
	return Classify(record.Type, Context{
		UnderConstruction: record.UnderConstruction,
		Recovery:          record.Recovery,
	})
}

// IsKnownType reports whether recordType belongs to the closed type set
func IsKnownType(recordType domain.RecordType) bool {
	if recordType == domain.TypeRealEstate || receivableTypes[recordType] {
		return true
	}
	_, ok := defaultTiers[recordType]
	return ok
}
