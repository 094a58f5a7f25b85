package domain

import (
	"fmt"
	"strings"
)

// CertaintyTier is the confidence level attached to a record's value
type CertaintyTier string

const (
	CertaintyCertain     CertaintyTier = "certain"     // verified or documented
	CertaintyContractual CertaintyTier = "contractual" // legally binding, future
	CertaintyProbable    CertaintyTier = "probable"    // likely but not guaranteed
	CertaintyOptional    CertaintyTier = "optional"    // speculative
)

// CertaintyTiers lists every tier, most confident first
var CertaintyTiers = []CertaintyTier{
	CertaintyCertain,
	CertaintyContractual,
	CertaintyProbable,
	CertaintyOptional,
}

// ParseCertaintyTier parses a tier name, case-insensitive
func ParseCertaintyTier(s string) (CertaintyTier, error) {
	tier := CertaintyTier(strings.ToLower(strings.TrimSpace(s)))
	switch tier {
	case CertaintyCertain, CertaintyContractual, CertaintyProbable, CertaintyOptional:
		return tier, nil
	}
	return "", fmt.Errorf("invalid certainty tier %q", s)
}

// IsConfirmed reports whether the tier counts towards the confirmed net
func (c CertaintyTier) IsConfirmed() bool {
	return c == CertaintyCertain || c == CertaintyContractual
}

// RecoveryProbability is the optional hint carried by receivables
type RecoveryProbability string

const (
	RecoveryUnspecified RecoveryProbability = ""
	RecoveryGuaranteed  RecoveryProbability = "guaranteed"
	RecoveryHigh        RecoveryProbability = "high"
	RecoveryMedium      RecoveryProbability = "medium"
	RecoveryLow         RecoveryProbability = "low"
)
