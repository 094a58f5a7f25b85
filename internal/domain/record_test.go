package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecord_Validate(t *testing.T) {
	entityA := uuid.New()
	entityB := uuid.New()

	tests := []struct {
		name    string
		record  Record
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid asset without owner",
			record: Record{
				ID:       uuid.New(),
				Name:     "Main Bank",
				Kind:     RecordKindAsset,
				Type:     TypeBank,
				Value:    decimal.NewFromInt(1000),
				Currency: "EUR",
			},
			wantErr: false,
		},
		{
			name: "valid asset with 60/40 split",
			record: Record{
				ID:       uuid.New(),
				Name:     "Flat",
				Kind:     RecordKindAsset,
				Type:     TypeRealEstate,
				Value:    decimal.NewFromInt(300000),
				Currency: "EUR",
				Ownership: []OwnershipShare{
					{EntityID: entityA, Percentage: decimal.NewFromInt(60)},
					{EntityID: entityB, Percentage: decimal.NewFromInt(40)},
				},
			},
			wantErr: false,
		},
		{
			name: "empty name should fail",
			record: Record{
				Kind:     RecordKindAsset,
				Value:    decimal.NewFromInt(1),
				Currency: "EUR",
			},
			wantErr: true,
			errMsg:  "record name cannot be empty",
		},
		{
			name: "unknown kind should fail",
			record: Record{
				Name:     "Thing",
				Kind:     RecordKind("STUFF"),
				Currency: "EUR",
			},
			wantErr: true,
			errMsg:  "record kind must be",
		},
		{
			name: "negative value should fail",
			record: Record{
				Name:     "Bank",
				Kind:     RecordKindAsset,
				Value:    decimal.NewFromInt(-5),
				Currency: "EUR",
			},
			wantErr: true,
			errMsg:  "must not be negative",
		},
		{
			name: "missing currency should fail",
			record: Record{
				Name:  "Bank",
				Kind:  RecordKindAsset,
				Value: decimal.NewFromInt(5),
			},
			wantErr: true,
			errMsg:  "currency cannot be empty",
		},
		{
			name: "liability with split ownership should fail",
			record: Record{
				Name:     "Mortgage",
				Kind:     RecordKindLiability,
				Type:     TypeMortgage,
				Value:    decimal.NewFromInt(100),
				Currency: "EUR",
				Ownership: []OwnershipShare{
					{EntityID: entityA, Percentage: decimal.NewFromInt(100)},
				},
			},
			wantErr: true,
			errMsg:  "single owning entity",
		},
		{
			name: "split not summing to 100 should fail",
			record: Record{
				Name:     "Flat",
				Kind:     RecordKindAsset,
				Value:    decimal.NewFromInt(100),
				Currency: "EUR",
				Ownership: []OwnershipShare{
					{EntityID: entityA, Percentage: decimal.NewFromInt(60)},
					{EntityID: entityB, Percentage: decimal.NewFromInt(30)},
				},
			},
			wantErr: true,
			errMsg:  "ownership must sum to 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOwnership(t *testing.T) {
	entityA := uuid.New()
	entityB := uuid.New()

	tests := []struct {
		name    string
		shares  []OwnershipShare
		wantErr string
	}{
		{
			name: "thirds within tolerance",
			shares: []OwnershipShare{
				{EntityID: entityA, Percentage: decimal.RequireFromString("33.33")},
				{EntityID: entityB, Percentage: decimal.RequireFromString("66.67")},
			},
		},
		{
			name: "duplicate entity",
			shares: []OwnershipShare{
				{EntityID: entityA, Percentage: decimal.NewFromInt(50)},
				{EntityID: entityA, Percentage: decimal.NewFromInt(50)},
			},
			wantErr: "appears twice",
		},
		{
			name: "zero percentage",
			shares: []OwnershipShare{
				{EntityID: entityA, Percentage: decimal.Zero},
				{EntityID: entityB, Percentage: decimal.NewFromInt(100)},
			},
			wantErr: "between 0 and 100",
		},
		{
			name: "over allocated",
			shares: []OwnershipShare{
				{EntityID: entityA, Percentage: decimal.NewFromInt(70)},
				{EntityID: entityB, Percentage: decimal.NewFromInt(40)},
			},
			wantErr: "got 110",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOwnership(tt.shares)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSumOfShares(t *testing.T) {
	shares := []OwnershipShare{
		{EntityID: uuid.New(), Percentage: decimal.RequireFromString("12.5")},
		{EntityID: uuid.New(), Percentage: decimal.RequireFromString("87.5")},
	}
	assert.True(t, SumOfShares(shares).Equal(decimal.NewFromInt(100)))
	assert.True(t, SumOfShares(nil).IsZero())
}
