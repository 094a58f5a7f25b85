package aggregator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/allocator"
	"github.com/simaogato/wealthdash-backend/internal/usecase/certainty"
	"github.com/simaogato/wealthdash-backend/internal/usecase/converter"
)

const unknownLabel = "unknown"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Input is a read-only snapshot of everything the engine consumes
type Input struct {
	Assets       []*domain.Record
	Liabilities  []*domain.Record
	Collectibles []*domain.Record
	Receivables  []*domain.Record
	Rates        domain.RateTable
	Entities     []*domain.Entity
}

// Options tunes what the engine folds into the net figures
type Options struct {
	// IncludeReceivables adds receivables to NetWorth, the entity nets and
	// the confirmed/projected split. Off by default.
	IncludeReceivables bool
}

// Aggregate computes the net-worth views of in.
// Logic:
//  1. Convert every record to base currency (fail-open on missing rates)
//  2. Resolve its certainty tier (override first, then type default)
//  3. Allocate its base value across owners (entity totals only)
//  4. Add the full, unallocated base value to gross totals, type/country/currency
//     breakdowns and certainty tiers
//
// Aggregate never fails: malformed input degrades to defaults and is reported
// through Result.Warnings.
func Aggregate(in Input, opts Options) *Result {
	a := newAccumulator(in.Entities)

	for _, r := range in.Assets {
		a.addRecord(r, domain.RecordKindAsset, in.Rates)
	}
	for _, r := range in.Collectibles {
		a.addRecord(r, domain.RecordKindCollectible, in.Rates)
	}
	for _, r := range in.Liabilities {
		a.addRecord(r, domain.RecordKindLiability, in.Rates)
	}
	for _, r := range in.Receivables {
		a.addRecord(r, domain.RecordKindReceivable, in.Rates)
	}

	return a.result(opts)
}

// orderedTotals accumulates labelled totals and remembers discovery order
type orderedTotals struct {
	index   map[string]int
	buckets []Bucket
}

func newOrderedTotals() *orderedTotals {
	return &orderedTotals{index: make(map[string]int)}
}

func (o *orderedTotals) add(label string, amount decimal.Decimal) {
	if label == "" {
		label = unknownLabel
	}
	i, ok := o.index[label]
	if !ok {
		i = len(o.buckets)
		o.index[label] = i
		o.buckets = append(o.buckets, Bucket{Label: label, Value: decimal.Zero})
	}
	o.buckets[i].Value = o.buckets[i].Value.Add(amount)
}

// sorted returns a copy sorted by value descending, stable on discovery order
func (o *orderedTotals) sorted() []Bucket {
	out := make([]Bucket, len(o.buckets))
	copy(out, o.buckets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.GreaterThan(out[j].Value)
	})
	return out
}

type breakdownTotals struct {
	byType, byCountry, byCurrency *orderedTotals
}

func newBreakdownTotals() breakdownTotals {
	return breakdownTotals{
		byType:     newOrderedTotals(),
		byCountry:  newOrderedTotals(),
		byCurrency: newOrderedTotals(),
	}
}

func (b breakdownTotals) add(r *domain.Record, amount decimal.Decimal) {
	b.byType.add(string(r.Type), amount)
	b.byCountry.add(r.Country, amount)
	b.byCurrency.add(domain.NormalizeCurrency(r.Currency), amount)
}

func (b breakdownTotals) breakdown() Breakdown {
	return Breakdown{
		ByType:     b.byType.sorted(),
		ByCountry:  b.byCountry.sorted(),
		ByCurrency: b.byCurrency.sorted(),
	}
}

type accumulator struct {
	names map[domain.Owner]string

	grossAssets, grossCollectibles, grossLiabilities, grossReceivables decimal.Decimal

	assets, liabilities, receivables breakdownTotals

	tierAssets, tierLiabilities, tierReceivables TierTotals

	entityIndex map[domain.Owner]int
	entities    []EntityTotal

	warnings []Warning
}

func newAccumulator(entities []*domain.Entity) *accumulator {
	a := &accumulator{
		names:       make(map[domain.Owner]string, len(entities)),
		assets:      newBreakdownTotals(),
		liabilities: newBreakdownTotals(),
		receivables: newBreakdownTotals(),
		entityIndex: make(map[domain.Owner]int),
	}
	for _, e := range entities {
		if e != nil {
			a.names[domain.KnownOwner(e.ID)] = e.Name
		}
	}
	// the unassigned bucket is always computed
	a.entity(domain.Unassigned)
	return a
}

// entity returns the running totals of an owner, creating them on first sight
func (a *accumulator) entity(owner domain.Owner) *EntityTotal {
	i, ok := a.entityIndex[owner]
	if !ok {
		i = len(a.entities)
		a.entityIndex[owner] = i
		a.entities = append(a.entities, EntityTotal{
			Owner:        owner,
			Name:         a.names[owner],
			Assets:       decimal.Zero,
			Collectibles: decimal.Zero,
			Liabilities:  decimal.Zero,
			Receivables:  decimal.Zero,
			Net:          decimal.Zero,
		})
	}
	return &a.entities[i]
}

func (a *accumulator) warn(kind WarningKind, r *domain.Record, format string, args ...any) {
	a.warnings = append(a.warnings, Warning{Kind: kind, RecordID: r.ID, Detail: fmt.Sprintf(format, args...)})
}

func (a *accumulator) addRecord(r *domain.Record, kind domain.RecordKind, rates domain.RateTable) {
	if r == nil {
		return
	}

	value, ok := converter.ToBase(r.Value, r.Currency, rates)
	if !ok {
		a.warn(WarningUnresolvedCurrency, r, "no rate for currency %q, value passed through unconverted", r.Currency)
	}

	if !certainty.IsKnownType(r.Type) {
		a.warn(WarningUnknownType, r, "unknown record type %q, certainty defaults to certain", r.Type)
	}
	tier := certainty.Resolve(r)

	// the collection a record came from decides how it counts, not r.Kind
	allocated := *r
	allocated.Kind = kind
	shares := allocator.Allocate(&allocated)
	if kind != domain.RecordKindLiability && len(r.Ownership) > 0 {
		if total := allocator.TotalFraction(shares); !total.Equal(one) {
			a.warn(WarningOwnershipSum, r, "ownership sums to %s%%", total.Mul(hundred).String())
		}
	}

	// shares are walked in order so entity discovery order is deterministic
	amounts := allocator.Distribute(value, shares)
	for _, share := range shares {
		amount, pending := amounts[share.Owner]
		if !pending {
			continue
		}
		delete(amounts, share.Owner)
		if !share.Owner.IsUnassigned() {
			if _, known := a.names[share.Owner]; !known {
				a.warn(WarningUnknownEntity, r, "entity %s is not a known entity", share.Owner)
			}
		}
		a.addToEntity(share.Owner, kind, amount)
	}

	switch kind {
	case domain.RecordKindAsset:
		a.grossAssets = a.grossAssets.Add(value)
		a.assets.add(r, value)
		a.tierAssets.add(tier, value)
	case domain.RecordKindCollectible:
		a.grossCollectibles = a.grossCollectibles.Add(value)
		a.assets.add(r, value)
		a.tierAssets.add(tier, value)
	case domain.RecordKindLiability:
		a.grossLiabilities = a.grossLiabilities.Add(value)
		a.liabilities.add(r, value)
		a.tierLiabilities.add(tier, value)
	case domain.RecordKindReceivable:
		a.grossReceivables = a.grossReceivables.Add(value)
		a.receivables.add(r, value)
		a.tierReceivables.add(tier, value)
	}
}

func (a *accumulator) addToEntity(owner domain.Owner, kind domain.RecordKind, amount decimal.Decimal) {
	e := a.entity(owner)
	switch kind {
	case domain.RecordKindAsset:
		e.Assets = e.Assets.Add(amount)
	case domain.RecordKindCollectible:
		e.Collectibles = e.Collectibles.Add(amount)
	case domain.RecordKindLiability:
		e.Liabilities = e.Liabilities.Add(amount)
	case domain.RecordKindReceivable:
		e.Receivables = e.Receivables.Add(amount)
	}
}

func (a *accumulator) result(opts Options) *Result {
	totalAssets := a.grossAssets.Add(a.grossCollectibles)

	netWorth := totalAssets.Sub(a.grossLiabilities)
	confirmed := a.tierAssets.Confirmed().Sub(a.tierLiabilities.Confirmed())
	projected := a.tierAssets.Projected().Sub(a.tierLiabilities.Projected())
	if opts.IncludeReceivables {
		netWorth = netWorth.Add(a.grossReceivables)
		confirmed = confirmed.Add(a.tierReceivables.Confirmed())
		projected = projected.Add(a.tierReceivables.Projected())
	}

	entities := make([]EntityTotal, 0, len(a.entities))
	for _, e := range a.entities {
		e.Net = e.Assets.Add(e.Collectibles).Sub(e.Liabilities)
		if opts.IncludeReceivables {
			e.Net = e.Net.Add(e.Receivables)
		}
		if e.Owner.IsUnassigned() || !e.IsEmpty() {
			entities = append(entities, e)
		}
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Net.GreaterThan(entities[j].Net)
	})

	return &Result{
		Currency:                  domain.BaseCurrency,
		GrossAssets:               a.grossAssets,
		GrossCollectibles:         a.grossCollectibles,
		GrossLiabilities:          a.grossLiabilities,
		GrossReceivables:          a.grossReceivables,
		NetWorth:                  netWorth,
		IncludesReceivables:       opts.IncludeReceivables,
		Assets:                    a.assets.breakdown(),
		Liabilities:               a.liabilities.breakdown(),
		Receivables:               a.receivables.breakdown(),
		Entities:                  entities,
		CertaintyAssets:           a.tierAssets,
		CertaintyLiabilities:      a.tierLiabilities,
		CertaintyReceivables:      a.tierReceivables,
		CertaintyAssetPercent:     a.tierAssets.percentOf(totalAssets),
		CertaintyLiabilityPercent: a.tierLiabilities.percentOf(totalAssets),
		ConfirmedNet:              confirmed,
		ProjectedNet:              projected,
		Warnings:                  a.warnings,
	}
}
