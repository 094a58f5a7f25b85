// Package jsonfile serves records and entities from a portfolio JSON file.
// It is read-only and meant for offline use by the CLI.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthdash-backend/internal/domain"
)

type fileShare struct {
	EntityID   uuid.UUID       `json:"entity_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

type fileRecord struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Value             decimal.Decimal `json:"value"`
	Currency          string          `json:"currency"`
	Country           string          `json:"country"`
	EntityID          *uuid.UUID      `json:"entity_id"`
	Ownership         []fileShare     `json:"ownership"`
	Certainty         string          `json:"certainty"`
	UnderConstruction bool            `json:"under_construction"`
	Recovery          string          `json:"recovery"`
	Symbol            string          `json:"symbol"`
	Quantity          decimal.Decimal `json:"quantity"`
}

type fileEntity struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

type fileLayout struct {
	UserID       uuid.UUID    `json:"user_id"`
	Entities     []fileEntity `json:"entities"`
	Assets       []fileRecord `json:"assets"`
	Liabilities  []fileRecord `json:"liabilities"`
	Collectibles []fileRecord `json:"collectibles"`
	Receivables  []fileRecord `json:"receivables"`
}

// Portfolio is a decoded portfolio file
type Portfolio struct {
	UserID   uuid.UUID
	entities []*domain.Entity
	records  map[domain.RecordKind][]*domain.Record
}

// Open reads and decodes the portfolio file at path
func Open(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open portfolio: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a portfolio from r.
// Missing record ids are generated so warnings can still point at a record.
func Decode(r io.Reader) (*Portfolio, error) {
	var layout fileLayout
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&layout); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio: %w", err)
	}

	p := &Portfolio{
		UserID:  layout.UserID,
		records: make(map[domain.RecordKind][]*domain.Record),
	}

	for _, e := range layout.Entities {
		p.entities = append(p.entities, &domain.Entity{
			ID:     e.ID,
			UserID: layout.UserID,
			Name:   e.Name,
			Type:   domain.EntityType(e.Type),
		})
	}

	collections := map[domain.RecordKind][]fileRecord{
		domain.RecordKindAsset:       layout.Assets,
		domain.RecordKindLiability:   layout.Liabilities,
		domain.RecordKindCollectible: layout.Collectibles,
		domain.RecordKindReceivable:  layout.Receivables,
	}
	for kind, items := range collections {
		for _, item := range items {
			p.records[kind] = append(p.records[kind], item.toDomain(layout.UserID, kind))
		}
	}

	return p, nil
}

func (fr fileRecord) toDomain(userID uuid.UUID, kind domain.RecordKind) *domain.Record {
	id := fr.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	record := &domain.Record{
		ID:                id,
		UserID:            userID,
		Name:              fr.Name,
		Kind:              kind,
		Type:              domain.RecordType(fr.Type),
		Value:             fr.Value,
		Currency:          fr.Currency,
		Country:           fr.Country,
		EntityID:          fr.EntityID,
		UnderConstruction: fr.UnderConstruction,
		Recovery:          domain.RecoveryProbability(fr.Recovery),
		Symbol:            fr.Symbol,
		Quantity:          fr.Quantity,
	}

	if fr.Certainty != "" {
		tier := domain.CertaintyTier(fr.Certainty)
		record.Certainty = &tier
	}

	for _, share := range fr.Ownership {
		record.Ownership = append(record.Ownership, domain.OwnershipShare{
			EntityID:   share.EntityID,
			Percentage: share.Percentage,
		})
	}

	return record
}

// All returns every record of every kind, in domain.RecordKinds order
func (p *Portfolio) All() []*domain.Record {
	var all []*domain.Record
	for _, kind := range domain.RecordKinds {
		all = append(all, p.records[kind]...)
	}
	return all
}

// Entities returns the portfolio as a domain.EntityRepository
func (p *Portfolio) Entities() domain.EntityRepository {
	return entityStore{p}
}

// Records returns the portfolio as a domain.RecordRepository
func (p *Portfolio) Records() domain.RecordRepository {
	return recordStore{p}
}

type recordStore struct{ p *Portfolio }

// List ignores userID, a file holds a single user's portfolio
func (s recordStore) List(_ context.Context, _ uuid.UUID, kind domain.RecordKind) ([]*domain.Record, error) {
	return s.p.records[kind], nil
}

type entityStore struct{ p *Portfolio }

func (s entityStore) List(_ context.Context, _ uuid.UUID) ([]*domain.Entity, error) {
	return s.p.entities, nil
}
