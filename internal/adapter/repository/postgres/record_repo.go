package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// recordRepository implements domain.RecordRepository
type recordRepository struct {
	db *DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *DB) domain.RecordRepository {
	return &recordRepository{db: db}
}

// List retrieves all records of a kind owned by a user, with their ownership splits
func (r *recordRepository) List(ctx context.Context, userID uuid.UUID, kind domain.RecordKind) ([]*domain.Record, error) {
	query := `
		SELECT id, user_id, kind, record_type, name, value, currency, country,
		       entity_id, certainty, under_construction, recovery, symbol, quantity
		FROM records
		WHERE user_id = $1 AND kind = $2
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*domain.Record
	byID := make(map[uuid.UUID]*domain.Record)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		byID[record.ID] = record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	if len(records) == 0 || kind == domain.RecordKindLiability {
		return records, nil
	}

	if err := r.loadOwnership(ctx, byID); err != nil {
		return nil, err
	}

	return records, nil
}

func scanRecord(rows *sql.Rows) (*domain.Record, error) {
	var record domain.Record
	var valueStr, quantityStr string
	var entityID, certainty sql.NullString

	err := rows.Scan(
		&record.ID,
		&record.UserID,
		&record.Kind,
		&record.Type,
		&record.Name,
		&valueStr,
		&record.Currency,
		&record.Country,
		&entityID,
		&certainty,
		&record.UnderConstruction,
		&record.Recovery,
		&record.Symbol,
		&quantityStr,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	// Parse value (DECIMAL)
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse value: %w", err)
	}
	record.Value = value

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	record.Quantity = quantity

	// Parse entity_id (nullable)
	if entityID.Valid {
		id, err := uuid.Parse(entityID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entity_id: %w", err)
		}
		record.EntityID = &id
	}

	// Parse certainty override (nullable)
	if certainty.Valid {
		tier := domain.CertaintyTier(certainty.String)
		record.Certainty = &tier
	}

	return &record, nil
}

// loadOwnership attaches ownership splits to the records in byID
func (r *recordRepository) loadOwnership(ctx context.Context, byID map[uuid.UUID]*domain.Record) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id.String())
	}

	query := `
		SELECT record_id, entity_id, percentage
		FROM record_ownership
		WHERE record_id = ANY($1::uuid[])
		ORDER BY record_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to list record ownership: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordID uuid.UUID
		var share domain.OwnershipShare
		var percentageStr string
		if err := rows.Scan(&recordID, &share.EntityID, &percentageStr); err != nil {
			return fmt.Errorf("failed to scan record ownership: %w", err)
		}

		percentage, err := decimal.NewFromString(percentageStr)
		if err != nil {
			return fmt.Errorf("failed to parse percentage: %w", err)
		}
		share.Percentage = percentage

		if record, ok := byID[recordID]; ok {
			record.Ownership = append(record.Ownership, share)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating record ownership: %w", err)
	}

	return nil
}
