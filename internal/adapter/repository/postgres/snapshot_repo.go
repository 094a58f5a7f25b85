package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// storedQuote is the JSONB shape of a domain.Quote
type storedQuote struct {
	Symbol   string          `json:"symbol"`
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
	AsOf     time.Time       `json:"as_of"`
}

const snapshotColumns = `id, user_id, snapshot_date, net_worth, payload, rates, quotes, created_at`

// Upsert inserts the snapshot or overwrites the one with the same (user, date)
func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *domain.Snapshot) error {
	rates, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}

	quotes := make([]storedQuote, 0, len(snapshot.Quotes))
	for _, q := range snapshot.Quotes {
		quotes = append(quotes, storedQuote(q))
	}
	quotesJSON, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("failed to encode quotes: %w", err)
	}

	query := `
		INSERT INTO net_worth_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, snapshot_date) DO UPDATE SET
			net_worth = EXCLUDED.net_worth,
			payload = EXCLUDED.payload,
			rates = EXCLUDED.rates,
			quotes = EXCLUDED.quotes,
			created_at = EXCLUDED.created_at
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.Date.Format("2006-01-02"),
		snapshot.NetWorth.String(),
		string(snapshot.Payload),
		string(rates),
		string(quotesJSON),
		snapshot.CreatedAt,
	).Scan(&snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// List retrieves the most recent snapshots of a user, newest first
func (r *snapshotRepository) List(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM net_worth_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// GetByDate retrieves the snapshot of a user for a calendar day
func (r *snapshotRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM net_worth_snapshots
		WHERE user_id = $1 AND snapshot_date = $2
	`

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, query, userID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot for %s: %w", date.Format("2006-01-02"), domain.ErrNotFound)
		}
		return nil, err
	}
	return snapshot, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	var netWorthStr string
	var payload, rates, quotes []byte

	err := row.Scan(
		&snapshot.ID,
		&snapshot.UserID,
		&snapshot.Date,
		&netWorthStr,
		&payload,
		&rates,
		&quotes,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	netWorth, err := decimal.NewFromString(netWorthStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse net_worth: %w", err)
	}
	snapshot.NetWorth = netWorth
	snapshot.Payload = payload

	if err := json.Unmarshal(rates, &snapshot.Rates); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}

	var stored []storedQuote
	if err := json.Unmarshal(quotes, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}
	for _, q := range stored {
		snapshot.Quotes = append(snapshot.Quotes, domain.Quote(q))
	}

	return &snapshot, nil
}
