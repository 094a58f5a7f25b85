package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// entityRepository implements domain.EntityRepository
type entityRepository struct {
	db *DB
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db *DB) domain.EntityRepository {
	return &entityRepository{db: db}
}

// List retrieves all entities of a user
func (r *entityRepository) List(ctx context.Context, userID uuid.UUID) ([]*domain.Entity, error) {
	query := `
		SELECT id, user_id, name, entity_type
		FROM entities
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []*domain.Entity
	for rows.Next() {
		var entity domain.Entity
		if err := rows.Scan(&entity.ID, &entity.UserID, &entity.Name, &entity.Type); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, &entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}

	return entities, nil
}
