package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
)

// SequenceRepo persists monotonic counters in the id_sequences table
type SequenceRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(cfg *models.Config, db *sqlx.DB) *SequenceRepo {
	return &SequenceRepo{
		cfg: cfg,
		db:  db,
	}
}

// NextValue atomically increments and returns the counter for an entity.
// The upsert makes first use and subsequent increments a single statement,
// so concurrent callers never observe the same value twice.
func (r *SequenceRepo) NextValue(ctx context.Context, entity string) (int64, error) {
	query := `
		INSERT INTO id_sequences (entity, current_value)
		VALUES ($1, 1)
		ON CONFLICT (entity)
		DO UPDATE SET current_value = id_sequences.current_value + 1
		RETURNING current_value
	`

	var value int64
	if err := r.db.QueryRowContext(ctx, query, entity).Scan(&value); err != nil {
		return 0, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return value, nil
}

// EnsureAtLeast raises the counter to at least the given value.
// Used on startup so generated IDs never collide with rows already present.
func (r *SequenceRepo) EnsureAtLeast(ctx context.Context, entity string, value int64) error {
	query := `
		INSERT INTO id_sequences (entity, current_value)
		VALUES ($1, $2)
		ON CONFLICT (entity)
		DO UPDATE SET current_value = GREATEST(id_sequences.current_value, EXCLUDED.current_value)
	`

	if _, err := r.db.ExecContext(ctx, query, entity, value); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// MaxAssignedSuffix returns the highest numeric suffix already stored for
// a prefixed ID column, 0 when the table is empty.
func (r *SequenceRepo) MaxAssignedSuffix(ctx context.Context, table, column, prefix string) (int64, error) {
	// table and column come from a fixed in-code list, never from input
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(CAST(SUBSTRING(%s FROM %d) AS BIGINT)), 0)
		FROM %s
		WHERE %s LIKE $1
	`, column, len(prefix)+1, table, column)

	var max int64
	if err := r.db.QueryRowContext(ctx, query, prefix+"%").Scan(&max); err != nil {
		return 0, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return max, nil
}
