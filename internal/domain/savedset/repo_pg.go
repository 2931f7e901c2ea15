package savedset

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed saved set repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const setCols = `id, user_id, name, description, source_type, build_type, combo_filter,
	anchor_ids, concepts, concept_count, is_materialized, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, set *SavedCodeSet) error {
	set.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO saved_code_set (id, user_id, name, description, source_type,
			build_type, combo_filter, anchor_ids, concepts, concept_count, is_materialized)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		set.ID, set.UserID, set.Name, set.Description, set.SourceType,
		set.BuildType, set.ComboFilter, set.AnchorIDs, set.Concepts,
		set.ConceptCount, set.IsMaterialized)
	if err != nil {
		return fmt.Errorf("insert saved code set: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID, userID string) (*SavedCodeSet, error) {
	var set SavedCodeSet
	err := r.pool.QueryRow(ctx, `
		SELECT `+setCols+` FROM saved_code_set WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(
		&set.ID, &set.UserID, &set.Name, &set.Description, &set.SourceType,
		&set.BuildType, &set.ComboFilter, &set.AnchorIDs, &set.Concepts,
		&set.ConceptCount, &set.IsMaterialized, &set.CreatedAt, &set.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get saved code set: %w", err)
	}
	return &set, nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, source_type, concept_count, is_materialized,
		       created_at, updated_at
		FROM saved_code_set
		WHERE user_id = $1
		ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list saved code sets: %w", err)
	}
	defer rows.Close()

	var items []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.SourceType,
			&s.ConceptCount, &s.IsMaterialized, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM saved_code_set WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete saved code set: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
