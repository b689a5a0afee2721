package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type MovementStore struct {
	db *sqlx.DB
}

/*
This store owns the 'movimentos_financeiros' table, the single authoritative
record of realized cash movements. Writes go through Upsert, keyed on
(source_reference_id, origin): a second write with the same key fully replaces
the existing row and advances updated_at, so callers can retry freely.
*/
func (ms *MovementStore) Upsert(ctx context.Context, movement *FinancialMovement) (string, error) {
	query := `INSERT INTO movimentos_financeiros (
		id,
		movement_date,
		direction,
		origin,
		description,
		amount,
		company_id,
		source_reference_id,
		category_id,
		category_name,
		cost_center_id,
		cost_center_name,
		responsible_id,
		payment_method,
		customer_name,
		supplier_name,
		notes,
		created_at,
		updated_at
	) VALUES (
		:id,
		:movement_date,
		:direction,
		:origin,
		:description,
		:amount,
		:company_id,
		:source_reference_id,
		:category_id,
		:category_name,
		:cost_center_id,
		:cost_center_name,
		:responsible_id,
		:payment_method,
		:customer_name,
		:supplier_name,
		:notes,
		:created_at,
		:updated_at
	)
		ON CONFLICT (source_reference_id, origin) DO UPDATE SET
		movement_date = EXCLUDED.movement_date,
		direction = EXCLUDED.direction,
		description = EXCLUDED.description,
		amount = EXCLUDED.amount,
		company_id = EXCLUDED.company_id,
		category_id = EXCLUDED.category_id,
		category_name = EXCLUDED.category_name,
		cost_center_id = EXCLUDED.cost_center_id,
		cost_center_name = EXCLUDED.cost_center_name,
		responsible_id = EXCLUDED.responsible_id,
		payment_method = EXCLUDED.payment_method,
		customer_name = EXCLUDED.customer_name,
		supplier_name = EXCLUDED.supplier_name,
		notes = EXCLUDED.notes,
		updated_at = EXCLUDED.updated_at
	RETURNING id`

	rows, err := ms.db.NamedQueryContext(ctx, query, movement)
	if err != nil {
		return "", fmt.Errorf("failed to upsert movement: %w", err)
	}
	defer rows.Close()

	var id string
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan upserted movement id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to read upserted movement id: %w", err)
	}

	return id, nil
}

// DeleteByReference removes the ledger row for the given key. Deleting an
// absent key is a no-op, not an error.
func (ms *MovementStore) DeleteByReference(ctx context.Context, sourceReferenceID, origin string) error {
	query := `DELETE FROM movimentos_financeiros WHERE source_reference_id = $1 AND origin = $2`

	_, err := ms.db.ExecContext(ctx, query, sourceReferenceID, origin)
	if err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}

	return nil
}

func (ms *MovementStore) List(ctx context.Context, filter MovementFilter) ([]FinancialMovement, error) {
	conditions := []string{"movement_date BETWEEN $1 AND $2"}
	args := []interface{}{normalizeStart(filter.StartDate), normalizeEnd(filter.EndDate)}

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		conditions = append(conditions, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if filter.Direction != "" {
		args = append(args, filter.Direction)
		conditions = append(conditions, fmt.Sprintf("direction = $%d", len(args)))
	}
	if filter.Origin != "" {
		args = append(args, filter.Origin)
		conditions = append(conditions, fmt.Sprintf("origin = $%d", len(args)))
	}

	query := fmt.Sprintf(`
	SELECT
		id,
		movement_date,
		direction,
		origin,
		description,
		amount,
		company_id,
		source_reference_id,
		category_id,
		category_name,
		cost_center_id,
		cost_center_name,
		responsible_id,
		payment_method,
		customer_name,
		supplier_name,
		notes,
		created_at,
		updated_at
	FROM
		movimentos_financeiros
	WHERE
		%s
	ORDER BY
		movement_date DESC, id DESC;
	`, strings.Join(conditions, " AND "))

	var result []FinancialMovement
	err := ms.db.SelectContext(ctx, &result, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}

	return result, nil
}

// ReferenceIDs collects the source_reference_id of every ledger row with the
// given origin, as a set. The retroactive sync reconciler diffs settled source
// records against it.
func (ms *MovementStore) ReferenceIDs(ctx context.Context, origin string) (map[string]struct{}, error) {
	query := `SELECT source_reference_id FROM movimentos_financeiros WHERE origin = $1`

	var ids []string
	err := ms.db.SelectContext(ctx, &ids, query, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement references: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set, nil
}

func (ms *MovementStore) CountByOrigin(ctx context.Context, origin string) (int, error) {
	query := `SELECT COUNT(*) FROM movimentos_financeiros WHERE origin = $1`

	var count int
	err := ms.db.GetContext(ctx, &count, query, origin)
	if err != nil {
		return 0, fmt.Errorf("failed to count movements: %w", err)
	}

	return count, nil
}

// Unbounded filters still need a concrete range for the BETWEEN predicate.
func normalizeStart(t time.Time) time.Time {
	if t.IsZero() {
		return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

func normalizeEnd(t time.Time) time.Time {
	if t.IsZero() {
		return time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return t
}
