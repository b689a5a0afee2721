package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Source tables sharing the SourceTransaction shape. Table names are
// interpolated into queries and must come from this set.
const (
	TableBankTransactions        = "bank_transactions"
	TableCreditCardTransactions  = "credit_card_transactions"
	TableMarketplaceTransactions = "marketplace_transactions"
	TableManualEntries           = "manual_entries"
)

var sourceTables = map[string]struct{}{
	TableBankTransactions:        {},
	TableCreditCardTransactions:  {},
	TableMarketplaceTransactions: {},
	TableManualEntries:           {},
}

const sourceColumns = `
		id,
		company_id,
		transaction_date,
		description,
		amount,
		line_direction,
		status,
		transaction_type,
		establishment_name,
		category_id,
		cost_center_id,
		responsible_id,
		external_reference,
		created_at,
		updated_at`

type TransactionStore struct {
	db *sqlx.DB
}

func checkSourceTable(table string) error {
	if _, ok := sourceTables[table]; !ok {
		return fmt.Errorf("unknown source table %q", table)
	}
	return nil
}

func (ts *TransactionStore) GetByID(ctx context.Context, table, id string) (*SourceTransaction, error) {
	if err := checkSourceTable(table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, sourceColumns, table)

	var tx SourceTransaction
	err := ts.db.GetContext(ctx, &tx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from %s: %w", table, err)
	}

	return &tx, nil
}

func (ts *TransactionStore) Insert(ctx context.Context, table string, tx *SourceTransaction) error {
	if err := checkSourceTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (
		:id,
		:company_id,
		:transaction_date,
		:description,
		:amount,
		:line_direction,
		:status,
		:transaction_type,
		:establishment_name,
		:category_id,
		:cost_center_id,
		:responsible_id,
		:external_reference,
		:created_at,
		:updated_at
	)`, table, sourceColumns)

	_, err := ts.db.NamedExecContext(ctx, query, tx)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}

func (ts *TransactionStore) Delete(ctx context.Context, table, id string) error {
	if err := checkSourceTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)

	_, err := ts.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	return nil
}

func (ts *TransactionStore) UpdateStatus(ctx context.Context, table, id, status string) error {
	if err := checkSourceTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2`, table)

	_, err := ts.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status on %s: %w", table, err)
	}

	return nil
}

// SetCategory assigns the category fields and forces the transaction back to
// pending in a single statement, whatever its prior status was.
func (ts *TransactionStore) SetCategory(ctx context.Context, table, id, categoryID string, costCenterID, responsibleID *string) error {
	if err := checkSourceTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET
		category_id = $1,
		cost_center_id = $2,
		responsible_id = $3,
		status = $4,
		updated_at = NOW()
	WHERE id = $5`, table)

	_, err := ts.db.ExecContext(ctx, query, categoryID, costCenterID, responsibleID, StatusPending, id)
	if err != nil {
		return fmt.Errorf("failed to set category on %s: %w", table, err)
	}

	return nil
}

// ExistingReferences returns which of the given external references are
// already present in the table. Callers chunk the input to bound query size.
func (ts *TransactionStore) ExistingReferences(ctx context.Context, table string, refs []string) (map[string]struct{}, error) {
	if err := checkSourceTable(table); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return map[string]struct{}{}, nil
	}

	query := fmt.Sprintf(`SELECT external_reference FROM %s WHERE external_reference = ANY($1)`, table)

	var found []string
	err := ts.db.SelectContext(ctx, &found, query, pq.Array(refs))
	if err != nil {
		return nil, fmt.Errorf("failed to query existing references on %s: %w", table, err)
	}

	set := make(map[string]struct{}, len(found))
	for _, ref := range found {
		set[ref] = struct{}{}
	}

	return set, nil
}

func (ts *TransactionStore) InsertBatch(ctx context.Context, table string, rows []SourceTransaction) error {
	if err := checkSourceTable(table); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (
		:id,
		:company_id,
		:transaction_date,
		:description,
		:amount,
		:line_direction,
		:status,
		:transaction_type,
		:establishment_name,
		:category_id,
		:cost_center_id,
		:responsible_id,
		:external_reference,
		:created_at,
		:updated_at
	)`, table, sourceColumns)

	_, err := ts.db.NamedExecContext(ctx, query, rows)
	if err != nil {
		return fmt.Errorf("failed to batch insert into %s: %w", table, err)
	}

	return nil
}

func (ts *TransactionStore) ListUncategorized(ctx context.Context, table, companyID string, limit int) ([]SourceTransaction, error) {
	if err := checkSourceTable(table); err != nil {
		return nil, err
	}

	conditions := `category_id IS NULL AND status IN ($1, $2)`
	args := []interface{}{StatusImported, StatusPending}

	if companyID != "" {
		args = append(args, companyID)
		conditions += fmt.Sprintf(" AND company_id = $%d", len(args))
	}

	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY transaction_date DESC, id DESC LIMIT $%d`,
		sourceColumns, table, conditions, len(args))

	var result []SourceTransaction
	err := ts.db.SelectContext(ctx, &result, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncategorized transactions on %s: %w", table, err)
	}

	return result, nil
}
