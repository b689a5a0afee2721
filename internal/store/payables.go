package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PayableStore struct {
	db *sqlx.DB
}

const payableColumns = `
		id,
		company_id,
		description,
		status,
		amount_total,
		amount_open,
		amount_paid,
		payment_date,
		category_id,
		cost_center_id,
		counterparty_name`

/*
This store reads 'contas_a_pagar' and 'contas_a_receber'. Both tables are
systems of record for their own lifecycle; from here they are read-only inputs.
A record is "settled" once its cash effect actually happened: payables with
status 'pago', receivables with a received status and a positive paid amount.
*/
func (ps *PayableStore) ListSettledPayables(ctx context.Context) ([]PayableReceivable, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM contas_a_pagar
	WHERE status = $1 AND payment_date IS NOT NULL
	ORDER BY payment_date DESC, id DESC;
	`, payableColumns)

	var result []PayableReceivable
	err := ps.db.SelectContext(ctx, &result, query, PayableStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled payables: %w", err)
	}

	return result, nil
}

func (ps *PayableStore) ListSettledReceivables(ctx context.Context) ([]PayableReceivable, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM contas_a_receber
	WHERE status = ANY($1) AND amount_paid > 0 AND payment_date IS NOT NULL
	ORDER BY payment_date DESC, id DESC;
	`, payableColumns)

	statuses := []string{ReceivableStatusReceived, ReceivableStatusPartiallyReceived}

	var result []PayableReceivable
	err := ps.db.SelectContext(ctx, &result, query, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to query settled receivables: %w", err)
	}

	return result, nil
}

func (ps *PayableStore) ListOpenPayables(ctx context.Context, companyID string) ([]PayableReceivable, error) {
	return ps.listOpen(ctx, "contas_a_pagar", companyID)
}

func (ps *PayableStore) ListOpenReceivables(ctx context.Context, companyID string) ([]PayableReceivable, error) {
	return ps.listOpen(ctx, "contas_a_receber", companyID)
}

func (ps *PayableStore) listOpen(ctx context.Context, table, companyID string) ([]PayableReceivable, error) {
	conditions := "amount_open > 0"
	args := []interface{}{}

	if companyID != "" {
		args = append(args, companyID)
		conditions += " AND company_id = $1"
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY id;`, payableColumns, table, conditions)

	var result []PayableReceivable
	err := ps.db.SelectContext(ctx, &result, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open records on %s: %w", table, err)
	}

	return result, nil
}

func (ps *PayableStore) CountSettledPayables(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM contas_a_pagar WHERE status = $1 AND payment_date IS NOT NULL`

	var count int
	err := ps.db.GetContext(ctx, &count, query, PayableStatusPaid)
	if err != nil {
		return 0, fmt.Errorf("failed to count settled payables: %w", err)
	}

	return count, nil
}

func (ps *PayableStore) CountSettledReceivables(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM contas_a_receber WHERE status = ANY($1) AND amount_paid > 0 AND payment_date IS NOT NULL`

	statuses := []string{ReceivableStatusReceived, ReceivableStatusPartiallyReceived}

	var count int
	err := ps.db.GetContext(ctx, &count, query, pq.Array(statuses))
	if err != nil {
		return 0, fmt.Errorf("failed to count settled receivables: %w", err)
	}

	return count, nil
}
