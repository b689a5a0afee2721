package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type MarketplaceStore struct {
	db *sqlx.DB
}

// Cash-event transaction types. Plain 'venda' rows are accrual events and are
// deliberately excluded from sync.
var marketplaceCashEventTypes = []string{
	MarketplaceTransfer,
	MarketplaceWithdrawal,
	MarketplaceTransferRefund,
	MarketplaceFinancialFee,
	MarketplaceChargeback,
}

func (ms *MarketplaceStore) ListSettledEvents(ctx context.Context) ([]SourceTransaction, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM marketplace_transactions
	WHERE status = $1 AND transaction_type = ANY($2)
	ORDER BY transaction_date DESC, id DESC;
	`, sourceColumns)

	var result []SourceTransaction
	err := ms.db.SelectContext(ctx, &result, query, StatusReconciled, pq.Array(marketplaceCashEventTypes))
	if err != nil {
		return nil, fmt.Errorf("failed to query settled marketplace events: %w", err)
	}

	return result, nil
}

func (ms *MarketplaceStore) CountSettledEvents(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM marketplace_transactions WHERE status = $1 AND transaction_type = ANY($2)`

	var count int
	err := ms.db.GetContext(ctx, &count, query, StatusReconciled, pq.Array(marketplaceCashEventTypes))
	if err != nil {
		return 0, fmt.Errorf("failed to count settled marketplace events: %w", err)
	}

	return count, nil
}
