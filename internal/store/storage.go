package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	Movements interface {
		Upsert(ctx context.Context, movement *FinancialMovement) (string, error)
		DeleteByReference(ctx context.Context, sourceReferenceID, origin string) error
		List(ctx context.Context, filter MovementFilter) ([]FinancialMovement, error)
		ReferenceIDs(ctx context.Context, origin string) (map[string]struct{}, error)
		CountByOrigin(ctx context.Context, origin string) (int, error)
	}

	Transactions interface {
		GetByID(ctx context.Context, table, id string) (*SourceTransaction, error)
		Insert(ctx context.Context, table string, tx *SourceTransaction) error
		Delete(ctx context.Context, table, id string) error
		UpdateStatus(ctx context.Context, table, id, status string) error
		SetCategory(ctx context.Context, table, id, categoryID string, costCenterID, responsibleID *string) error
		ExistingReferences(ctx context.Context, table string, refs []string) (map[string]struct{}, error)
		InsertBatch(ctx context.Context, table string, rows []SourceTransaction) error
		ListUncategorized(ctx context.Context, table, companyID string, limit int) ([]SourceTransaction, error)
	}

	Payables interface {
		ListSettledPayables(ctx context.Context) ([]PayableReceivable, error)
		ListSettledReceivables(ctx context.Context) ([]PayableReceivable, error)
		ListOpenPayables(ctx context.Context, companyID string) ([]PayableReceivable, error)
		ListOpenReceivables(ctx context.Context, companyID string) ([]PayableReceivable, error)
		CountSettledPayables(ctx context.Context) (int, error)
		CountSettledReceivables(ctx context.Context) (int, error)
	}

	Marketplace interface {
		ListSettledEvents(ctx context.Context) ([]SourceTransaction, error)
		CountSettledEvents(ctx context.Context) (int, error)
	}

	Catalog interface {
		ListCategories(ctx context.Context) ([]Category, error)
		ListCostCenters(ctx context.Context) ([]CostCenter, error)
		ListRules(ctx context.Context) ([]CategoryRule, error)
		GetCategory(ctx context.Context, id string) (*Category, error)
		GetCostCenter(ctx context.Context, id string) (*CostCenter, error)
		CreateCategory(ctx context.Context, name, categoryType string, autoCreated bool) (*Category, error)
		CreateCostCenter(ctx context.Context, name string, autoCreated bool) (*CostCenter, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Movements:    &MovementStore{db: db},
		Transactions: &TransactionStore{db: db},
		Payables:     &PayableStore{db: db},
		Marketplace:  &MarketplaceStore{db: db},
		Catalog:      &CatalogStore{db: db},
	}
}
