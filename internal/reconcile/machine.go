package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/logger"
	"github.com/mbentes/conciliador/internal/store"
)

var (
	// ErrTransactionLocked is returned when categorizing a transaction that
	// is already reconciled or ignored.
	ErrTransactionLocked = errors.New("transaction is reconciled or ignored")

	// ErrReconciledNeedsReopen is returned when ignoring a reconciled
	// transaction; the caller must reopen first so the ledger row is removed.
	ErrReconciledNeedsReopen = errors.New("transaction is reconciled; reopen it before ignoring")

	// ErrNotManualOrigin is returned when a manual-only operation is invoked
	// on a machine bound to another origin.
	ErrNotManualOrigin = errors.New("operation is only valid for manual entries")
)

// TransactionStore is the slice of storage the state machine needs.
type TransactionStore interface {
	GetByID(ctx context.Context, table, id string) (*store.SourceTransaction, error)
	Insert(ctx context.Context, table string, tx *store.SourceTransaction) error
	Delete(ctx context.Context, table, id string) error
	UpdateStatus(ctx context.Context, table, id, status string) error
	SetCategory(ctx context.Context, table, id, categoryID string, costCenterID, responsibleID *string) error
	ExistingReferences(ctx context.Context, table string, refs []string) (map[string]struct{}, error)
	InsertBatch(ctx context.Context, table string, rows []store.SourceTransaction) error
}

// Ledger is the write/remove surface of the movement ledger.
type Ledger interface {
	RegisterMovement(ctx context.Context, input ledger.RegisterInput) (string, error)
	RemoveMovement(ctx context.Context, sourceReferenceID, origin string) error
}

// Lookups resolves category and cost-center display names for
// denormalization onto ledger rows.
type Lookups interface {
	GetCategory(ctx context.Context, id string) (*store.Category, error)
	GetCostCenter(ctx context.Context, id string) (*store.CostCenter, error)
}

// CategoryAssignment carries the fields set by Categorize.
type CategoryAssignment struct {
	CategoryID    string
	CostCenterID  *string
	ResponsibleID *string
}

/*
Machine drives one source table through the reconciliation lifecycle:

	imported -> pending -> reconciled | ignored

with reopen transitions back to pending from both terminal states. Entering
reconciled writes the transaction into the movement ledger; leaving it removes
the ledger row. The two tables are not covered by a cross-table transaction,
so both transitions are ordered to fail safe: the ledger write happens before
the flip to reconciled, and the ledger delete before the flip to pending. A
failure mid-way always leaves the source record in a re-attemptable state.
*/
type Machine struct {
	adapter      OriginAdapter
	transactions TransactionStore
	movements    Ledger
	lookups      Lookups
	appLogger    *logger.Logger
}

func NewMachine(adapter OriginAdapter, transactions TransactionStore, movements Ledger, lookups Lookups, appLogger *logger.Logger) *Machine {
	return &Machine{
		adapter:      adapter,
		transactions: transactions,
		movements:    movements,
		lookups:      lookups,
		appLogger:    appLogger,
	}
}

func (m *Machine) Origin() string {
	return m.adapter.Origin()
}

// Categorize assigns category fields and forces the transaction to pending,
// whatever its prior open status was. Reconciled and ignored transactions are
// rejected; they must be reopened first.
func (m *Machine) Categorize(ctx context.Context, txID string, assignment CategoryAssignment) error {
	tx, err := m.transactions.GetByID(ctx, m.adapter.Table(), txID)
	if err != nil {
		return err
	}

	if tx.Status == store.StatusReconciled || tx.Status == store.StatusIgnored {
		return ErrTransactionLocked
	}
	if assignment.CategoryID == "" {
		return &ledger.ValidationError{Field: "category_id", Reason: "must not be empty"}
	}

	return m.transactions.SetCategory(ctx, m.adapter.Table(), txID, assignment.CategoryID, assignment.CostCenterID, assignment.ResponsibleID)
}

// Reconcile confirms the transaction as a realized cash movement: it writes
// the ledger row first, then flips the status. If the ledger write fails the
// source record stays pending and the whole call can be retried.
func (m *Machine) Reconcile(ctx context.Context, txID string) error {
	const component = "Reconcile"

	tx, err := m.transactions.GetByID(ctx, m.adapter.Table(), txID)
	if err != nil {
		return err
	}

	if tx.CategoryID == nil || *tx.CategoryID == "" {
		return &ledger.MissingCategoryError{TransactionID: txID}
	}

	input := m.adapter.LedgerInput(tx)

	category, err := m.lookups.GetCategory(ctx, *tx.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to resolve category %s: %w", *tx.CategoryID, err)
	}
	input.CategoryName = &category.Name

	if tx.CostCenterID != nil && *tx.CostCenterID != "" {
		costCenter, err := m.lookups.GetCostCenter(ctx, *tx.CostCenterID)
		if err != nil {
			return fmt.Errorf("failed to resolve cost center %s: %w", *tx.CostCenterID, err)
		}
		input.CostCenterName = &costCenter.Name
	}

	// Ledger first. A reconciled status without a ledger row is the one
	// state this ordering can never produce.
	if _, err := m.movements.RegisterMovement(ctx, input); err != nil {
		return fmt.Errorf("ledger write failed, transaction left pending: %w", err)
	}

	if err := m.transactions.UpdateStatus(ctx, m.adapter.Table(), txID, store.StatusReconciled); err != nil {
		return err
	}

	m.appLogger.Info(component, "Transaction reconciled: origin=%s id=%s", m.adapter.Origin(), txID)
	return nil
}

// Ignore parks the transaction outside the reconciliation flow. Reconciled
// transactions are refused so their ledger row cannot go stale.
func (m *Machine) Ignore(ctx context.Context, txID string) error {
	tx, err := m.transactions.GetByID(ctx, m.adapter.Table(), txID)
	if err != nil {
		return err
	}

	if tx.Status == store.StatusReconciled {
		return ErrReconciledNeedsReopen
	}

	return m.transactions.UpdateStatus(ctx, m.adapter.Table(), txID, store.StatusIgnored)
}

// Reopen returns a reconciled or ignored transaction to pending. For
// reconciled transactions the ledger row is removed first, so a failure
// leaves the record reconciled with its row intact rather than pending with
// a stale one.
func (m *Machine) Reopen(ctx context.Context, txID string) error {
	const component = "Reconcile"

	tx, err := m.transactions.GetByID(ctx, m.adapter.Table(), txID)
	if err != nil {
		return err
	}

	switch tx.Status {
	case store.StatusReconciled:
		if err := m.movements.RemoveMovement(ctx, txID, m.adapter.Origin()); err != nil {
			return fmt.Errorf("ledger delete failed, transaction left reconciled: %w", err)
		}
	case store.StatusIgnored:
		// Ignored transactions never wrote to the ledger.
	default:
		return nil
	}

	if err := m.transactions.UpdateStatus(ctx, m.adapter.Table(), txID, store.StatusPending); err != nil {
		return err
	}

	m.appLogger.Info(component, "Transaction reopened: origin=%s id=%s", m.adapter.Origin(), txID)
	return nil
}

// CreateManual records a user-entered transaction in manual_entries. The
// entry synthesizes its own external reference and then follows the same
// categorize/reconcile lifecycle as imported rows.
func (m *Machine) CreateManual(ctx context.Context, tx store.SourceTransaction) (*store.SourceTransaction, error) {
	if m.adapter.Origin() != store.OriginManual {
		return nil, ErrNotManualOrigin
	}

	now := time.Now().UTC()
	tx.ID = uuid.New().String()
	tx.Status = store.StatusPending
	if tx.ExternalReference == "" {
		tx.ExternalReference = uuid.New().String()
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now

	if err := m.transactions.Insert(ctx, m.adapter.Table(), &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

// DeleteManual removes a manual entry together with its ledger effect, if
// any. Ledger first, same fail-safe ordering as Reopen.
func (m *Machine) DeleteManual(ctx context.Context, txID string) error {
	if m.adapter.Origin() != store.OriginManual {
		return ErrNotManualOrigin
	}

	tx, err := m.transactions.GetByID(ctx, m.adapter.Table(), txID)
	if err != nil {
		return err
	}

	if tx.Status == store.StatusReconciled {
		if err := m.movements.RemoveMovement(ctx, txID, m.adapter.Origin()); err != nil {
			return fmt.Errorf("ledger delete failed, manual entry kept: %w", err)
		}
	}

	return m.transactions.Delete(ctx, m.adapter.Table(), txID)
}
