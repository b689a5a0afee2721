package syncer

import (
	"context"
	"math"

	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/logger"
	"github.com/mbentes/conciliador/internal/reconcile"
	"github.com/mbentes/conciliador/internal/store"
)

// SettledSource lists source records whose cash effect already happened.
type SettledSource interface {
	ListSettledPayables(ctx context.Context) ([]store.PayableReceivable, error)
	ListSettledReceivables(ctx context.Context) ([]store.PayableReceivable, error)
	CountSettledPayables(ctx context.Context) (int, error)
	CountSettledReceivables(ctx context.Context) (int, error)
}

// MarketplaceSource lists reconciled marketplace cash events.
type MarketplaceSource interface {
	ListSettledEvents(ctx context.Context) ([]store.SourceTransaction, error)
	CountSettledEvents(ctx context.Context) (int, error)
}

// LedgerIndex exposes which source records already have a ledger row.
type LedgerIndex interface {
	ReferenceIDs(ctx context.Context, origin string) (map[string]struct{}, error)
	CountByOrigin(ctx context.Context, origin string) (int, error)
}

// Ledger is the write surface used for backfills.
type Ledger interface {
	RegisterMovement(ctx context.Context, input ledger.RegisterInput) (string, error)
}

// SyncError records one failed backfill. The batch keeps going.
type SyncError struct {
	RecordID string `json:"record_id"`
	Origin   string `json:"origin"`
	Message  string `json:"message"`
}

type SyncReport struct {
	PayablesSynced    int         `json:"payables_synced"`
	ReceivablesSynced int         `json:"receivables_synced"`
	MarketplaceSynced int         `json:"marketplace_synced"`
	Errors            []SyncError `json:"errors,omitempty"`
}

type PendingCounts struct {
	Payables    int `json:"payables"`
	Receivables int `json:"receivables"`
	Marketplace int `json:"marketplace"`
}

/*
Reconciler backfills the movement ledger from source records that were settled
by direct writes to their own tables, bypassing the reconciliation state
machines. Each origin is diffed independently: settled records whose id is not
among the ledger's source references for that origin get exactly one movement.
Running it again with no intervening source changes is a no-op.
*/
type Reconciler struct {
	payables    SettledSource
	marketplace MarketplaceSource
	index       LedgerIndex
	movements   Ledger
	appLogger   *logger.Logger
}

func NewReconciler(payables SettledSource, marketplace MarketplaceSource, index LedgerIndex, movements Ledger, appLogger *logger.Logger) *Reconciler {
	return &Reconciler{
		payables:    payables,
		marketplace: marketplace,
		index:       index,
		movements:   movements,
		appLogger:   appLogger,
	}
}

func (r *Reconciler) SyncAll(ctx context.Context) (SyncReport, error) {
	const component = "Sync"

	report := SyncReport{}

	synced, errs := r.syncPayables(ctx)
	report.PayablesSynced = synced
	report.Errors = append(report.Errors, errs...)

	synced, errs = r.syncReceivables(ctx)
	report.ReceivablesSynced = synced
	report.Errors = append(report.Errors, errs...)

	synced, errs = r.syncMarketplace(ctx)
	report.MarketplaceSynced = synced
	report.Errors = append(report.Errors, errs...)

	r.appLogger.Info(component, "Sync complete: payables=%d receivables=%d marketplace=%d errors=%d",
		report.PayablesSynced, report.ReceivablesSynced, report.MarketplaceSynced, len(report.Errors))
	return report, nil
}

func (r *Reconciler) syncPayables(ctx context.Context) (int, []SyncError) {
	records, err := r.payables.ListSettledPayables(ctx)
	if err != nil {
		return 0, []SyncError{{Origin: store.OriginPayables, Message: err.Error()}}
	}

	known, err := r.index.ReferenceIDs(ctx, store.OriginPayables)
	if err != nil {
		return 0, []SyncError{{Origin: store.OriginPayables, Message: err.Error()}}
	}

	synced := 0
	var errs []SyncError
	for _, record := range records {
		if _, ok := known[record.ID]; ok {
			continue
		}

		input := payableInput(record)
		if _, err := r.movements.RegisterMovement(ctx, input); err != nil {
			errs = append(errs, SyncError{RecordID: record.ID, Origin: store.OriginPayables, Message: err.Error()})
			continue
		}
		synced++
	}

	return synced, errs
}

func (r *Reconciler) syncReceivables(ctx context.Context) (int, []SyncError) {
	records, err := r.payables.ListSettledReceivables(ctx)
	if err != nil {
		return 0, []SyncError{{Origin: store.OriginReceivables, Message: err.Error()}}
	}

	known, err := r.index.ReferenceIDs(ctx, store.OriginReceivables)
	if err != nil {
		return 0, []SyncError{{Origin: store.OriginReceivables, Message: err.Error()}}
	}

	synced := 0
	var errs []SyncError
	for _, record := range records {
		if _, ok := known[record.ID]; ok {
			continue
		}

		input := receivableInput(record)
		if _, err := r.movements.RegisterMovement(ctx, input); err != nil {
			errs = append(errs, SyncError{RecordID: record.ID, Origin: store.OriginReceivables, Message: err.Error()})
			continue
		}
		synced++
	}

	return synced, errs
}

func (r *Reconciler) syncMarketplace(ctx context.Context) (int, []SyncError) {
	records, err := r.marketplace.ListSettledEvents(ctx)
	if err != nil {
		return 0, []SyncError{{Origin: store.OriginMarketplace, Message: err.Error()}}
	}

	known, err := r.index.ReferenceIDs(ctx, store.OriginMarketplace)
	if err != nil {
		return 0, []SyncError{{Origin: store.OriginMarketplace, Message: err.Error()}}
	}

	synced := 0
	var errs []SyncError
	for _, record := range records {
		if _, ok := known[record.ID]; ok {
			continue
		}

		input := marketplaceInput(record)
		if _, err := r.movements.RegisterMovement(ctx, input); err != nil {
			errs = append(errs, SyncError{RecordID: record.ID, Origin: store.OriginMarketplace, Message: err.Error()})
			continue
		}
		synced++
	}

	return synced, errs
}

// CountPending reports settled-minus-ledger counts per origin without writing
// anything, for the "N records need sync" indicator.
func (r *Reconciler) CountPending(ctx context.Context) (PendingCounts, error) {
	counts := PendingCounts{}

	settled, err := r.payables.CountSettledPayables(ctx)
	if err != nil {
		return counts, err
	}
	ledgered, err := r.index.CountByOrigin(ctx, store.OriginPayables)
	if err != nil {
		return counts, err
	}
	counts.Payables = nonNegative(settled - ledgered)

	settled, err = r.payables.CountSettledReceivables(ctx)
	if err != nil {
		return counts, err
	}
	ledgered, err = r.index.CountByOrigin(ctx, store.OriginReceivables)
	if err != nil {
		return counts, err
	}
	counts.Receivables = nonNegative(settled - ledgered)

	settled, err = r.marketplace.CountSettledEvents(ctx)
	if err != nil {
		return counts, err
	}
	ledgered, err = r.index.CountByOrigin(ctx, store.OriginMarketplace)
	if err != nil {
		return counts, err
	}
	counts.Marketplace = nonNegative(settled - ledgered)

	return counts, nil
}

func payableInput(record store.PayableReceivable) ledger.RegisterInput {
	input := ledger.RegisterInput{
		Direction:         store.DirectionOut,
		Origin:            store.OriginPayables,
		Description:       record.Description,
		Amount:            record.AmountPaid,
		CompanyID:         record.CompanyID,
		SourceReferenceID: record.ID,
		CategoryID:        record.CategoryID,
		CostCenterID:      record.CostCenterID,
	}
	if record.PaymentDate != nil {
		input.Date = *record.PaymentDate
	}
	if record.CounterpartyName != "" {
		name := record.CounterpartyName
		input.SupplierName = &name
	}
	return input
}

func receivableInput(record store.PayableReceivable) ledger.RegisterInput {
	input := ledger.RegisterInput{
		Direction:         store.DirectionIn,
		Origin:            store.OriginReceivables,
		Description:       record.Description,
		Amount:            record.AmountPaid,
		CompanyID:         record.CompanyID,
		SourceReferenceID: record.ID,
		CategoryID:        record.CategoryID,
		CostCenterID:      record.CostCenterID,
	}
	if record.PaymentDate != nil {
		input.Date = *record.PaymentDate
	}
	if record.CounterpartyName != "" {
		name := record.CounterpartyName
		input.CustomerName = &name
	}
	return input
}

func marketplaceInput(record store.SourceTransaction) ledger.RegisterInput {
	direction := store.DirectionOut
	if record.LineDirection == store.LineCredit {
		direction = store.DirectionIn
	}
	if record.TransactionType != nil {
		direction = reconcile.MarketplaceDirection(*record.TransactionType, direction)
	}

	return ledger.RegisterInput{
		Date:              record.TransactionDate,
		Direction:         direction,
		Origin:            store.OriginMarketplace,
		Description:       record.Description,
		Amount:            math.Abs(record.Amount),
		CompanyID:         record.CompanyID,
		SourceReferenceID: record.ID,
		CategoryID:        record.CategoryID,
		CostCenterID:      record.CostCenterID,
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
